package workflow

import "workflow-builder/backend/pkg/models"

// DefaultModel is the model selector used when an llmEngine node does not
// name one.
const DefaultModel = "gpt-3.5-turbo"

// KnowledgeBaseConfig is the typed view of a knowledgeBase node's config bag.
type KnowledgeBaseConfig struct {
	DocumentID string
}

// EngineConfig is the typed view of an llmEngine node's config bag. Absent
// fields take their documented defaults.
type EngineConfig struct {
	Model        string
	Prompt       string
	UseWebSearch bool
}

// knowledgeBaseConfig decodes the open config mapping of a knowledgeBase
// node. Values of the wrong type are treated as absent.
func knowledgeBaseConfig(node *models.WorkflowNode) KnowledgeBaseConfig {
	var cfg KnowledgeBaseConfig
	cfg.DocumentID, _ = node.Data.Config["documentId"].(string)
	return cfg
}

// engineConfig decodes the open config mapping of an llmEngine node,
// applying defaults for absent fields.
func engineConfig(node *models.WorkflowNode) EngineConfig {
	cfg := EngineConfig{Model: DefaultModel}
	if model, ok := node.Data.Config["model"].(string); ok && model != "" {
		cfg.Model = model
	}
	cfg.Prompt, _ = node.Data.Config["prompt"].(string)
	cfg.UseWebSearch, _ = node.Data.Config["useWebSearch"].(bool)
	return cfg
}
