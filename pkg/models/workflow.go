// Package models defines the domain models for the workflow builder service.
package models

// Node types recognized by the execution engine. The type field is an open
// set; types outside this list are carried through requests but ignored by
// execution.
const (
	NodeTypeUserQuery     = "userQuery"
	NodeTypeKnowledgeBase = "knowledgeBase"
	NodeTypeLLMEngine     = "llmEngine"
	NodeTypeOutput        = "output"
)

// Position is the canvas placement of a node. It has no effect on execution
// and is carried only so workflows round-trip through the API unchanged.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData holds the per-node configuration bag plus display metadata.
type NodeData struct {
	Label  string                 `json:"label,omitempty"`
	Config map[string]interface{} `json:"config,omitempty"`
}

// WorkflowNode is one node of a workflow graph as submitted by the canvas.
type WorkflowNode struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Data     NodeData  `json:"data"`
	Position *Position `json:"position,omitempty"`
}

// WorkflowEdge connects two nodes by ID.
type WorkflowEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	ID     string `json:"id,omitempty"`
}

// ExecuteRequest is one workflow execution call: a natural-language query
// plus the full node and edge collections. It has no identity beyond the
// call itself and is never persisted.
type ExecuteRequest struct {
	Query string         `json:"query"`
	Nodes []WorkflowNode `json:"nodes"`
	Edges []WorkflowEdge `json:"edges"`
}
