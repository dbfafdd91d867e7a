// Package workflow implements the execution engine: it validates that a
// submitted graph carries the required node roles, threads retrieval context
// through the pipeline and dispatches generation to a provider adapter.
package workflow

import (
	"context"
	"fmt"

	"workflow-builder/backend/internal/llm"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/pkg/models"
)

// missingComponentsMessage is the diagnostic returned, as a normal answer,
// when a required role is absent. It is a business-rule response, not a
// fault.
const missingComponentsMessage = "Invalid workflow: Missing required components (User Query, LLM Engine, or Output)"

// ContextRetriever supplies knowledge-base context for a query.
type ContextRetriever interface {
	// RetrieveContext returns relevant document chunks joined for prompt
	// inclusion, or "" when nothing matches.
	RetrieveContext(ctx context.Context, documentID, query string) (string, error)
}

// Generator produces an answer from an assembled generation request. It
// never fails; all provider faults come back as answer text.
type Generator interface {
	GenerateResponse(ctx context.Context, req llm.Request) string
}

// Service executes workflow graphs.
type Service struct {
	retriever ContextRetriever
	generator Generator
	logger    *logging.Logger
}

// NewService creates a new workflow Service.
func NewService(retriever ContextRetriever, generator Generator, logger *logging.Logger) *Service {
	return &Service{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// executionPlan is the resolved view of one request: the first node of each
// role in supplied order, plus the edge adjacency.
type executionPlan struct {
	userQuery     *models.WorkflowNode
	knowledgeBase *models.WorkflowNode
	llmEngine     *models.WorkflowNode
	output        *models.WorkflowNode

	// adjacency maps source node ID to its targets in edge order. Execution
	// is role-driven and does not consult it; the structure is reserved for
	// future topological ordering.
	adjacency map[string][]string
}

// buildPlan resolves role nodes and adjacency from the raw collections.
func buildPlan(req models.ExecuteRequest) executionPlan {
	return executionPlan{
		userQuery:     findNodeByType(req.Nodes, models.NodeTypeUserQuery),
		knowledgeBase: findNodeByType(req.Nodes, models.NodeTypeKnowledgeBase),
		llmEngine:     findNodeByType(req.Nodes, models.NodeTypeLLMEngine),
		output:        findNodeByType(req.Nodes, models.NodeTypeOutput),
		adjacency:     buildAdjacency(req.Edges),
	}
}

// valid reports whether all required roles are present.
func (p executionPlan) valid() bool {
	return p.userQuery != nil && p.llmEngine != nil && p.output != nil
}

// findNodeByType returns the first node of the given type in supplied order,
// or nil when absent. If multiple nodes share a role, only the first one is
// honored.
func findNodeByType(nodes []models.WorkflowNode, nodeType string) *models.WorkflowNode {
	for i := range nodes {
		if nodes[i].Type == nodeType {
			return &nodes[i]
		}
	}
	return nil
}

// buildAdjacency parses the edge collection into a source -> targets mapping.
func buildAdjacency(edges []models.WorkflowEdge) map[string][]string {
	adjacency := make(map[string][]string)
	for _, edge := range edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
	}
	return adjacency
}

// Execute runs the pipeline for one request and always returns an answer
// string: validation failures, missing credentials and provider faults are
// all reported as answer text rather than errors.
func (s *Service) Execute(ctx context.Context, req models.ExecuteRequest) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Workflow execution panicked: %v", r)
			answer = fmt.Sprintf("Error executing workflow: %v", r)
		}
	}()

	plan := buildPlan(req)
	if !plan.valid() {
		return missingComponentsMessage
	}

	queryContext := ""
	if plan.knowledgeBase != nil {
		kb := knowledgeBaseConfig(plan.knowledgeBase)
		if kb.DocumentID != "" {
			retrieved, err := s.retriever.RetrieveContext(ctx, kb.DocumentID, req.Query)
			if err != nil {
				// Retrieval faults degrade to "no context"; execution continues.
				s.logger.Error("Context retrieval failed: %v", err)
			} else {
				queryContext = retrieved
			}
		}
	}

	engine := engineConfig(plan.llmEngine)
	return s.generator.GenerateResponse(ctx, llm.Request{
		Query:        req.Query,
		Context:      queryContext,
		Model:        engine.Model,
		CustomPrompt: engine.Prompt,
		UseWebSearch: engine.UseWebSearch,
	})
}
