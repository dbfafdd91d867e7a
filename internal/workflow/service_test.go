package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"workflow-builder/backend/internal/llm"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/pkg/models"
)

// fakeRetriever satisfies ContextRetriever
type fakeRetriever struct {
	context string
	err     error
	calls   int
	lastDoc string
}

func (f *fakeRetriever) RetrieveContext(ctx context.Context, documentID, query string) (string, error) {
	f.calls++
	f.lastDoc = documentID
	return f.context, f.err
}

// fakeGenerator satisfies Generator
type fakeGenerator struct {
	answer  string
	calls   int
	lastReq llm.Request
}

func (f *fakeGenerator) GenerateResponse(ctx context.Context, req llm.Request) string {
	f.calls++
	f.lastReq = req
	return f.answer
}

func node(id, nodeType string, config map[string]interface{}) models.WorkflowNode {
	return models.WorkflowNode{
		ID:   id,
		Type: nodeType,
		Data: models.NodeData{Config: config},
	}
}

func validNodes() []models.WorkflowNode {
	return []models.WorkflowNode{
		node("1", models.NodeTypeUserQuery, nil),
		node("2", models.NodeTypeLLMEngine, map[string]interface{}{"model": "gpt-3.5-turbo"}),
		node("3", models.NodeTypeOutput, nil),
	}
}

func TestExecuteValidation(t *testing.T) {
	ctx := context.Background()

	missing := [][]models.WorkflowNode{
		{}, // everything absent
		{node("1", models.NodeTypeUserQuery, nil), node("2", models.NodeTypeLLMEngine, nil)},
		{node("1", models.NodeTypeUserQuery, nil), node("3", models.NodeTypeOutput, nil)},
		{node("2", models.NodeTypeLLMEngine, nil), node("3", models.NodeTypeOutput, nil)},
		{node("1", models.NodeTypeKnowledgeBase, nil)},
	}

	for _, nodes := range missing {
		gen := &fakeGenerator{answer: "should not be called"}
		ret := &fakeRetriever{}
		s := NewService(ret, gen, logging.NewLogger())

		answer := s.Execute(ctx, models.ExecuteRequest{Query: "q", Nodes: nodes})
		assert.Equal(t, missingComponentsMessage, answer)
		assert.Zero(t, gen.calls, "generator must not run for an invalid workflow")
		assert.Zero(t, ret.calls)
	}
}

func TestExecutePipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("well-formed graph without knowledge base has empty context", func(t *testing.T) {
		gen := &fakeGenerator{answer: "4"}
		ret := &fakeRetriever{context: "should not be used"}
		s := NewService(ret, gen, logging.NewLogger())

		answer := s.Execute(ctx, models.ExecuteRequest{Query: "What is 2+2?", Nodes: validNodes()})
		assert.Equal(t, "4", answer)
		assert.Zero(t, ret.calls)
		assert.Empty(t, gen.lastReq.Context)
		assert.Equal(t, "What is 2+2?", gen.lastReq.Query)
		assert.Equal(t, "gpt-3.5-turbo", gen.lastReq.Model)
	})

	t.Run("knowledge base node threads retrieved context", func(t *testing.T) {
		gen := &fakeGenerator{answer: "grounded answer"}
		ret := &fakeRetriever{context: "chunk one\n\nchunk two"}
		s := NewService(ret, gen, logging.NewLogger())

		nodes := append(validNodes(),
			node("4", models.NodeTypeKnowledgeBase, map[string]interface{}{"documentId": "abc"}))
		answer := s.Execute(ctx, models.ExecuteRequest{Query: "q", Nodes: nodes})

		assert.Equal(t, "grounded answer", answer)
		assert.Equal(t, 1, ret.calls)
		assert.Equal(t, "abc", ret.lastDoc)
		assert.Equal(t, "chunk one\n\nchunk two", gen.lastReq.Context)
	})

	t.Run("knowledge base without documentId skips retrieval", func(t *testing.T) {
		gen := &fakeGenerator{answer: "ok"}
		ret := &fakeRetriever{context: "unused"}
		s := NewService(ret, gen, logging.NewLogger())

		nodes := append(validNodes(), node("4", models.NodeTypeKnowledgeBase, nil))
		s.Execute(ctx, models.ExecuteRequest{Query: "q", Nodes: nodes})

		assert.Zero(t, ret.calls)
		assert.Empty(t, gen.lastReq.Context)
	})

	t.Run("retrieval fault degrades to empty context", func(t *testing.T) {
		gen := &fakeGenerator{answer: "still answered"}
		ret := &fakeRetriever{err: errors.New("index unavailable")}
		s := NewService(ret, gen, logging.NewLogger())

		nodes := append(validNodes(),
			node("4", models.NodeTypeKnowledgeBase, map[string]interface{}{"documentId": "abc"}))
		answer := s.Execute(ctx, models.ExecuteRequest{Query: "q", Nodes: nodes})

		assert.Equal(t, "still answered", answer)
		assert.Equal(t, 1, gen.calls)
		assert.Empty(t, gen.lastReq.Context)
	})

	t.Run("engine config flows through with defaults", func(t *testing.T) {
		gen := &fakeGenerator{answer: "ok"}
		s := NewService(&fakeRetriever{}, gen, logging.NewLogger())

		nodes := []models.WorkflowNode{
			node("1", models.NodeTypeUserQuery, nil),
			node("2", models.NodeTypeLLMEngine, map[string]interface{}{
				"prompt":       "Be brief.",
				"useWebSearch": true,
			}),
			node("3", models.NodeTypeOutput, nil),
		}
		s.Execute(ctx, models.ExecuteRequest{Query: "q", Nodes: nodes})

		assert.Equal(t, DefaultModel, gen.lastReq.Model)
		assert.Equal(t, "Be brief.", gen.lastReq.CustomPrompt)
		assert.True(t, gen.lastReq.UseWebSearch)
	})

	t.Run("first node of a role wins", func(t *testing.T) {
		gen := &fakeGenerator{answer: "ok"}
		s := NewService(&fakeRetriever{}, gen, logging.NewLogger())

		nodes := []models.WorkflowNode{
			node("1", models.NodeTypeUserQuery, nil),
			node("2", models.NodeTypeLLMEngine, map[string]interface{}{"model": "gemini-pro"}),
			node("2b", models.NodeTypeLLMEngine, map[string]interface{}{"model": "gpt-4"}),
			node("3", models.NodeTypeOutput, nil),
		}
		s.Execute(ctx, models.ExecuteRequest{Query: "q", Nodes: nodes})

		assert.Equal(t, "gemini-pro", gen.lastReq.Model)
	})

	t.Run("edges are parsed but do not steer execution", func(t *testing.T) {
		gen := &fakeGenerator{answer: "ok"}
		s := NewService(&fakeRetriever{}, gen, logging.NewLogger())

		// Edges in a deliberately nonsensical order still execute role-wise.
		answer := s.Execute(ctx, models.ExecuteRequest{
			Query: "q",
			Nodes: validNodes(),
			Edges: []models.WorkflowEdge{
				{Source: "3", Target: "1"},
				{Source: "2", Target: "2"},
			},
		})
		assert.Equal(t, "ok", answer)
		assert.Equal(t, 1, gen.calls)
	})
}

func TestBuildAdjacency(t *testing.T) {
	adjacency := buildAdjacency([]models.WorkflowEdge{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "b", Target: "c"},
	})

	assert.Equal(t, []string{"b", "c"}, adjacency["a"])
	assert.Equal(t, []string{"c"}, adjacency["b"])
	assert.Empty(t, adjacency["c"])
}

func TestEngineConfigDecoding(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		n := node("1", models.NodeTypeLLMEngine, nil)
		cfg := engineConfig(&n)
		assert.Equal(t, DefaultModel, cfg.Model)
		assert.Empty(t, cfg.Prompt)
		assert.False(t, cfg.UseWebSearch)
	})

	t.Run("wrong types fall back to defaults", func(t *testing.T) {
		n := node("1", models.NodeTypeLLMEngine, map[string]interface{}{
			"model":        42,
			"useWebSearch": "yes",
		})
		cfg := engineConfig(&n)
		assert.Equal(t, DefaultModel, cfg.Model)
		assert.False(t, cfg.UseWebSearch)
	})
}
