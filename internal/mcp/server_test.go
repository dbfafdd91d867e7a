package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"workflow-builder/backend/pkg/models"
)

// fakeExecutor satisfies WorkflowExecutor
type fakeExecutor struct {
	answer  string
	lastReq models.ExecuteRequest
}

func (f *fakeExecutor) Execute(ctx context.Context, req models.ExecuteRequest) string {
	f.lastReq = req
	return f.answer
}

// fakeRetriever satisfies ContextRetriever
type fakeRetriever struct {
	context string
}

func (f *fakeRetriever) RetrieveContext(ctx context.Context, documentID, query string) (string, error) {
	return f.context, nil
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if assert.NotEmpty(t, result.Content) {
		if text, ok := result.Content[0].(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestHandleExecuteWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the workflow and runs it", func(t *testing.T) {
		executor := &fakeExecutor{answer: "42"}
		s := NewServer(executor, &fakeRetriever{})

		result, err := s.handleExecuteWorkflow(ctx, callRequest(map[string]interface{}{
			"query":    "What is 6*7?",
			"workflow": `{"nodes":[{"id":"1","type":"userQuery"}],"edges":[{"source":"1","target":"2"}]}`,
		}))
		assert.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, "42", resultText(t, result))
		assert.Equal(t, "What is 6*7?", executor.lastReq.Query)
		assert.Len(t, executor.lastReq.Nodes, 1)
		assert.Len(t, executor.lastReq.Edges, 1)
	})

	t.Run("missing parameters are tool errors", func(t *testing.T) {
		s := NewServer(&fakeExecutor{}, &fakeRetriever{})

		result, err := s.handleExecuteWorkflow(ctx, callRequest(map[string]interface{}{
			"query": "q",
		}))
		assert.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("malformed workflow JSON is a tool error", func(t *testing.T) {
		s := NewServer(&fakeExecutor{}, &fakeRetriever{})

		result, err := s.handleExecuteWorkflow(ctx, callRequest(map[string]interface{}{
			"query":    "q",
			"workflow": "{not json",
		}))
		assert.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleQueryDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("returns retrieved context", func(t *testing.T) {
		s := NewServer(&fakeExecutor{}, &fakeRetriever{context: "a passage"})

		result, err := s.handleQueryDocument(ctx, callRequest(map[string]interface{}{
			"document_id": "doc-1",
			"query":       "q",
		}))
		assert.NoError(t, err)
		assert.Equal(t, "a passage", resultText(t, result))
	})

	t.Run("no matches get a friendly message", func(t *testing.T) {
		s := NewServer(&fakeExecutor{}, &fakeRetriever{})

		result, err := s.handleQueryDocument(ctx, callRequest(map[string]interface{}{
			"document_id": "doc-1",
			"query":       "q",
		}))
		assert.NoError(t, err)
		assert.Equal(t, "No matching passages found", resultText(t, result))
	})
}

func TestMountHTTPHandlersRouting(t *testing.T) {
	s := NewServer(&fakeExecutor{answer: "ok"}, &fakeRetriever{})
	mux := http.NewServeMux()
	MountHTTPHandlers(mux, s.GetMCPServer())

	// Mounted behind echo the same way the server wires it; the bare path
	// needs its own route because the wildcard does not match it.
	e := echo.New()
	e.Any("/mcp", echo.WrapHandler(mux))
	e.Any("/mcp/*", echo.WrapHandler(mux))

	t.Run("direct POST path is routed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.NotEqual(t, http.StatusNotFound, rec.Code)
		assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("non-POST on the direct path is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("message endpoint is routed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp/message", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.NotEqual(t, http.StatusNotFound, rec.Code)
	})
}
