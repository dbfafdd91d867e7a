// Package mcp exposes workflow execution and document retrieval as MCP
// tools, so agent clients can drive the engine without the REST surface.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workflow-builder/backend/pkg/models"
)

// WorkflowExecutor runs one workflow graph against a query.
type WorkflowExecutor interface {
	Execute(ctx context.Context, req models.ExecuteRequest) string
}

// ContextRetriever fetches document context for a query.
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, documentID, query string) (string, error)
}

type Server struct {
	mcpServer *server.MCPServer
	workflows WorkflowExecutor
	retriever ContextRetriever
}

func NewServer(workflows WorkflowExecutor, retriever ContextRetriever) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Workflow Builder",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		workflows: workflows,
		retriever: retriever,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"execute_workflow",
			mcp.WithDescription("Execute a workflow graph against a natural-language query"),
			mcp.WithString("query", mcp.Required(), mcp.Description("The query to answer")),
			mcp.WithString("workflow", mcp.Required(), mcp.Description("JSON object with the workflow's nodes and edges")),
		),
		s.handleExecuteWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"query_document",
			mcp.WithDescription("Retrieve the most relevant passages of an uploaded document for a query"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("The ID of the uploaded document")),
			mcp.WithString("query", mcp.Required(), mcp.Description("The query to match against the document")),
		),
		s.handleQueryDocument,
	)
}

func (s *Server) handleExecuteWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("Missing required parameter: query"), nil
	}

	workflowJSON, ok := args["workflow"].(string)
	if !ok || workflowJSON == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow"), nil
	}

	var graph struct {
		Nodes []models.WorkflowNode `json:"nodes"`
		Edges []models.WorkflowEdge `json:"edges"`
	}
	if err := json.Unmarshal([]byte(workflowJSON), &graph); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid workflow JSON: %v", err)), nil
	}

	response := s.workflows.Execute(ctx, models.ExecuteRequest{
		Query: query,
		Nodes: graph.Nodes,
		Edges: graph.Edges,
	})
	return mcp.NewToolResultText(response), nil
}

func (s *Server) handleQueryDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	documentID, ok := args["document_id"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("Missing required parameter: document_id"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("Missing required parameter: query"), nil
	}

	context, err := s.retriever.RetrieveContext(ctx, documentID, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query document: %v", err)), nil
	}
	if context == "" {
		return mcp.NewToolResultText("No matching passages found"), nil
	}
	return mcp.NewToolResultText(context), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
