// Package api contains the HTTP handlers for the workflow builder service.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"workflow-builder/backend/internal/documents"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/internal/repository"
	"workflow-builder/backend/pkg/models"
)

const serviceVersion = "1.0.0"

// WorkflowExecutor runs one workflow graph against a query.
type WorkflowExecutor interface {
	Execute(ctx context.Context, req models.ExecuteRequest) string
}

// DocumentIngester processes an uploaded file into the document index.
type DocumentIngester interface {
	ProcessDocument(ctx context.Context, content []byte, filename string) (string, error)
}

// Handler holds the dependencies for the REST API.
type Handler struct {
	workflows WorkflowExecutor
	documents DocumentIngester
	chatLogs  repository.ChatLogStore
	logger    *logging.Logger
}

// NewHandler creates a new Handler with required dependencies.
func NewHandler(workflows WorkflowExecutor, documents DocumentIngester, chatLogs repository.ChatLogStore, logger *logging.Logger) *Handler {
	return &Handler{
		workflows: workflows,
		documents: documents,
		chatLogs:  chatLogs,
		logger:    logger,
	}
}

// RegisterRoutes mounts all REST endpoints on the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.HandleRoot)
	e.GET("/api/health", h.HandleHealth)
	e.POST("/api/upload", h.HandleUpload)
	e.POST("/api/execute", h.HandleExecute)
}

// HandleRoot returns basic service identification.
// (GET /)
func (h *Handler) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Workflow Builder API",
		"version": serviceVersion,
		"status":  "running",
	})
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK).
// (GET /api/health)
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   "workflow-builder",
		Version:   serviceVersion,
	})
}

// UploadResponse is the payload returned after a successful document upload.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Message    string `json:"message"`
}

// HandleUpload ingests an uploaded PDF into the document index.
// (POST /api/upload)
func (h *Handler) HandleUpload(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file: "+err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open upload: "+err.Error())
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read upload: "+err.Error())
	}

	docID, err := h.documents.ProcessDocument(ctx, content, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, documents.ErrUnsupportedFile) {
			return echo.NewHTTPError(http.StatusBadRequest, "Only PDF files are supported")
		}
		// Quota, credential and extraction faults each carry their own
		// human-readable description.
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, UploadResponse{
		DocumentID: docID,
		Filename:   fileHeader.Filename,
		Message:    "Document uploaded and processed successfully",
	})
}

// ExecuteResponse is the payload returned by workflow execution. Validation
// failures and provider errors arrive here as response text, not as HTTP
// faults.
type ExecuteResponse struct {
	Response string `json:"response"`
}

// HandleExecute runs a workflow graph against a query.
// (POST /api/execute)
func (h *Handler) HandleExecute(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ExecuteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	response := h.workflows.Execute(ctx, req)

	// Provenance only; a failed write must not fail the call.
	entry := &models.ChatLog{
		ID:        uuid.New().String(),
		Query:     req.Query,
		Response:  response,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.chatLogs.SaveChatLog(ctx, entry); err != nil {
		h.logger.Error("Failed to save chat log: %v", err)
	}

	return c.JSON(http.StatusOK, ExecuteResponse{Response: response})
}
