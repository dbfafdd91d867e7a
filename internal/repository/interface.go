package repository

import (
	"context"

	"workflow-builder/backend/pkg/models"
)

// VectorStore is an interface for the chunk similarity index backing
// knowledge-base retrieval. Chunks are append-only: indexed once per
// document and never updated in place.
type VectorStore interface {
	// InsertChunks indexes the chunks of one document.
	InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error
	// SearchChunks returns the content of the topK chunks of the given
	// document closest to the query embedding, in similarity order.
	SearchChunks(ctx context.Context, documentID string, embedding []float32, topK int) ([]string, error)
}

// DocumentStore persists uploaded-document metadata.
type DocumentStore interface {
	// SaveDocument records the metadata of an uploaded document.
	SaveDocument(ctx context.Context, doc *models.Document) error
}

// ChatLogStore persists query/response provenance records.
type ChatLogStore interface {
	// SaveChatLog records one executed query and its response.
	SaveChatLog(ctx context.Context, entry *models.ChatLog) error
}
