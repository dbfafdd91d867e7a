package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"workflow-builder/backend/pkg/models"
)

// PostgresStore is a PostgreSQL implementation of the VectorStore,
// DocumentStore and ChatLogStore interfaces. Similarity search relies on the
// pgvector extension.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertChunks indexes the chunks of one document.
func (s *PostgresStore) InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	for _, chunk := range chunks {
		_, err := s.db.Exec(ctx,
			"INSERT INTO document_chunks (id, document_id, chunk_index, content, embedding) VALUES ($1, $2, $3, $4, $5)",
			chunk.ID, chunk.DocumentID, chunk.Index, chunk.Content, pgvector.NewVector(chunk.Embedding))
		if err != nil {
			return err
		}
	}
	return nil
}

// SearchChunks returns the content of the topK chunks of a document closest
// to the query embedding, in similarity order.
func (s *PostgresStore) SearchChunks(ctx context.Context, documentID string, embedding []float32, topK int) ([]string, error) {
	rows, err := s.db.Query(ctx,
		"SELECT content FROM document_chunks WHERE document_id = $1 ORDER BY embedding <=> $2 LIMIT $3",
		documentID, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}

	return contents, rows.Err()
}

// SaveDocument records the metadata of an uploaded document.
func (s *PostgresStore) SaveDocument(ctx context.Context, doc *models.Document) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO documents (id, filename, content, created_at) VALUES ($1, $2, $3, $4)",
		doc.ID, doc.Filename, doc.Content, doc.CreatedAt)
	return err
}

// SaveChatLog records one executed query and its response.
func (s *PostgresStore) SaveChatLog(ctx context.Context, entry *models.ChatLog) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO chat_logs (id, query, response, created_at) VALUES ($1, $2, $3, $4)",
		entry.ID, entry.Query, entry.Response, entry.CreatedAt)
	return err
}
