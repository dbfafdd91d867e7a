package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/internal/repository"
	"workflow-builder/backend/pkg/models"
)

// retrievalTopK is the fixed number of chunks joined into the context block.
const retrievalTopK = 3

// ErrUnsupportedFile is returned when an upload is not a PDF.
var ErrUnsupportedFile = errors.New("only PDF files are supported")

// ErrEmptyDocument is returned when a PDF yields no extractable text.
var ErrEmptyDocument = errors.New("no text found in PDF")

// Service ingests uploaded documents into the vector index and retrieves
// query context from it.
type Service struct {
	vectors  repository.VectorStore
	docs     repository.DocumentStore
	embedder Embedder
	logger   *logging.Logger

	// extract is swappable so tests can feed plain text instead of PDFs.
	extract func([]byte) (string, error)
}

// NewService creates a new document Service.
func NewService(vectors repository.VectorStore, docs repository.DocumentStore, embedder Embedder, logger *logging.Logger) *Service {
	return &Service{
		vectors:  vectors,
		docs:     docs,
		embedder: embedder,
		logger:   logger,
		extract:  ExtractPDFText,
	}
}

// ProcessDocument extracts, chunks, embeds and indexes an uploaded PDF and
// returns the assigned document ID. Documents are write-once: there is no
// update or delete path.
func (s *Service) ProcessDocument(ctx context.Context, content []byte, filename string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return "", ErrUnsupportedFile
	}

	text, err := s.extract(content)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyDocument
	}

	docID := uuid.New().String()

	chunks := ChunkText(text, chunkSize, chunkOverlap)
	embeddings, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("failed to embed document chunks: %w", err)
	}

	records := make([]models.DocumentChunk, len(chunks))
	for i := range chunks {
		records[i] = models.DocumentChunk{
			ID:         fmt.Sprintf("%s_%d", docID, i),
			DocumentID: docID,
			Index:      i,
			Content:    chunks[i],
			Embedding:  embeddings[i],
		}
	}
	if err := s.vectors.InsertChunks(ctx, records); err != nil {
		return "", fmt.Errorf("failed to index document chunks: %w", err)
	}

	doc := &models.Document{
		ID:        docID,
		Filename:  filename,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to save document metadata: %w", err)
	}

	s.logger.Info("Indexed document %s (%s) in %d chunks", docID, filename, len(chunks))
	return docID, nil
}

// RetrieveContext returns the most relevant chunks of a document for the
// query, joined with blank lines in similarity order. The result is empty
// when nothing matches.
func (s *Service) RetrieveContext(ctx context.Context, documentID, query string) (string, error) {
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := s.vectors.SearchChunks(ctx, documentID, embedding, retrievalTopK)
	if err != nil {
		return "", fmt.Errorf("failed to search document %s: %w", documentID, err)
	}

	return strings.Join(chunks, "\n\n"), nil
}
