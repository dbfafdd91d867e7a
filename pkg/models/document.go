package models

import (
	"time"
)

// Document is the metadata record of an uploaded file. Documents are
// write-once: they are created during upload and never updated or deleted.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentChunk is one indexed slice of a document along with its embedding.
type DocumentChunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Index      int       `json:"chunk_index"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"-"`
}

// ChatLog records one query/response pair as write-only provenance. Nothing
// in the execution path reads these back.
type ChatLog struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
