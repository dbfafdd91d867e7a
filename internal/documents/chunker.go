package documents

import "strings"

// Chunking is a naive fixed window over whitespace-separated words with a
// small overlap between consecutive chunks.
const (
	chunkSize    = 500
	chunkOverlap = 50
)

// ChunkText splits text into overlapping word windows. A text shorter than
// one window comes back as a single chunk; blank input yields no chunks.
func ChunkText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= overlap {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	for i := 0; i < len(words); i += size - overlap {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
