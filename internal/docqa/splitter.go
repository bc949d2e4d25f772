package docqa

import "strings"

// Chunk is one slice of a document, sized for embedding.
type Chunk struct {
	Path    string
	Seq     int
	Content string
}

// Split cuts a document into overlapping chunks. It prefers to break at
// a sentence boundary near the chunk end so retrieval does not see
// half-sentences. chunkSize and overlap are in bytes.
func Split(doc Document, chunkSize, overlap int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	content := strings.TrimSpace(doc.Content)
	if content == "" {
		return nil
	}

	var chunks []Chunk
	start := 0
	seq := 0
	for start < len(content) {
		end := start + chunkSize
		if end >= len(content) {
			end = len(content)
		} else {
			end = splitPoint(content, start, end)
		}

		piece := strings.TrimSpace(content[start:end])
		if piece != "" {
			chunks = append(chunks, Chunk{Path: doc.Path, Seq: seq, Content: piece})
			seq++
		}

		if end == len(content) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}

	return chunks
}

// splitPoint finds the best cut position at or before limit: a sentence
// end if one exists in the back half of the chunk, else a whitespace
// boundary, else the hard limit.
func splitPoint(content string, start, limit int) int {
	window := content[start:limit]
	half := len(window) / 2

	best := -1
	for i := len(window) - 1; i >= half; i-- {
		switch window[i] {
		case '.', '!', '?', '\n':
			best = i + 1
		}
		if best >= 0 {
			break
		}
	}
	if best >= 0 {
		return start + best
	}

	if i := strings.LastIndexAny(window, " \t"); i > half {
		return start + i + 1
	}
	return limit
}
