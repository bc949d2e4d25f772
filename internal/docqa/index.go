package docqa

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "kompis_documents"

// ErrNoDocuments is returned when a query runs against an empty index.
var ErrNoDocuments = errors.New("no documents indexed")

// Hit is a single retrieval result.
type Hit struct {
	ID         string
	Content    string
	Path       string
	Similarity float32
}

// Index is an in-memory vector index over the session's documents. It
// lives exactly as long as document mode does; a session reset throws
// it away.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	chunkSize  int
	overlap    int
	docCount   int
}

// NewIndex creates an empty index backed by the given embedder.
// The embedder is bridged from Eino's [][]float64 to chromem-go's []float32.
func NewIndex(ctx context.Context, embedder embedding.Embedder, chunkSize, overlap int) (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, bridgeEmbedder(ctx, embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col, chunkSize: chunkSize, overlap: overlap}, nil
}

// Add splits the documents and embeds every chunk into the index.
func (ix *Index) Add(ctx context.Context, docs []Document) error {
	var ids []string
	var metas []map[string]string
	var contents []string

	for _, doc := range docs {
		for _, chunk := range Split(doc, ix.chunkSize, ix.overlap) {
			ids = append(ids, fmt.Sprintf("%s#%d", chunk.Path, chunk.Seq))
			metas = append(metas, map[string]string{"path": chunk.Path})
			contents = append(contents, chunk.Content)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := ix.collection.Add(ctx, ids, nil, metas, contents); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}
	ix.docCount += len(docs)
	return nil
}

// Query retrieves the topK most similar chunks for the question.
func (ix *Index) Query(ctx context.Context, question string, topK int) ([]Hit, error) {
	n := ix.collection.Count()
	if n == 0 {
		return nil, ErrNoDocuments
	}
	if topK > n {
		topK = n
	}

	results, err := ix.collection.Query(ctx, question, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			ID:         r.ID,
			Content:    r.Content,
			Path:       r.Metadata["path"],
			Similarity: r.Similarity,
		}
	}
	return hits, nil
}

// DocCount returns the number of documents added so far.
func (ix *Index) DocCount() int {
	return ix.docCount
}

// ChunkCount returns the number of embedded chunks.
func (ix *Index) ChunkCount() int {
	return ix.collection.Count()
}

// bridgeEmbedder converts an Eino Embedder ([][]float64) to a chromem-go
// EmbeddingFunc ([]float32).
func bridgeEmbedder(ctx context.Context, embedder embedding.Embedder) chromem.EmbeddingFunc {
	return func(embedCtx context.Context, text string) ([]float32, error) {
		if embedCtx == context.Background() {
			embedCtx = ctx
		}
		vectors, err := embedder.EmbedStrings(embedCtx, []string{text})
		if err != nil {
			return nil, fmt.Errorf("embed text: %w", err)
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			return nil, fmt.Errorf("embed text: empty result")
		}

		f64 := vectors[0]
		f32 := make([]float32, len(f64))
		for i, v := range f64 {
			f32[i] = float32(v)
		}
		return f32, nil
	}
}
