package port

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorStore stores one embedding vector per catalog course and supports
// nearest-neighbor search. Implementations are safe for concurrent reads.
type VectorStore interface {
	// Upsert adds or updates vectors in the store.
	Upsert(items []VectorItem) error

	// Search finds the k nearest vectors to the query, ranked by descending
	// similarity with ties broken by ascending ordinal.
	Search(query []float32, k int) ([]VectorResult, error)

	// Delete removes vectors by course code.
	Delete(codes []string) error

	// Count returns the number of vectors in the store.
	Count() (int, error)

	// Fingerprint returns the catalog fingerprint the index was built from,
	// or "" if none has been recorded.
	Fingerprint() (string, error)

	// SetFingerprint records the catalog fingerprint for invalidation.
	SetFingerprint(fp string) error
}

// VectorItem represents a vector to be stored.
type VectorItem struct {
	Code    string    // Course code
	Ordinal int       // Catalog insertion position, used for stable tie-breaks
	Vector  []float32 // Embedding vector
}

// VectorResult represents a search result.
type VectorResult struct {
	Code    string  // Course code
	Ordinal int     // Catalog insertion position
	Score   float64 // Cosine similarity (higher is better)
}
