package usecase

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// IndexUseCase embeds the course catalog and populates the vector store.
type IndexUseCase struct {
	catalog   port.CatalogStore
	embedder  port.Embedder
	store     port.VectorStore
	batchSize int
	progress  bool
	log       *zap.Logger
}

// IndexResult summarizes an index build.
type IndexResult struct {
	Indexed     int
	Skipped     bool
	Fingerprint string
	Model       string
}

// NewIndexUseCase creates a new index use case. progress enables a terminal
// progress bar during embedding.
func NewIndexUseCase(
	catalog port.CatalogStore,
	embedder port.Embedder,
	store port.VectorStore,
	batchSize int,
	progress bool,
	log *zap.Logger,
) *IndexUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IndexUseCase{
		catalog:   catalog,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		progress:  progress,
		log:       log,
	}
}

// BuildIndex embeds every catalog course and upserts the vectors. When the
// stored fingerprint matches the current catalog and the vector count lines
// up, the build is skipped unless force is set.
func (u *IndexUseCase) BuildIndex(force bool) (IndexResult, error) {
	courses := u.catalog.ListCourses()
	fingerprint := u.catalog.Fingerprint()

	if !force {
		stored, err := u.store.Fingerprint()
		if err != nil {
			return IndexResult{}, fmt.Errorf("failed to read index fingerprint: %w", err)
		}
		count, err := u.store.Count()
		if err != nil {
			return IndexResult{}, fmt.Errorf("failed to count index entries: %w", err)
		}
		if stored == fingerprint && count == len(courses) {
			u.log.Info("index up to date", zap.Int("courses", len(courses)))
			return IndexResult{
				Indexed:     count,
				Skipped:     true,
				Fingerprint: fingerprint,
				Model:       u.embedder.ModelName(),
			}, nil
		}
	}

	var bar *progressbar.ProgressBar
	if u.progress {
		bar = progressbar.Default(int64(len(courses)), "embedding courses")
	}

	indexed := 0
	for start := 0; start < len(courses); start += u.batchSize {
		end := start + u.batchSize
		if end > len(courses) {
			end = len(courses)
		}
		batch := courses[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = courseText(c)
		}

		vectors, err := u.embedder.Embed(texts)
		if err != nil {
			return IndexResult{}, fmt.Errorf("failed to embed courses %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return IndexResult{}, fmt.Errorf("embedder returned %d vectors for %d courses", len(vectors), len(batch))
		}

		items := make([]port.VectorItem, len(batch))
		for i, c := range batch {
			items[i] = port.VectorItem{
				Code:    c.Code,
				Ordinal: start + i,
				Vector:  vectors[i],
			}
		}
		if err := u.store.Upsert(items); err != nil {
			return IndexResult{}, fmt.Errorf("failed to store vectors: %w", err)
		}

		indexed += len(batch)
		if bar != nil {
			_ = bar.Add(len(batch))
		}
	}

	if err := u.store.SetFingerprint(fingerprint); err != nil {
		return IndexResult{}, fmt.Errorf("failed to record index fingerprint: %w", err)
	}

	u.log.Info("index built",
		zap.Int("courses", indexed),
		zap.String("model", u.embedder.ModelName()),
		zap.Int("dimension", u.embedder.Dimension()))

	return IndexResult{
		Indexed:     indexed,
		Skipped:     false,
		Fingerprint: fingerprint,
		Model:       u.embedder.ModelName(),
	}, nil
}

// courseText is the canonical text embedded for a course. Changing this
// format changes every vector, which the fingerprint does not capture, so
// reindex with --force after edits.
func courseText(c domain.Course) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Course: %s\n", c.Title)
	fmt.Fprintf(&sb, "Description: %s\n", c.Description)
	fmt.Fprintf(&sb, "Category: %s\n", c.Category)
	fmt.Fprintf(&sb, "Difficulty: %d/5", c.Difficulty)
	if len(c.Prerequisites) > 0 {
		fmt.Fprintf(&sb, "\nPrerequisites: %s", strings.Join(c.Prerequisites, ", "))
	}
	return sb.String()
}
