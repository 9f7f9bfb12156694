package port

import "github.com/asaupe/course-recommendation-system/internal/domain"

// CatalogStore provides read-only access to the fixed set of recommendable
// courses. The catalog is loaded once at startup and never mutated.
type CatalogStore interface {
	// ListCourses returns all courses in catalog insertion order.
	ListCourses() []domain.Course

	// GetCourse looks up a course by its code.
	GetCourse(code string) (domain.Course, bool)

	// Count returns the number of courses in the catalog.
	Count() int

	// Fingerprint identifies the catalog contents; a changed fingerprint
	// invalidates any persisted vector index.
	Fingerprint() string
}
