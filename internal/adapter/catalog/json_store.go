package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/asaupe/course-recommendation-system/internal/domain"
)

// JSONStore holds the course catalog loaded from JSON files. It is
// immutable after construction and safe for concurrent reads.
type JSONStore struct {
	courses []domain.Course
	byCode  map[string]domain.Course
}

// Load reads course records from every file matched by the given glob
// patterns, preserving file order within and across files. Records with a
// malformed code or a duplicate code are skipped.
func Load(patterns []string) (*JSONStore, []string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid catalog pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	var courses []domain.Course
	var skipped []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
		}

		var records []domain.Course
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
		}
		courses = append(courses, records...)
	}

	store, rejected := NewFromCourses(courses)
	skipped = append(skipped, rejected...)
	return store, skipped, nil
}

// NewFromCourses builds a store from in-memory records, returning the codes
// of records that were rejected.
func NewFromCourses(courses []domain.Course) (*JSONStore, []string) {
	s := &JSONStore{
		byCode: make(map[string]domain.Course, len(courses)),
	}

	var rejected []string
	for _, c := range courses {
		if !domain.ValidCourseCode(c.Code) {
			rejected = append(rejected, c.Code)
			continue
		}
		if _, exists := s.byCode[c.Code]; exists {
			rejected = append(rejected, c.Code)
			continue
		}
		s.byCode[c.Code] = c
		s.courses = append(s.courses, c)
	}

	return s, rejected
}

// ListCourses returns all courses in catalog insertion order.
func (s *JSONStore) ListCourses() []domain.Course {
	return s.courses
}

// GetCourse looks up a course by code.
func (s *JSONStore) GetCourse(code string) (domain.Course, bool) {
	c, ok := s.byCode[code]
	return c, ok
}

// Count returns the number of courses in the catalog.
func (s *JSONStore) Count() int {
	return len(s.courses)
}

// Fingerprint hashes the catalog contents. The vector index stores this
// value and rebuilds itself when it no longer matches.
func (s *JSONStore) Fingerprint() string {
	h := sha256.New()
	for _, c := range s.courses {
		h.Write([]byte(c.Code))
		h.Write([]byte{0})
		h.Write([]byte(c.Title))
		h.Write([]byte{0})
		h.Write([]byte(c.Description))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FilterByCategory returns courses in the given category, in catalog order.
func (s *JSONStore) FilterByCategory(category string) []domain.Course {
	var out []domain.Course
	for _, c := range s.courses {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// FilterByDifficulty returns courses within the difficulty range, in
// catalog order.
func (s *JSONStore) FilterByDifficulty(min, max int) []domain.Course {
	var out []domain.Course
	for _, c := range s.courses {
		if c.Difficulty >= min && c.Difficulty <= max {
			out = append(out, c)
		}
	}
	return out
}
