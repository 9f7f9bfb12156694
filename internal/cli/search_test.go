package cli

import (
	"testing"

	"github.com/asaupe/course-recommendation-system/internal/adapter/catalog"
	"github.com/asaupe/course-recommendation-system/internal/domain"
)

func TestKeepMatchingFiltersThroughCatalog(t *testing.T) {
	cat, skipped := catalog.NewFromCourses(catalog.SampleCourses())
	if len(skipped) != 0 {
		t.Fatalf("sample catalog rejected entries: %v", skipped)
	}

	results := []domain.ScoredCourse{
		{Course: mustCourse(t, cat, "CS301"), Score: 0.9},
		{Course: mustCourse(t, cat, "MATH201"), Score: 0.7},
		{Course: mustCourse(t, cat, "PHIL101"), Score: 0.5},
	}

	byCategory := keepMatching(results, cat.FilterByCategory("Major Electives"))
	for _, r := range byCategory {
		if r.Course.Category != "Major Electives" {
			t.Errorf("category filter kept %s (%s)", r.Course.Code, r.Course.Category)
		}
	}

	byDifficulty := keepMatching(results, cat.FilterByDifficulty(4, 4))
	for _, r := range byDifficulty {
		if r.Course.Difficulty != 4 {
			t.Errorf("difficulty filter kept %s (difficulty %d)", r.Course.Code, r.Course.Difficulty)
		}
	}

	if got := keepMatching(results, nil); len(got) != 0 {
		t.Errorf("empty allowed set should drop everything, got %v", got)
	}
}

func mustCourse(t *testing.T, cat *catalog.JSONStore, code string) domain.Course {
	t.Helper()
	c, ok := cat.GetCourse(code)
	if !ok {
		t.Fatalf("sample catalog missing %s", code)
	}
	return c
}
