package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asaupe/course-recommendation-system/internal/domain"
)

func TestNewFromCoursesRejectsInvalidCodes(t *testing.T) {
	store, rejected := NewFromCourses([]domain.Course{
		{Code: "CS101", Title: "Intro"},
		{Code: "not-a-code", Title: "Bad"},
		{Code: "cs102", Title: "Lowercase"},
		{Code: "TOOLONG1234", Title: "Too long"},
	})

	if store.Count() != 1 {
		t.Errorf("expected 1 valid course, got %d", store.Count())
	}
	if len(rejected) != 3 {
		t.Errorf("expected 3 rejected codes, got %d: %v", len(rejected), rejected)
	}
}

func TestNewFromCoursesRejectsDuplicates(t *testing.T) {
	store, rejected := NewFromCourses([]domain.Course{
		{Code: "CS101", Title: "First"},
		{Code: "CS101", Title: "Second"},
	})

	if store.Count() != 1 {
		t.Errorf("expected 1 course after dedup, got %d", store.Count())
	}
	if len(rejected) != 1 || rejected[0] != "CS101" {
		t.Errorf("expected duplicate CS101 rejected, got %v", rejected)
	}

	c, ok := store.GetCourse("CS101")
	if !ok || c.Title != "First" {
		t.Errorf("expected first occurrence to win, got %+v", c)
	}
}

func TestListCoursesPreservesOrder(t *testing.T) {
	store, _ := NewFromCourses(SampleCourses())

	courses := store.ListCourses()
	if len(courses) != 10 {
		t.Fatalf("expected 10 sample courses, got %d", len(courses))
	}
	if courses[0].Code != "CS101" {
		t.Errorf("expected CS101 first, got %s", courses[0].Code)
	}
	if courses[2].Code != "CS301" {
		t.Errorf("expected CS301 third, got %s", courses[2].Code)
	}
}

func TestLoadFromGlob(t *testing.T) {
	dir := t.TempDir()

	courseJSON := `[
		{"code": "CS101", "title": "Intro", "description": "Basics", "credits": 3, "difficulty": 2, "category": "Core"},
		{"code": "BAD", "title": "Invalid", "description": "", "credits": 3, "difficulty": 1, "category": "Core"}
	]`
	if err := os.WriteFile(filepath.Join(dir, "courses.json"), []byte(courseJSON), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	store, skipped, err := Load([]string{filepath.Join(dir, "*.json")})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if store.Count() != 1 {
		t.Errorf("expected 1 course, got %d", store.Count())
	}
	if len(skipped) != 1 || skipped[0] != "BAD" {
		t.Errorf("expected BAD skipped, got %v", skipped)
	}
}

func TestLoadNoMatchesYieldsEmptyStore(t *testing.T) {
	store, skipped, err := Load([]string{filepath.Join(t.TempDir(), "*.json")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Count() != 0 || len(skipped) != 0 {
		t.Errorf("expected empty store, got %d courses", store.Count())
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a, _ := NewFromCourses([]domain.Course{{Code: "CS101", Title: "Intro", Description: "Basics"}})
	b, _ := NewFromCourses([]domain.Course{{Code: "CS101", Title: "Intro", Description: "Basics"}})
	c, _ := NewFromCourses([]domain.Course{{Code: "CS101", Title: "Intro", Description: "Changed"}})

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("identical catalogs should share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Errorf("changed description should change the fingerprint")
	}
}

func TestFilterByCategory(t *testing.T) {
	store, _ := NewFromCourses(SampleCourses())

	humanities := store.FilterByCategory("Humanities")
	if len(humanities) != 2 {
		t.Errorf("expected 2 humanities courses, got %d", len(humanities))
	}
	for _, c := range humanities {
		if c.Category != "Humanities" {
			t.Errorf("unexpected category %s for %s", c.Category, c.Code)
		}
	}

	if got := store.FilterByCategory("Nonexistent"); len(got) != 0 {
		t.Errorf("expected no courses, got %d", len(got))
	}
}

func TestFilterByDifficulty(t *testing.T) {
	store, _ := NewFromCourses(SampleCourses())

	hard := store.FilterByDifficulty(4, 5)
	if len(hard) != 2 {
		t.Errorf("expected 2 difficulty-4 courses, got %d", len(hard))
	}
	for _, c := range hard {
		if c.Difficulty < 4 {
			t.Errorf("course %s below requested difficulty", c.Code)
		}
	}
}
