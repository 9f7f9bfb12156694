package catalog

import "github.com/asaupe/course-recommendation-system/internal/domain"

// SampleCourses returns a small built-in catalog used when no catalog files
// are found, so the tool stays usable out of the box.
func SampleCourses() []domain.Course {
	return []domain.Course{
		{
			Code:        "CS101",
			Title:       "Introduction to Computer Science",
			Description: "Fundamental concepts of programming, algorithms, and data structures. Learn Python programming and computational thinking.",
			Credits:     3, Difficulty: 2,
			Category: "Core Requirements",
			Semester: "Fall/Spring",
		},
		{
			Code:        "CS201",
			Title:       "Data Structures and Algorithms",
			Description: "Advanced data structures, algorithm design and analysis. Covers trees, graphs, sorting, and searching algorithms.",
			Credits:     4, Difficulty: 4,
			Category:      "Core Requirements",
			Semester:      "Fall/Spring",
			Prerequisites: []string{"CS101"},
		},
		{
			Code:        "CS301",
			Title:       "Machine Learning",
			Description: "Introduction to machine learning algorithms, supervised and unsupervised learning, neural networks.",
			Credits:     3, Difficulty: 4,
			Category:      "Major Electives",
			Semester:      "Fall/Spring",
			Prerequisites: []string{"CS201", "MATH201"},
		},
		{
			Code:        "CS302",
			Title:       "Web Development",
			Description: "Full-stack web development using modern frameworks. HTML, CSS, JavaScript, React, and backend development.",
			Credits:     3, Difficulty: 3,
			Category:      "Major Electives",
			Semester:      "Fall/Spring",
			Prerequisites: []string{"CS101"},
		},
		{
			Code:        "MATH201",
			Title:       "Calculus I",
			Description: "Differential calculus, limits, derivatives, and applications to real-world problems.",
			Credits:     4, Difficulty: 3,
			Category: "Math/Science",
			Semester: "Fall/Spring",
		},
		{
			Code:        "MATH202",
			Title:       "Statistics",
			Description: "Probability theory, statistical inference, hypothesis testing, and data analysis techniques.",
			Credits:     3, Difficulty: 3,
			Category:      "Math/Science",
			Semester:      "Fall/Spring",
			Prerequisites: []string{"MATH201"},
		},
		{
			Code:        "ENG102",
			Title:       "English Composition",
			Description: "Academic writing, critical thinking, research methods, and communication skills.",
			Credits:     3, Difficulty: 2,
			Category: "General Education",
			Semester: "Fall/Spring",
		},
		{
			Code:        "PHIL101",
			Title:       "Introduction to Philosophy",
			Description: "Classical and contemporary philosophical problems, logic, ethics, and critical reasoning.",
			Credits:     3, Difficulty: 2,
			Category: "Humanities",
			Semester: "Fall/Spring",
		},
		{
			Code:        "HIST201",
			Title:       "World History",
			Description: "Survey of world civilizations, cultural developments, and historical analysis methods.",
			Credits:     3, Difficulty: 2,
			Category: "Humanities",
			Semester: "Fall/Spring",
		},
		{
			Code:        "BUS101",
			Title:       "Introduction to Business",
			Description: "Fundamentals of business operations, management principles, and entrepreneurship.",
			Credits:     3, Difficulty: 2,
			Category: "General Education",
			Semester: "Fall/Spring",
		},
	}
}
