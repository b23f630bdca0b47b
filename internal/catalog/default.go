package catalog

import "github.com/goliatone/go-docflow/internal/runtimeconfig"

// DefaultConfig returns the stock course accreditation catalog: five review
// areas, each with three required document types.
func DefaultConfig() runtimeconfig.CatalogConfig {
	return runtimeconfig.CatalogConfig{
		Categories: []runtimeconfig.CategoryConfig{
			{
				Key:   "course_specs",
				Title: "Course Specifications",
				DocTypes: []runtimeconfig.DocTypeConfig{
					{Key: "syllabus", Title: "Syllabus"},
					{Key: "learning_outcomes", Title: "Learning Outcomes"},
					{Key: "assessment_scheme", Title: "Assessment Scheme"},
				},
			},
			{
				Key:   "teaching_materials",
				Title: "Teaching Materials",
				DocTypes: []runtimeconfig.DocTypeConfig{
					{Key: "textbooks", Title: "Textbooks"},
					{Key: "lecture_notes", Title: "Lecture Notes"},
					{Key: "multimedia", Title: "Multimedia Resources"},
				},
			},
			{
				Key:   "assessment_tools",
				Title: "Assessment Tools",
				DocTypes: []runtimeconfig.DocTypeConfig{
					{Key: "exams", Title: "Exams"},
					{Key: "assignments", Title: "Assignments"},
					{Key: "rubrics", Title: "Rubrics"},
				},
			},
			{
				Key:   "course_delivery",
				Title: "Course Delivery",
				DocTypes: []runtimeconfig.DocTypeConfig{
					{Key: "schedule", Title: "Course Schedule"},
					{Key: "teaching_methods", Title: "Teaching Methods"},
					{Key: "student_engagement", Title: "Student Engagement"},
				},
			},
			{
				Key:   "quality_assurance",
				Title: "Quality Assurance",
				DocTypes: []runtimeconfig.DocTypeConfig{
					{Key: "student_feedback", Title: "Student Feedback"},
					{Key: "peer_review", Title: "Peer Review"},
					{Key: "improvement_plan", Title: "Improvement Plan"},
				},
			},
		},
	}
}

// Default compiles the stock catalog. It panics only on programmer error
// since the embedded configuration is known to be valid.
func Default() *Catalog {
	compiled, err := Compile(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return compiled
}
