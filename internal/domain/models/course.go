// internal/domain/models/course.go
package models

import "time"

// Course is a row from the courses catalog.
type Course struct {
	ID          int    `json:"id"`
	CourseName  string `json:"course_name"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// CourseInfo is the embedded course projection returned when an
// enrollment is read with its course joined in.
type CourseInfo struct {
	CourseName string `json:"course_name"`
	Language   string `json:"language"`
	Level      string `json:"level"`
}

// Enrollment is a user_courses row linking a user to a course.
// The (user_id, course_id) pair is unique server-side; a duplicate
// insert is the signal that the user is already enrolled.
type Enrollment struct {
	ID                 int        `json:"id,omitempty"`
	UserID             string     `json:"user_id"`
	CourseID           int        `json:"course_id"`
	IsActive           bool       `json:"is_active"`
	ProgressPercentage int        `json:"progress_percentage"`
	EnrolledAt         *time.Time `json:"enrolled_at,omitempty"`
	Course             *CourseInfo `json:"courses,omitempty"`
}
