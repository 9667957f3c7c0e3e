// internal/domain/models/class.go
package models

import "time"

// Class status values.
const (
	ClassStatusScheduled = "scheduled"
	ClassStatusCompleted = "completed"
	ClassStatusCancelled = "cancelled"
)

// TeacherInfo is the embedded teacher projection returned when a class
// is read with its teacher joined in.
type TeacherInfo struct {
	FullName string `json:"full_name"`
}

// Class is a user_classes row: a booked live session with a teacher.
type Class struct {
	ID              int          `json:"id,omitempty"`
	UserID          string       `json:"user_id"`
	TeacherID       int          `json:"teacher_id"`
	ClassName       string       `json:"class_name"`
	ClassDate       time.Time    `json:"class_date"`
	DurationMinutes int          `json:"duration_minutes"`
	Status          string       `json:"status"`
	Teacher         *TeacherInfo `json:"teachers,omitempty"`
}
