// internal/domain/models/teacher.go
package models

// Teacher is a row from the teachers table.
type Teacher struct {
	ID        int    `json:"id"`
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty,omitempty"`
	Language  string `json:"language,omitempty"`
	Bio       string `json:"bio,omitempty"`
	IsActive  bool   `json:"is_active"`
}
