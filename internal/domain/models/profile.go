// internal/domain/models/profile.go
package models

import "time"

// Profile is the user_profiles row kept alongside the auth identity.
// It is created at registration and upserted from the settings page.
type Profile struct {
	UserID    string     `json:"user_id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Bio       string     `json:"bio,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
