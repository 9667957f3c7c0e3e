// internal/domain/models/user.go
package models

import "time"

// DefaultSiteName is the display name used when no branding is configured.
const DefaultSiteName = "LinguaLearn"

// User is the identity record held by the auth service. IDs are UUID
// strings assigned by the service; the app never mints user IDs itself.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the best available name for UI display:
// the full name from metadata, or the local part of the email.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
