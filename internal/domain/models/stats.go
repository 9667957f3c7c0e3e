// internal/domain/models/stats.go
package models

// DefaultUserLevel is the level assigned to brand-new accounts.
const DefaultUserLevel = "Principiante"

// Stats is a user_stats row. One row per user; created lazily with
// zero values the first time the dashboard loads for a new account.
type Stats struct {
	UserID           string `json:"user_id"`
	CompletedLessons int    `json:"completed_lessons"`
	StudyHours       int    `json:"study_hours"`
	CurrentStreak    int    `json:"current_streak"`
	UserLevel        string `json:"user_level"`
}

// DefaultStats returns the zero-valued stats row for a new user.
func DefaultStats(userID string) Stats {
	return Stats{
		UserID:    userID,
		UserLevel: DefaultUserLevel,
	}
}
