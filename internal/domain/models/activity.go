// internal/domain/models/activity.go
package models

import "time"

// ActivityType is the closed set of feed entry kinds. The stored value
// doubles as the display label, so the constants keep the exact strings
// the data service holds.
type ActivityType string

const (
	ActivityLessonCompleted ActivityType = "Lección completada"
	ActivityAchievement     ActivityType = "Logro desbloqueado"
	ActivityQuizCompleted   ActivityType = "Quiz completado"
	ActivityClassAttended   ActivityType = "Clase asistida"
	ActivityNewCourse       ActivityType = "Nuevo curso"
)

// Activity is a user_activities row in the recent-activity feed.
type Activity struct {
	ID           int          `json:"id,omitempty"`
	UserID       string       `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	Description  string       `json:"description"`
	Points       int          `json:"points,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
