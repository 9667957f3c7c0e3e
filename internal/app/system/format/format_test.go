package format_test

import (
	"testing"
	"time"

	"github.com/lingualearn/lingualearn/internal/app/system/format"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestRelativeTime_UnitBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"just now", 5 * time.Second, "Hace unos segundos"},
		{"under a minute", 59 * time.Second, "Hace unos segundos"},
		{"exactly one minute", 60 * time.Second, "Hace 1 minutos"},
		{"several minutes", 5 * time.Minute, "Hace 5 minutos"},
		{"under an hour", 59*time.Minute + 59*time.Second, "Hace 59 minutos"},
		{"exactly one hour", time.Hour, "Hace 1 horas"},
		{"several hours", 7 * time.Hour, "Hace 7 horas"},
		{"under a day", 23*time.Hour + 59*time.Minute, "Hace 23 horas"},
		{"exactly one day", 24 * time.Hour, "Hace 1 días"},
		{"several days", 72 * time.Hour, "Hace 3 días"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := format.RelativeTime(now.Add(-tt.ago), now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"earlier today", time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), "Hoy"},
		{"later today", time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC), "Hoy"},
		{"tomorrow morning", time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC), "Mañana"},
		{"day after tomorrow", time.Date(2026, 3, 16, 7, 0, 0, 0, time.UTC), "16 mar"},
		{"next month", time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC), "2 abr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format.ClassDay(tt.date, now))
		})
	}
}

func TestClassTime(t *testing.T) {
	assert.Equal(t, "15:00", format.ClassTime(time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "09:05", format.ClassTime(time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)))
}

func TestActivityIcon(t *testing.T) {
	assert.Equal(t, "✅", format.ActivityIcon(models.ActivityLessonCompleted))
	assert.Equal(t, "🏆", format.ActivityIcon(models.ActivityAchievement))
	assert.Equal(t, "📝", format.ActivityIcon(models.ActivityQuizCompleted))
	assert.Equal(t, "👨‍🏫", format.ActivityIcon(models.ActivityClassAttended))
	assert.Equal(t, "📚", format.ActivityIcon(models.ActivityNewCourse))

	// Rows written by older builds may carry types this one does not
	// know; they must still render.
	assert.Equal(t, "📌", format.ActivityIcon(models.ActivityType("Racha extendida")))
	assert.Equal(t, "📌", format.ActivityIcon(models.ActivityType("")))
}

func TestLanguageFlag(t *testing.T) {
	assert.Equal(t, "🇬🇧", format.LanguageFlag("Inglés"))
	assert.Equal(t, "🇬🇧", format.LanguageFlag("English"))
	assert.Equal(t, "🇯🇵", format.LanguageFlag("Japonés"))
	assert.Equal(t, "🌍", format.LanguageFlag("Klingon"))
	assert.Equal(t, "🌍", format.LanguageFlag(""))
}

func TestInitialsAndNames(t *testing.T) {
	assert.Equal(t, "AG", format.Initials("Ana García"))
	assert.Equal(t, "AG", format.Initials("Ana García López"))
	assert.Equal(t, "A", format.Initials("Ana"))
	assert.Equal(t, "", format.Initials(""))

	assert.Equal(t, "Ana", format.FirstName("Ana García"))
	assert.Equal(t, "", format.FirstName("  "))
}

func TestDisplayFallsBackToEmail(t *testing.T) {
	withName := models.User{FullName: "Ana García", Email: "ana@example.com"}
	assert.Equal(t, "Ana", format.DisplayName(withName))
	assert.Equal(t, "AG", format.AvatarInitials(withName))

	noName := models.User{Email: "ana@example.com"}
	assert.Equal(t, "ana", format.DisplayName(noName))
	assert.Equal(t, "A", format.AvatarInitials(noName))
}
