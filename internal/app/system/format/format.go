// Package format holds the display formatting used across the
// dashboard: language flags, activity icons, relative timestamps, and
// name helpers. Everything here is a pure function so templates and
// handlers share one source of truth.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/lingualearn/lingualearn/internal/domain/models"
)

// languageFlags maps course languages to flag emoji. Both the Spanish
// and English names are accepted because the catalog holds a mix.
var languageFlags = map[string]string{
	"Inglés":   "🇬🇧",
	"Español":  "🇪🇸",
	"Francés":  "🇫🇷",
	"Alemán":   "🇩🇪",
	"Italiano": "🇮🇹",
	"Japonés":  "🇯🇵",
	"English":  "🇬🇧",
	"Spanish":  "🇪🇸",
	"French":   "🇫🇷",
	"German":   "🇩🇪",
	"Italian":  "🇮🇹",
	"Japanese": "🇯🇵",
}

// LanguageFlag returns the flag emoji for a course language, or a globe
// for languages the map does not know.
func LanguageFlag(language string) string {
	if flag, ok := languageFlags[language]; ok {
		return flag
	}
	return "🌍"
}

// ActivityIcon returns the feed icon for an activity type. Unrecognized
// types get the pin icon rather than an error; old rows may hold types
// this build no longer produces.
func ActivityIcon(t models.ActivityType) string {
	switch t {
	case models.ActivityLessonCompleted:
		return "✅"
	case models.ActivityAchievement:
		return "🏆"
	case models.ActivityQuizCompleted:
		return "📝"
	case models.ActivityClassAttended:
		return "👨‍🏫"
	case models.ActivityNewCourse:
		return "📚"
	default:
		return "📌"
	}
}

// RelativeTime renders how long ago ts was, relative to now. The unit
// steps up exactly at 60 seconds, 60 minutes, and 24 hours.
func RelativeTime(ts, now time.Time) string {
	seconds := int(now.Sub(ts).Seconds())

	switch {
	case seconds < 60:
		return "Hace unos segundos"
	case seconds < 3600:
		return fmt.Sprintf("Hace %d minutos", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("Hace %d horas", seconds/3600)
	default:
		return fmt.Sprintf("Hace %d días", seconds/86400)
	}
}

var shortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// ClassDay labels a class date for the upcoming list: "Hoy" for today,
// "Mañana" for tomorrow, otherwise a short date like "14 mar".
// Calendar-day comparison, not 24-hour distance.
func ClassDay(t, now time.Time) string {
	if sameDay(t, now) {
		return "Hoy"
	}
	if sameDay(t, now.AddDate(0, 0, 1)) {
		return "Mañana"
	}
	return fmt.Sprintf("%d %s", t.Day(), shortMonths[t.Month()-1])
}

// ClassTime renders the start time of a class.
func ClassTime(t time.Time) string {
	return t.Format("15:04")
}

// IsToday reports whether t falls on the same calendar day as now.
func IsToday(t, now time.Time) bool {
	return sameDay(t, now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Initials returns up to two uppercase initials from a full name, for
// the avatar badge. Empty input returns "".
func Initials(fullName string) string {
	var b strings.Builder
	count := 0
	for _, part := range strings.Fields(fullName) {
		for _, r := range part {
			b.WriteRune(unicode.ToUpper(r))
			count++
			break
		}
		if count >= 2 {
			break
		}
	}
	return b.String()
}

// FirstName returns the first word of a full name.
func FirstName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// DisplayName returns what the header greets the user as: first name
// from metadata, or the email local-part when no name is set.
func DisplayName(u models.User) string {
	if name := FirstName(u.FullName); name != "" {
		return name
	}
	return localPart(u.Email)
}

// AvatarInitials returns the avatar badge text for a user: initials of
// the full name, or the first letter of the email.
func AvatarInitials(u models.User) string {
	if ini := Initials(u.FullName); ini != "" {
		return ini
	}
	email := u.Email
	if email == "" {
		return "?"
	}
	return strings.ToUpper(email[:1])
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
