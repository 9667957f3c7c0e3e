// internal/app/features/dashboard/types.go
package dashboard

import "github.com/lingualearn/lingualearn/internal/app/system/viewdata"

type pageData struct {
	viewdata.BaseVM
	UserID string
}

// sectionVM is shared by every fragment template: exactly one of
// Error, Empty, or the section's rows is meaningful.
type sectionVM struct {
	Error bool
	Empty bool
}

type statsVM struct {
	sectionVM
	CompletedLessons int
	StudyHours       int
	CurrentStreak    int
	UserLevel        string
}

type courseVM struct {
	EnrollmentID int
	Flag         string
	Name         string
	Level        string
	Progress     int
}

type coursesVM struct {
	sectionVM
	Courses []courseVM
}

type classVM struct {
	Day     string
	Time    string
	Name    string
	Teacher string
	IsToday bool
}

type classesVM struct {
	sectionVM
	Classes []classVM
}

type activityVM struct {
	Icon        string
	Description string
	TimeAgo     string
	Points      int
}

type activitiesVM struct {
	sectionVM
	Activities []activityVM
}
