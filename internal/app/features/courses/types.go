// internal/app/features/courses/types.go
package courses

import "github.com/lingualearn/lingualearn/internal/app/system/viewdata"

type catalogCourseVM struct {
	ID          int
	Flag        string
	Name        string
	Language    string
	Level       string
	Description string
	Enrolled    bool
}

type catalogData struct {
	viewdata.BaseVM
	Courses []catalogCourseVM
}

type enrollResultVM struct {
	CourseID int
	Enrolled bool
	Notice   string
}
