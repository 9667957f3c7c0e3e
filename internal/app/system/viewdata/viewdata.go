// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"

	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/format"
	"github.com/lingualearn/lingualearn/internal/domain/models"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/dashboard"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	// Site identity
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn   bool
	UserName     string
	UserEmail    string
	UserInitials string

	// Page context
	Title         string
	BackURL       string
	CurrentPath   string
	ActiveSection string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		mu := models.User{FullName: u.Name, Email: u.Email}
		vm.IsLoggedIn = true
		vm.UserName = format.DisplayName(mu)
		vm.UserEmail = u.Email
		vm.UserInitials = format.AvatarInitials(mu)
	}

	return vm
}

// WithSection marks the sidebar section the page belongs to.
func (vm BaseVM) WithSection(section string) BaseVM {
	vm.ActiveSection = section
	return vm
}
