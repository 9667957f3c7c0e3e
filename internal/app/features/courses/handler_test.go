package courses_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/features/courses"
	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/testutil"
)

func newTestHandler(t *testing.T) (*courses.Handler, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	logger := zap.NewNop()
	handler := courses.NewHandler(backend.Client(), uierrors.NewErrorLogger(logger), logger)
	return handler, backend
}

func enrollRequest(user testutil.TestUser, courseID, courseName string) *http.Request {
	form := url.Values{"course_name": {courseName}}
	req := httptest.NewRequest("POST", "/courses/"+courseID+"/enroll", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req = testutil.WithUser(req, user)
	return testutil.WithChiURLParam(req, "courseID", courseID)
}

func serveEnroll(h *courses.Handler, req *http.Request, rec *testutil.ResponseRecorder) {
	func() {
		defer func() { recover() }()
		h.HandleEnroll(rec.ResponseRecorder, req)
	}()
}

func TestHandleEnroll_InsertsEnrollmentAndActivity(t *testing.T) {
	handler, backend := newTestHandler(t)
	user := testutil.StudentUser()

	rec := testutil.NewRecorder()
	serveEnroll(handler, enrollRequest(user, "3", "Inglés Intermedio"), rec)

	inserts := backend.Inserts("user_courses")
	require.Len(t, inserts, 1)
	assert.Equal(t, user.ID, inserts[0]["user_id"])
	assert.Equal(t, float64(3), inserts[0]["course_id"])
	assert.Equal(t, true, inserts[0]["is_active"])

	activities := backend.Inserts("user_activities")
	require.Len(t, activities, 1)
	assert.Equal(t, string(models.ActivityNewCourse), activities[0]["activity_type"])
	assert.Equal(t, "Te inscribiste en Inglés Intermedio", activities[0]["description"])
	assert.Equal(t, float64(10), activities[0]["points"])

	assert.Equal(t, "courses-updated", rec.Header().Get("HX-Trigger"))
}

func TestHandleEnroll_DuplicateSkipsActivity(t *testing.T) {
	handler, backend := newTestHandler(t)
	user := testutil.StudentUser()

	backend.FailInsert("user_courses", http.StatusConflict, "23505")

	rec := testutil.NewRecorder()
	serveEnroll(handler, enrollRequest(user, "3", "Inglés Intermedio"), rec)

	// No feed entry and no refresh trigger for a re-enroll attempt.
	assert.Empty(t, backend.Inserts("user_activities"))
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
}

func TestHandleEnroll_BadCourseID(t *testing.T) {
	handler, backend := newTestHandler(t)
	user := testutil.StudentUser()

	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest("POST", "/courses/abc/enroll", user)
	req = testutil.WithChiURLParam(req, "courseID", "abc")
	req.Header.Set("HX-Request", "true")
	serveEnroll(handler, req, rec)

	rec.AssertStatus(t, http.StatusBadRequest)
	assert.Empty(t, backend.Inserts("user_courses"))
}
