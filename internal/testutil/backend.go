package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// Backend is an in-memory stand-in for the auth and data services,
// good enough for handler tests: tables can be stubbed with rows,
// writes are recorded, and specific writes can be made to fail.
type Backend struct {
	t   *testing.T
	srv *httptest.Server

	mu          sync.Mutex
	rows        map[string]any            // table -> GET response body
	singles     map[string]any            // table -> Single() GET response (nil entry = no rows)
	insertFails map[string]failure        // table -> forced insert failure
	inserts     map[string][]restWrite    // table -> recorded inserts
	upserts     map[string][]restWrite    // table -> recorded upserts
	authUser    *models.User              // GET /auth/v1/user response
	metadata    []map[string]any          // recorded PUT /auth/v1/user bodies
	logouts     []string                  // recorded bearer tokens from POST /auth/v1/logout

	signInUser  *models.User // password grant result
	signInToken string
	signInFail  int // non-zero forces the password grant to fail with this status

	signUpUser  *models.User // signup result; empty signUpToken simulates confirm-email mode
	signUpToken string
	signUpFail  failure
	signUps     []map[string]any // recorded POST /auth/v1/signup bodies
	recovers    []map[string]any // recorded POST /auth/v1/recover bodies
}

type failure struct {
	status int
	code   string
}

type restWrite struct {
	Body  map[string]any
	Query map[string]string
}

// NewBackend starts the fake backend; it shuts down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		t:           t,
		rows:        make(map[string]any),
		singles:     make(map[string]any),
		insertFails: make(map[string]failure),
		inserts:     make(map[string][]restWrite),
		upserts:     make(map[string][]restWrite),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

// Client returns a gateway client pointed at the fake backend.
func (b *Backend) Client() *gateway.Client {
	return gateway.New(b.srv.URL, "test-anon-key", zap.NewNop())
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.srv.URL
}

// Close shuts the backend down early so requests against it fail.
func (b *Backend) Close() {
	b.srv.Close()
}

// StubRows sets the list response for GET /rest/v1/<table>.
func (b *Backend) StubRows(table string, rows any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows[table] = rows
}

// StubSingle sets the object response for Single() reads of a table.
// Passing nil makes the read miss (PGRST116).
func (b *Backend) StubSingle(table string, row any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.singles[table] = row
}

// FailInsert makes inserts into table fail with the given status and
// error code (e.g. 409 and "23505" for a duplicate).
func (b *Backend) FailInsert(table string, status int, code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertFails[table] = failure{status: status, code: code}
}

// StubAuthUser sets the identity returned by GET /auth/v1/user.
func (b *Backend) StubAuthUser(u models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authUser = &u
}

// Inserts returns the recorded insert bodies for a table.
func (b *Backend) Inserts(table string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, 0, len(b.inserts[table]))
	for _, w := range b.inserts[table] {
		out = append(out, w.Body)
	}
	return out
}

// Upserts returns the recorded upsert bodies for a table.
func (b *Backend) Upserts(table string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, 0, len(b.upserts[table]))
	for _, w := range b.upserts[table] {
		out = append(out, w.Body)
	}
	return out
}

// StubSignIn makes the password grant succeed for any credentials,
// returning a session for u with the given access token.
func (b *Backend) StubSignIn(u models.User, accessToken string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signInUser = &u
	b.signInToken = accessToken
}

// FailSignIn makes the password grant fail with the given status.
func (b *Backend) FailSignIn(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signInFail = status
}

// StubSignUp makes registration succeed, returning a session for u. An
// empty accessToken simulates a project that requires email
// confirmation before the first sign-in.
func (b *Backend) StubSignUp(u models.User, accessToken string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signUpUser = &u
	b.signUpToken = accessToken
}

// FailSignUp makes registration fail with the given status and code.
func (b *Backend) FailSignUp(status int, code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signUpFail = failure{status: status, code: code}
}

// SignUps returns the recorded registration request bodies.
func (b *Backend) SignUps() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.signUps...)
}

// Recovers returns the recorded password-recovery request bodies.
func (b *Backend) Recovers() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.recovers...)
}

// Logouts returns the bearer tokens revoked via POST /auth/v1/logout.
func (b *Backend) Logouts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.logouts...)
}

// MetadataUpdates returns the recorded user-metadata update bodies.
func (b *Backend) MetadataUpdates() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.metadata...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		b.serveRest(w, r)
	case r.URL.Path == "/auth/v1/user":
		b.serveAuthUser(w, r)
	case r.URL.Path == "/auth/v1/token":
		b.serveToken(w, r)
	case r.URL.Path == "/auth/v1/signup":
		b.serveSignUp(w, r)
	case r.URL.Path == "/auth/v1/recover":
		b.mu.Lock()
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.recovers = append(b.recovers, body)
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/auth/v1/logout":
		b.mu.Lock()
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.logouts = append(b.logouts, token)
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/auth/v1/health":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"GoTrue","description":"GoTrue is a user registration and authentication API"}`))
	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) serveRest(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")

	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		if r.Header.Get("Accept") == "application/vnd.pgrst.object+json" {
			row, stubbed := b.singles[table]
			if !stubbed || row == nil {
				w.WriteHeader(http.StatusNotAcceptable)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    gateway.CodeNoRows,
					"message": "JSON object requested, multiple (or no) rows returned",
				})
				return
			}
			_ = json.NewEncoder(w).Encode(row)
			return
		}
		rows, ok := b.rows[table]
		if !ok {
			rows = []any{}
		}
		_ = json.NewEncoder(w).Encode(rows)

	case http.MethodPost:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		write := restWrite{Body: body, Query: flattenQuery(r)}
		if r.URL.Query().Has("on_conflict") {
			b.upserts[table] = append(b.upserts[table], write)
			w.WriteHeader(http.StatusCreated)
			return
		}

		if f, ok := b.insertFails[table]; ok {
			w.WriteHeader(f.status)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"code":    f.code,
				"message": "forced failure",
			})
			return
		}
		b.inserts[table] = append(b.inserts[table], write)
		w.WriteHeader(http.StatusCreated)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *Backend) serveAuthUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodPut {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.metadata = append(b.metadata, body)
	}

	if b.authUser == nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid token"})
		return
	}

	u := *b.authUser
	if r.Method == http.MethodPut {
		if len(b.metadata) > 0 {
			if data, ok := b.metadata[len(b.metadata)-1]["data"].(map[string]any); ok {
				if name, ok := data["full_name"].(string); ok {
					u.FullName = name
				}
			}
		}
		b.authUser = &u
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"created_at": u.CreatedAt,
		"user_metadata": map[string]any{
			"full_name":  u.FullName,
			"avatar_url": u.AvatarURL,
		},
	})
}

func (b *Backend) serveToken(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if b.signInFail != 0 {
		w.WriteHeader(b.signInFail)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
		return
	}
	if b.signInUser == nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
		return
	}
	_ = json.NewEncoder(w).Encode(sessionJSON(*b.signInUser, b.signInToken))
}

func (b *Backend) serveSignUp(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.signUps = append(b.signUps, body)

	w.Header().Set("Content-Type", "application/json")

	if b.signUpFail.status != 0 {
		w.WriteHeader(b.signUpFail.status)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    b.signUpFail.code,
			"message": "forced failure",
		})
		return
	}

	u := models.User{Email: "new@test.com"}
	if b.signUpUser != nil {
		u = *b.signUpUser
	}
	_ = json.NewEncoder(w).Encode(sessionJSON(u, b.signUpToken))
}

func sessionJSON(u models.User, accessToken string) map[string]any {
	return map[string]any{
		"access_token":  accessToken,
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": "refresh-" + accessToken,
		"user": map[string]any{
			"id":         u.ID,
			"email":      u.Email,
			"created_at": u.CreatedAt,
			"user_metadata": map[string]any{
				"full_name":  u.FullName,
				"avatar_url": u.AvatarURL,
			},
		},
	}
}

func flattenQuery(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.URL.Query()))
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
