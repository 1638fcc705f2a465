package handlers

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
	"github.com/mjovanc/codesnippets/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	authUser     models.User
	authErr      error

	registerCalls int
	authCalls     int
	lastUsername  string
	lastEmail     string
	lastPassword  string
}

func (m *mockAuth) Register(_ context.Context, username, email, password string) (models.User, error) {
	m.registerCalls++
	m.lastUsername, m.lastEmail, m.lastPassword = username, email, password
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Authenticate(_ context.Context, username, password string) (models.User, error) {
	m.authCalls++
	m.lastUsername, m.lastPassword = username, password
	return m.authUser, m.authErr
}

type mockSnippets struct {
	createSnippet models.Snippet
	createErr     error
	listResp      []models.Snippet
	listErr       error
	getSnippet    models.Snippet
	getErr        error
	updateErr     error
	deleteErr     error

	createCalls int
	updateCalls int
	deleteCalls int
	lastID      string
	lastTitle   string
	lastCode    string
}

func (m *mockSnippets) Create(_ context.Context, title, code string) (models.Snippet, error) {
	m.createCalls++
	m.lastTitle, m.lastCode = title, code
	return m.createSnippet, m.createErr
}

func (m *mockSnippets) List(_ context.Context) ([]models.Snippet, error) {
	return m.listResp, m.listErr
}

func (m *mockSnippets) Get(_ context.Context, id string) (models.Snippet, error) {
	m.lastID = id
	return m.getSnippet, m.getErr
}

func (m *mockSnippets) Update(_ context.Context, id, title, code string) error {
	m.updateCalls++
	m.lastID, m.lastTitle, m.lastCode = id, title, code
	return m.updateErr
}

func (m *mockSnippets) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	m.lastID = id
	return m.deleteErr
}

// mockSessions maps raw cookie values straight to sessions, sidestepping
// token signing in handler tests.
type mockSessions struct {
	byToken map[string]*models.Session

	issued     int
	regenCalls []string
	destroyed  []string
	flashes    []models.Flash
}

func newMockSessions() *mockSessions {
	return &mockSessions{byToken: make(map[string]*models.Session)}
}

// seed registers a session under a fixed token for tests to put in a cookie.
func (m *mockSessions) seed(token string, sess models.Session) *models.Session {
	cp := sess
	m.byToken[token] = &cp
	return &cp
}

func (m *mockSessions) Issue(context.Context) (models.Session, string, error) {
	m.issued++
	sess := models.Session{ID: fmt.Sprintf("sess-%d", m.issued)}
	token := "token-" + sess.ID
	m.byToken[token] = &sess
	return sess, token, nil
}

func (m *mockSessions) Resolve(_ context.Context, token string) (*models.Session, error) {
	return m.byToken[token], nil
}

func (m *mockSessions) Regenerate(_ context.Context, old models.Session, username string) (models.Session, string, error) {
	m.issued++
	m.regenCalls = append(m.regenCalls, username)
	sess := models.Session{ID: fmt.Sprintf("sess-%d", m.issued), Username: username, Flash: old.Flash}
	token := "token-" + sess.ID
	m.byToken[token] = &sess
	return sess, token, nil
}

func (m *mockSessions) Destroy(_ context.Context, id string) error {
	m.destroyed = append(m.destroyed, id)
	return nil
}

func (m *mockSessions) SetFlash(_ context.Context, sess *models.Session, f models.Flash) error {
	sess.Flash = &f
	m.flashes = append(m.flashes, f)
	return nil
}

func (m *mockSessions) TakeFlash(_ context.Context, sess *models.Session) (*models.Flash, error) {
	f := sess.Flash
	sess.Flash = nil
	return f, nil
}

func (m *mockSessions) TTL() time.Duration {
	return 24 * time.Hour
}

func (m *mockSessions) Sweep(context.Context, time.Duration) {}

// ---- Test router ----

// testTemplates is a compact stand-in for web/templates so handlers can
// render without touching the filesystem.
const testTemplates = `
{{define "index.tmpl"}}index {{.Username}}{{if .Flash}} flash={{.Flash.Type}}:{{.Flash.Text}}{{end}}{{end}}
{{define "404.tmpl"}}not found{{end}}
{{define "error.tmpl"}}error {{.Status}}{{if .Detail}} detail={{.Detail}}{{end}}{{end}}
{{define "snippet_index.tmpl"}}listing{{range .Snippets}} [{{.ID}}]{{end}}{{if .Flash}} flash={{.Flash.Type}}:{{.Flash.Text}}{{end}}{{end}}
{{define "snippet_view.tmpl"}}view {{.Snippet.ID}} {{.Snippet.Code}}{{end}}
{{define "snippet_new.tmpl"}}new snippet{{if .Flash}} flash={{.Flash.Type}}:{{.Flash.Text}}{{end}}{{end}}
{{define "snippet_edit.tmpl"}}edit {{.Snippet.ID}}{{end}}
{{define "snippet_remove.tmpl"}}remove {{.Snippet.ID}}{{end}}
{{define "user_new.tmpl"}}register form{{if .Flash}} flash={{.Flash.Type}}:{{.Flash.Text}}{{end}}{{end}}
{{define "user_login.tmpl"}}login form{{if .Flash}} flash={{.Flash.Type}}:{{.Flash.Text}}{{end}}{{end}}
`

const testCookieName = "snippet_session"

// newTestRouter builds the full route tree with mock services and in-memory
// templates.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Config{CookieName: testCookieName, Env: "production"})
	r := h.InitRoutes()
	r.SetHTMLTemplate(template.Must(template.New("test").Parse(testTemplates)))
	return r
}
