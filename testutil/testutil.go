// Package testutil builds in-memory API servers and logged-in clients for
// HTTP tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rajangupta9/taskmanager/handlers"
	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/service"
	"github.com/Rajangupta9/taskmanager/store"
	"github.com/Rajangupta9/taskmanager/utils"
)

const (
	Secret     = "test-secret"
	CookieName = "login"
	Password   = "secret123"
)

// Server is an API backed by a memory store.
type Server struct {
	Store   *store.MemoryStore
	Tokens  *utils.TokenManager
	Handler http.Handler
}

// NewServer builds the full router over a fresh memory store.
func NewServer(t *testing.T) *Server {
	t.Helper()
	st := store.NewMemoryStore()
	tokens := utils.NewTokenManager(Secret, time.Hour)

	h := handlers.New(
		service.NewUserService(st, bcrypt.MinCost, time.Second),
		service.NewTaskService(st, time.Second),
		service.NewSessionAuthenticator(st, tokens, time.Second),
		st,
		handlers.CookieConfig{Name: CookieName, Secure: true},
		logging.NopLogger(),
	)
	return &Server{Store: st, Tokens: tokens, Handler: handlers.NewRouter(h)}
}

// Response is a decoded envelope plus the raw recorder.
type Response struct {
	Code    int                        `json:"-"`
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    json.RawMessage            `json:"data"`
	Errors  json.RawMessage            `json:"errors"`
	Raw     *httptest.ResponseRecorder `json:"-"`
}

// DecodeData unmarshals the data field into out.
func (r *Response) DecodeData(t *testing.T, out any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
}

// Cookie returns the named cookie set by the response, or nil.
func (r *Response) Cookie(name string) *http.Cookie {
	for _, c := range r.Raw.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Do sends a request with an optional JSON body and session cookie.
func (s *Server) Do(t *testing.T, method, path string, body any, session *http.Cookie) *Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	resp := &Response{Code: rec.Code, Raw: rec}
	if err := json.Unmarshal(rec.Body.Bytes(), resp); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %q", method, path, rec.Body.String())
	}
	return resp
}

// Register creates an account with Password.
func (s *Server) Register(t *testing.T, username, email string) {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/api/v1/users/register",
		map[string]any{"username": username, "email": email, "password": Password}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("register %s: %d %s %s", username, resp.Code, resp.Message, resp.Errors)
	}
}

// Login returns the session cookie for email.
func (s *Server) Login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/api/v1/users/login",
		map[string]any{"email": email, "password": Password}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, resp.Code, resp.Message)
	}
	c := resp.Cookie(CookieName)
	if c == nil {
		t.Fatalf("login %s: no session cookie", email)
	}
	return c
}

// SignUp registers and logs in a user.
func (s *Server) SignUp(t *testing.T, username, email string) *http.Cookie {
	t.Helper()
	s.Register(t, username, email)
	return s.Login(t, email)
}

// DueIn formats now+d as the epoch-millisecond string tasks expect.
func DueIn(d time.Duration) string {
	return strconv.FormatInt(time.Now().Add(d).UnixMilli(), 10)
}

// TaskBody builds a valid create-task payload.
func TaskBody(title, status string, due time.Duration) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "",
		"dueDate":     DueIn(due),
		"status":      status,
	}
}
