// Package handlers exposes the task API over HTTP.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/middleware"
	"github.com/Rajangupta9/taskmanager/models"
	"github.com/Rajangupta9/taskmanager/service"
	"github.com/Rajangupta9/taskmanager/utils"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

type Handlers struct {
	users  *service.UserService
	tasks  *service.TaskService
	auth   *service.SessionAuthenticator
	db     Pinger
	cookie CookieConfig
	logger *logging.Logger
}

func New(users *service.UserService, tasks *service.TaskService, auth *service.SessionAuthenticator,
	db Pinger, cookie CookieConfig, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if cookie.Name == "" {
		cookie.Name = "login"
	}
	return &Handlers{users: users, tasks: tasks, auth: auth, db: db, cookie: cookie, logger: logger}
}

func (h *Handlers) log(r *http.Request) *logging.Logger {
	return logging.FromContext(r.Context(), h.logger)
}

// decodeBody reads a JSON object body. An empty body decodes to an empty map.
func decodeBody(r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Join(errors.ErrMalformedBody, err)
	}
	payload := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Join(errors.ErrMalformedBody, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// respondError maps err onto the response envelope. It is the only place
// errors become HTTP responses.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *errors.ValidationError
	var re *errors.ResponseError
	switch {
	case errors.As(err, &ve):
		utils.ResponseWithError(w, http.StatusForbidden, "Validation failed. Please check your input.", ve.Issues)
	case errors.Is(err, errors.ErrUnauthorized):
		utils.ResponseWithError(w, http.StatusUnauthorized, "Access denied", nil)
	case errors.As(err, &re):
		utils.ResponseWithError(w, re.Status, re.Message, re.Reason)
	case errors.Is(err, errors.ErrMalformedBody):
		utils.ResponseWithError(w, http.StatusBadRequest, "Invalid request", nil)
	default:
		h.log(r).Error("unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.ResponseWithError(w, http.StatusInternalServerError, "Server internal errors", nil)
	}
}

// currentUser returns the session user. Routes without AuthMiddleware never
// call it.
func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, r, errors.ErrUnauthorized)
	}
	return user, ok
}

func (h *Handlers) setSession(w http.ResponseWriter, user *models.User) error {
	token, err := h.auth.Issue(user)
	if err != nil {
		return err
	}
	ttl := h.auth.TTL()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (h *Handlers) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Check reports service health, including the store round trip.
func (h *Handlers) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.log(r).Warn("health check failed", "error", err)
			utils.ResponseWithError(w, http.StatusServiceUnavailable, "Service unavailable", map[string]string{"status": "unhealthy"})
			return
		}
	}
	utils.ResponseWithJson(w, http.StatusOK, "Service healthy", map[string]string{"status": "healthy"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.ResponseWithError(w, http.StatusNotFound, "Route not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.ResponseWithError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}
