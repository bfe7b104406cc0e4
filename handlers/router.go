package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Rajangupta9/taskmanager/middleware"
)

// NewRouter wires every route of the API. Unknown paths and methods get the
// JSON envelope like any other response.
func NewRouter(h *Handlers) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/check", h.Check).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	requireAuth := middleware.AuthMiddleware(h.auth, h.cookie.Name)

	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	private := func(fn http.HandlerFunc) http.Handler { return requireAuth(fn) }
	users.Handle("/me", private(h.GetProfile)).Methods(http.MethodGet)
	users.Handle("/me", private(h.UpdateProfile)).Methods(http.MethodPut)
	users.Handle("/change-password", private(h.ChangePassword)).Methods(http.MethodPut)
	users.Handle("/logout", private(h.Logout)).Methods(http.MethodDelete)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(requireAuth)
	tasks.HandleFunc("", h.CreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("", h.ListAllTask).Methods(http.MethodGet)
	tasks.HandleFunc("/filter", h.FilterTasks).Methods(http.MethodGet)
	tasks.HandleFunc("/assign", h.AssignTask).Methods(http.MethodGet)
	tasks.HandleFunc("/{id:[0-9]+}", h.GetTask).Methods(http.MethodGet)
	tasks.HandleFunc("/{id:[0-9]+}", h.UpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{id:[0-9]+}", h.DeleteTask).Methods(http.MethodDelete)

	return middleware.RequestLogger(h.logger)(middleware.Recover(r))
}
