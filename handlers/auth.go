package handlers

import (
	"net/http"

	"github.com/Rajangupta9/taskmanager/models"
	"github.com/Rajangupta9/taskmanager/utils"
)

// Register handles user registration
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.log(r).Info("user registered", "username", user.Username)
	utils.ResponseWithJson(w, http.StatusOK, "Register successfully", user)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	user, err := h.users.Login(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.setSession(w, user); err != nil {
		h.respondError(w, r, err)
		return
	}

	utils.ResponseWithJson(w, http.StatusOK, "User logged in successfully", models.ToUserOutcome(user))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "User data retrieved successfully", h.users.GetProfile(user))
}

// UpdateProfile re-issues the session cookie since the token carries the
// username.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user, payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.setSession(w, updated); err != nil {
		h.respondError(w, r, err)
		return
	}

	utils.ResponseWithJson(w, http.StatusOK, "User updated successfully", models.ToUserOutcome(updated))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out, err := h.users.ChangePassword(r.Context(), user, payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "Password updated successfully", out)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	h.clearSession(w)
	utils.ResponseWithJson(w, http.StatusOK, "User logged out successfully", nil)
}
