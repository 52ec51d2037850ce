package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pizzashack/service/models"
)

// Me echoes the authenticated identity as resolved by the middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, claims.User())
}

// UpdateUser lets a user change their own name, email, or password; admins
// may change anyone's. A fresh token is issued because the credential embeds
// the fields that just changed.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if claims.UserID != userID && !models.HasRole(claims.Roles, models.RoleAdmin) {
		respondMessage(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.store.UpdateUser(r.Context(), userID, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.setAuth(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

// DeleteUser is a placeholder; no store method backs it.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	respondMessage(w, http.StatusOK, "not implemented")
}

// ListUsers is a placeholder; no store method backs it.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "not implemented",
		"users":   []models.User{},
		"more":    false,
	})
}
