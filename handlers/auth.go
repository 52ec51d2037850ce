package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pizzashack/service/middlewares"
	"github.com/pizzashack/service/models"
	"github.com/pizzashack/service/utils"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a diner account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}

	user, err := h.store.CreateUser(r.Context(), models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Roles:    []models.UserRole{{Role: models.RoleDiner}},
	})
	if err != nil {
		logrus.WithError(err).Error("failed to create user")
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.GetUser(r.Context(), req.Email, req.Password)
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

// Logout revokes the presented token's session. Revoking a token that was
// already logged out succeeds all the same.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if err := h.store.LogoutUser(r.Context(), middlewares.ReadAuthToken(r)); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "logout successful")
}

// setAuth signs a fresh credential for the user and records its session row.
func (h *Handler) setAuth(ctx context.Context, user models.User) (string, error) {
	token, err := utils.GenerateToken(user, []byte(h.cfg.JWTSecret))
	if err != nil {
		return "", err
	}
	if err := h.store.LoginUser(ctx, user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}
