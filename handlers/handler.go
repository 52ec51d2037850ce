package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pizzashack/service/config"
	"github.com/pizzashack/service/database/dbhelper"
	"github.com/pizzashack/service/middlewares"
	"github.com/pizzashack/service/models"
)

// Handler is the JSON shim over the store: decode, authorize, call, encode.
type Handler struct {
	store  *dbhelper.Store
	cfg    *config.Config
	client *http.Client
}

func New(store *dbhelper.Store, cfg *config.Config) *Handler {
	return &Handler{
		store:  store,
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

// respondError is the single spot translating store error kinds into HTTP
// status codes.
func respondError(w http.ResponseWriter, err error) {
	switch models.KindOf(err) {
	case models.KindValidation:
		respondMessage(w, http.StatusBadRequest, err.Error())
	case models.KindAuth:
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case models.KindNotFound:
		respondMessage(w, http.StatusNotFound, err.Error())
	case models.KindConflict:
		respondMessage(w, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error("internal error")
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUser answers 401 and returns false when the request is anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) (*middlewares.Claims, bool) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		respondMessage(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return claims, true
}
