package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pizzashack/service/middlewares"
	"github.com/pizzashack/service/models"
)

// ListFranchises is open to anonymous callers; the store decides how much
// detail the caller's roles entitle them to.
func (h *Handler) ListFranchises(w http.ResponseWriter, r *http.Request) {
	var caller models.User
	if claims, err := middlewares.GetAuthenticatedUser(r); err == nil {
		caller = claims.User()
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "*"
	}

	franchises, more, err := h.store.GetFranchises(r.Context(), caller, page, limit, name)
	if err != nil {
		respondError(w, err)
		return
	}
	if franchises == nil {
		franchises = []models.Franchise{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"franchises": franchises, "more": more})
}

// UserFranchises lists the franchises a user administers. Callers asking
// about anyone but themselves get an empty list unless they are admins.
func (h *Handler) UserFranchises(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	result := []models.Franchise{}
	if claims.UserID == userID || models.HasRole(claims.Roles, models.RoleAdmin) {
		result, err = h.store.GetUserFranchises(r.Context(), userID)
		if err != nil {
			respondError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateFranchise(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !models.HasRole(claims.Roles, models.RoleAdmin) {
		respondMessage(w, http.StatusForbidden, "unable to create a franchise")
		return
	}

	var franchise models.Franchise
	if err := json.NewDecoder(r.Body).Decode(&franchise); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if franchise.Name == "" {
		respondMessage(w, http.StatusBadRequest, "franchise name is required")
		return
	}

	created, err := h.store.CreateFranchise(r.Context(), franchise)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (h *Handler) DeleteFranchise(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !models.HasRole(claims.Roles, models.RoleAdmin) {
		respondMessage(w, http.StatusForbidden, "unable to delete a franchise")
		return
	}

	franchiseID, err := strconv.ParseInt(mux.Vars(r)["franchiseId"], 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid franchise id")
		return
	}

	if err := h.store.DeleteFranchise(r.Context(), franchiseID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "franchise deleted")
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	franchise, ok := h.requireFranchiseAccess(w, r, "unable to create a store")
	if !ok {
		return
	}

	type request struct {
		Name string `json:"name"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "store name is required")
		return
	}

	store, err := h.store.CreateStore(r.Context(), franchise.ID, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, store)
}

func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	franchise, ok := h.requireFranchiseAccess(w, r, "unable to delete a store")
	if !ok {
		return
	}

	storeID, err := strconv.ParseInt(mux.Vars(r)["storeId"], 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid store id")
		return
	}

	if err := h.store.DeleteStore(r.Context(), franchise.ID, storeID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "store deleted")
}

// requireFranchiseAccess loads the franchise from the route and checks the
// caller is an admin or one of that franchise's admins. Precedence: admin
// first, then membership, otherwise denied.
func (h *Handler) requireFranchiseAccess(w http.ResponseWriter, r *http.Request, denyMsg string) (models.Franchise, bool) {
	claims, ok := requireUser(w, r)
	if !ok {
		return models.Franchise{}, false
	}

	franchiseID, err := strconv.ParseInt(mux.Vars(r)["franchiseId"], 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid franchise id")
		return models.Franchise{}, false
	}

	franchise, err := h.store.GetFranchise(r.Context(), franchiseID)
	if err != nil {
		if models.KindOf(err) == models.KindNotFound {
			respondMessage(w, http.StatusForbidden, denyMsg)
		} else {
			respondError(w, err)
		}
		return models.Franchise{}, false
	}

	if !models.HasRole(claims.Roles, models.RoleAdmin) {
		// scoped franchisee claim first; the admin list covers tokens issued
		// before the caller was granted this franchise
		member := models.HasRoleFor(claims.Roles, models.RoleFranchisee, franchise.ID)
		for _, a := range franchise.Admins {
			if a.ID == claims.UserID {
				member = true
				break
			}
		}
		if !member {
			respondMessage(w, http.StatusForbidden, denyMsg)
			return models.Franchise{}, false
		}
	}
	return franchise, true
}
