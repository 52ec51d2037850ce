package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/pizzashack/service/models"
)

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.store.GetMenu(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if menu == nil {
		menu = []models.MenuItem{}
	}
	respondJSON(w, http.StatusOK, menu)
}

// AddMenuItem is admin-only and responds with the whole menu including the
// new item.
func (h *Handler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !models.HasRole(claims.Roles, models.RoleAdmin) {
		respondMessage(w, http.StatusForbidden, "unable to add menu item")
		return
	}

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	if _, err := h.store.AddMenuItem(r.Context(), item); err != nil {
		respondError(w, err)
		return
	}

	menu, err := h.store.GetMenu(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, menu)
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	orders, err := h.store.GetOrders(r.Context(), claims.User(), page)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// CreateOrder persists the order, then hands it to the factory for
// fulfillment. The factory's report link is passed through either way.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	diner := claims.User()

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.store.AddDinerOrder(r.Context(), diner, order)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.cfg.Factory.URL == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"order": created})
		return
	}

	factory, err := h.fulfillOrder(r.Context(), diner, created)
	if err != nil {
		logrus.WithError(err).Error("factory order fulfillment failed")
		failure := map[string]interface{}{"message": "Failed to fulfill order at factory"}
		// a transport-level failure has no report link to pass along
		if factory.ReportURL != "" {
			failure["followLinkToEndChaos"] = factory.ReportURL
		}
		respondJSON(w, http.StatusInternalServerError, failure)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order":                created,
		"followLinkToEndChaos": factory.ReportURL,
		"jwt":                  factory.JWT,
	})
}

type factoryResponse struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl"`
}

func (h *Handler) fulfillOrder(ctx context.Context, diner models.User, order models.Order) (factoryResponse, error) {
	payload, err := json.Marshal(map[string]interface{}{"diner": diner, "order": order})
	if err != nil {
		return factoryResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		h.cfg.Factory.URL+"/api/order", bytes.NewReader(payload))
	if err != nil {
		return factoryResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.cfg.Factory.APIKey)

	res, err := h.client.Do(req)
	if err != nil {
		return factoryResponse{}, err
	}
	defer res.Body.Close()

	var fr factoryResponse
	if err := json.NewDecoder(res.Body).Decode(&fr); err != nil {
		return factoryResponse{}, err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fr, fmt.Errorf("factory responded with status %d", res.StatusCode)
	}
	return fr, nil
}
