package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzashack/service/config"
	"github.com/pizzashack/service/database/dbhelper"
	"github.com/pizzashack/service/middlewares"
	"github.com/pizzashack/service/models"
)

func mockedHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(dbhelper.New(db, 10), &config.Config{JWTSecret: "test-secret"}), mock
}

// expectFranchiseLoad wires the three queries behind a full franchise load:
// the franchise row, its admin list, and its stores with revenue.
func expectFranchiseLoad(mock sqlmock.Sqlmock, id int64, adminIDs ...int64) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM franchises WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id, "PizzaCorp"))

	admins := sqlmock.NewRows([]string{"id", "name", "email"})
	for _, adminID := range adminIDs {
		admins.AddRow(adminID, "Franchisee", "f@test.com")
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT u.id, u.name, u.email`)).
		WithArgs(models.RoleFranchisee, id).
		WillReturnRows(admins)

	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(oi.price), 0)`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total_revenue"}))
}

func TestCreateStoreAllowsFranchiseAdmin(t *testing.T) {
	h, mock := mockedHandler(t)
	// diner token, but user 7 is in the franchise's admin list
	claims := &middlewares.Claims{UserID: 7, Roles: []models.UserRole{{Role: models.RoleDiner}}}

	expectFranchiseLoad(mock, 9, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`)).
		WithArgs(int64(9), "Downtown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	req := authedRequest(http.MethodPost, "/api/franchise/9/store", `{"name":"Downtown"}`, claims)
	req = mux.SetURLVars(req, map[string]string{"franchiseId": "9"})
	rec := httptest.NewRecorder()
	h.CreateStore(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Downtown"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreAllowsScopedFranchiseeClaim(t *testing.T) {
	h, mock := mockedHandler(t)
	// franchisee role scoped to franchise 9 grants access even when the
	// admin list comes back empty
	claims := &middlewares.Claims{UserID: 7, Roles: []models.UserRole{
		{Role: models.RoleFranchisee, ObjectID: 9},
	}}

	expectFranchiseLoad(mock, 9)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`)).
		WithArgs(int64(9), "Uptown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))

	req := authedRequest(http.MethodPost, "/api/franchise/9/store", `{"name":"Uptown"}`, claims)
	req = mux.SetURLVars(req, map[string]string{"franchiseId": "9"})
	rec := httptest.NewRecorder()
	h.CreateStore(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreForbidsOutsiders(t *testing.T) {
	h, mock := mockedHandler(t)
	claims := &middlewares.Claims{UserID: 3, Roles: []models.UserRole{{Role: models.RoleDiner}}}

	// franchise exists, but its only admin is user 7; no insert may follow
	expectFranchiseLoad(mock, 9, 7)

	req := authedRequest(http.MethodPost, "/api/franchise/9/store", `{"name":"Downtown"}`, claims)
	req = mux.SetURLVars(req, map[string]string{"franchiseId": "9"})
	rec := httptest.NewRecorder()
	h.CreateStore(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "unable to create a store")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStoreAllowsFranchiseAdmin(t *testing.T) {
	h, mock := mockedHandler(t)
	claims := &middlewares.Claims{UserID: 7, Roles: []models.UserRole{{Role: models.RoleDiner}}}

	expectFranchiseLoad(mock, 9, 7)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM stores WHERE franchise_id = $1 AND id = $2`)).
		WithArgs(int64(9), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := authedRequest(http.MethodDelete, "/api/franchise/9/store/5", "", claims)
	req = mux.SetURLVars(req, map[string]string{"franchiseId": "9", "storeId": "5"})
	rec := httptest.NewRecorder()
	h.DeleteStore(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "store deleted")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStoreDeniesUnknownFranchise(t *testing.T) {
	h, mock := mockedHandler(t)
	claims := &middlewares.Claims{UserID: 7, Roles: []models.UserRole{{Role: models.RoleDiner}}}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM franchises WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	req := authedRequest(http.MethodDelete, "/api/franchise/9/store/5", "", claims)
	req = mux.SetURLVars(req, map[string]string{"franchiseId": "9", "storeId": "5"})
	rec := httptest.NewRecorder()
	h.DeleteStore(rec, req)

	// a missing franchise reads as a denial, not a 404
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "unable to delete a store")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFranchisesEmitsZeroRevenueForAdmins(t *testing.T) {
	h, mock := mockedHandler(t)
	claims := &middlewares.Claims{UserID: 1, Roles: []models.UserRole{{Role: models.RoleAdmin}}}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM franchises ORDER BY id LIMIT 11 OFFSET 0`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "One"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT u.id, u.name, u.email`)).
		WithArgs(models.RoleFranchisee, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(oi.price), 0)`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total_revenue"}).AddRow(4, "Downtown", 0))

	req := authedRequest(http.MethodGet, "/api/franchise?page=1&limit=10", "", claims)
	rec := httptest.NewRecorder()
	h.ListFranchises(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// a store that earned nothing still reports its revenue
	assert.Contains(t, rec.Body.String(), `"totalRevenue":0`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
