package dbhelper

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzashack/service/models"
)

func TestAddDinerOrderSnapshotsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := New(db, 10)
	diner := models.User{ID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (diner_id, franchise_id, store_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs(int64(1), int64(2), int64(4), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs(int64(99), int64(1), "Veggie", 0.05).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(int64(99), int64(2), "Pepperoni", 0.1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	order, err := store.AddDinerOrder(context.Background(), diner, models.Order{
		FranchiseID: 2,
		StoreID:     4,
		Items: []models.OrderItem{
			{MenuID: 1, Description: "Veggie", Price: 0.05},
			{MenuID: 2, Description: "Pepperoni", Price: 0.1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), order.ID)
	require.Len(t, order.Items, 2)
	// prices and descriptions are the snapshots supplied at call time
	assert.Equal(t, 0.05, order.Items[0].Price)
	assert.Equal(t, "Pepperoni", order.Items[1].Description)
	assert.WithinDuration(t, time.Now().UTC(), order.Date, time.Minute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDinerOrderAcceptsEmptyItemList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := New(db, 10)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(int64(1), int64(2), int64(4), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectCommit()

	order, err := store.AddDinerOrder(context.Background(), models.User{ID: 1},
		models.Order{FranchiseID: 2, StoreID: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(100), order.ID)
	assert.NotNil(t, order.Items)
	assert.Empty(t, order.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersAttachesItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := New(db, 10)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, franchise_id, store_id, created_at FROM orders WHERE diner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`)).
		WithArgs(int64(1), 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "store_id", "created_at"}).
			AddRow(99, 2, 4, now).
			AddRow(100, 2, 4, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, menu_id, description, price FROM order_items WHERE order_id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "menu_id", "description", "price"}).
			AddRow(1, 1, "Veggie", 0.05))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, menu_id, description, price FROM order_items WHERE order_id = $1`)).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "menu_id", "description", "price"}))

	page, err := store.GetOrders(context.Background(), models.User{ID: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.DinerID)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Orders, 2)
	require.Len(t, page.Orders[0].Items, 1)
	// an order with no items still comes back, with an empty item list
	assert.NotNil(t, page.Orders[1].Items)
	assert.Empty(t, page.Orders[1].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
