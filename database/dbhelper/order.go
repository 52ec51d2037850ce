package dbhelper

import (
	"context"
	"database/sql"
	"time"

	"github.com/pizzashack/service/database"
	"github.com/pizzashack/service/models"
)

// AddDinerOrder inserts the order row and one item row per line item in a
// single transaction. Each item's description and price are snapshotted as
// supplied; the live menu is not consulted. An order with no items is valid.
func (s *Store) AddDinerOrder(ctx context.Context, diner models.User, order models.Order) (models.Order, error) {
	order.DinerID = diner.ID
	order.Date = time.Now().UTC()

	txErr := database.WithTx(s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (diner_id, franchise_id, store_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
			order.DinerID, order.FranchiseID, order.StoreID, order.Date).Scan(&order.ID)
		if err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4) RETURNING id`,
				order.ID, item.MenuID, item.Description, item.Price).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return models.Order{}, wrapTx("unable to create order", txErr)
	}

	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	return order, nil
}

// GetOrders returns one page of the caller's own orders, oldest first, each
// with its items attached. The page size is the store's configured list size.
func (s *Store) GetOrders(ctx context.Context, diner models.User, page int) (models.OrderPage, error) {
	result := models.OrderPage{DinerID: diner.ID, Orders: []models.Order{}, Page: page}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, franchise_id, store_id, created_at FROM orders WHERE diner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		diner.ID, s.listPerPage, getOffset(page, s.listPerPage))
	if err != nil {
		return models.OrderPage{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		o.DinerID = diner.ID
		if err := rows.Scan(&o.ID, &o.FranchiseID, &o.StoreID, &o.Date); err != nil {
			return models.OrderPage{}, err
		}
		result.Orders = append(result.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return models.OrderPage{}, err
	}

	for i := range result.Orders {
		items, err := s.orderItems(ctx, result.Orders[i].ID)
		if err != nil {
			return models.OrderPage{}, err
		}
		result.Orders[i].Items = items
	}
	return result, nil
}

func (s *Store) orderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, menu_id, description, price FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
