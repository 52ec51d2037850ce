package dbhelper

import (
	"context"

	"github.com/pizzashack/service/models"
)

// GetMenu returns every menu item. The menu is shared, not scoped to any
// franchise.
func (s *Store) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, image, price FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menu []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Price); err != nil {
			return nil, err
		}
		menu = append(menu, item)
	}
	return menu, rows.Err()
}

func (s *Store) AddMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO menu_items (title, description, image, price) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.Title, item.Description, item.Image, item.Price).Scan(&item.ID)
	if err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}
