package dbhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pizzashack/service/database"
	"github.com/pizzashack/service/models"
)

// CreateFranchise resolves every admin email before writing anything, inserts
// the franchise row, then grants each admin a franchisee role scoped to the
// new franchise id. Any unresolved email aborts the transaction with zero
// rows written.
func (s *Store) CreateFranchise(ctx context.Context, franchise models.Franchise) (models.Franchise, error) {
	txErr := database.WithTx(s.db, func(tx *sql.Tx) error {
		for i, admin := range franchise.Admins {
			err := tx.QueryRowContext(ctx,
				`SELECT id, name FROM users WHERE email = $1`, admin.Email).
				Scan(&franchise.Admins[i].ID, &franchise.Admins[i].Name)
			if errors.Is(err, sql.ErrNoRows) {
				return models.NotFoundErr("unknown user for franchise admin")
			}
			if err != nil {
				return err
			}
		}

		if err := tx.QueryRowContext(ctx,
			`INSERT INTO franchises (name) VALUES ($1) RETURNING id`,
			franchise.Name).Scan(&franchise.ID); err != nil {
			return err
		}

		for _, admin := range franchise.Admins {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				admin.ID, models.RoleFranchisee, franchise.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return models.Franchise{}, wrapTx("unable to create franchise", txErr)
	}

	franchise.Stores = []models.Store{}
	return franchise, nil
}

// DeleteFranchise removes the franchise's stores, its franchisee role grants,
// and finally the franchise row, in one transaction. Partial deletion is
// never observable: any statement failure rolls everything back.
func (s *Store) DeleteFranchise(ctx context.Context, id int64) error {
	txErr := database.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM stores WHERE franchise_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM user_roles WHERE role = $1 AND object_id = $2`,
			models.RoleFranchisee, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM franchises WHERE id = $1`, id); err != nil {
			return err
		}
		return nil
	})
	return wrapTx("unable to delete franchise", txErr)
}

// GetFranchise loads one franchise fully hydrated: admins, stores, and each
// store's revenue.
func (s *Store) GetFranchise(ctx context.Context, id int64) (models.Franchise, error) {
	var f models.Franchise
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM franchises WHERE id = $1`, id).Scan(&f.ID, &f.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Franchise{}, models.NotFoundErr("unknown franchise")
	}
	if err != nil {
		return models.Franchise{}, err
	}

	if f.Admins, err = s.franchiseAdmins(ctx, id); err != nil {
		return models.Franchise{}, err
	}
	if f.Stores, err = s.franchiseStoresWithRevenue(ctx, id); err != nil {
		return models.Franchise{}, err
	}
	return f, nil
}

// GetFranchises lists franchises a page at a time. Admin callers get each
// franchise fully hydrated; everyone else only sees store ids and names, no
// admin or revenue detail. The boolean result reports whether more pages
// exist past the requested one.
func (s *Store) GetFranchises(ctx context.Context, caller models.User, page, limit int, nameFilter string) ([]models.Franchise, bool, error) {
	if limit <= 0 {
		limit = s.listPerPage
	}
	offset := getOffset(page, limit)

	query := `SELECT id, name FROM franchises`
	var args []interface{}
	if nameFilter != "" && nameFilter != "*" {
		query += ` WHERE name LIKE $1`
		args = append(args, nameFilter+"%")
	}
	// one extra row decides whether another page exists
	query += fmt.Sprintf(` ORDER BY id LIMIT %d OFFSET %d`, limit+1, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var franchises []models.Franchise
	for rows.Next() {
		var f models.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, false, err
		}
		franchises = append(franchises, f)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	more := len(franchises) > limit
	if more {
		franchises = franchises[:limit]
	}

	admin := models.HasRole(caller.Roles, models.RoleAdmin)
	for i := range franchises {
		if admin {
			if franchises[i].Admins, err = s.franchiseAdmins(ctx, franchises[i].ID); err != nil {
				return nil, false, err
			}
			if franchises[i].Stores, err = s.franchiseStoresWithRevenue(ctx, franchises[i].ID); err != nil {
				return nil, false, err
			}
		} else {
			if franchises[i].Stores, err = s.franchiseStores(ctx, franchises[i].ID); err != nil {
				return nil, false, err
			}
		}
	}
	return franchises, more, nil
}

// GetUserFranchises loads every franchise the user administers, fully
// hydrated. A user with no franchisee roles gets an empty list.
func (s *Store) GetUserFranchises(ctx context.Context, userID int64) ([]models.Franchise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT object_id FROM user_roles WHERE user_id = $1 AND role = $2 ORDER BY object_id`,
		userID, models.RoleFranchisee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	franchises := []models.Franchise{}
	for _, id := range ids {
		f, err := s.GetFranchise(ctx, id)
		if err != nil {
			return nil, err
		}
		franchises = append(franchises, f)
	}
	return franchises, nil
}

func (s *Store) CreateStore(ctx context.Context, franchiseID int64, name string) (models.Store, error) {
	store := models.Store{FranchiseID: franchiseID, Name: name}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`,
		franchiseID, name).Scan(&store.ID)
	if err != nil {
		return models.Store{}, err
	}
	return store, nil
}

// DeleteStore is idempotent; removing a store that does not exist is fine.
func (s *Store) DeleteStore(ctx context.Context, franchiseID, storeID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM stores WHERE franchise_id = $1 AND id = $2`, franchiseID, storeID)
	return err
}

func (s *Store) franchiseAdmins(ctx context.Context, franchiseID int64) ([]models.FranchiseAdmin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email
		 FROM user_roles ur
		 JOIN users u ON u.id = ur.user_id
		 WHERE ur.role = $1 AND ur.object_id = $2
		 ORDER BY u.id`,
		models.RoleFranchisee, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []models.FranchiseAdmin
	for rows.Next() {
		var a models.FranchiseAdmin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// franchiseStoresWithRevenue computes each store's revenue from its order
// item price snapshots at read time.
func (s *Store) franchiseStoresWithRevenue(ctx context.Context, franchiseID int64) ([]models.Store, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.name, COALESCE(SUM(oi.price), 0) AS total_revenue
		 FROM stores st
		 LEFT JOIN orders o ON o.store_id = st.id
		 LEFT JOIN order_items oi ON oi.order_id = o.id
		 WHERE st.franchise_id = $1
		 GROUP BY st.id, st.name
		 ORDER BY st.id`, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		var (
			st      models.Store
			revenue float64
		)
		if err := rows.Scan(&st.ID, &st.Name, &revenue); err != nil {
			return nil, err
		}
		st.TotalRevenue = &revenue
		stores = append(stores, st)
	}
	return stores, rows.Err()
}

func (s *Store) franchiseStores(ctx context.Context, franchiseID int64) ([]models.Store, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM stores WHERE franchise_id = $1 ORDER BY id`, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		var st models.Store
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		stores = append(stores, st)
	}
	return stores, rows.Err()
}
