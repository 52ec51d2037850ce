package dbhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pizzashack/service/database"
	"github.com/pizzashack/service/models"
)

// CreateUser hashes the password, inserts the user row, and inserts one role
// row per assignment, all in one transaction. A franchisee role's Object is a
// franchise name and must resolve to an existing franchise.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	txErr := database.WithTx(s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
			user.Name, user.Email, string(hashed)).Scan(&user.ID)
		if isUniqueViolation(err) {
			return models.ConflictErr("email already registered")
		}
		if err != nil {
			return err
		}

		for i, role := range user.Roles {
			var objectID int64
			if role.Role == models.RoleFranchisee {
				err := tx.QueryRowContext(ctx,
					`SELECT id FROM franchises WHERE name = $1`, role.Object).Scan(&objectID)
				if errors.Is(err, sql.ErrNoRows) {
					return models.NotFoundErr("no franchise named " + role.Object)
				}
				if err != nil {
					return err
				}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				user.ID, role.Role, objectID); err != nil {
				return err
			}
			user.Roles[i].ObjectID = objectID
		}
		return nil
	})
	if txErr != nil {
		return models.User{}, wrapTx("unable to create user", txErr)
	}

	user.Password = ""
	return user, nil
}

// GetUser looks a user up by email and, when password is non-empty, verifies
// it against the stored hash. An unknown email and a wrong password fail
// identically so the response never reveals which accounts exist.
func (s *Store) GetUser(ctx context.Context, email, password string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.AuthErr()
	}
	if err != nil {
		return models.User{}, err
	}

	if password != "" {
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return models.User{}, models.AuthErr()
		}
	}

	roles, err := s.userRoles(ctx, u.ID)
	if err != nil {
		return models.User{}, err
	}

	u.Password = ""
	u.Roles = roles
	return u, nil
}

// UpdateUser changes any subset of name, email, and password; empty fields are
// left untouched. The updated user is re-read so roles come back attached.
func (s *Store) UpdateUser(ctx context.Context, id int64, name, email, password string) (models.User, error) {
	var (
		sets []string
		args []interface{}
	)
	if name != "" {
		args = append(args, name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if email != "" {
		args = append(args, email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		args = append(args, string(hashed))
		sets = append(sets, fmt.Sprintf("password = $%d", len(args)))
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`,
			strings.Join(sets, ", "), len(args))
		res, err := s.db.ExecContext(ctx, query, args...)
		if isUniqueViolation(err) {
			return models.User{}, models.ConflictErr("email already registered")
		}
		if err != nil {
			return models.User{}, err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return models.User{}, models.AuthErr()
		}
	}

	var currentEmail string
	err := s.db.QueryRowContext(ctx,
		`SELECT email FROM users WHERE id = $1`, id).Scan(&currentEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.AuthErr()
	}
	if err != nil {
		return models.User{}, err
	}
	return s.GetUser(ctx, currentEmail, "")
}

func (s *Store) userRoles(ctx context.Context, userID int64) ([]models.UserRole, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, object_id FROM user_roles WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.UserRole
	for rows.Next() {
		var r models.UserRole
		if err := rows.Scan(&r.Role, &r.ObjectID); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
