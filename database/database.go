package database

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hashicorp/go-multierror"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/pizzashack/service/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrated atomic.Bool

// ConnectAndMigrate opens the connection pool, verifies it is reachable, and
// brings the schema up to date. Migrations run at most once per process;
// applying them against an up-to-date database is a no-op.
func ConnectAndMigrate(cfg *config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrateUp(db *sql.DB) error {
	if !migrated.CompareAndSwap(false, true) {
		return nil
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		migrated.Store(false)
		return err
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		migrated.Store(false)
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		migrated.Store(false)
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		migrated.Store(false)
		return err
	}
	logrus.Println("database schema is up to date")
	return nil
}

// WithTx runs fn inside a transaction: commit when fn returns nil, rollback
// otherwise. fn's error is always returned; a failed rollback is appended to
// it rather than replacing it.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return multierror.Append(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
