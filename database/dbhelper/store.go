package dbhelper

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/pizzashack/service/models"
)

// Store owns every query against the shared pool. One instance is constructed
// at startup and threaded through the handlers; there is no package-level
// handle.
type Store struct {
	db          *sql.DB
	listPerPage int
}

func New(db *sql.DB, listPerPage int) *Store {
	if listPerPage <= 0 {
		listPerPage = 10
	}
	return &Store{db: db, listPerPage: listPerPage}
}

// getOffset converts a 1-based page into a row offset. Pages below 1 are
// treated as the first page.
func getOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// wrapTx classifies a multi-statement failure, preserving any classification
// already attached inside the transaction body.
func wrapTx(msg string, err error) error {
	if err == nil {
		return nil
	}
	if models.KindOf(err) != 0 {
		return err
	}
	return models.TxErr(msg, err)
}
