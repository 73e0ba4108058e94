package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/grouptaskmanager/taskflow/internal/store"
)

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestMapErrorNoRows(t *testing.T) {
	err := MapError(fmt.Errorf("query failed: %w", sql.ErrNoRows))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMapErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "daily_task_entries_task_date_key"}
	err := MapError(pgErr)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMapErrorForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "fk_group"}
	err := MapError(pgErr)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestMapErrorNotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: notNullViolationCode, ColumnName: "description"}
	err := MapError(pgErr)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("connection refused")
	assert.Equal(t, original, MapError(original))
}
