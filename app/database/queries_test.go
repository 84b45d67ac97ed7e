package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResult struct {
	rows    int64
	rowsErr error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, r.rowsErr }

func TestCheckRowUpdated(t *testing.T) {
	require.NoError(t, checkRowUpdated(stubResult{rows: 1}, nil))

	assert.Equal(t, sql.ErrNoRows, checkRowUpdated(stubResult{rows: 0}, nil))

	// A genuine driver error must come back as itself, never as not-found.
	execErr := errors.New("connection reset")
	assert.Equal(t, execErr, checkRowUpdated(nil, execErr))

	rowsErr := errors.New("rows affected unsupported")
	assert.Equal(t, rowsErr, checkRowUpdated(stubResult{rowsErr: rowsErr}, nil))
}
