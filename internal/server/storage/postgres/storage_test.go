package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	s := NewWithDB(db)
	s.now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
	})

	return s, mock, db
}
