package acess_log

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestPurgeDeletesOlderRows(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "access_log" WHERE created_at < $1`)).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 7))

	removed, err := NewService(NewRepository(db), nil).Purge(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeOnDisabledService(t *testing.T) {
	var svc *Service
	removed, err := svc.Purge(context.Background(), time.Now())
	assert.NoError(t, err)
	assert.Zero(t, removed)
}
