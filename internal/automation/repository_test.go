package automation

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func TestStampRunTouchesOnlyRunColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	at := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "automations" SET "last_run_at"=$1,"last_run_status"=$2 WHERE`)).
		WithArgs(at, RunStatusTriggered, id.String(), "acme").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.StampRun(context.Background(), "acme", id, at, RunStatusTriggered))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStampRunOtherTenantIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "automations"`)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.StampRun(context.Background(), "globex", uuid.New(), time.Now(), RunStatusTriggered)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAlertReadIsSingleStatementUnion(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE automation_alerts\s+SET read_by = CASE\s+WHEN read_by @> jsonb_build_array\(\$1::text\) THEN read_by\s+ELSE read_by \|\| jsonb_build_array\(\$2::text\)`).
		WithArgs("ana@acme.io", "ana@acme.io", id.String(), "acme").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkAlertRead(context.Background(), "acme", id, "ana@acme.io"))

	mock.ExpectExec(`UPDATE automation_alerts`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkAlertRead(context.Background(), "acme", uuid.New(), "ana@acme.io"), ErrAlertNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
