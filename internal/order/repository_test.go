package order

import (
	"context"
	"regexp"
	"testing"

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

func TestTransitionIsConditionalOnStatusAndVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	next := submitted()
	next.UUID = uuid.New()
	next.Status = StatusCancelled

	mock.ExpectQuery(`UPDATE "orders" SET .*"version"=version \+ 1.* WHERE uuid = \$\d+ AND business = \$\d+ AND status = \$\d+ AND version = \$\d+ RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "order_number", "business", "status", "version"}).
			AddRow(next.UUID.String(), next.OrderNumber, "acme", string(StatusCancelled), 2))

	saved, err := repo.Transition(context.Background(), next, StatusSubmitted, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, saved.Status)
	assert.Equal(t, 2, saved.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionWithoutMatchIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	next := submitted()
	next.UUID = uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "status", "version"}))

	_, err := repo.Transition(context.Background(), next, StatusSubmitted, 1)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOmitsFilePayloads(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM "orders" WHERE business = \$1 AND created_by = \$2 ORDER BY create_at DESC`).
		WithArgs("acme", "ana@acme.io").
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "title"}).AddRow(uuid.NewString(), "Spring flyer"))

	orders, err := repo.List(context.Background(), "acme", "ana@acme.io")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Spring flyer", orders[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
