package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_FindByIDsForUpdate_SQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := NewGormProductRepository(db).FindByIDsForUpdate(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreditLineRepository_FindForUpdate_SQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	clientID, currencyID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "credit_lines" WHERE client_id = \$1 AND currency_id = \$2 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormCreditLineRepository(db).FindForUpdate(context.Background(), clientID, currencyID)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCurrencyRepository_SaveWithLock_SQL(t *testing.T) {
	t.Run("stale version is a conflict", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		c := newCurrency(t, "EUR", "0.9")
		mock.ExpectExec(`UPDATE "currencies" SET .* WHERE .*version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormCurrencyRepository(db).SaveWithLock(context.Background(), c)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, c.Version, "version is kept on conflict")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matching version bumps the aggregate", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		c := newCurrency(t, "EUR", "0.9")
		mock.ExpectExec(`UPDATE "currencies" SET .* WHERE .*version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewGormCurrencyRepository(db).SaveWithLock(context.Background(), c))
		assert.Equal(t, 2, c.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is a storage error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		c := newCurrency(t, "EUR", "0.9")
		mock.ExpectExec(`UPDATE "currencies"`).WillReturnError(errors.New("connection reset"))

		err := NewGormCurrencyRepository(db).SaveWithLock(context.Background(), c)
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
