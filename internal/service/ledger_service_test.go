package service

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
	"seller-credit/internal/repository"
)

func newTestLedgerService(t *testing.T) (*LedgerService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewStore(mockDB, logger)
	return NewLedgerService(store, logger), mock, mockDB
}

func sellerRows(id int64, name, balance string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "balance", "created_at", "updated_at"}).
		AddRow(id, name, balance, now, now)
}

func TestLedgerService_Apply_Debit(t *testing.T) {
	svc, mock, mockDB := newTestLedgerService(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM sellers WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sellerRows(7, "Seller One", "500.00"))
	mock.ExpectExec(`UPDATE sellers SET balance = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("400.00", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions (.+) VALUES (.+)`).
		WithArgs(sqlmock.AnyArg(), int64(7), "-100.00", "TOPUP_SALE", "Top-up for 09123456789", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	amount := decimal.RequireFromString("-100.00")
	result, err := svc.Apply(7, amount, domain.KindTopUpSale, "Top-up for 09123456789")
	require.NoError(t, err)

	assert.True(t, result.Balance.Equal(decimal.RequireFromString("400.00")))
	assert.Equal(t, domain.KindTopUpSale, result.Transaction.Kind)
	assert.True(t, result.Transaction.Amount.Equal(amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Apply_Credit(t *testing.T) {
	svc, mock, mockDB := newTestLedgerService(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM sellers WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sellerRows(7, "Seller One", "500.00"))
	mock.ExpectExec(`UPDATE sellers SET balance = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("750.00", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.Apply(7, decimal.RequireFromString("250.00"), domain.KindCreditIncrease, "Approved request")
	require.NoError(t, err)

	assert.True(t, result.Balance.Equal(decimal.RequireFromString("750.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Apply_InsufficientBalance(t *testing.T) {
	svc, mock, mockDB := newTestLedgerService(t)
	defer mockDB.Close()

	// The sufficiency check fails under the lock: the unit rolls back and
	// neither the balance update nor the transaction insert happens.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM sellers WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sellerRows(7, "Seller One", "50.00"))
	mock.ExpectRollback()

	result, err := svc.Apply(7, decimal.RequireFromString("-100.00"), domain.KindTopUpSale, "Top-up for 09123456789")
	require.Error(t, err)
	assert.Nil(t, result)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InsufficientBalance, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Apply_DebitToExactlyZero(t *testing.T) {
	svc, mock, mockDB := newTestLedgerService(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM sellers WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sellerRows(7, "Seller One", "100.00"))
	mock.ExpectExec(`UPDATE sellers SET balance = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("0.00", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.Apply(7, decimal.RequireFromString("-100.00"), domain.KindTopUpSale, "Top-up for 09123456789")
	require.NoError(t, err)
	assert.True(t, result.Balance.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Apply_ZeroAmount(t *testing.T) {
	svc, mock, mockDB := newTestLedgerService(t)
	defer mockDB.Close()

	// Rejected before any storage access
	result, err := svc.Apply(7, decimal.Zero, domain.KindTopUpSale, "Top-up for 09123456789")
	require.Error(t, err)
	assert.Nil(t, result)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InvalidAmount, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Apply_SellerNotFound(t *testing.T) {
	svc, mock, mockDB := newTestLedgerService(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM sellers WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	result, err := svc.Apply(404, decimal.RequireFromString("-100.00"), domain.KindTopUpSale, "Top-up for 09123456789")
	require.Error(t, err)
	assert.Nil(t, result)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.AccountNotFound, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Apply_RollbackOnInsertFailure(t *testing.T) {
	svc, mock, mockDB := newTestLedgerService(t)
	defer mockDB.Close()

	// A storage fault after the balance write must take the balance write
	// down with it.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM sellers WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sellerRows(7, "Seller One", "500.00"))
	mock.ExpectExec(`UPDATE sellers SET balance = \$1, updated_at = \$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions (.+) VALUES (.+)`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	result, err := svc.Apply(7, decimal.RequireFromString("-100.00"), domain.KindTopUpSale, "Top-up for 09123456789")
	require.Error(t, err)
	assert.Nil(t, result)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InternalError, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
