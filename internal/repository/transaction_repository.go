package repository

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a ledger entry. Rows are never updated or deleted; the
// insert must run in the same database transaction as the balance write
// it explains.
func (r *transactionRepository) Create(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, seller_id, amount, kind, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()

	_, err := r.db.Exec(
		query,
		tx.ID,
		tx.SellerID,
		tx.Amount.String(),
		string(tx.Kind),
		tx.Description,
		now,
	)

	if err != nil {
		r.logger.Error("Failed to create transaction",
			"seller_id", tx.SellerID,
			"kind", tx.Kind,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	tx.CreatedAt = now
	r.logger.Info("Transaction created successfully", "transaction_id", tx.ID, "seller_id", tx.SellerID)
	return nil
}

func (r *transactionRepository) ListBySeller(sellerID int64) ([]domain.Transaction, error) {
	query := `
		SELECT id, seller_id, amount, kind, description, created_at
		FROM transactions
		WHERE seller_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Query(query, sellerID)
	if err != nil {
		r.logger.Error("Failed to list transactions", "seller_id", sellerID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var amountStr string
		var kind string

		if err := rows.Scan(&tx.ID, &tx.SellerID, &amountStr, &kind, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
		}

		tx.Amount = amount
		tx.Kind = domain.TransactionKind(kind)
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to iterate transactions").WithDetails(err.Error())
	}

	return transactions, nil
}
