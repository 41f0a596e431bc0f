package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
)

type sellerRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewSellerRepository(db SQLExecutor, logger *slog.Logger) domain.SellerRepository {
	return &sellerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sellerRepository) Create(seller *domain.Seller) error {
	query := `
		INSERT INTO sellers (name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		seller.Name,
		seller.Balance.String(),
		now,
		now,
	).Scan(&seller.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate seller name", "name", seller.Name)
				return errors.ErrDuplicateAccount
			}
		}
		r.logger.Error("Failed to create seller", "name", seller.Name, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create seller").WithDetails(err.Error())
	}

	seller.CreatedAt = now
	seller.UpdatedAt = now
	r.logger.Info("Seller created successfully", "seller_id", seller.ID, "name", seller.Name)
	return nil
}

func (r *sellerRepository) Get(id int64) (*domain.Seller, error) {
	query := `
		SELECT id, name, balance, created_at, updated_at
		FROM sellers WHERE id = $1
	`

	return r.scanSeller(query, id)
}

func (r *sellerRepository) GetForUpdate(id int64) (*domain.Seller, error) {
	query := `
		SELECT id, name, balance, created_at, updated_at
		FROM sellers WHERE id = $1 FOR UPDATE
	`

	return r.scanSeller(query, id)
}

func (r *sellerRepository) scanSeller(query string, id int64) (*domain.Seller, error) {
	var seller domain.Seller
	var balanceStr string

	err := r.db.QueryRow(query, id).Scan(
		&seller.ID,
		&seller.Name,
		&balanceStr,
		&seller.CreatedAt,
		&seller.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Seller not found", "seller_id", id)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get seller", "seller_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get seller").WithDetails(err.Error())
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "seller_id", id, "balance_str", balanceStr, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
	}

	seller.Balance = balance
	return &seller, nil
}

func (r *sellerRepository) UpdateBalance(id int64, newBalance decimal.Decimal) error {
	query := `
		UPDATE sellers
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, newBalance.String(), time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update seller balance", "seller_id", id, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to update seller balance").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No seller found to update", "seller_id", id)
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Seller balance updated", "seller_id", id, "new_balance", newBalance)
	return nil
}
