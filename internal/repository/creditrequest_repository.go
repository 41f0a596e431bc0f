package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
)

type creditRequestRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewCreditRequestRepository(db SQLExecutor, logger *slog.Logger) domain.CreditRequestRepository {
	return &creditRequestRepository{
		db:     db,
		logger: logger,
	}
}

func (r *creditRequestRepository) Create(req *domain.CreditRequest) error {
	query := `
		INSERT INTO credit_requests (id, seller_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	_, err := r.db.Exec(
		query,
		req.ID,
		req.SellerID,
		req.Amount.String(),
		string(req.Status),
		now,
		now,
	)

	if err != nil {
		r.logger.Error("Failed to create credit request",
			"seller_id", req.SellerID,
			"amount", req.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create credit request").WithDetails(err.Error())
	}

	req.CreatedAt = now
	req.UpdatedAt = now
	r.logger.Info("Credit request created", "request_id", req.ID, "seller_id", req.SellerID)
	return nil
}

func (r *creditRequestRepository) Get(id uuid.UUID) (*domain.CreditRequest, error) {
	query := `
		SELECT id, seller_id, amount, status, created_at, updated_at
		FROM credit_requests WHERE id = $1
	`

	return r.scanRequest(query, id)
}

func (r *creditRequestRepository) GetForUpdate(id uuid.UUID) (*domain.CreditRequest, error) {
	query := `
		SELECT id, seller_id, amount, status, created_at, updated_at
		FROM credit_requests WHERE id = $1 FOR UPDATE
	`

	return r.scanRequest(query, id)
}

func (r *creditRequestRepository) scanRequest(query string, id uuid.UUID) (*domain.CreditRequest, error) {
	var req domain.CreditRequest
	var amountStr string
	var status string

	err := r.db.QueryRow(query, id).Scan(
		&req.ID,
		&req.SellerID,
		&amountStr,
		&status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Credit request not found", "request_id", id)
			return nil, errors.ErrRequestNotFound
		}
		r.logger.Error("Failed to get credit request", "request_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get credit request").WithDetails(err.Error())
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
	}

	req.Amount = amount
	req.Status = domain.RequestStatus(status)
	return &req, nil
}

func (r *creditRequestRepository) UpdateStatus(id uuid.UUID, status domain.RequestStatus) error {
	query := `UPDATE credit_requests SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, string(status), time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update credit request status",
			"request_id", id, "status", status, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to update credit request status").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No credit request found to update", "request_id", id)
		return errors.ErrRequestNotFound
	}

	r.logger.Info("Credit request status updated", "request_id", id, "status", status)
	return nil
}
