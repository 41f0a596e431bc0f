package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// CreditRequest is a pending ask to raise a seller's balance. It leaves
// PENDING exactly once: APPROVED through the workflow (alongside the
// matching CREDIT_INCREASE transaction) or REJECTED with no ledger effect.
type CreditRequest struct {
	ID        uuid.UUID       `json:"id"`
	SellerID  int64           `json:"seller_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    RequestStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreditRequestRepository interface {
	Create(req *CreditRequest) error
	Get(id uuid.UUID) (*CreditRequest, error)
	// GetForUpdate locks the request row for the duration of the
	// surrounding database transaction.
	GetForUpdate(id uuid.UUID) (*CreditRequest, error)
	UpdateStatus(id uuid.UUID, status RequestStatus) error
}
