package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindCreditIncrease TransactionKind = "CREDIT_INCREASE"
	KindTopUpSale      TransactionKind = "TOPUP_SALE"
)

// Transaction is an immutable signed ledger entry. Positive amounts raise
// the seller's balance, negative amounts record a sale.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    int64           `json:"seller_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TransactionRepository interface {
	Create(tx *Transaction) error
	// ListBySeller returns the seller's ledger newest-first.
	ListBySeller(sellerID int64) ([]Transaction, error)
}
