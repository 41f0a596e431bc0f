package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Seller struct {
	ID        int64           `json:"seller_id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SellerRepository interface {
	Create(seller *Seller) error
	Get(id int64) (*Seller, error)
	// GetForUpdate locks the seller row until the surrounding database
	// transaction commits or rolls back. Callers must hold an open
	// transaction; the balance it returns is the authoritative one.
	GetForUpdate(id int64) (*Seller, error)
	UpdateBalance(id int64, newBalance decimal.Decimal) error
}
