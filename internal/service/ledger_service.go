package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
	"seller-credit/internal/repository"
)

// LedgerService owns the only code path that changes a seller's balance.
// Every change runs as one atomic unit: lock the seller row, re-read the
// balance under the lock, check sufficiency, write the new balance and
// append the matching transaction. No caller may update a balance outside
// this cycle, which is what keeps balance == sum(transactions).
type LedgerService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewLedgerService(store *repository.Store, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: logger,
	}
}

// MutationResult reports a committed balance change.
type MutationResult struct {
	Balance     decimal.Decimal
	Transaction *domain.Transaction
}

// Apply atomically applies a signed amount to the seller's balance and
// appends the transaction that explains it. Negative amounts are debits
// and are rejected with ErrInsufficientBalance when they would take the
// balance below zero; a rejected debit leaves no trace in the ledger.
func (s *LedgerService) Apply(sellerID int64, amount decimal.Decimal, kind domain.TransactionKind, description string) (*MutationResult, error) {
	if amount.IsZero() {
		return nil, errors.ErrInvalidAmount
	}

	s.logger.Info("Applying balance mutation",
		"seller_id", sellerID,
		"amount", amount,
		"kind", kind)

	var result *MutationResult
	err := s.store.WithTransaction(func(store *repository.Store) error {
		mutation, err := applyInStore(store, sellerID, amount, kind, description)
		if err != nil {
			return err
		}
		result = mutation
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Balance mutation committed",
		"seller_id", sellerID,
		"transaction_id", result.Transaction.ID,
		"new_balance", result.Balance)
	return result, nil
}

// applyInStore runs the locked read-check-write-append cycle using the
// given store, which must be transactional. The credit request workflow
// calls it directly so the ledger change and the request status change
// commit as one unit.
func applyInStore(store *repository.Store, sellerID int64, amount decimal.Decimal, kind domain.TransactionKind, description string) (*MutationResult, error) {
	// The FOR UPDATE read blocks contending mutators on this seller until
	// we commit or roll back; any balance read before this point is stale.
	seller, err := store.Sellers().GetForUpdate(sellerID)
	if err != nil {
		return nil, err
	}

	newBalance := seller.Balance.Add(amount)
	if amount.IsNegative() && newBalance.IsNegative() {
		return nil, errors.ErrInsufficientBalance
	}

	if err := store.Sellers().UpdateBalance(sellerID, newBalance); err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
	}

	if err := store.Transactions().Create(transaction); err != nil {
		return nil, err
	}

	return &MutationResult{
		Balance:     newBalance,
		Transaction: transaction,
	}, nil
}
