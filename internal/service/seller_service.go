package service

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
	"seller-credit/internal/repository"
)

type SellerService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewSellerService(store *repository.Store, logger *slog.Logger) *SellerService {
	return &SellerService{
		store:  store,
		logger: logger,
	}
}

// Create registers a seller. A non-zero opening balance is recorded
// through the ledger as a CREDIT_INCREASE transaction so the balance
// equals the transaction sum from the first row on. The insert and the
// opening-balance entry commit as one atomic unit: a storage fault
// leaves no seller row behind.
func (s *SellerService) Create(name string, initialBalance decimal.Decimal) (*domain.Seller, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "seller name is required")
	}

	if initialBalance.IsNegative() {
		return nil, errors.NewAppError(errors.InvalidAmount, "initial balance cannot be negative")
	}

	maxInitialBalance := decimal.NewFromInt(10_000_000_000) // 10 billion
	if initialBalance.GreaterThan(maxInitialBalance) {
		return nil, errors.NewAppError(errors.InvalidAmount, "initial balance exceeds maximum limit")
	}

	s.logger.Info("Creating seller", "name", name, "initial_balance", initialBalance)

	seller := &domain.Seller{
		Name:    name,
		Balance: decimal.Zero,
	}

	err := s.store.WithTransaction(func(store *repository.Store) error {
		if err := store.Sellers().Create(seller); err != nil {
			return err
		}

		if initialBalance.IsPositive() {
			result, err := applyInStore(store, seller.ID, initialBalance, domain.KindCreditIncrease, "Opening balance")
			if err != nil {
				return err
			}
			seller.Balance = result.Balance
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return seller, nil
}

func (s *SellerService) Get(sellerID string) (*domain.Seller, error) {
	id, err := parseSellerID(sellerID)
	if err != nil {
		return nil, err
	}

	return s.store.Sellers().Get(id)
}

// ListTransactions returns the seller's ledger, newest entries first.
func (s *SellerService) ListTransactions(sellerID string) ([]domain.Transaction, error) {
	id, err := parseSellerID(sellerID)
	if err != nil {
		return nil, err
	}

	// Resolve the seller first so an unknown id reports account_not_found
	// rather than an empty list.
	if _, err := s.store.Sellers().Get(id); err != nil {
		return nil, err
	}

	return s.store.Transactions().ListBySeller(id)
}

func parseSellerID(sellerID string) (int64, error) {
	id, err := strconv.ParseInt(sellerID, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewAppError(errors.InvalidInput, "seller id must be a positive integer")
	}
	return id, nil
}
