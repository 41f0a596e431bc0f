package service

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
	"seller-credit/internal/repository"
)

// CreditRequestService drives the PENDING -> APPROVED/REJECTED state
// machine. Approval is the only path that credits a seller's balance and
// it reuses the ledger cycle inside its own transaction, so the status
// change, the balance increase and the CREDIT_INCREASE transaction commit
// together or not at all.
type CreditRequestService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewCreditRequestService(store *repository.Store, logger *slog.Logger) *CreditRequestService {
	return &CreditRequestService{
		store:  store,
		logger: logger,
	}
}

func (s *CreditRequestService) Create(sellerID int64, amount decimal.Decimal) (*domain.CreditRequest, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	// Fail fast on unknown sellers; the FK would catch it anyway but this
	// reports account_not_found instead of a storage fault.
	if _, err := s.store.Sellers().Get(sellerID); err != nil {
		return nil, err
	}

	request := &domain.CreditRequest{
		ID:       uuid.New(),
		SellerID: sellerID,
		Amount:   amount,
		Status:   domain.RequestPending,
	}

	if err := s.store.CreditRequests().Create(request); err != nil {
		return nil, err
	}

	s.logger.Info("Credit request created", "request_id", request.ID, "seller_id", sellerID, "amount", amount)
	return request, nil
}

func (s *CreditRequestService) Get(requestID uuid.UUID) (*domain.CreditRequest, error) {
	return s.store.CreditRequests().Get(requestID)
}

// ApprovalResult reports one approved request.
type ApprovalResult struct {
	RequestID   uuid.UUID
	Balance     decimal.Decimal
	Transaction *domain.Transaction
}

// Approve transitions a PENDING request to APPROVED and credits the
// seller's balance by the requested amount in the same atomic unit. A
// request that already left PENDING fails with
// ErrRequestAlreadyProcessed; a credit increase is never applied twice
// for the same request.
//
// Lock order is request row then seller row, everywhere, so concurrent
// approvals cannot deadlock against each other.
func (s *CreditRequestService) Approve(requestID uuid.UUID) (*ApprovalResult, error) {
	var result *ApprovalResult
	err := s.store.WithTransaction(func(store *repository.Store) error {
		request, err := store.CreditRequests().GetForUpdate(requestID)
		if err != nil {
			return err
		}

		if request.Status != domain.RequestPending {
			return errors.ErrRequestAlreadyProcessed
		}

		mutation, err := applyInStore(store, request.SellerID, request.Amount,
			domain.KindCreditIncrease, fmt.Sprintf("Approved request ID: %s", request.ID))
		if err != nil {
			return err
		}

		if err := store.CreditRequests().UpdateStatus(request.ID, domain.RequestApproved); err != nil {
			return err
		}

		result = &ApprovalResult{
			RequestID:   request.ID,
			Balance:     mutation.Balance,
			Transaction: mutation.Transaction,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Credit request approved",
		"request_id", result.RequestID,
		"new_balance", result.Balance)
	return result, nil
}

// BatchFailure records one request that could not be approved.
type BatchFailure struct {
	RequestID uuid.UUID
	Err       error
}

// BatchResult aggregates the per-item outcomes of ApproveBatch.
type BatchResult struct {
	Approved int
	Failures []BatchFailure
}

// ApproveBatch approves each request in its own atomic unit, best effort
// per item: one request failing never rolls back or blocks its siblings.
func (s *CreditRequestService) ApproveBatch(requestIDs []uuid.UUID) *BatchResult {
	result := &BatchResult{}

	for _, id := range requestIDs {
		if _, err := s.Approve(id); err != nil {
			s.logger.Warn("Batch approval item failed", "request_id", id, "error", err)
			result.Failures = append(result.Failures, BatchFailure{RequestID: id, Err: err})
			continue
		}
		result.Approved++
	}

	s.logger.Info("Batch approval finished",
		"approved", result.Approved,
		"failed", len(result.Failures))
	return result
}

// Reject transitions a PENDING request to REJECTED. The request row is
// locked under the same guard as approval so a concurrent approve and
// reject cannot both win; there is no ledger effect.
func (s *CreditRequestService) Reject(requestID uuid.UUID) (*domain.CreditRequest, error) {
	var rejected *domain.CreditRequest
	err := s.store.WithTransaction(func(store *repository.Store) error {
		request, err := store.CreditRequests().GetForUpdate(requestID)
		if err != nil {
			return err
		}

		if request.Status != domain.RequestPending {
			return errors.ErrRequestAlreadyProcessed
		}

		if err := store.CreditRequests().UpdateStatus(request.ID, domain.RequestRejected); err != nil {
			return err
		}

		request.Status = domain.RequestRejected
		rejected = request
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Credit request rejected", "request_id", rejected.ID)
	return rejected, nil
}
