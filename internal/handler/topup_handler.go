package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
	"seller-credit/internal/service"
)

const maxPhoneNumberLength = 20

type TopUpHandler struct {
	ledgerService *service.LedgerService
}

func NewTopUpHandler(ledgerService *service.LedgerService) *TopUpHandler {
	return &TopUpHandler{
		ledgerService: ledgerService,
	}
}

type TopUpRequest struct {
	SellerID    int64  `json:"seller_id"`
	PhoneNumber string `json:"phone_number"`
	Amount      string `json:"amount"`
}

type TopUpResponse struct {
	Message          string `json:"message"`
	RemainingBalance string `json:"remaining_balance"`
}

// TopUp sells a phone top-up: it debits the seller's balance by the
// requested amount and appends the matching TOPUP_SALE transaction.
func (h *TopUpHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	if req.SellerID <= 0 {
		writeError(w, errors.NewAppError(errors.InvalidInput, "seller_id must be a positive integer"))
		return
	}

	if req.PhoneNumber == "" {
		writeError(w, errors.NewAppError(errors.InvalidInput, "phone_number is required"))
		return
	}

	if utf8.RuneCountInString(req.PhoneNumber) > maxPhoneNumberLength {
		writeError(w, errors.NewAppErrorf(errors.InvalidInput, "phone_number must be at most %d characters", maxPhoneNumberLength))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	if !amount.IsPositive() {
		writeError(w, errors.ErrInvalidAmount)
		return
	}

	description := fmt.Sprintf("Top-up for %s", req.PhoneNumber)
	result, err := h.ledgerService.Apply(req.SellerID, amount.Neg(), domain.KindTopUpSale, description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := TopUpResponse{
		Message:          "ok",
		RemainingBalance: result.Balance.String(),
	}

	writeJSON(w, http.StatusOK, response)
}
