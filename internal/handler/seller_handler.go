package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
	"seller-credit/internal/service"
)

type SellerHandler struct {
	sellerService *service.SellerService
}

func NewSellerHandler(sellerService *service.SellerService) *SellerHandler {
	return &SellerHandler{
		sellerService: sellerService,
	}
}

type CreateSellerRequest struct {
	Name           string `json:"name"`
	InitialBalance string `json:"initial_balance,omitempty"`
}

type SellerResponse struct {
	SellerID int64  `json:"seller_id"`
	Name     string `json:"name"`
	Balance  string `json:"balance"`
}

func (h *SellerHandler) CreateSeller(w http.ResponseWriter, r *http.Request) {
	var req CreateSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		parsed, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid initial_balance format").WithDetails(err.Error()))
			return
		}
		initialBalance = parsed
	}

	seller, err := h.sellerService.Create(req.Name, initialBalance)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSellerResponse(seller))
}

func (h *SellerHandler) GetSeller(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sellerID := vars["seller_id"]

	seller, err := h.sellerService.Get(sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSellerResponse(seller))
}

type TransactionResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (h *SellerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sellerID := vars["seller_id"]

	transactions, err := h.sellerService.ListTransactions(sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, TransactionResponse{
			ID:          tx.ID.String(),
			Amount:      tx.Amount.String(),
			Kind:        string(tx.Kind),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func toSellerResponse(seller *domain.Seller) SellerResponse {
	return SellerResponse{
		SellerID: seller.ID,
		Name:     seller.Name,
		Balance:  seller.Balance.String(),
	}
}
