package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"seller-credit/internal/domain"
	"seller-credit/internal/errors"
	"seller-credit/internal/service"
)

type CreditRequestHandler struct {
	creditRequestService *service.CreditRequestService
}

func NewCreditRequestHandler(creditRequestService *service.CreditRequestService) *CreditRequestHandler {
	return &CreditRequestHandler{
		creditRequestService: creditRequestService,
	}
}

type CreateCreditRequestRequest struct {
	SellerID int64  `json:"seller_id"`
	Amount   string `json:"amount"`
}

type CreditRequestResponse struct {
	RequestID string `json:"request_id"`
	SellerID  int64  `json:"seller_id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
}

func (h *CreditRequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateCreditRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	if req.SellerID <= 0 {
		writeError(w, errors.NewAppError(errors.InvalidInput, "seller_id must be a positive integer"))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	request, err := h.creditRequestService.Create(req.SellerID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCreditRequestResponse(request))
}

func (h *CreditRequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := parseRequestID(w, r)
	if !ok {
		return
	}

	request, err := h.creditRequestService.Get(requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCreditRequestResponse(request))
}

type ApprovalResponse struct {
	RequestID  string `json:"request_id"`
	Status     string `json:"status"`
	NewBalance string `json:"new_balance"`
}

func (h *CreditRequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := parseRequestID(w, r)
	if !ok {
		return
	}

	result, err := h.creditRequestService.Approve(requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := ApprovalResponse{
		RequestID:  result.RequestID.String(),
		Status:     string(domain.RequestApproved),
		NewBalance: result.Balance.String(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *CreditRequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := parseRequestID(w, r)
	if !ok {
		return
	}

	request, err := h.creditRequestService.Reject(requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCreditRequestResponse(request))
}

type ApproveBatchRequest struct {
	RequestIDs []string `json:"request_ids"`
}

type BatchFailureResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

type ApproveBatchResponse struct {
	ApprovedCount int                    `json:"approved_count"`
	Message       string                 `json:"message"`
	Failures      []BatchFailureResponse `json:"failures"`
}

// ApproveBatch approves a set of requests best effort per item and
// reports the aggregate count alongside the individual failures.
func (h *CreditRequestHandler) ApproveBatch(w http.ResponseWriter, r *http.Request) {
	var req ApproveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	if len(req.RequestIDs) == 0 {
		writeError(w, errors.NewAppError(errors.InvalidInput, "request_ids must not be empty"))
		return
	}

	requestIDs := make([]uuid.UUID, 0, len(req.RequestIDs))
	for _, raw := range req.RequestIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, errors.NewAppErrorf(errors.InvalidInput, "invalid request id: %s", raw).WithDetails(err.Error()))
			return
		}
		requestIDs = append(requestIDs, id)
	}

	result := h.creditRequestService.ApproveBatch(requestIDs)

	response := ApproveBatchResponse{
		ApprovedCount: result.Approved,
		Message:       fmt.Sprintf("%d requests approved successfully", result.Approved),
		Failures:      make([]BatchFailureResponse, 0, len(result.Failures)),
	}

	for _, failure := range result.Failures {
		response.Failures = append(response.Failures, BatchFailureResponse{
			RequestID: failure.RequestID.String(),
			Error:     fmt.Sprintf("error processing request %s: %s", failure.RequestID, failure.Err),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func parseRequestID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	requestID, err := uuid.Parse(vars["request_id"])
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request id").WithDetails(err.Error()))
		return uuid.Nil, false
	}
	return requestID, true
}

func toCreditRequestResponse(request *domain.CreditRequest) CreditRequestResponse {
	return CreditRequestResponse{
		RequestID: request.ID.String(),
		SellerID:  request.SellerID,
		Amount:    request.Amount.String(),
		Status:    string(request.Status),
	}
}
