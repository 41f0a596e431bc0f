package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	AccountNotFound         ErrorCode = "account_not_found"
	DuplicateAccount        ErrorCode = "duplicate_account"
	InsufficientBalance     ErrorCode = "insufficient_balance"
	RequestNotFound         ErrorCode = "request_not_found"
	RequestAlreadyProcessed ErrorCode = "request_already_processed"
	InvalidAmount           ErrorCode = "invalid_amount"
	InvalidInput            ErrorCode = "invalid_input"
	InternalError           ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps the error taxonomy onto response codes. Business-rule
// rejections are client errors; only storage faults are 500s.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case AccountNotFound, RequestNotFound:
		return http.StatusNotFound
	case DuplicateAccount, RequestAlreadyProcessed:
		return http.StatusConflict
	case InsufficientBalance, InvalidAmount, InvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrAccountNotFound         = NewAppError(AccountNotFound, "account not found")
	ErrDuplicateAccount        = NewAppError(DuplicateAccount, "seller name already exists")
	ErrInsufficientBalance     = NewAppError(InsufficientBalance, "insufficient balance")
	ErrRequestNotFound         = NewAppError(RequestNotFound, "credit request not found")
	ErrRequestAlreadyProcessed = NewAppError(RequestAlreadyProcessed, "credit request already processed")
	ErrInvalidAmount           = NewAppError(InvalidAmount, "amount must be greater than zero")
	ErrCannotBeginTransaction  = NewAppError(InternalError, "cannot begin transaction on transactional store")
)
