package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbrick/brick-ledger/internal/domain"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeUnprocessable ErrorCode = "UNPROCESSABLE"
	ErrCodePaused        ErrorCode = "LEDGER_PAUSED"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// errorResponse is the JSON body returned for all error cases
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func newErrorResponse(code ErrorCode, message, details string) errorResponse {
	return errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeBadRequest, message, ""))
}

func respondValidationError(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request", details))
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, newErrorResponse(ErrCodeNotFound, message, ""))
}

func respondInternalError(c *gin.Context, err error, message string) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, newErrorResponse(ErrCodeInternal, message, details))
}

// respondLedgerError maps engine sentinel errors onto HTTP status codes.
// Unknown errors are treated as internal.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, err.Error(), ""))
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, newErrorResponse(ErrCodeForbidden, err.Error(), ""))
	case isNotFoundError(err):
		c.JSON(http.StatusNotFound, newErrorResponse(ErrCodeNotFound, err.Error(), ""))
	case errors.Is(err, domain.ErrLedgerPaused):
		c.JSON(http.StatusConflict, newErrorResponse(ErrCodePaused, err.Error(), ""))
	case isConflictError(err):
		c.JSON(http.StatusConflict, newErrorResponse(ErrCodeConflict, err.Error(), ""))
	case isUnprocessableError(err):
		c.JSON(http.StatusUnprocessableEntity, newErrorResponse(ErrCodeUnprocessable, err.Error(), ""))
	default:
		respondInternalError(c, err, "operation failed")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidAccount,
		domain.ErrZeroAmount,
		domain.ErrAmountOverflow,
		domain.ErrInvalidPropertyType,
		domain.ErrInvalidRiskLevel,
		domain.ErrInvalidDisasterType,
		domain.ErrInvalidClaimStatus,
		domain.ErrInvalidOrderDuration,
		domain.ErrEmptyTitle,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	for _, target := range []error{
		domain.ErrPropertyNotFound,
		domain.ErrOrderNotFound,
		domain.ErrProposalNotFound,
		domain.ErrReportNotFound,
		domain.ErrClaimNotFound,
		domain.ErrWebhookClientNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflictError(err error) bool {
	for _, target := range []error{
		domain.ErrAlreadyVoted,
		domain.ErrAlreadyExecuted,
		domain.ErrVotingOpen,
		domain.ErrVotingClosed,
		domain.ErrOrderInactive,
		domain.ErrOrderExpired,
		domain.ErrClaimNotPending,
		domain.ErrFaucetCooldown,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isUnprocessableError(err error) bool {
	for _, target := range []error{
		domain.ErrInsufficientBalance,
		domain.ErrInsufficientAllowance,
		domain.ErrInsufficientShares,
		domain.ErrInsufficientFund,
		domain.ErrSupplyCapExceeded,
		domain.ErrSharesUnavailable,
		domain.ErrBelowMinimumInvestment,
		domain.ErrBelowProposalThreshold,
		domain.ErrBelowVotingThreshold,
		domain.ErrPropertyInactive,
		domain.ErrSelfTrade,
		domain.ErrReportNotVerified,
		domain.ErrReportPropertyMismatch,
		domain.ErrNoSoldShares,
		domain.ErrFaucetDisabled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
