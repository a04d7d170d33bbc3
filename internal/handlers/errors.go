package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	"github.com/SscSPs/erp_finance/internal/core/services"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, services.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, money.ErrArithmetic),
		errors.Is(err, lifecycle.ErrUnknownDocumentType),
		errors.Is(err, services.ErrNonPositiveAmount):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrExceedsBalance), errors.Is(err, accounting.ErrNegativeTotal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, services.ErrAlreadyVoided):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrModuleDisabled):
		return http.StatusForbidden
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err as a JSON body. Server errors are logged and
// replaced by fallbackMsg so internals do not leak.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallbackMsg})
		return
	}
	logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.Int("status", status))

	body := gin.H{"error": err.Error()}
	var transitionErr *lifecycle.TransitionError
	if errors.As(err, &transitionErr) {
		body["allowedActions"] = transitionErr.Allowed
	}
	c.JSON(status, body)
}
