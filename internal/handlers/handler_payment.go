package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: paymentService,
	}
}

// registerPaymentRoutes registers the payment routes nested under a document.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/documents/:documentID/payments")
	{
		payments.POST("", h.applyPayment)
		payments.GET("", h.listPayments)
		payments.POST("/:paymentID/void", h.voidPayment)
	}
}

// applyPayment godoc
// @Summary Record a payment
// @Description Records a payment against a document and updates its balance and statuses
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document does not accept payments"
// @Failure 422 {object} map[string]string "Amount exceeds balance"
// @Failure 500 {object} map[string]string "Failed to apply payment"
// @Router /documents/{documentID}/payments [post]
func (h *paymentHandler) applyPayment(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for applyPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.ApplyPayment(c.Request.Context(), documentID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to apply payment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments
// @Description Lists every payment of a document, voided ones included
// @Tags payments
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Router /documents/{documentID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	payments, err := h.paymentService.ListPayments(c.Request.Context(), documentID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments))
}

// voidPayment godoc
// @Summary Void a payment
// @Description Reverses a payment and restores the document balance
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   paymentID path string true "Payment ID"
// @Param   void body dto.VoidPaymentRequest false "Void note"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment already voided"
// @Failure 500 {object} map[string]string "Failed to void payment"
// @Router /documents/{documentID}/payments/{paymentID}/void [post]
func (h *paymentHandler) voidPayment(c *gin.Context) {
	documentID := c.Param("documentID")
	paymentID := c.Param("paymentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("document_id", documentID),
		slog.String("payment_id", paymentID),
	)

	// The body is optional.
	var req dto.VoidPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for voidPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.VoidPayment(c.Request.Context(), documentID, paymentID, req.Note)
	if err != nil {
		respondWithError(c, logger, err, "Failed to void payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
