package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles HTTP requests related to documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(documentService portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: documentService,
	}
}

// registerDocumentRoutes registers routes related to documents and their lines.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:documentID", h.getDocument)
		documents.POST("/:documentID/items", h.addItems)
		documents.DELETE("/:documentID/items/:lineID", h.removeItem)
		documents.PUT("/:documentID/adjustments", h.updateAdjustments)
		documents.POST("/:documentID/recalculate", h.recalculateTotals)
		documents.POST("/:documentID/transitions", h.transitionDocument)
		documents.POST("/:documentID/convert", h.convertDocument)
	}

	rg.POST("/job-cards/invoices", h.createInvoiceFromJobCard)
}

// createDocument godoc
// @Summary Create a document
// @Description Creates an invoice, order, quotation, POS transaction or commission in its initial status
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 403 {object} map[string]string "Module disabled"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create document")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// createInvoiceFromJobCard godoc
// @Summary Invoice a job card
// @Description Raises an invoice for a completed job card
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   jobCard body dto.JobCardInvoiceRequest true "Job card details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Router /job-cards/invoices [post]
func (h *documentHandler) createInvoiceFromJobCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.JobCardInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createInvoiceFromJobCard", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc, err := h.documentService.CreateInvoiceFromJobCard(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger.With(slog.String("job_card_ref", req.JobCardRef)), err, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// getDocument godoc
// @Summary Get a document
// @Description Retrieves a document with its lines, totals and allowed actions
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	doc, err := h.documentService.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List documents
// @Description Lists documents oldest first with token pagination
// @Tags documents
// @Produce  json
// @Param   type query string false "Document type"
// @Param   status query string false "Document status"
// @Param   customerID query string false "Customer ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	docs, next, err := h.documentService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDocumentsResponse(docs, next))
}

// addItems godoc
// @Summary Add line items
// @Description Appends lines to a draft document and recomputes its totals
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   items body dto.AddItemsRequest true "Lines to add"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not editable"
// @Failure 500 {object} map[string]string "Failed to add items"
// @Router /documents/{documentID}/items [post]
func (h *documentHandler) addItems(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	var req dto.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc, err := h.documentService.AddItems(c.Request.Context(), documentID, req.Items)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add items")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// removeItem godoc
// @Summary Remove a line item
// @Description Removes one line from a draft document and recomputes its totals
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   lineID path string true "Line ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document or line not found"
// @Failure 409 {object} map[string]string "Document is not editable"
// @Failure 500 {object} map[string]string "Failed to remove item"
// @Router /documents/{documentID}/items/{lineID} [delete]
func (h *documentHandler) removeItem(c *gin.Context) {
	documentID := c.Param("documentID")
	lineID := c.Param("lineID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("document_id", documentID),
		slog.String("line_id", lineID),
	)

	doc, err := h.documentService.RemoveItem(c.Request.Context(), documentID, lineID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to remove item")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// updateAdjustments godoc
// @Summary Replace document adjustments
// @Description Sets the discount, shipping and other charges of a draft document
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   adjustments body dto.UpdateAdjustmentsRequest true "Adjustments"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Document is not editable"
// @Failure 422 {object} map[string]string "Total would be negative"
// @Failure 500 {object} map[string]string "Failed to update adjustments"
// @Router /documents/{documentID}/adjustments [put]
func (h *documentHandler) updateAdjustments(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	var req dto.UpdateAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateAdjustments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc, err := h.documentService.UpdateAdjustments(c.Request.Context(), documentID, req.Adjustments)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update adjustments")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// recalculateTotals godoc
// @Summary Recalculate totals
// @Description Recomputes line amounts and document totals of a draft document
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not editable"
// @Failure 500 {object} map[string]string "Failed to recalculate totals"
// @Router /documents/{documentID}/recalculate [post]
func (h *documentHandler) recalculateTotals(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	doc, err := h.documentService.RecalculateTotals(c.Request.Context(), documentID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to recalculate totals")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// transitionDocument godoc
// @Summary Apply a lifecycle action
// @Description Moves a document to its next status, e.g. send, confirm or cancel
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   transition body dto.TransitionRequest true "Action"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Failure 500 {object} map[string]string "Failed to transition document"
// @Router /documents/{documentID}/transitions [post]
func (h *documentHandler) transitionDocument(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transitionDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc, err := h.documentService.TransitionDocument(c.Request.Context(), documentID, req.Action, req.Reason)
	if err != nil {
		respondWithError(c, logger.With(slog.String("action", string(req.Action))), err, "Failed to transition document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// convertDocument godoc
// @Summary Convert a document
// @Description Turns a quotation into an order or invoice, or an order into an invoice
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Source document ID"
// @Param   conversion body dto.ConvertDocumentRequest true "Target type"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Source cannot be converted"
// @Failure 500 {object} map[string]string "Failed to convert document"
// @Router /documents/{documentID}/convert [post]
func (h *documentHandler) convertDocument(c *gin.Context) {
	documentID := c.Param("documentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", documentID))

	var req dto.ConvertDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for convertDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc, err := h.documentService.ConvertDocument(c.Request.Context(), documentID, req.TargetType)
	if err != nil {
		respondWithError(c, logger, err, "Failed to convert document")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}
