package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/service"
)

type LpoHandler struct {
	lpoService    *service.LpoService
	exportService *service.ExportService
}

func NewLpoHandler(lpoService *service.LpoService, exportService *service.ExportService) *LpoHandler {
	return &LpoHandler{lpoService: lpoService, exportService: exportService}
}

// List returns all LPOs with vendor names, items and payments
func (h *LpoHandler) List(c *gin.Context) {
	lpos, err := h.lpoService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lpos)
}

// Get returns one LPO by id
func (h *LpoHandler) Get(c *gin.Context) {
	lpo, err := h.lpoService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lpo)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus moves an LPO to any approval status
func (h *LpoHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := domain.ParseLpoStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.lpoService.SetStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// SetPaymentStatus moves an LPO to any payment status
func (h *LpoHandler) SetPaymentStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := domain.ParsePaymentStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.lpoService.SetPaymentStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment status updated"})
}

type paymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Reference string          `json:"reference"`
}

// RecordPayment adds a payment and re-derives the payment status
func (h *LpoHandler) RecordPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parsePaymentDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment date"})
			return
		}
		date = parsed
	}

	payment, err := h.lpoService.RecordPayment(c.Request.Context(), c.Param("id"), req.Amount, date, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func parsePaymentDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// Delete removes an LPO and its items and payments
func (h *LpoHandler) Delete(c *gin.Context) {
	if err := h.lpoService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lpo deleted"})
}

// Export renders the LPO document and stores it in the object store
func (h *LpoHandler) Export(c *gin.Context) {
	if h.exportService == nil || !h.exportService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
		return
	}

	key, err := h.exportService.ExportLpo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}
