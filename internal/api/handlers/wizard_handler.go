package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/service"
)

// WizardHandler exposes the draft lifecycle: one draft per creation flow,
// stepped forward and back until submit.
type WizardHandler struct {
	lpoService *service.LpoService
}

func NewWizardHandler(lpoService *service.LpoService) *WizardHandler {
	return &WizardHandler{lpoService: lpoService}
}

func (h *WizardHandler) userID(c *gin.Context) (string, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return user.ID, true
}

// Start creates a fresh draft at the vendor step
func (h *WizardHandler) Start(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	draft, err := h.lpoService.StartDraft(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// Get returns the caller's draft
func (h *WizardHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	draft, err := h.lpoService.GetDraft(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type selectVendorRequest struct {
	VendorID string `json:"vendor_id"`
}

// SelectVendor picks an existing vendor for the draft
func (h *WizardHandler) SelectVendor(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req selectVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.lpoService.SelectVendor(c.Request.Context(), userID, c.Param("id"), req.VendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CreateVendor registers a new vendor without leaving the wizard and
// selects it for the draft
func (h *WizardHandler) CreateVendor(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var in domain.VendorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, vendor, err := h.lpoService.CreateVendorInline(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": draft, "vendor": vendor})
}

// AddItem appends a line item to the draft
func (h *WizardHandler) AddItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var in domain.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.lpoService.AddItem(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// UpdateItem replaces one line item
func (h *WizardHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var in domain.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.lpoService.UpdateItem(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// RemoveItem drops one line item
func (h *WizardHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	draft, err := h.lpoService.RemoveItem(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Next advances the draft to the following step
func (h *WizardHandler) Next(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	draft, err := h.lpoService.NextStep(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Back returns to the previous step without losing data
func (h *WizardHandler) Back(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	draft, err := h.lpoService.BackStep(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type reviewRequest struct {
	AdditionalPercentage decimal.Decimal `json:"additional_percentage"`
	AdditionalNotes      string          `json:"additional_notes"`
}

// Review sets the markup percentage and notes at the review step
func (h *WizardHandler) Review(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.lpoService.SetReview(c.Request.Context(), userID, c.Param("id"), req.AdditionalPercentage, req.AdditionalNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Submit persists the draft as an LPO
func (h *WizardHandler) Submit(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	lpo, err := h.lpoService.Submit(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lpo)
}
