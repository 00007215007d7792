package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/service"
)

type VendorHandler struct {
	vendorService *service.VendorService
}

func NewVendorHandler(vendorService *service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// List returns all vendors
func (h *VendorHandler) List(c *gin.Context) {
	vendors, err := h.vendorService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

// Get returns one vendor by id
func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.vendorService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// Create validates and stores a new vendor
func (h *VendorHandler) Create(c *gin.Context) {
	var in domain.VendorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

// Update replaces a vendor's details
func (h *VendorHandler) Update(c *gin.Context) {
	var in domain.VendorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// Delete removes a vendor unless LPOs still reference it
func (h *VendorHandler) Delete(c *gin.Context) {
	if err := h.vendorService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vendor deleted"})
}
