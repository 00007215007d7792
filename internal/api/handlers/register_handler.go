package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/service"
)

// RegisterHandler covers the reminder and report registers.
type RegisterHandler struct {
	reminderService *service.ReminderService
	reportService   *service.ReportService
}

func NewRegisterHandler(reminderService *service.ReminderService, reportService *service.ReportService) *RegisterHandler {
	return &RegisterHandler{reminderService: reminderService, reportService: reportService}
}

// ListReminders returns all reminders
func (h *RegisterHandler) ListReminders(c *gin.Context) {
	reminders, err := h.reminderService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// CreateReminder stores a new reminder
func (h *RegisterHandler) CreateReminder(c *gin.Context) {
	var in domain.ReminderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reminder, err := h.reminderService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// ListReports returns the report send log
func (h *RegisterHandler) ListReports(c *gin.Context) {
	reports, err := h.reportService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

type sendReportRequest struct {
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Recipients []string `json:"recipients"`
	Body       string   `json:"body"`
}

// SendReport records the report and dispatches it to the recipients.
// Delivery runs in the background; the record is returned immediately.
func (h *RegisterHandler) SendReport(c *gin.Context) {
	var req sendReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in := domain.ReportInput{Title: req.Title, Type: req.Type, Recipients: req.Recipients}
	report, err := h.reportService.Send(c.Request.Context(), in, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, report)
}
