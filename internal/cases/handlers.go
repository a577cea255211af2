package cases

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gdpranavl/SanjeevanAI/pkg/interfaces"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// Handlers contains HTTP handlers for case operations
type Handlers struct {
	service interfaces.CaseService
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewHandlers creates new case HTTP handlers
func NewHandlers(service interfaces.CaseService, log *logger.Logger, metrics *monitoring.MetricsCollector) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
		metrics: metrics,
	}
}

// RegisterRoutes registers case routes. Mutating routes go on the
// authenticated group.
func (h *Handlers) RegisterRoutes(v1 *gin.RouterGroup, authed *gin.RouterGroup) {
	casesGroup := v1.Group("/cases")
	{
		casesGroup.GET("", h.ListCases)
		casesGroup.GET("/pending", h.listByStatus(types.StatusPending))
		casesGroup.GET("/approved", h.listByStatus(types.StatusApproved))
		casesGroup.GET("/rejected", h.listByStatus(types.StatusRejected))
	}

	authedCases := authed.Group("/cases")
	{
		authedCases.POST("/approve", h.ApproveCase)
		authedCases.POST("/update", h.UpdateCase)
	}
}

// ApproveCase handles the approve/reject decision for a case
func (h *Handlers) ApproveCase(c *gin.Context) {
	var req types.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid approval request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	view, err := h.service.SetApprovalStatus(c.Request.Context(), &req)
	decision := strings.ToLower(string(req.Status))
	if err != nil {
		h.metrics.RecordCaseDecision(decision, "failed")
		h.handleError(c, err)
		return
	}
	h.metrics.RecordCaseDecision(decision, "success")

	c.JSON(http.StatusOK, gin.H{
		"message": "Case updated successfully",
		"case":    view,
	})
}

// UpdateCase handles doctor edits without a status change
func (h *Handlers) UpdateCase(c *gin.Context) {
	var req types.CaseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid case update request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	view, err := h.service.UpdateCase(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Case updated successfully",
		"case":    view,
	})
}

// ListCases lists case views filtered by the status query parameter
func (h *Handlers) ListCases(c *gin.Context) {
	raw := c.Query("status")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status query parameter is required"})
		return
	}

	status, ok := parseStatusParam(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of pending, approved, rejected"})
		return
	}

	h.respondWithCases(c, status)
}

// parseStatusParam parses the status query value, case-insensitively.
// Unlike stored-document normalization there is no lenient fallback:
// an unrecognized value is a client error, not a pending filter.
func parseStatusParam(raw string) (types.ApprovalStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return types.StatusPending, true
	case "approved":
		return types.StatusApproved, true
	case "rejected":
		return types.StatusRejected, true
	}
	return "", false
}

func (h *Handlers) listByStatus(status types.ApprovalStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.respondWithCases(c, status)
	}
}

func (h *Handlers) respondWithCases(c *gin.Context, status types.ApprovalStatus) {
	views, err := h.service.GetCasesView(c.Request.Context(), status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cases": views,
		"count": len(views),
	})
}

// handleError maps workflow errors to HTTP responses
func (h *Handlers) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch types.TypeOf(err) {
	case types.ErrorTypeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case types.ErrorTypeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case types.ErrorTypeConflict:
		status = http.StatusConflict
		message = err.Error()
	case types.ErrorTypeConnection:
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	default:
		h.logger.WithError(err).Error("Unhandled case error")
	}

	c.JSON(status, gin.H{"error": message})
}
