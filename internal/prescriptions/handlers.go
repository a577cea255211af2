package prescriptions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdpranavl/SanjeevanAI/pkg/interfaces"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// Handlers contains HTTP handlers for prescription operations
type Handlers struct {
	service interfaces.PrescriptionService
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewHandlers creates new prescription HTTP handlers
func NewHandlers(service interfaces.PrescriptionService, log *logger.Logger, metrics *monitoring.MetricsCollector) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
		metrics: metrics,
	}
}

// RegisterRoutes registers prescription routes. The append route goes
// on the authenticated group.
func (h *Handlers) RegisterRoutes(v1 *gin.RouterGroup, authed *gin.RouterGroup) {
	v1.GET("/medications", h.ListMedications)
	v1.GET("/prescriptions/:caseId", h.GetPrescription)
	authed.POST("/prescriptions/:caseId/medications", h.AppendMedication)
}

// AppendMedication handles appending one medication item to a
// prescription
func (h *Handlers) AppendMedication(c *gin.Context) {
	var item types.MedicationItem
	if err := c.ShouldBindJSON(&item); err != nil {
		h.logger.WithError(err).Warn("Invalid medication item request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	result, err := h.service.AppendMedicationItem(c.Request.Context(), c.Param("caseId"), &item)
	if err != nil {
		h.metrics.RecordMedicationAppend("failed")
		h.handleError(c, err)
		return
	}
	h.metrics.RecordMedicationAppend("success")

	c.JSON(http.StatusOK, result)
}

// GetPrescription returns the joined prescription view for a case
func (h *Handlers) GetPrescription(c *gin.Context) {
	view, err := h.service.GetPrescriptionView(c.Request.Context(), c.Param("caseId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prescription": view})
}

// ListMedications returns the full medication catalog
func (h *Handlers) ListMedications(c *gin.Context) {
	options, err := h.service.ListMedications(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"medications": options,
		"count":       len(options),
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
	case types.ErrorTypeConnection:
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	default:
		h.logger.WithError(err).Error("Unhandled prescription error")
	}

	c.JSON(status, gin.H{"error": message})
}
