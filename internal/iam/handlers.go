package iam

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdpranavl/SanjeevanAI/pkg/interfaces"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// Handlers contains HTTP handlers for doctor auth operations
type Handlers struct {
	service interfaces.IAMService
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewHandlers creates new auth HTTP handlers
func NewHandlers(service interfaces.IAMService, log *logger.Logger, metrics *monitoring.MetricsCollector) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
		metrics: metrics,
	}
}

// RegisterRoutes registers auth routes with the router group
func (h *Handlers) RegisterRoutes(v1 *gin.RouterGroup) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
	}
}

// SignUp handles doctor registration
func (h *Handlers) SignUp(c *gin.Context) {
	var req types.DoctorRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid signup request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	doctor, err := h.service.RegisterDoctor(c.Request.Context(), &req)
	if err != nil {
		h.metrics.RecordAuthAttempt("signup", "failed")
		h.handleError(c, err)
		return
	}
	h.metrics.RecordAuthAttempt("signup", "success")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Doctor registered successfully",
		"doctor": gin.H{
			"doctorId":       doctor.DoctorID,
			"doctorName":     doctor.DoctorName,
			"email":          doctor.Email,
			"contactNo":      doctor.ContactNo,
			"specialization": doctor.Specialization,
			"createdAt":      doctor.CreatedAt,
		},
	})
}

// SignIn handles doctor authentication
func (h *Handlers) SignIn(c *gin.Context) {
	var credentials types.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		h.logger.WithError(err).Warn("Invalid signin request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	result, err := h.service.AuthenticateDoctor(c.Request.Context(), &credentials)
	if err != nil {
		h.metrics.RecordAuthAttempt("signin", "failed")
		h.handleError(c, err)
		return
	}
	h.metrics.RecordAuthAttempt("signin", "success")

	c.JSON(http.StatusOK, gin.H{
		"message": "Authentication successful",
		"doctor": gin.H{
			"doctorId":   result.DoctorID,
			"doctorName": result.DoctorName,
			"email":      result.Email,
		},
		"token": result.Token,
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
	case types.ErrorTypeAuthentication:
		status = http.StatusUnauthorized
		message = "Invalid email or password"
	case types.ErrorTypeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case types.ErrorTypeConnection:
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	default:
		h.logger.WithError(err).Error("Unhandled auth error")
	}

	c.JSON(status, gin.H{"error": message})
}
