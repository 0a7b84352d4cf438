package handler

import (
	"context"

	"finledger/internal/adapter/http/dto"
	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"
	"finledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertHandler handles fraud alert review endpoints.
type AlertHandler struct {
	alertSvc ports.AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertSvc ports.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

// List handles GET /api/v1/alerts. An optional status query filters by
// lifecycle state.
func (h *AlertHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var status *domain.AlertStatus
	if s := c.Query("status"); s != "" {
		v := domain.AlertStatus(s)
		status = &v
	}

	alerts, err := h.alertSvc.List(c.Request.Context(), owner, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		items = append(items, toAlertResponse(&alerts[i]))
	}

	response.OK(c, items)
}

// Acknowledge handles POST /api/v1/alerts/:id/acknowledge.
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	h.transition(c, h.alertSvc.Acknowledge)
}

// Resolve handles POST /api/v1/alerts/:id/resolve.
func (h *AlertHandler) Resolve(c *gin.Context) {
	h.transition(c, h.alertSvc.Resolve)
}

func (h *AlertHandler) transition(c *gin.Context, op func(ctx context.Context, ownerID, alertID uuid.UUID) (*domain.FraudAlert, error)) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	alert, err := op(c.Request.Context(), owner, alertID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAlertResponse(alert))
}
