package handler

import (
	"time"

	"finledger/internal/adapter/http/dto"
	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"
	"finledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoalHandler handles savings goal endpoints.
type GoalHandler struct {
	goalSvc ports.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalSvc ports.GoalService) *GoalHandler {
	return &GoalHandler{goalSvc: goalSvc}
}

// Create handles POST /api/v1/goals.
func (h *GoalHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	goal := &domain.Goal{
		OwnerID:      owner,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Currency:     req.Currency,
	}
	if req.Deadline != nil {
		deadline := time.Unix(*req.Deadline, 0)
		goal.Deadline = &deadline
	}

	created, err := h.goalSvc.Create(c.Request.Context(), goal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toGoalResponse(created))
}

// List handles GET /api/v1/goals.
func (h *GoalHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goals, err := h.goalSvc.List(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.GoalResponse, 0, len(goals))
	for i := range goals {
		items = append(items, toGoalResponse(&goals[i]))
	}

	response.OK(c, items)
}

// Contribute handles POST /api/v1/goals/:id/contribute.
func (h *GoalHandler) Contribute(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	var req dto.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	goal, err := h.goalSvc.Contribute(c.Request.Context(), goalID, owner, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toGoalResponse(goal))
}

// Delete handles DELETE /api/v1/goals/:id.
func (h *GoalHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	if err := h.goalSvc.Delete(c.Request.Context(), goalID, owner); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
