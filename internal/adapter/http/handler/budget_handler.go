package handler

import (
	"finledger/internal/adapter/http/dto"
	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"
	"finledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BudgetHandler handles per-category budget endpoints.
type BudgetHandler struct {
	budgetSvc ports.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetSvc ports.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetSvc: budgetSvc}
}

// Create handles POST /api/v1/budgets.
func (h *BudgetHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	budget, err := h.budgetSvc.Create(c.Request.Context(), &domain.Budget{
		OwnerID:      owner,
		Category:     req.Category,
		MonthlyLimit: req.MonthlyLimit,
		Currency:     req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBudgetResponse(budget))
}

// List handles GET /api/v1/budgets. Each budget is returned with its
// current-month spend aggregated from the ledger.
func (h *BudgetHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	usages, err := h.budgetSvc.List(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BudgetUsageResponse, 0, len(usages))
	for i := range usages {
		u := &usages[i]
		items = append(items, dto.BudgetUsageResponse{
			ID:           u.Budget.ID.String(),
			Category:     u.Budget.Category,
			MonthlyLimit: u.Budget.MonthlyLimit,
			Currency:     u.Budget.Currency,
			Spent:        u.Spent,
			Exceeded:     u.Exceeded(),
			CreatedAt:    fmtTime(u.Budget.CreatedAt),
		})
	}

	response.OK(c, items)
}

// Update handles PUT /api/v1/budgets/:id.
func (h *BudgetHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	budget, err := h.budgetSvc.Update(c.Request.Context(), &domain.Budget{
		ID:           budgetID,
		OwnerID:      owner,
		Category:     req.Category,
		MonthlyLimit: req.MonthlyLimit,
		Currency:     req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBudgetResponse(budget))
}

// Delete handles DELETE /api/v1/budgets/:id.
func (h *BudgetHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	if err := h.budgetSvc.Delete(c.Request.Context(), budgetID, owner); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
