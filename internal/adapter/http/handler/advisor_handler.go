package handler

import (
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"
	"finledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdvisorHandler handles heuristic finance report endpoints.
type AdvisorHandler struct {
	advisorSvc ports.AdvisorService
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(advisorSvc ports.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisorSvc: advisorSvc}
}

// Report handles GET /api/v1/advisor/:kind where kind is one of
// career, investment, stocks.
func (h *AdvisorHandler) Report(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	kind := ports.ReportKind(c.Param("kind"))
	report, err := h.advisorSvc.Report(c.Request.Context(), owner, kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, report)
}
