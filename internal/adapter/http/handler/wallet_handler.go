package handler

import (
	"finledger/internal/adapter/http/dto"
	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"
	"finledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet lifecycle endpoints.
type WalletHandler struct {
	walletSvc    ports.WalletService
	reportingSvc ports.ReportingService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, reportingSvc ports.ReportingService) *WalletHandler {
	return &WalletHandler{
		walletSvc:    walletSvc,
		reportingSvc: reportingSvc,
	}
}

// Create handles POST /api/v1/wallet. Creation is idempotent: a repeat
// call returns the existing wallet with 200 instead of 201.
func (h *WalletHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, created, err := h.walletSvc.CreateIfAbsent(c.Request.Context(), ports.CreateWalletRequest{
		OwnerID:        owner,
		Name:           req.Name,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		response.Created(c, toWalletResponse(wallet))
		return
	}
	response.OK(c, toWalletResponse(wallet))
}

// Get handles GET /api/v1/wallet.
func (h *WalletHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.Get(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Update handles PATCH /api/v1/wallet.
func (h *WalletHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	patch := ports.WalletPatch{
		Name:     req.Name,
		Currency: req.Currency,
	}
	if req.Status != nil {
		status := domain.WalletStatus(*req.Status)
		patch.Status = &status
	}

	wallet, err := h.walletSvc.Update(c.Request.Context(), owner, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Delete handles DELETE /api/v1/wallet. Refused unless the balance is
// zero and no transactions reference the wallet.
func (h *WalletHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	if err := h.walletSvc.Delete(c.Request.Context(), owner); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetBalance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, currency, err := h.reportingSvc.GetWalletBalance(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletBalanceResponse{
		Balance:  balance,
		Currency: currency,
	})
}
