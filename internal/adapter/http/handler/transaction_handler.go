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

// TransactionHandler handles ledger entry endpoints.
type TransactionHandler struct {
	ledgerSvc    ports.LedgerService
	reportingSvc ports.ReportingService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerSvc ports.LedgerService, reportingSvc ports.ReportingService) *TransactionHandler {
	return &TransactionHandler{
		ledgerSvc:    ledgerSvc,
		reportingSvc: reportingSvc,
	}
}

// Create handles POST /api/v1/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	createReq := ports.CreateTransactionRequest{
		OwnerID:     owner,
		Direction:   domain.Direction(req.Direction),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Category:    req.Category,
		Status:      domain.TransactionStatus(req.Status),
		Metadata:    req.Metadata,
	}
	if req.WalletID != nil {
		id, err := uuid.Parse(*req.WalletID)
		if err != nil {
			response.Error(c, apperror.Validation("wallet_id must be a valid UUID"))
			return
		}
		createReq.WalletID = &id
	}
	if req.OccurredAt != nil {
		createReq.OccurredAt = time.Unix(*req.OccurredAt, 0)
	}

	tx, err := h.ledgerSvc.CreateTransaction(c.Request.Context(), createReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(tx))
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	tx, err := h.reportingSvc.GetTransaction(c.Request.Context(), owner, txID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(tx))
}

// Update handles PATCH /api/v1/transactions/:id. Only description,
// category, status and metadata are editable.
func (h *TransactionHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	// Financial fields are immutable: reject attempts up front rather
	// than silently dropping them.
	var raw map[string]any
	if err := c.ShouldBindBodyWithJSON(&raw); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	for _, field := range []string{"amount", "direction", "wallet_id", "currency", "fingerprint", "occurred_at"} {
		if _, present := raw[field]; present {
			response.Error(c, apperror.ErrImmutableField(field))
			return
		}
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	patch := ports.TransactionPatch{
		Description: req.Description,
		Category:    req.Category,
		Metadata:    req.Metadata,
	}
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		patch.Status = &status
	}

	tx, err := h.ledgerSvc.UpdateTransaction(c.Request.Context(), owner, txID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(tx))
}

// Reverse handles POST /api/v1/transactions/:id/reverse.
func (h *TransactionHandler) Reverse(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	tx, err := h.ledgerSvc.ReverseTransaction(c.Request.Context(), owner, txID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(tx))
}

// Verify handles POST /api/v1/transactions/:id/verify.
func (h *TransactionHandler) Verify(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	tx, err := h.ledgerSvc.VerifyTransaction(c.Request.Context(), owner, txID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(tx))
}
