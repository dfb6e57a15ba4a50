// Package handlers - ledger write-operation handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaultcoin/ledgercore/internal/adapters/http/common"
	"github.com/vaultcoin/ledgercore/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// TopUpUseCase issues value from the system account into a user's wallet.
type TopUpUseCase interface {
	TopUp(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.LedgerOperationResultDTO, error)
}

// BonusUseCase grants a promotional value issuance.
type BonusUseCase interface {
	Bonus(ctx context.Context, cmd dtos.BonusCommand) (*dtos.LedgerOperationResultDTO, error)
}

// SpendUseCase retires value from a user's wallet back to the system account.
type SpendUseCase interface {
	Spend(ctx context.Context, cmd dtos.SpendCommand) (*dtos.LedgerOperationResultDTO, error)
}

// ============================================
// Ledger Handler
// ============================================

// LedgerHandler exposes TOP_UP, BONUS, and SPEND over HTTP. Each endpoint
// is a thin adapter over the Ledger Engine: bind, invoke, translate the
// error taxonomy, respond.
type LedgerHandler struct {
	topUp TopUpUseCase
	bonus BonusUseCase
	spend SpendUseCase
}

// NewLedgerHandler wires a LedgerHandler's dependencies.
func NewLedgerHandler(topUp TopUpUseCase, bonus BonusUseCase, spend SpendUseCase) *LedgerHandler {
	return &LedgerHandler{topUp: topUp, bonus: bonus, spend: spend}
}

// ============================================
// Request DTOs
// ============================================

// LedgerOperationRequest is the shared request body for TOP_UP, BONUS, and
// SPEND: they differ only in which ledger operation the route dispatches to.
//
// @Description Ledger operation request body
type LedgerOperationRequest struct {
	UserID         string                 `json:"user_id" binding:"required,uuid"`
	AssetType      string                 `json:"asset_type" binding:"required,asset_code"`
	Amount         string                 `json:"amount" binding:"required,money_amount"`
	IdempotencyKey string                 `json:"idempotency_key" binding:"required,max=255"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// ============================================
// HTTP Handlers
// ============================================

// TopUp issues value from the system account into the caller's wallet.
//
// @Summary Top up a wallet
// @Description Issue value from the system account into a user's wallet
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body LedgerOperationRequest true "Top-up request"
// @Success 200 {object} common.APIResponse{data=dtos.LedgerOperationResultDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse "Idempotency key already in use by a non-terminal operation"
// @Failure 422 {object} common.APIResponse "Insufficient funds"
// @Router /api/v1/ledger/top-up [post]
func (h *LedgerHandler) TopUp(c *gin.Context) {
	var req LedgerOperationRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.topUp.TopUp(c.Request.Context(), dtos.TopUpCommand{
		UserID:         req.UserID,
		AssetType:      req.AssetType,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
		Metadata:       req.Metadata,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Bonus grants a promotional value issuance into the caller's wallet.
//
// @Summary Grant a bonus
// @Description Issue a promotional value grant into a user's wallet
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body LedgerOperationRequest true "Bonus request"
// @Success 200 {object} common.APIResponse{data=dtos.LedgerOperationResultDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /api/v1/ledger/bonus [post]
func (h *LedgerHandler) Bonus(c *gin.Context) {
	var req LedgerOperationRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.bonus.Bonus(c.Request.Context(), dtos.BonusCommand{
		UserID:         req.UserID,
		AssetType:      req.AssetType,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
		Metadata:       req.Metadata,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Spend retires value from the caller's wallet back to the system account.
//
// @Summary Spend from a wallet
// @Description Retire value from a user's wallet back to the system account
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body LedgerOperationRequest true "Spend request"
// @Success 200 {object} common.APIResponse{data=dtos.LedgerOperationResultDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse "Insufficient funds"
// @Router /api/v1/ledger/spend [post]
func (h *LedgerHandler) Spend(c *gin.Context) {
	var req LedgerOperationRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.spend.Spend(c.Request.Context(), dtos.SpendCommand{
		UserID:         req.UserID,
		AssetType:      req.AssetType,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
		Metadata:       req.Metadata,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}
