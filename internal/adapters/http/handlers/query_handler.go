// Package handlers - read-only query handlers over the Query Surface.
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

// GetAssetTypeUseCase resolves an asset class by its exact-case name or code.
type GetAssetTypeUseCase interface {
	GetAssetType(ctx context.Context, identifier string) (dtos.AssetTypeDTO, error)
}

// GetBalanceUseCase reports a user's current balance for an asset type.
type GetBalanceUseCase interface {
	GetBalance(ctx context.Context, query dtos.GetBalanceQuery) (dtos.BalanceDTO, error)
}

// ListTransactionsUseCase returns a page of a user's transaction history.
type ListTransactionsUseCase interface {
	ListTransactions(ctx context.Context, query dtos.ListTransactionsQuery) (dtos.TransactionListDTO, error)
}

// ============================================
// Query Handler
// ============================================

// QueryHandler exposes getAssetType, getBalance, and listTransactions over
// HTTP. None of these routes participates in the Ledger Engine's locking;
// an external cache (e.g. Redis) may legitimately sit in front of them.
type QueryHandler struct {
	assetTypes   GetAssetTypeUseCase
	balances     GetBalanceUseCase
	transactions ListTransactionsUseCase
}

// NewQueryHandler wires a QueryHandler's dependencies.
func NewQueryHandler(assetTypes GetAssetTypeUseCase, balances GetBalanceUseCase, transactions ListTransactionsUseCase) *QueryHandler {
	return &QueryHandler{assetTypes: assetTypes, balances: balances, transactions: transactions}
}

// ============================================
// Request DTOs
// ============================================

// AssetTypeIdentifierParam is the asset type path parameter.
type AssetTypeIdentifierParam struct {
	Identifier string `uri:"identifier" binding:"required"`
}

// BalanceQueryParams are the getBalance query parameters.
type BalanceQueryParams struct {
	UserID    string `form:"user_id" binding:"required,uuid"`
	AssetType string `form:"asset_type" binding:"required"`
}

// TransactionListQueryParams are the listTransactions query parameters.
type TransactionListQueryParams struct {
	UserID string `form:"user_id" binding:"required,uuid"`
}

// ============================================
// HTTP Handlers
// ============================================

// GetAssetType resolves an asset class by name or code.
//
// @Summary Get an asset type
// @Description Resolve a provisioned asset class by its exact-case name or code
// @Tags Query
// @Produce json
// @Param identifier path string true "Asset type name or code"
// @Success 200 {object} common.APIResponse{data=dtos.AssetTypeDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/asset-types/{identifier} [get]
func (h *QueryHandler) GetAssetType(c *gin.Context) {
	var params AssetTypeIdentifierParam
	if !BindURI(c, &params) {
		return
	}

	result, err := h.assetTypes.GetAssetType(c.Request.Context(), params.Identifier)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// GetBalance reports a user's balance for an asset type.
//
// @Summary Get a wallet balance
// @Description Report the current balance of a user's wallet for an asset type
// @Tags Query
// @Produce json
// @Param user_id query string true "User ID" format(uuid)
// @Param asset_type query string true "Asset type name or code"
// @Success 200 {object} common.APIResponse{data=dtos.BalanceDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/balances [get]
func (h *QueryHandler) GetBalance(c *gin.Context) {
	var params BalanceQueryParams
	if !BindQuery(c, &params) {
		return
	}

	result, err := h.balances.GetBalance(c.Request.Context(), dtos.GetBalanceQuery{
		UserID:    params.UserID,
		AssetType: params.AssetType,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// ListTransactions returns a page of a user's transaction history.
//
// @Summary List transactions
// @Description Get a paginated, most-recent-first page of a user's transaction history
// @Tags Query
// @Produce json
// @Param user_id query string true "User ID" format(uuid)
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20) maximum(100)
// @Success 200 {object} common.APIResponse{data=dtos.TransactionListDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/transactions [get]
func (h *QueryHandler) ListTransactions(c *gin.Context) {
	var params TransactionListQueryParams
	if !BindQuery(c, &params) {
		return
	}
	pagination := ParsePagination(c)

	result, err := h.transactions.ListTransactions(c.Request.Context(), dtos.ListTransactionsQuery{
		UserID: params.UserID,
		Offset: pagination.Offset,
		Limit:  pagination.Limit,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.SuccessWithMeta(c, http.StatusOK, result, BuildMeta(pagination, len(result.Transactions)))
}
