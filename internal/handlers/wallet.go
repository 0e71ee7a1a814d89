package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cleanup-ventures/internal/permissions"
	"cleanup-ventures/internal/services"
)

// WalletHandler handles personal wallet and venture finance endpoints
type WalletHandler struct {
	wallets    *services.WalletService
	settlement *services.SettlementService
	membership *services.MembershipService
	logger     *zap.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(wallets *services.WalletService, settlement *services.SettlementService, membership *services.MembershipService, logger *zap.Logger) *WalletHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletHandler{
		wallets:    wallets,
		settlement: settlement,
		membership: membership,
		logger:     logger,
	}
}

// GetBalance handles GET /wallet
func (h *WalletHandler) GetBalance(c *gin.Context) {
	username, _, ok := identity(c)
	if !ok {
		return
	}

	balance, err := h.wallets.GetBalance(c.Request.Context(), username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetTransactions handles GET /wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	username, _, ok := identity(c)
	if !ok {
		return
	}

	transactions, err := h.wallets.GetTransactions(c.Request.Context(), username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

type topupRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Label  string `json:"label"`
}

// Topup handles POST /wallet/topup
func (h *WalletHandler) Topup(c *gin.Context) {
	username, _, ok := identity(c)
	if !ok {
		return
	}

	var req topupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	label := req.Label
	if label == "" {
		label = "Topup"
	}
	if err := h.wallets.Topup(c.Request.Context(), username, req.Amount, label); err != nil {
		handleError(c, err)
		return
	}

	balance, err := h.wallets.GetBalance(c.Request.Context(), username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetPledges handles GET /ventures/:id/pledges
func (h *WalletHandler) GetPledges(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionViewWallet); !ok {
		return
	}

	pledges, err := h.settlement.GetPledges(c.Request.Context(), ventureID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pledges": pledges})
}

type pledgeRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// RecordPledge handles POST /ventures/:id/pledges. Re-pledging supersedes
// the previous pledge amount.
func (h *WalletHandler) RecordPledge(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	username, displayName, ok := identity(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionContributeFunds); !ok {
		return
	}

	var req pledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.settlement.RecordPledge(c.Request.Context(), ventureID, username, displayName, req.Amount); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pledged": req.Amount})
}

// RemovePledge handles DELETE /ventures/:id/pledges/me. Refunds the
// caller's own pledge; a second call is a no-op.
func (h *WalletHandler) RemovePledge(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	username, _, ok := identity(c)
	if !ok {
		return
	}

	if err := h.settlement.Refund(c.Request.Context(), ventureID, username); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refunded": true})
}

type contributeRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// Contribute handles POST /ventures/:id/contributions
func (h *WalletHandler) Contribute(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	username, displayName, ok := identity(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionContributeFunds); !ok {
		return
	}

	var req contributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.settlement.Contribute(c.Request.Context(), ventureID, username, displayName, req.Amount); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contributed": req.Amount})
}

type purchaseRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Label  string `json:"label" binding:"required"`
}

// RecordPurchase handles POST /ventures/:id/purchases
func (h *WalletHandler) RecordPurchase(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	_, displayName, ok := identity(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionPurchaseSupplies); !ok {
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.settlement.RecordPurchase(c.Request.Context(), ventureID, displayName, req.Amount, req.Label); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"purchased": req.Amount})
}
