package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/permissions"
	"cleanup-ventures/internal/services"
)

// VentureHandler handles venture lifecycle endpoints
type VentureHandler struct {
	ventures   *services.VentureService
	membership *services.MembershipService
	settlement *services.SettlementService
	logger     *zap.Logger
}

// NewVentureHandler creates a new VentureHandler
func NewVentureHandler(ventures *services.VentureService, membership *services.MembershipService, settlement *services.SettlementService, logger *zap.Logger) *VentureHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VentureHandler{
		ventures:   ventures,
		membership: membership,
		settlement: settlement,
		logger:     logger,
	}
}

type createVentureRequest struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	IsFree             bool     `json:"is_free"`
	Budget             int64    `json:"budget"`
	EAC                int64    `json:"eac"`
	VolunteersRequired int      `json:"volunteers_required"`
	Images             []string `json:"images"`
	OwnerRole          string   `json:"owner_role"`
}

// Create handles POST /ventures
func (h *VentureHandler) Create(c *gin.Context) {
	username, displayName, ok := identity(c)
	if !ok {
		return
	}

	var req createVentureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	venture, err := h.ventures.Create(c.Request.Context(), services.CreateVentureInput{
		Name:               req.Name,
		Description:        req.Description,
		IsFree:             req.IsFree,
		Budget:             req.Budget,
		EAC:                req.EAC,
		VolunteersRequired: req.VolunteersRequired,
		Images:             req.Images,
		OwnerUsername:      username,
		OwnerDisplayName:   displayName,
		OwnerRole:          models.Role(req.OwnerRole),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"venture": venture})
}

// List handles GET /ventures
func (h *VentureHandler) List(c *gin.Context) {
	ventures, err := h.ventures.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ventures": ventures})
}

// Get handles GET /ventures/:id
func (h *VentureHandler) Get(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}

	venture, err := h.ventures.Get(c.Request.Context(), ventureID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venture": venture})
}

type patchVentureRequest struct {
	Name               *string   `json:"name"`
	Description        *string   `json:"description"`
	Images             *[]string `json:"images"`
	VolunteersRequired *int      `json:"volunteers_required"`
	EAC                *int64    `json:"eac"`
}

// Patch handles PATCH /ventures/:id. Used for gallery and detail edits.
func (h *VentureHandler) Patch(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionAddPhoto); !ok {
		return
	}

	var req patchVentureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	venture, err := h.ventures.Patch(c.Request.Context(), ventureID, services.PatchVentureInput{
		Name:               req.Name,
		Description:        req.Description,
		Images:             req.Images,
		VolunteersRequired: req.VolunteersRequired,
		EAC:                req.EAC,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"venture": venture})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /ventures/:id/status. Marking a venture
// finished runs the completion settlement.
func (h *VentureHandler) UpdateStatus(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionChangeVentureStatus); !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	venture, err := h.ventures.UpdateStatus(c.Request.Context(), ventureID, models.VentureStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"venture": venture})
}

// GetLedger handles GET /ventures/:id/ledger
func (h *VentureHandler) GetLedger(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionViewWallet); !ok {
		return
	}

	transactions, err := h.settlement.GetLedger(c.Request.Context(), ventureID)
	if err != nil {
		handleError(c, err)
		return
	}

	balance, err := h.settlement.GetVentureBalance(c.Request.Context(), ventureID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":      balance,
		"transactions": transactions,
	})
}
