package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/permissions"
	"cleanup-ventures/internal/services"
)

// RequestHandler handles join-request endpoints
type RequestHandler struct {
	requests   *services.RequestService
	membership *services.MembershipService
	logger     *zap.Logger
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requests *services.RequestService, membership *services.MembershipService, logger *zap.Logger) *RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestHandler{requests: requests, membership: membership, logger: logger}
}

type submitRequestBody struct {
	Role      string `json:"role" binding:"required"`
	Privilege string `json:"privilege"`
	Pitch     int64  `json:"pitch"`
}

// Submit handles POST /ventures/:id/requests
func (h *RequestHandler) Submit(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	username, displayName, ok := identity(c)
	if !ok {
		return
	}

	var body submitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	request, err := h.requests.Submit(c.Request.Context(), services.SubmitJoinRequestInput{
		VentureID:    ventureID,
		AuthUsername: username,
		DisplayName:  displayName,
		Role:         models.Role(body.Role),
		Privilege:    models.Privilege(body.Privilege),
		Pitch:        body.Pitch,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": request})
}

// List handles GET /ventures/:id/requests
func (h *RequestHandler) List(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionViewRequests); !ok {
		return
	}

	requests, err := h.requests.ListForVenture(c.Request.Context(), ventureID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// HasPending handles GET /ventures/:id/requests/pending. Scoped strictly
// to the caller's identity.
func (h *RequestHandler) HasPending(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	username, _, ok := identity(c)
	if !ok {
		return
	}

	pending, err := h.requests.HasPendingRequest(c.Request.Context(), ventureID, username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

type decideRequestBody struct {
	Outcome string `json:"outcome" binding:"required"` // "approved" or "denied"
}

// Decide handles PUT /ventures/:id/requests/:requestId
func (h *RequestHandler) Decide(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionManageRequests); !ok {
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	var body decideRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var request *models.JoinRequest
	switch body.Outcome {
	case "approved":
		request, err = h.requests.Approve(c.Request.Context(), ventureID, requestID)
	case "denied":
		request, err = h.requests.Deny(c.Request.Context(), ventureID, requestID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Outcome must be approved or denied"})
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}
