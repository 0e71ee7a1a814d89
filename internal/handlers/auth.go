package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cleanup-ventures/internal/auth"
)

// AuthHandler issues tokens. Identity is assumed given by the surrounding
// app; this endpoint is the thin carrier that turns it into a bearer token.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type tokenRequest struct {
	AuthUsername string `json:"auth_username" binding:"required"`
	DisplayName  string `json:"display_name"`
}

// Token handles POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.AuthUsername
	}

	token, err := auth.GenerateToken(req.AuthUsername, displayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
