package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cleanup-ventures/internal/permissions"
	"cleanup-ventures/internal/services"
)

// TaskHandler handles venture task endpoints
type TaskHandler struct {
	tasks      *services.TaskService
	membership *services.MembershipService
}

func NewTaskHandler(tasks *services.TaskService, membership *services.MembershipService) *TaskHandler {
	return &TaskHandler{tasks: tasks, membership: membership}
}

// List handles GET /ventures/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionViewVenture); !ok {
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), ventureID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
}

// Create handles POST /ventures/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionCreateTask); !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), ventureID, req.Title, req.Description, req.AssignedTo)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// Complete handles PUT /ventures/:id/tasks/:taskId/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionCompleteTask); !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := h.tasks.Complete(c.Request.Context(), ventureID, taskID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}
