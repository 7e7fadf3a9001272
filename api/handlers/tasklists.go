package handlers

import (
	"net/http"

	"todoai-api/api/middleware"
	"todoai-api/internal/common"
	"todoai-api/internal/tasklist"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

type TaskListHandler struct {
	svc    tasklist.Service
	logger *logger.Logger
}

func NewTaskListHandler(svc tasklist.Service, logger *logger.Logger) *TaskListHandler {
	return &TaskListHandler{svc: svc, logger: logger}
}

type createTaskListRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type createTaskRequest struct {
	ListID      common.TaskListID `json:"listId" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Priority    common.Priority   `json:"priority"`
	Category    string            `json:"category"`
}

func (h *TaskListHandler) List(c *gin.Context) {
	lists, err := h.svc.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taskLists": lists})
}

func (h *TaskListHandler) Get(c *gin.Context) {
	list, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), common.TaskListID(c.Param("id")))
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taskList": list})
}

func (h *TaskListHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), common.TaskListID(c.Param("id"))); err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskListHandler) ToggleTask(c *gin.Context) {
	task, err := h.svc.ToggleTask(c.Request.Context(), middleware.UserID(c), common.TaskID(c.Param("id")))
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskListHandler) Create(c *gin.Context) {
	var req createTaskListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.svc.CreateList(c.Request.Context(), middleware.UserID(c), tasklist.NewTaskListInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"taskList": list})
}

func (h *TaskListHandler) Update(c *gin.Context) {
	var req tasklist.TaskListUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.svc.UpdateList(c.Request.Context(), middleware.UserID(c), common.TaskListID(c.Param("id")), req)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taskList": list})
}

func (h *TaskListHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Priority == "" {
		req.Priority = common.PriorityMedium
	}
	if !req.Priority.IsValid() {
		respondError(c, middleware.LoggerFrom(c, h.logger), common.ValidationError{Field: "priority", Message: "priority must be low, medium or high"})
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), middleware.UserID(c), tasklist.NewTaskInput{
		ListID:      req.ListID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskListHandler) ListTasks(c *gin.Context) {
	h.listTasks(c, tasklist.TaskFilter{})
}

func (h *TaskListHandler) ListCompletedTasks(c *gin.Context) {
	completed := true
	h.listTasks(c, tasklist.TaskFilter{Completed: &completed})
}

func (h *TaskListHandler) ListPendingTasks(c *gin.Context) {
	completed := false
	h.listTasks(c, tasklist.TaskFilter{Completed: &completed})
}

func (h *TaskListHandler) listTasks(c *gin.Context, filter tasklist.TaskFilter) {
	tasks, err := h.svc.ListTasks(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskListHandler) GetTask(c *gin.Context) {
	task, err := h.svc.GetTask(c.Request.Context(), middleware.UserID(c), common.TaskID(c.Param("id")))
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskListHandler) UpdateTask(c *gin.Context) {
	var req tasklist.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), middleware.UserID(c), common.TaskID(c.Param("id")), req)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskListHandler) DeleteTask(c *gin.Context) {
	if err := h.svc.DeleteTask(c.Request.Context(), middleware.UserID(c), common.TaskID(c.Param("id"))); err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.Status(http.StatusNoContent)
}

