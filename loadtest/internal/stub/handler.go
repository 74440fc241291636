package stub

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/pushgateway"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/taskqueue"
)

const taskNameHeader = "X-CloudTasks-TaskName"

// Handler serves the Primind Tasks and push gateway surfaces used by the
// reminder service, plus control endpoints for load runs.
type Handler struct {
	storage    *Storage
	httpClient *http.Client
	now        func() time.Time
}

func NewHandler(storage *Storage) *Handler {
	return &Handler{
		storage:    storage,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/tasks", h.HandleCreateTask)
	r.POST("/tasks/:queue", h.HandleCreateTask)
	r.DELETE("/tasks/:queue", h.HandleDeleteDefaultQueueTask)
	r.DELETE("/tasks/:queue/:id", h.HandleDeleteTask)

	r.POST("/api/v1/notifications", h.HandleNotification)

	stub := r.Group("/stub")
	stub.GET("/tasks", h.HandleListTasks)
	stub.GET("/messages", h.HandleListMessages)
	stub.POST("/dispatch", h.HandleDispatch)
	stub.POST("/reset", h.HandleReset)
}

func (h *Handler) HandleReset(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	h.storage.Reset(runID)

	slog.Info("reset data", slog.String("run_id", runID))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": runID,
	})
}

// POST /tasks/:queue
func (h *Handler) HandleCreateTask(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)
	queue := c.Param("queue")
	if queue == "" {
		queue = "default"
	}

	var req taskqueue.PrimindTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := base64.StdEncoding.DecodeString(req.Task.HTTPRequest.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be base64 encoded"})
		return
	}

	now := h.now().UTC()
	scheduleTime := now
	if req.Task.ScheduleTime != "" {
		scheduleTime, err = time.Parse(time.RFC3339, req.Task.ScheduleTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduleTime: " + req.Task.ScheduleTime})
			return
		}
	}

	name := req.Task.Name
	if name == "" {
		name = fmt.Sprintf("stub-%d", now.UnixNano())
	}

	task := StoredTask{
		Name:         name,
		Queue:        queue,
		URL:          req.Task.HTTPRequest.URL,
		Body:         body,
		Headers:      req.Task.HTTPRequest.Headers,
		ScheduleTime: scheduleTime.UTC(),
		CreateTime:   now,
	}
	if !h.storage.AddTask(runID, task) {
		c.JSON(http.StatusConflict, gin.H{"error": "task already exists: " + name})
		return
	}

	slog.Debug("task registered",
		slog.String("run_id", runID),
		slog.String("queue", queue),
		slog.String("task_name", name),
		slog.Time("schedule_time", task.ScheduleTime),
	)

	c.JSON(http.StatusCreated, taskqueue.PrimindTaskResponse{
		Name:         name,
		ScheduleTime: task.ScheduleTime.Format(time.RFC3339),
		CreateTime:   now.Format(time.RFC3339),
	})
}

// DELETE /tasks/:id on the default queue shares the wildcard with /tasks/:queue.
func (h *Handler) HandleDeleteDefaultQueueTask(c *gin.Context) {
	h.deleteTask(c, c.Param("queue"))
}

// DELETE /tasks/:queue/:id
func (h *Handler) HandleDeleteTask(c *gin.Context) {
	h.deleteTask(c, c.Param("id"))
}

func (h *Handler) deleteTask(c *gin.Context, name string) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	if !h.storage.DeleteTask(runID, name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	slog.Debug("task deleted",
		slog.String("run_id", runID),
		slog.String("task_name", name),
	)

	c.Status(http.StatusNoContent)
}

// POST /api/v1/notifications
func (h *Handler) HandleNotification(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	var msg pushgateway.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.storage.AddMessage(runID, ReceivedMessage{
		UserID:     msg.UserID,
		Identifier: msg.Identifier,
		Title:      msg.Title,
		Body:       msg.Body,
		Category:   msg.Category,
		FiredAt:    msg.FiredAt,
		ReceivedAt: h.now().UTC(),
	})

	slog.Debug("notification received",
		slog.String("run_id", runID),
		slog.String("user_id", msg.UserID),
		slog.String("identifier", msg.Identifier),
	)

	c.Status(http.StatusAccepted)
}

// GET /stub/tasks?run_id=...
func (h *Handler) HandleListTasks(c *gin.Context) {
	tasks := h.storage.Tasks(c.DefaultQuery("run_id", defaultRunID))
	c.JSON(http.StatusOK, TasksResponse{Tasks: tasks, Count: len(tasks)})
}

// GET /stub/messages?run_id=...
func (h *Handler) HandleListMessages(c *gin.Context) {
	messages := h.storage.Messages(c.DefaultQuery("run_id", defaultRunID))
	c.JSON(http.StatusOK, MessagesResponse{Messages: messages, Count: len(messages)})
}

// POST /stub/dispatch?run_id=...&until=...
// Delivers every task scheduled at or before until (default now) to its
// callback URL.
func (h *Handler) HandleDispatch(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	until := h.now()
	if untilStr := c.Query("until"); untilStr != "" {
		parsed, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid until time format"})
			return
		}
		until = parsed
	}

	resp := DispatchResponse{Failed: []string{}}
	for _, task := range h.storage.TakeDue(runID, until) {
		if err := h.dispatch(c.Request.Context(), task); err != nil {
			slog.Warn("task dispatch failed",
				slog.String("run_id", runID),
				slog.String("task_name", task.Name),
				slog.String("error", err.Error()),
			)
			resp.Failed = append(resp.Failed, task.Name)
			continue
		}
		resp.Dispatched++
	}

	slog.Info("dispatched tasks",
		slog.String("run_id", runID),
		slog.Int("dispatched", resp.Dispatched),
		slog.Int("failed", len(resp.Failed)),
	)

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) dispatch(ctx context.Context, task StoredTask) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, task.URL, bytes.NewReader(task.Body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range task.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(taskNameHeader, task.Name)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
