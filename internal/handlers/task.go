package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskplanner/internal/auth"
	dom "taskplanner/internal/domain"
	"taskplanner/internal/dto"
	"taskplanner/internal/service"

	"github.com/gin-gonic/gin"
)

const msgInvalidDateFormat = "Invalid date format. Use YYYY-MM-DD."

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingFieldErrors(err))
		return
	}
	start := req.StartDate.Ptr()
	if start == nil {
		c.JSON(http.StatusBadRequest, gin.H{"start_date": "Start date is required."})
		return
	}

	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Create(c.Request.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   *start,
		DueDate:     req.DueDate.Ptr(),
		Completed:   req.Completed,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// List handles GET /tasks.
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// GetByID handles GET /tasks/:id.
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Update handles PATCH and PUT /tasks/:id. Both merge onto the stored task;
// a PUT body simply carries every field.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingFieldErrors(err))
		return
	}
	patch := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.StartDate.Set() {
		p := req.StartDate.Ptr()
		if p == nil {
			c.JSON(http.StatusBadRequest, gin.H{"start_date": "Start date may not be null."})
			return
		}
		patch.StartDate = p
	}
	if req.DueDate.Set() {
		patch.DueDateSet = true
		patch.DueDate = req.DueDate.Ptr()
	}

	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search handles GET /tasks/search?start=YYYY-MM-DD&end=YYYY-MM-DD. Both
// parameters are optional; start is checked first and parsing stops at the
// first invalid one.
func (h *TaskHandler) Search(c *gin.Context) {
	var start, end *time.Time
	if raw := c.Query("start"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidDateFormat})
			return
		}
		start = &parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidDateFormat})
			return
		}
		end = &parsed
	}

	list, err := h.svc.Search(c.Request.Context(), auth.UserIDFromContext(c), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

func (h *TaskHandler) writeError(c *gin.Context, err error) {
	if ve := service.AsValidationError(err); ve != nil {
		c.JSON(http.StatusBadRequest, ve.Fields)
		return
	}
	if errors.Is(err, service.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseDateParam(raw string) (time.Time, error) {
	parsed, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		StartDate:   t.StartDate.Format(dto.DateLayout),
		Completed:   t.Completed,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(dto.DateLayout)
		resp.DueDate = &due
	}
	return resp
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
