package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type weatherBlock struct {
	Temperature  float64 `json:"temperature"`
	Condition    string  `json:"condition"`
	Description  string  `json:"description,omitempty"`
	Icon         string  `json:"icon,omitempty"`
	Location     string  `json:"location"`
	IsBadWeather bool    `json:"is_bad_weather"`
}

func newWeatherBlock(snapshot *models.WeatherSnapshot) *weatherBlock {
	if snapshot == nil {
		return nil
	}
	return &weatherBlock{
		Temperature:  snapshot.Temperature,
		Condition:    snapshot.Condition,
		Description:  snapshot.Description,
		Icon:         snapshot.Icon,
		Location:     snapshot.Location,
		IsBadWeather: snapshot.IsBadWeather,
	}
}

type taskResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Priority    string        `json:"priority"`
	Status      string        `json:"status"`
	Category    string        `json:"category,omitempty"`
	Location    string        `json:"location,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Weather     *weatherBlock `json:"weather,omitempty"`
}

func newTaskResponse(task *models.Task, snapshot *models.WeatherSnapshot) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		Category:    task.Category,
		Location:    task.Location,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Weather:     newWeatherBlock(snapshot),
	}
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("title is required"))
		return
	}

	params := services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Category:    req.Category,
		Location:    req.Location,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, parseErr := parseDueDate(*req.DueDate)
		if parseErr != nil {
			h.logger.Warn().
				Err(parseErr).
				Msg("failed to parse due date")
			abort(c, newBadRequestError("invalid due date, use RFC 3339"))
			return
		}
		params.DueDate = &dueDate
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task, nil))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	filter := repository.ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Keyword:  c.Query("q"),
		SortBy:   c.Query("sort"),
		Order:    c.Query("order"),
	}

	tasks, err := h.tasks.ListTasks(c, filter)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	snapshots := h.weather.AugmentAll(c, tasks)

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task, snapshots[task.ID])
	}

	c.JSON(http.StatusOK, gin.H{"tasks": response})
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id, ok := h.taskIDFromParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	snapshot := h.weather.Augment(c, task)
	c.JSON(http.StatusOK, newTaskResponse(task, snapshot))
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	// DueDate accepts an RFC 3339 timestamp; an empty string
	// clears the due date.
	DueDate  *string `json:"due_date,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Status   *string `json:"status,omitempty"`
	Category *string `json:"category,omitempty"`
	Location *string `json:"location,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id, ok := h.taskIDFromParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("invalid request body"))
		return
	}

	params := services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Category:    req.Category,
		Location:    req.Location,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			params.ClearDueDate = true
		} else {
			dueDate, parseErr := parseDueDate(*req.DueDate)
			if parseErr != nil {
				h.logger.Warn().
					Err(parseErr).
					Msg("failed to parse due date")
				abort(c, newBadRequestError("invalid due date, use RFC 3339"))
				return
			}
			params.DueDate = &dueDate
		}
	}

	task, err := h.tasks.UpdateTask(c, id, params)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, nil))
}

func (h *handlerImpl) HandleToggleTaskStatus(c *gin.Context) {
	id, ok := h.taskIDFromParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleTaskStatus(c, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, nil))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := h.taskIDFromParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleSearchTasks(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		abort(c, newBadRequestError("query parameter 'q' is required"))
		return
	}

	filter := repository.ListFilter{
		Keyword:  keyword,
		Category: c.Query("category"),
	}

	tasks, err := h.tasks.ListTasks(c, filter)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	snapshots := h.weather.AugmentAll(c, tasks)

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task, snapshots[task.ID])
	}

	c.JSON(http.StatusOK, gin.H{"results": response})
}

func (h *handlerImpl) taskIDFromParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError("invalid task id"))
		return 0, false
	}
	return id, true
}

func parseDueDate(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}
