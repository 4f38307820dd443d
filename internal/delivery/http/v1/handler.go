package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type Handler interface {
	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTaskStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleSearchTasks(c *gin.Context)
	HandleGetStats(c *gin.Context)
}

type handlerImpl struct {
	logger  zerolog.Logger
	tasks   services.TaskService
	weather services.WeatherAugmenter
	stats   services.StatsService
}

func New(
	logger zerolog.Logger,
	tasks services.TaskService,
	weather services.WeatherAugmenter,
	stats services.StatsService,
) Handler {
	return &handlerImpl{
		logger:  logger,
		tasks:   tasks,
		weather: weather,
		stats:   stats,
	}
}
