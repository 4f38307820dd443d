package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type statsResponse struct {
	Total          int64            `json:"total"`
	Pending        int64            `json:"pending"`
	Completed      int64            `json:"completed"`
	Overdue        int64            `json:"overdue"`
	CompletionRate float64          `json:"completion_rate"`
	ByCategory     map[string]int64 `json:"by_category"`
	ByPriority     map[string]int64 `json:"by_priority"`
}

func (h *handlerImpl) HandleGetStats(c *gin.Context) {
	stats, err := h.stats.GetStats(c)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statsResponse{
		Total:          stats.Total,
		Pending:        stats.Pending,
		Completed:      stats.Completed,
		Overdue:        stats.Overdue,
		CompletionRate: stats.CompletionRate,
		ByCategory:     stats.ByCategory,
		ByPriority:     stats.ByPriority,
	})
}
