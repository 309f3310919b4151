package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-agent-web/internal/app/controllers"
	"stock-agent-web/internal/app/services"
)

type ChartFetcher interface {
	FetchChart(ctx context.Context, name string) (*services.ChartImage, error)
}

// ChartController 将 /static/charts/* 转发到 agent 后端，页面与图表保持同源
type ChartController struct {
	fetcher ChartFetcher
}

func NewChartController(fetcher ChartFetcher) *ChartController {
	return &ChartController{fetcher: fetcher}
}

func (ch *ChartController) Get(c *gin.Context) {
	img, err := ch.fetcher.FetchChart(c.Request.Context(), c.Param("filepath"))
	if err != nil {
		status := http.StatusBadGateway
		var agentErr *services.AgentError
		if errors.As(err, &agentErr) && agentErr.Status > 0 {
			status = agentErr.Status
		}
		controllers.ResponseDetail(c, status, services.ErrorMessage(err))
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, img.ContentType, img.Body)
}
