package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"stock-agent-web/internal/app/controllers"
	"stock-agent-web/internal/app/models"
	"stock-agent-web/internal/app/services"
	"stock-agent-web/pkg/util"
)

const pageTitle = "AI Stock Analytics"

type PageController struct {
	sessions SessionQueries
}

func NewPageController(sessions SessionQueries) *PageController {
	return &PageController{sessions: sessions}
}

// Index GET /
func (p *PageController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":   pageTitle,
		"Presets": util.PresetQueries,
		"State":   p.sessions.Session(controllers.SessionID(c)).Current(),
	})
}

// Submit POST /query，无脚本时的表单提交，结果写入状态后回到首页
func (p *PageController) Submit(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	service := p.sessions.Session(controllers.SessionID(c))
	if _, err := service.Submit(c.Request.Context(), req.Input); err != nil {
		var agentErr *services.AgentError
		if !errors.As(err, &agentErr) {
			log.WithError(err).Info("form submission rejected")
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}
