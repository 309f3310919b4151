package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"stock-agent-web/internal/app/controllers"
	"stock-agent-web/internal/app/models"
	"stock-agent-web/internal/app/services"
	"stock-agent-web/internal/pkg/code"
	"stock-agent-web/pkg/util"
)

const heartbeatInterval = 30 * time.Second

// QueryRunner 单个会话的查询状态持有者
type QueryRunner interface {
	Submit(ctx context.Context, query string) (*models.ViewState, error)
	Current() *models.ViewState
	Subscribe() (<-chan *models.ViewState, func())
}

// SessionQueries 按会话 ID 取得各自的查询状态
type SessionQueries interface {
	Session(sid string) *services.QueryService
}

type QueryController struct {
	sessions  SessionQueries
	heartbeat time.Duration
}

func NewQueryController(sessions SessionQueries) *QueryController {
	return &QueryController{sessions: sessions, heartbeat: heartbeatInterval}
}

func (q *QueryController) service(c *gin.Context) QueryRunner {
	return q.sessions.Session(controllers.SessionID(c))
}

// Query POST /api/query，成功返回规范化结果，失败返回 {"detail": ...}
func (q *QueryController) Query(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.ResponseDetail(c, code.ParamErr, "invalid request body: "+err.Error())
		return
	}

	state, err := q.service(c).Submit(c.Request.Context(), req.Input)
	if err != nil {
		controllers.ResponseDetail(c, submitStatus(err), services.ErrorMessage(err))
		return
	}
	c.JSON(http.StatusOK, state.Result)
}

// State GET /api/state
func (q *QueryController) State(c *gin.Context) {
	c.JSON(http.StatusOK, q.service(c).Current())
}

// Events GET /api/events，先推送当前状态，之后推送每次状态迁移
func (q *QueryController) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	service := q.service(c)
	events, cancel := service.Subscribe()
	defer cancel()

	if err := util.WriteState(c.Writer, service.Current()); err != nil {
		return
	}

	ticker := time.NewTicker(q.heartbeat)
	defer ticker.Stop()
	clientGone := c.Request.Context().Done()
	for {
		var err error
		select {
		case <-clientGone:
			return
		case state := <-events:
			err = util.WriteState(c.Writer, state)
		case <-ticker.C:
			err = util.WriteHeartbeat(c.Writer)
		}
		if err != nil {
			log.WithError(err).Debug("event stream closed")
			return
		}
	}
}

func submitStatus(err error) int {
	var agentErr *services.AgentError
	switch {
	case errors.Is(err, services.ErrEmptyQuery):
		return code.ParamErr
	case errors.Is(err, services.ErrQueryInFlight):
		return code.Conflict
	case errors.As(err, &agentErr):
		return code.AgentErr
	default:
		return code.HTTPStatusErr
	}
}
