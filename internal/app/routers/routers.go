package routers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"stock-agent-web/internal/app/controllers"
	v1 "stock-agent-web/internal/app/controllers/v1"
	"stock-agent-web/internal/app/services"
	"stock-agent-web/internal/app/views"
)

const (
	requestIDHeader = "X-Request-Id"
	sessionCookie   = "stockweb_sid"
	sessionMaxAge   = 7 * 24 * 3600
)

var apiOnce sync.Once
var g *gin.Engine

func SetUp() *gin.Engine {
	apiOnce.Do(func() {
		g = NewRouter(services.Sessions, services.AgentApi)
	})

	return g
}

func NewRouter(sessions v1.SessionQueries, charts v1.ChartFetcher) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery(), sessionMiddleware())
	r.SetHTMLTemplate(views.Templates())

	page := v1.NewPageController(sessions)
	r.GET("/", page.Index)
	r.POST("/query", page.Submit)
	r.GET("/health", controllers.Health)
	r.StaticFS("/assets", http.FS(views.Assets()))

	chart := v1.NewChartController(charts)
	r.GET("/static/charts/*filepath", chart.Get)

	controller := v1.NewQueryController(sessions)
	apiGroup := r.Group("/api", corsMiddleware())
	{
		apiGroup.POST("/query", controller.Query)
		apiGroup.GET("/state", controller.State)
		apiGroup.GET("/events", controller.Events)
		apiGroup.OPTIONS("/*any", func(c *gin.Context) {})
	}

	return r
}

// requestLogger 为每个请求分配 request_id，出站调用沿用同一个 ID
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(services.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)

		c.Next()

		entry := log.WithFields(log.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"session":    c.GetString(controllers.SessionKey),
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).Round(time.Millisecond),
		})
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Info("request")
	}
}

// sessionMiddleware 每个浏览器一个会话 ID，页面状态和提交锁都按会话隔离
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err == nil {
			_, err = uuid.Parse(sid)
		}
		if err != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sid, sessionMaxAge, "/", "", false, true)
		}
		c.Set(controllers.SessionKey, sid)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
