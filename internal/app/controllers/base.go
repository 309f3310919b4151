package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-agent-web/internal/app/models"
	"stock-agent-web/internal/app/services"
)

// SessionKey gin 上下文中保存会话 ID 的键
const SessionKey = "session_id"

// SessionID 当前请求所属的浏览器会话
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}

func Response(c *gin.Context, code int, message string, data interface{}) {
	if nil == data {
		data = struct {
		}{}
	}
	resp := &models.RespValue{
		Code: code,
		Msg:  message,
		Data: data,
	}
	c.JSON(http.StatusOK, resp)
}

// ResponseDetail 与 agent 后端一致的错误体 {"detail": "..."}
func ResponseDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, models.ErrorBody{Detail: detail})
}

func Health(c *gin.Context) {
	info := services.SuccessInfo()
	Response(c, info.Code, info.Msg, gin.H{"status": "ok"})
}
