package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"stock-agent-web/internal/app/models"
	"stock-agent-web/pkg/config"
	"stock-agent-web/pkg/util"
)

const networkErrorMsg = "Network Error"

// 后端错误体中依次读取的字段
var errorBodyFields = []string{"detail", "error", "message"}

// AgentError 请求层面的错误，Message 可直接展示给用户
type AgentError struct {
	Status  int // 0 表示没有收到响应
	Message string
	Err     error
}

func (e *AgentError) Error() string {
	return e.Message
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// ErrorMessage 将任意错误转换为一条可读信息
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var agentErr *AgentError
	if errors.As(err, &agentErr) && agentErr.Message != "" {
		return agentErr.Message
	}
	return err.Error()
}

// AgentQuerier 查询后端 agent
type AgentQuerier interface {
	Query(ctx context.Context, input string) (models.RawAgentResponse, error)
}

// ChartImage 代理返回的图表
type ChartImage struct {
	ContentType string
	Body        []byte
}

type AgentClient struct {
	client     *req.Client
	queryPath  string
	inputField string
	timeout    time.Duration
	limiter    *rate.Limiter
}

var AgentApi *AgentClient

// NewAgentClient 超时是唯一由客户端决定的行为，其余都交给后端
func NewAgentClient(conf config.Agent) *AgentClient {
	client := req.C().
		SetBaseURL(strings.TrimRight(conf.BaseUrl, "/")).
		SetTimeout(conf.Timeout).
		SetUserAgent("stock-agent-web").
		SetLogger(log.StandardLogger())
	if strings.Contains(config.GetRunMode(), "dev") {
		client.EnableDumpAllWithoutResponseBody()
	}

	var limiter *rate.Limiter
	if conf.Qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(conf.Qps), 1)
	}
	return &AgentClient{
		client:     client,
		queryPath:  conf.QueryPath,
		inputField: conf.InputField,
		timeout:    conf.Timeout,
		limiter:    limiter,
	}
}

// Query 发送一次查询，HTTP 错误和网络错误都以 *AgentError 返回
func (c *AgentClient) Query(ctx context.Context, input string) (models.RawAgentResponse, error) {
	requestID := RequestIDFrom(ctx)
	logger := log.WithFields(log.Fields{"request_id": requestID, "path": c.queryPath})

	if err := c.wait(ctx); err != nil {
		return models.RawAgentResponse{}, err
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", requestID).
		SetBody(map[string]string{c.inputField: input}).
		Post(c.queryPath)
	if err != nil {
		logger.WithError(err).Warn("agent request failed")
		return models.RawAgentResponse{}, c.transportError(err)
	}

	body := resp.Bytes()
	logger.WithFields(log.Fields{
		"status":   resp.GetStatusCode(),
		"bytes":    len(body),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("agent responded")

	if resp.IsErrorState() {
		return models.RawAgentResponse{}, &AgentError{
			Status:  resp.GetStatusCode(),
			Message: errorMessageFromBody(resp.GetStatusCode(), body),
		}
	}
	return ParseAgentResponse(body), nil
}

// FetchChart 从后端读取 /static/charts 下的图片
func (c *AgentClient) FetchChart(ctx context.Context, name string) (*ChartImage, error) {
	clean := path.Clean("/" + strings.TrimLeft(name, "/"))
	if clean == "/" || strings.Contains(clean, "..") {
		return nil, &AgentError{Status: http.StatusBadRequest, Message: "invalid chart path"}
	}
	target := strings.TrimRight(util.ChartPrefix, "/") + clean

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", RequestIDFrom(ctx)).
		Get(target)
	if err != nil {
		return nil, c.transportError(err)
	}
	if resp.IsErrorState() {
		return nil, &AgentError{
			Status:  resp.GetStatusCode(),
			Message: fmt.Sprintf("Request failed with status code %d", resp.GetStatusCode()),
		}
	}
	contentType := resp.GetHeader("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return &ChartImage{ContentType: contentType, Body: resp.Bytes()}, nil
}

func (c *AgentClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &AgentError{Message: networkErrorMsg, Err: err}
	}
	return nil
}

func (c *AgentClient) transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &AgentError{
			Message: fmt.Sprintf("timeout of %dms exceeded", c.timeout.Milliseconds()),
			Err:     err,
		}
	}
	return &AgentError{Message: networkErrorMsg, Err: err}
}

// errorMessageFromBody 依次取 detail / error / message，都没有时序列化整个错误体
func errorMessageFromBody(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Sprintf("Request failed with status code %d", status)
	}
	if !gjson.ValidBytes(trimmed) {
		return string(trimmed)
	}
	root := gjson.ParseBytes(trimmed)
	if root.IsObject() {
		for _, key := range errorBodyFields {
			v := root.Get(key)
			if !v.Exists() || v.Type == gjson.Null {
				continue
			}
			if text := textOf(v); text != "" {
				return text
			}
		}
	}
	return util.CompactJSON(trimmed)
}

type requestIDKey struct{}

// WithRequestID 将请求 ID 放入 context，出站请求会带上同一个 ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom 没有时生成一个新的
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
