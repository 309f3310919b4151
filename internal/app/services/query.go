package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"stock-agent-web/internal/app/models"
	"stock-agent-web/internal/pkg/code"
	"stock-agent-web/pkg/mdlite"
)

var (
	ErrEmptyQuery    = errors.New(code.MsgParamErr)
	ErrQueryInFlight = errors.New(code.MsgInFlight)
)

// Locker 保证同一时间只有一个查询在进行
type Locker interface {
	// Acquire 锁已被占用时返回 ErrQueryInFlight，不等待
	Acquire(ctx context.Context) (release func(), err error)
}

type localLocker struct {
	mu sync.Mutex
}

func NewLocalLocker() Locker {
	return &localLocker{}
}

func (l *localLocker) Acquire(_ context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrQueryInFlight
	}
	return l.mu.Unlock, nil
}

// redisLocker 多个实例部署时，同一会话的提交通过 redis 共享一把锁
type redisLocker struct {
	rs     *redsync.Redsync
	name   string
	expiry time.Duration
}

func NewRedisLocker(client *redis.Client, name string, expiry time.Duration) Locker {
	return &redisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		name:   name,
		expiry: expiry,
	}
}

func (l *redisLocker) Acquire(ctx context.Context) (func(), error) {
	mutex := l.rs.NewMutex(l.name, redsync.WithExpiry(l.expiry), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, ErrQueryInFlight
		}
		return nil, fmt.Errorf("acquire query lock: %w", err)
	}
	return func() {
		if _, err := mutex.UnlockContext(context.Background()); err != nil {
			log.WithError(err).Warn("release query lock failed")
		}
	}, nil
}

// QueryService 单个浏览器会话页面状态的唯一持有者，状态记录只整体替换
type QueryService struct {
	agent  AgentQuerier
	locker Locker

	state atomic.Pointer[models.ViewState]

	mu     sync.Mutex
	nextID int
	subs   map[int]chan *models.ViewState
}

func NewQueryService(agent AgentQuerier, locker Locker) *QueryService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	s := &QueryService{
		agent:  agent,
		locker: locker,
		subs:   make(map[int]chan *models.ViewState),
	}
	s.state.Store(&models.ViewState{
		ID:        uuid.NewString(),
		Status:    models.StatusIdle,
		UpdatedAt: time.Now(),
	})
	return s
}

// Current 当前状态，调用方不得修改返回值
func (s *QueryService) Current() *models.ViewState {
	return s.state.Load()
}

// Subscribe 订阅状态迁移，只保留最新一条未读状态
func (s *QueryService) Subscribe() (<-chan *models.ViewState, func()) {
	ch := make(chan *models.ViewState, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Submit 执行一次查询。被拒绝的提交（空查询、已有查询在进行）不改变状态；
// 后端失败时保留上一次的结果，只设置错误信息
func (s *QueryService) Submit(ctx context.Context, query string) (*models.ViewState, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	prev := s.Current()
	s.publish(&models.ViewState{
		Status:  models.StatusLoading,
		Loading: true,
		Query:   query,
		Result:  prev.Result,
	})

	logger := log.WithFields(log.Fields{"request_id": RequestIDFrom(ctx), "query": query})
	// 用户离开页面不取消请求，只受客户端超时约束
	raw, err := s.agent.Query(context.WithoutCancel(ctx), query)
	if err != nil {
		logger.WithError(err).Warn("query failed")
		return s.publish(&models.ViewState{
			Status: models.StatusFailure,
			Query:  query,
			Result: prev.Result,
			Error:  ErrorMessage(err),
		}), err
	}

	result := Normalize(raw)
	result.SummaryHTML = mdlite.Render(result.Summary)
	logger.WithField("charts", len(result.ChartURLs)).Info("query succeeded")
	return s.publish(&models.ViewState{
		Status: models.StatusSuccess,
		Query:  query,
		Result: &result,
	}), nil
}

// busy 查询进行中或仍有订阅方
func (s *QueryService) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) > 0 || s.state.Load().Loading
}

func (s *QueryService) publish(state *models.ViewState) *models.ViewState {
	state.ID = uuid.NewString()
	state.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Store(state)
	for _, ch := range s.subs {
		select {
		case ch <- state:
		default:
			// 订阅方未及时读取，丢弃旧状态
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}
