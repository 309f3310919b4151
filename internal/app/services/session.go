package services

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const sweepInterval = time.Minute

// LockerFactory 为每个会话创建各自的锁
type LockerFactory func(sid string) Locker

type session struct {
	query    *QueryService
	lastSeen time.Time
}

// SessionStore 每个浏览器会话持有独立的页面状态和提交锁
type SessionStore struct {
	agent     AgentQuerier
	newLocker LockerFactory
	idleTTL   time.Duration

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
	now       func() time.Time
}

var Sessions *SessionStore

func NewSessionStore(agent AgentQuerier, newLocker LockerFactory, idleTTL time.Duration) *SessionStore {
	if newLocker == nil {
		newLocker = func(string) Locker { return NewLocalLocker() }
	}
	return &SessionStore{
		agent:     agent,
		newLocker: newLocker,
		idleTTL:   idleTTL,
		sessions:  make(map[string]*session),
		now:       time.Now,
	}
}

// Session 返回 sid 对应的查询服务，不存在时创建
func (s *SessionStore) Session(sid string) *QueryService {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	sess, ok := s.sessions[sid]
	if !ok {
		sess = &session{query: NewQueryService(s.agent, s.newLocker(sid))}
		s.sessions[sid] = sess
	}
	sess.lastSeen = now
	return sess.query
}

// Len 当前保留的会话数
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep 回收空闲超时的会话；查询进行中或仍有事件订阅的会话保留
func (s *SessionStore) sweep(now time.Time) {
	if s.idleTTL <= 0 || now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for sid, sess := range s.sessions {
		if now.Sub(sess.lastSeen) < s.idleTTL || sess.query.busy() {
			continue
		}
		delete(s.sessions, sid)
	}
	log.WithField("sessions", len(s.sessions)).Debug("session sweep")
}
