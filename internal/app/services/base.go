package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"stock-agent-web/internal/app/models"
	"stock-agent-web/internal/pkg/code"
	"stock-agent-web/internal/pkg/storage"
	"stock-agent-web/pkg/config"
)

var initOnce sync.Once

// 分布式锁比客户端超时多留一些时间，避免请求未结束锁就过期
const lockExpiryMargin = 30 * time.Second

func Init() error {
	var err error
	initOnce.Do(func() {
		agentConf := config.GetAgentConf()
		AgentApi = NewAgentClient(agentConf)

		newLocker := func(string) Locker { return NewLocalLocker() }
		rdb, e := storage.InitRedis(context.Background())
		if e != nil {
			err = e
			return
		}
		if rdb != nil {
			lockKey := config.GetRedisConf().LockKey
			expiry := agentConf.Timeout + lockExpiryMargin
			newLocker = func(sid string) Locker {
				return NewRedisLocker(rdb, lockKey+":"+sid, expiry)
			}
			log.Info("query guard: redis lock per session")
		} else {
			log.Info("query guard: in-process lock per session")
		}
		Sessions = NewSessionStore(AgentApi, newLocker, config.GetServerConf().SessionTTL)
	})
	return err
}

var successInfo = models.RespInfo{
	Code: code.Success,
	Msg:  code.MsgSuccess,
}

// SuccessInfo 健康检查等简单接口的返回体
func SuccessInfo() models.RespInfo {
	return successInfo
}
