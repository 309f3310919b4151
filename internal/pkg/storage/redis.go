package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"stock-agent-web/pkg/config"
)

var RDB *redis.Client

// InitRedis 未配置地址时返回 nil，调用方回退到进程内锁
func InitRedis(ctx context.Context) (*redis.Client, error) {
	if RDB != nil {
		return RDB, nil
	}
	conf := config.GetRedisConf()
	if conf.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         conf.Addr,
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Errorf("redis connect fail:%s", err.Error())
		return nil, fmt.Errorf("connect redis %s: %w", conf.Addr, err)
	}
	RDB = client
	log.Info("redis connection success")
	return RDB, nil
}
