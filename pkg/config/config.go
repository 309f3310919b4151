package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	loadMu  sync.Mutex
	runMode string
)

type bootstrap struct {
	RunMode string `mapstructure:"runMode"`
	Server  Server `mapstructure:"server"`
	Agent   Agent  `mapstructure:"agent"`
	Redis   Redis  `mapstructure:"redis"`
	Log     Log    `mapstructure:"log"`
}

// Init 加载配置文件，.env 与 STOCKWEB_ 前缀的环境变量会覆盖文件中的值
func Init(path string) error {
	loadMu.Lock()
	defer loadMu.Unlock()

	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("STOCKWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var bc bootstrap
	if err := v.Unmarshal(&bc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := bc.Agent.validate(); err != nil {
		return err
	}

	runMode = bc.RunMode
	serverConf = bc.Server
	agentConf = bc.Agent
	redisConf = bc.Redis
	logConf = bc.Log
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runMode", "release")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.readTimeout", "15s")
	v.SetDefault("server.writeTimeout", "150s")
	v.SetDefault("server.sessionTTL", "30m")

	v.SetDefault("agent.baseUrl", "http://127.0.0.1:8000")
	v.SetDefault("agent.queryPath", "/api/agent/query")
	v.SetDefault("agent.inputField", "input")
	v.SetDefault("agent.timeout", "120s")
	v.SetDefault("agent.qps", 0)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lockKey", "stock-agent-web:query:inflight")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	// 没有默认值的 key 需显式绑定，否则 AutomaticEnv 不会在 Unmarshal 时读取
	_ = v.BindEnv("redis.password")
}

func GetRunMode() string {
	return runMode
}
