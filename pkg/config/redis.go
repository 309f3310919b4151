package config

var redisConf Redis

// Redis 为空 Addr 时不启用分布式锁
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	LockKey  string `mapstructure:"lockKey"`
}

func GetRedisConf() Redis {
	return redisConf
}
