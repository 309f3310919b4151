package config

import "time"

var (
	serverConf Server
	logConf    Log
)

type Server struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	// 浏览器会话空闲多久后回收其页面状态
	SessionTTL   time.Duration `mapstructure:"sessionTTL"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func GetServerConf() Server {
	return serverConf
}

func GetLogConf() Log {
	return logConf
}
