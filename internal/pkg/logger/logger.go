package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Init 初始化全局 logrus，filePath 非空时同时写入文件
func Init(levelStr string, filePath string) error {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := log.ParseLevel(levelStr)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	writers := []io.Writer{os.Stdout}
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}
