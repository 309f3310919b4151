package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"stock-agent-web/internal/app/routers"
	"stock-agent-web/internal/app/services"
	"stock-agent-web/internal/pkg/logger"
	"stock-agent-web/internal/pkg/storage"
	"stock-agent-web/pkg/config"
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "config file path")
	flag.Parse()

	if err := config.Init(*confPath); err != nil {
		log.Fatalf("load config fail: %v", err)
	}
	logConf := config.GetLogConf()
	if err := logger.Init(logConf.Level, logConf.File); err != nil {
		log.Fatalf("init logger fail: %v", err)
	}
	if config.GetRunMode() != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := services.Init(); err != nil {
		log.Fatalf("init services fail: %v", err)
	}

	serverConf := config.GetServerConf()
	srv := &http.Server{
		Addr:         serverConf.Addr,
		Handler:      routers.SetUp(),
		ReadTimeout:  serverConf.ReadTimeout,
		WriteTimeout: serverConf.WriteTimeout,
	}

	go func() {
		log.WithFields(log.Fields{
			"addr":  serverConf.Addr,
			"agent": config.GetAgentConf().BaseUrl,
		}).Info("stock-agent-web started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen fail: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if storage.RDB != nil {
		_ = storage.RDB.Close()
	}
}
