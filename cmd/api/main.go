package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"maitri-diet/internal/api"
	"maitri-diet/internal/core/cache"
	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

const shutdownTimeout = 20 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	store, err := cache.NewStore(&cfg.Cache)
	if err != nil {
		common.LogFatal("快取初始化失敗", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	svcs := api.NewServices(cfg, store)
	router := api.SetupRouter(cfg, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	// 等待背景儲存完成，最多等到關閉逾時
	if svcs.Jobs != nil {
		if err := svcs.Jobs.Close(ctx); err != nil {
			common.LogWarn("背景儲存未在逾時內完成", zap.Error(err))
		}
	}

	common.LogInfo("Server exited")
}
