package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/mall/internal/infrastructure/config"
	"github.com/xiebiao/mall/pkg/logger"
	"github.com/xiebiao/mall/pkg/tracing"
)

// @title           Mall API
// @version         1.0
// @description     多卖家商城交易核心：购物车与结算
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志（替换zap全局Logger）
	zl := logger.MustInit(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	defer func() { _ = zl.Sync() }()

	// 3. 链路追踪（未启用时为noop）
	shutdownTracer, err := tracing.InitTracer(tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		zl.Fatal("init tracer failed", zap.Error(err))
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// 4. 依赖注入（wire_gen.go）
	app, cleanup, err := InitializeApp(cfg, zl)
	if err != nil {
		zl.Fatal("initialize app failed", zap.Error(err))
	}
	defer cleanup()

	go func() {
		zl.Info("http server started",
			zap.String("addr", app.Server.Addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 5. 优雅关闭：等待进行中的结算事务完成
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(ctx); err != nil {
		zl.Error("http server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		zl.Warn("tracer shutdown failed", zap.Error(err))
	}
}

func addr(port int) string {
	return fmt.Sprintf(":%d", port)
}
