package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apporder "github.com/xiebiao/mall/internal/application/order"
	appuser "github.com/xiebiao/mall/internal/application/user"
	"github.com/xiebiao/mall/internal/domain/user"
	"github.com/xiebiao/mall/internal/infrastructure/config"
	"github.com/xiebiao/mall/internal/interface/http/router"
	"github.com/xiebiao/mall/pkg/circuitbreaker"
	"github.com/xiebiao/mall/pkg/jwt"
	"github.com/xiebiao/mall/pkg/metrics"
	"github.com/xiebiao/mall/pkg/mq"
)

// App 可运行的HTTP服务
type App struct {
	Server *http.Server
}

func newApp(cfg *config.Config, engine *gin.Engine) *App {
	return &App{
		Server: &http.Server{
			Addr:         addr(cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// provideJWTManager 从配置中提取JWT参数
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}


// provideLoginUseCase Session有效期与Refresh Token一致
func provideLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions appuser.SessionStore,
	cfg *config.Config,
	logger *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessions, cfg.JWT.RefreshTokenExpire, logger)
}

// providePublisher mq.enabled=false时使用NopPublisher，订单事件直接丢弃
func providePublisher(cfg *config.Config, logger *zap.Logger) (apporder.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		logger.Info("mq disabled, order events are dropped")
		return mq.NopPublisher{}, func() {}, nil
	}

	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger.Named("mq"))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := p.Close(); err != nil {
			logger.Warn("close mq publisher failed", zap.Error(err))
		}
	}
	return p, cleanup, nil
}

// provideEventBreaker 订单事件发布熔断器，状态变化同步到Prometheus
func provideEventBreaker(logger *zap.Logger) *circuitbreaker.Breaker {
	metrics.Init()
	return circuitbreaker.New("order-events", circuitbreaker.Settings{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func provideRouterOptions(cfg *config.Config) router.Options {
	return router.Options{EnableSwagger: cfg.Server.Mode != gin.ReleaseMode}
}
