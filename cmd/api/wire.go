//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改本文件后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链：
// *App → router.New → Handler → UseCase → Repository/TxManager → *gorm.DB → *config.Config

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appcart "github.com/xiebiao/mall/internal/application/cart"
	apporder "github.com/xiebiao/mall/internal/application/order"
	appproduct "github.com/xiebiao/mall/internal/application/product"
	appseller "github.com/xiebiao/mall/internal/application/seller"
	appuser "github.com/xiebiao/mall/internal/application/user"
	"github.com/xiebiao/mall/internal/domain/tx"
	"github.com/xiebiao/mall/internal/domain/user"
	"github.com/xiebiao/mall/internal/infrastructure/config"
	"github.com/xiebiao/mall/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/mall/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/mall/internal/interface/http/handler"
	"github.com/xiebiao/mall/internal/interface/http/middleware"
	"github.com/xiebiao/mall/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、消息发布、熔断器
var infrastructureSet = wire.NewSet(
	mysql.NewDB,
	redis.NewClient,
	// 同一个Redis实现同时充当登录用例的SessionStore和认证中间件的TokenBlacklist
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	providePublisher,
	provideEventBreaker,
)

// repositorySet 仓储与事务管理器
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewSellerRepository,
	mysql.NewProductRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	wire.Bind(new(tx.Manager), new(*mysql.TxManager)),
)

var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 全部用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	appseller.NewOnboardUseCase,
	appseller.NewGetProfileUseCase,
	appproduct.NewPublishUseCase,
	appproduct.NewGetUseCase,
	appcart.NewAddToCartUseCase,
	appcart.NewViewCartUseCase,
	appcart.NewRemoveItemUseCase,
	apporder.NewCheckoutUseCase,
	apporder.NewListOrdersUseCase,
)

var middlewareSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
)

var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewSellerHandler,
	handler.NewProductHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouterOptions,
	router.New,
)

// InitializeApp 初始化整个应用
// cleanup负责关闭MQ连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
