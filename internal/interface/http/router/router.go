// Package router 组装gin引擎与/api/v1路由表
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/mall/internal/interface/http/handler"
	"github.com/xiebiao/mall/internal/interface/http/middleware"
	"github.com/xiebiao/mall/pkg/metrics"
	"github.com/xiebiao/mall/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User    *handler.UserHandler
	Seller  *handler.SellerHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

// Options 路由开关
type Options struct {
	EnableSwagger bool // 生产环境建议关闭
}

// New 创建gin引擎并注册路由
// 中间件顺序：Recovery → Logger(request_id) → Metrics → Tracing
func New(h Handlers, auth *middleware.AuthMiddleware, logger *zap.Logger, opts Options) *gin.Engine {
	metrics.Init()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.Tracing(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// 公开接口
	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}
	v1.GET("/products/:id", h.Product.Get)

	// 需要登录
	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.POST("/sellers", h.Seller.Onboard)
		authorized.GET("/sellers/me", h.Seller.Me)

		authorized.POST("/products", h.Product.Create)

		authorized.POST("/add-to-cart/:productId", h.Cart.AddToCart)
		authorized.GET("/cart", h.Cart.GetCart)
		authorized.DELETE("/cart-item/:id", h.Cart.RemoveItem)

		authorized.POST("/checkout", h.Order.Checkout)
		authorized.GET("/orders", h.Order.ListOrders)
	}

	return r
}
