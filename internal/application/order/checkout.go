package order

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/mall/internal/domain/cart"
	"github.com/xiebiao/mall/internal/domain/order"
	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/seller"
	"github.com/xiebiao/mall/internal/domain/tx"
	"github.com/xiebiao/mall/pkg/circuitbreaker"
	"github.com/xiebiao/mall/pkg/metrics"
	"github.com/xiebiao/mall/pkg/tracing"
)

// EventPublisher 订单事件发布(RabbitMQ实现见pkg/mq)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

const publishTimeout = 3 * time.Second

// CheckoutUseCase 结算用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务原子性、悲观锁、条件更新、卖家统计原子累加
//
// 核心问题:库存超卖与部分写入
// 场景:库存5件,两个用户的购物车里各有3件,同时结算
// 错误实现:
//  1. 查询库存 → 5件,够
//  2. 两个请求都通过检查,各自 stock = 5 - 3 写回
//     结果:卖出6件,库存却显示2
//
// 正确实现:
//  1. SELECT FOR UPDATE 按商品id升序锁定
//  2. 在锁内校验状态和库存
//  3. UPDATE ... SET stock_quantity = stock_quantity - ? WHERE stock_quantity >= ?
//  4. 任一步失败整体回滚,订单、库存、卖家统计、购物车都不变
type CheckoutUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
	orderRepo   order.Repository
	sellerRepo  seller.Repository
	txManager   tx.Manager
	publisher   EventPublisher
	breaker     *circuitbreaker.Breaker
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	cartRepo cart.Repository,
	productRepo product.Repository,
	orderRepo order.Repository,
	sellerRepo seller.Repository,
	txManager tx.Manager,
	publisher EventPublisher,
	breaker *circuitbreaker.Breaker,
	logger *zap.Logger,
) *CheckoutUseCase {
	metrics.Init()
	return &CheckoutUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		sellerRepo:  sellerRepo,
		txManager:   txManager,
		publisher:   publisher,
		breaker:     breaker,
		logger:      logger,
		now:         time.Now,
	}
}

// CheckoutResponse 结算响应DTO
type CheckoutResponse struct {
	OrderID       uint                `json:"order_id"`
	OrderNo       string              `json:"order_no"`
	Status        string              `json:"status"`
	TotalAmount   string              `json:"total_amount"`
	ItemCount     int                 `json:"item_count"`
	TotalQuantity int                 `json:"total_quantity"`
	Items         []CheckoutItemReply `json:"items"`
	CreatedAt     string              `json:"created_at"`
}

// CheckoutItemReply 订单明细
// UnitPrice是成交价(购物车快照),LiveUnitPrice是结算时刻的折后价,仅供对账
type CheckoutItemReply struct {
	ProductID     uint   `json:"product_id"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	LiveUnitPrice string `json:"live_unit_price"`
	LineTotal     string `json:"line_total"`
}

// Execute 执行结算
func (uc *CheckoutUseCase) Execute(ctx context.Context, userID uint) (*CheckoutResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "order.checkout")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	metrics.CheckoutsInProgress.Inc()
	defer metrics.CheckoutsInProgress.Dec()
	start := time.Now()

	var (
		created *order.Order
		replies []CheckoutItemReply
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定购物车并读取明细
		// ========================================
		// 同一用户的并发结算在这里串行化:后到者拿到锁时购物车已是ORDERED
		c, err := uc.cartRepo.LockActiveByUserID(txCtx, userID)
		if err != nil {
			return err
		}
		items, err := uc.cartRepo.ListItems(txCtx, c.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return cart.ErrEmptyCart
		}

		// ========================================
		// 步骤2:按id升序锁定商品,在锁内校验实时状态和库存
		// ========================================
		ids := make([]uint, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		products, err := uc.productRepo.LockByIDs(txCtx, ids)
		if err != nil {
			return err
		}

		lines := make([]order.OrderItem, 0, len(items))
		live := make([]string, 0, len(items))
		for _, item := range items {
			p := products[item.ProductID]
			if err := p.CheckPurchasable(); err != nil {
				return err
			}
			if err := p.CheckStock(item.Quantity); err != nil {
				return err
			}

			// 成交价是加购时的快照,实时价只用于对账
			livePrice := p.EffectivePrice()
			if !livePrice.Equal(item.UnitPrice) {
				uc.logger.Debug("price changed since add-to-cart",
					zap.Uint("product_id", p.ID),
					zap.String("snapshot_price", item.UnitPrice.StringFixed(2)),
					zap.String("live_price", livePrice.StringFixed(2)),
				)
			}
			live = append(live, livePrice.StringFixed(2))

			lines = append(lines, order.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		// ========================================
		// 步骤3:创建订单及明细
		// ========================================
		o := order.NewOrder(order.GenerateOrderNo(uc.now()), userID, lines)
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}

		// ========================================
		// 步骤4:扣减库存,归集卖家统计
		// ========================================
		acc := seller.NewStatsAccumulator()
		for _, line := range o.Items {
			p := products[line.ProductID]
			if err := uc.productRepo.DecrementStock(txCtx, line.ProductID, line.Quantity); err != nil {
				return err
			}
			// 商品行已被锁定,p.Stock即扣减前的库存
			if p.Stock-line.Quantity == 0 {
				if err := uc.productRepo.MarkOutOfStock(txCtx, line.ProductID); err != nil {
					return err
				}
			}
			acc.Add(p.SellerID, line.LineTotal())
		}

		// ========================================
		// 步骤5:每个卖家一次原子累加(按seller id升序)
		// ========================================
		for _, d := range acc.Deltas() {
			if err := uc.sellerRepo.ApplyStats(txCtx, d); err != nil {
				return err
			}
		}

		// ========================================
		// 步骤6:清空购物车,状态置为ORDERED
		// ========================================
		if err := uc.cartRepo.DeleteItems(txCtx, c.ID); err != nil {
			return err
		}
		if err := uc.cartRepo.UpdateStatus(txCtx, c.ID, cart.StatusOrdered); err != nil {
			return err
		}

		created = o
		replies = make([]CheckoutItemReply, len(o.Items))
		for i, line := range o.Items {
			replies[i] = CheckoutItemReply{
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice.StringFixed(2),
				LiveUnitPrice: live[i],
				LineTotal:     line.LineTotal().StringFixed(2),
			}
		}
		return nil
	})
	metrics.CheckoutDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.logger.Info("checkout rejected", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	metrics.CheckoutsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	uc.logger.Info("checkout committed",
		zap.Uint("user_id", userID),
		zap.Uint("order_id", created.ID),
		zap.String("order_no", created.OrderNo),
		zap.String("total_amount", created.TotalAmount().StringFixed(2)),
		zap.Int("lines", len(created.Items)),
	)

	// ========================================
	// 步骤7:事务提交后发布事件
	// ========================================
	uc.publishCreated(ctx, created)

	return &CheckoutResponse{
		OrderID:       created.ID,
		OrderNo:       created.OrderNo,
		Status:        created.Status.String(),
		TotalAmount:   created.TotalAmount().StringFixed(2),
		ItemCount:     len(created.Items),
		TotalQuantity: created.TotalQuantity(),
		Items:         replies,
		CreatedAt:     created.CreatedAt.Format(time.RFC3339),
	}, nil
}

// publishCreated 发布order.created
// 订单已经提交,发布失败只记录日志和指标,不影响结算结果
func (uc *CheckoutUseCase) publishCreated(ctx context.Context, o *order.Order) {
	if uc.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := order.NewCreatedEvent(o)
	publish := func(ctx context.Context) error {
		return uc.publisher.Publish(ctx, order.RoutingKeyCreated, event)
	}

	var err error
	if uc.breaker != nil {
		err = uc.breaker.Execute(ctx, publish)
	} else {
		err = publish(ctx)
	}

	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(order.RoutingKeyCreated, metrics.ResultFailure).Inc()
		uc.logger.Warn("publish order event failed",
			zap.String("order_no", o.OrderNo),
			zap.String("trace_id", tracing.TraceID(ctx)),
			zap.Error(err),
		)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(order.RoutingKeyCreated, metrics.ResultSuccess).Inc()
}
