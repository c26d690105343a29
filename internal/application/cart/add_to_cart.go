package cart

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/mall/internal/domain/cart"
	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/tx"
	"github.com/xiebiao/mall/pkg/metrics"
	"github.com/xiebiao/mall/pkg/tracing"
)

// AddToCartUseCase 加入购物车用例
// 教学要点:
// 1. 整个流程在一个事务内完成,任何一步失败都不会留下部分写入
// 2. 加锁顺序固定为 商品 → 购物车 → 明细
// 3. 库存上限按"购物车已有数量+本次数量"校验,但加购不扣库存(扣库存发生在结算)
// 4. 明细单价取加购时刻的折后价,结算时按此快照成交
type AddToCartUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
	txManager   tx.Manager
	logger      *zap.Logger
}

// NewAddToCartUseCase 创建加购用例
func NewAddToCartUseCase(
	cartRepo cart.Repository,
	productRepo product.Repository,
	txManager tx.Manager,
	logger *zap.Logger,
) *AddToCartUseCase {
	metrics.Init()
	return &AddToCartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// AddToCartRequest 加购请求DTO
type AddToCartRequest struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// AddToCartResponse 加购响应DTO
// Created=true表示新增明细(HTTP 201),false表示合并到已有明细(HTTP 200)
type AddToCartResponse struct {
	Created bool            `json:"-"`
	CartID  uint            `json:"cart_id"`
	Item    ItemResponse    `json:"item"`
	Summary SummaryResponse `json:"summary"`
}

// Execute 执行加购
func (uc *AddToCartUseCase) Execute(ctx context.Context, req AddToCartRequest) (*AddToCartResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "cart.add")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", int64(req.UserID)),
		attribute.Int64("product.id", int64(req.ProductID)),
		attribute.Int("quantity", req.Quantity),
	)

	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		metrics.CartAddsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, err
	}

	var resp *AddToCartResponse
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定商品,校验可售状态
		// ========================================
		p, err := uc.productRepo.LockByID(txCtx, req.ProductID)
		if err != nil {
			return err
		}
		if err := p.CheckPurchasable(); err != nil {
			return err
		}

		// 步骤2:计算折后价(加购快照)
		unitPrice := p.EffectivePrice()

		// ========================================
		// 步骤3:查找或创建购物车,ORDERED的购物车重新激活
		// ========================================
		c, err := uc.cartRepo.GetOrCreateForUpdate(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if c.Reactivate() {
			if err := uc.cartRepo.UpdateStatus(txCtx, c.ID, c.Status); err != nil {
				return err
			}
		}

		// ========================================
		// 步骤4:合并已有明细或新增明细
		// ========================================
		created := false
		item, err := uc.cartRepo.LockItem(txCtx, c.ID, p.ID)
		switch {
		case err == nil:
			if err := item.Merge(req.Quantity, unitPrice, p.Stock); err != nil {
				return err
			}
			if err := uc.cartRepo.UpdateItem(txCtx, item); err != nil {
				return err
			}
		case errors.Is(err, cart.ErrCartItemNotFound):
			item, err = cart.NewItem(c.ID, p.ID, req.Quantity, unitPrice, p.Stock)
			if err != nil {
				return err
			}
			if err := uc.cartRepo.CreateItem(txCtx, item); err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		// 步骤5:汇总购物车
		items, err := uc.cartRepo.ListItems(txCtx, c.ID)
		if err != nil {
			return err
		}

		resp = &AddToCartResponse{
			Created: created,
			CartID:  c.ID,
			Item:    toItemResponse(item, p),
			Summary: toSummaryResponse(cart.Summarize(items)),
		}
		return nil
	})
	if err != nil {
		metrics.CartAddsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := metrics.ResultMerged
	if resp.Created {
		result = metrics.ResultCreated
	}
	metrics.CartAddsTotal.WithLabelValues(result).Inc()

	uc.logger.Info("cart item added",
		zap.Uint("user_id", req.UserID),
		zap.Uint("cart_id", resp.CartID),
		zap.Uint("product_id", req.ProductID),
		zap.Int("quantity", resp.Item.Quantity),
		zap.String("result", result),
	)
	return resp, nil
}

// ItemResponse 购物车明细
type ItemResponse struct {
	ID             uint   `json:"id"`
	ProductID      uint   `json:"product_id"`
	Title          string `json:"title,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	LineTotal      string `json:"line_total"`
	ProductStatus  string `json:"product_status,omitempty"`
	EffectivePrice string `json:"effective_price,omitempty"` // 当前折后价,可能与快照价不同
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// SummaryResponse 购物车汇总
type SummaryResponse struct {
	TotalItems    int    `json:"total_items"`
	TotalPrice    string `json:"total_price"`
	DistinctItems int    `json:"distinct_items"`
}

func toItemResponse(item *cart.Item, p *product.Product) ItemResponse {
	r := ItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice.StringFixed(2),
		LineTotal: item.LineTotal().StringFixed(2),
	}
	if !item.UpdatedAt.IsZero() {
		r.UpdatedAt = item.UpdatedAt.Format(time.RFC3339)
	}
	if p != nil {
		r.Title = p.Title
		r.ProductStatus = string(p.Status)
		r.EffectivePrice = p.EffectivePrice().StringFixed(2)
	}
	return r
}

func toSummaryResponse(s cart.Summary) SummaryResponse {
	return SummaryResponse{
		TotalItems:    s.TotalItems,
		TotalPrice:    s.TotalPrice.StringFixed(2),
		DistinctItems: s.DistinctItems,
	}
}
