package product

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/mall/internal/domain/pricing"
	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/seller"
)

// PublishUseCase 商品上架用例
// 设计说明:
// 1. 只有开通店铺的用户才能上架,商品归属于卖家档案(seller_profiles.id)
// 2. 参数与折扣规则校验由领域工厂NewProduct负责
// 3. 标题唯一由数据库UNIQUE索引保证
type PublishUseCase struct {
	productRepo product.Repository
	sellerRepo  seller.Repository
}

// NewPublishUseCase 创建上架用例
func NewPublishUseCase(productRepo product.Repository, sellerRepo seller.Repository) *PublishUseCase {
	return &PublishUseCase{productRepo: productRepo, sellerRepo: sellerRepo}
}

// PublishRequest 上架请求DTO
type PublishRequest struct {
	UserID        uint // 当前登录用户(从认证中间件获取)
	Title         string
	Description   string
	Price         decimal.Decimal
	DiscountType  string
	DiscountValue decimal.Decimal
	Stock         int
}

// Response 商品信息
type Response struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	DiscountType   string `json:"discount_type"`
	DiscountValue  string `json:"discount_value"`
	EffectivePrice string `json:"effective_price"`
	Stock          int    `json:"stock"`
	Status         string `json:"status"`
	SellerID       uint   `json:"seller_id"`
	CreatedAt      string `json:"created_at"`
}

// Execute 执行上架
func (uc *PublishUseCase) Execute(ctx context.Context, req PublishRequest) (*Response, error) {
	profile, err := uc.sellerRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, seller.ErrSellerNotFound) {
			return nil, seller.ErrNotSeller
		}
		return nil, err
	}

	discount := pricing.Discount{
		Type:  pricing.DiscountType(req.DiscountType),
		Value: req.DiscountValue,
	}
	p, err := product.NewProduct(profile.ID, req.Title, req.Description, req.Price, discount, req.Stock)
	if err != nil {
		return nil, err
	}

	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return ToResponse(p), nil
}

// GetUseCase 商品详情
type GetUseCase struct {
	productRepo product.Repository
}

func NewGetUseCase(productRepo product.Repository) *GetUseCase {
	return &GetUseCase{productRepo: productRepo}
}

func (uc *GetUseCase) Execute(ctx context.Context, id uint) (*Response, error) {
	p, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(p), nil
}

// ToResponse 领域实体 → 响应DTO(金额统一格式化为2位小数字符串)
func ToResponse(p *product.Product) *Response {
	return &Response{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Price:          p.Price.StringFixed(2),
		DiscountType:   string(p.Discount.Type),
		DiscountValue:  p.Discount.Value.StringFixed(2),
		EffectivePrice: p.EffectivePrice().StringFixed(2),
		Stock:          p.Stock,
		Status:         string(p.Status),
		SellerID:       p.SellerID,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
