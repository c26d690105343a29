package product

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/mall/internal/domain/pricing"
)

// Status 商品状态
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusOutOfStock Status = "OUT_OF_STOCK"
	StatusInactive   Status = "INACTIVE"
)

// Product 商品实体(聚合根)
// 设计说明:
// 1. 库存和状态是共享可变状态,只能在结算事务内通过原子UPDATE修改
// 2. 价格使用decimal(避免浮点误差),数据库列为decimal(12,2)
// 3. SellerID关联seller_profiles.id(而非users.id),结算时按它归集卖家统计
type Product struct {
	ID          uint
	Title       string
	Description string
	Price       decimal.Decimal  // 原价
	Discount    pricing.Discount // 折扣规则
	Stock       int              // 库存,恒>=0
	Status      Status
	SellerID    uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct 创建新商品(工厂方法)
// 初始库存为0的商品直接标记为OUT_OF_STOCK
func NewProduct(sellerID uint, title, description string, price decimal.Decimal, discount pricing.Discount, stock int) (*Product, error) {
	if n := utf8.RuneCountInString(title); n < 2 || n > 200 {
		return nil, ErrInvalidTitle
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if discount.Type == "" {
		discount = pricing.NoDiscount()
	}
	if err := discount.Validate(); err != nil {
		return nil, err
	}

	status := StatusActive
	if stock == 0 {
		status = StatusOutOfStock
	}

	now := time.Now()
	return &Product{
		Title:       title,
		Description: description,
		Price:       price.Round(2),
		Discount:    discount,
		Stock:       stock,
		Status:      status,
		SellerID:    sellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// EffectivePrice 当前折后价
func (p *Product) EffectivePrice() decimal.Decimal {
	return pricing.EffectivePrice(p.Price, p.Discount)
}

// IsPurchasable 是否可加购/结算
func (p *Product) IsPurchasable() bool {
	return p.Status == StatusActive
}

// CheckPurchasable 不可售时返回带标题和状态的ProductUnavailable错误
func (p *Product) CheckPurchasable() error {
	if p.IsPurchasable() {
		return nil
	}
	return ErrProductUnavailable.WithMessage("商品《%s》当前不可购买(状态:%s)", p.Title, p.Status)
}

// CheckStock 结算时校验实时库存
func (p *Product) CheckStock(quantity int) error {
	if p.Stock < quantity {
		return ErrInsufficientStock.WithMessage("商品《%s》库存不足,当前库存:%d,需要:%d", p.Title, p.Stock, quantity)
	}
	return nil
}
