package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/mall/internal/domain/pricing"
	"github.com/xiebiao/mall/internal/domain/product"
)

// Status 购物车状态
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusOrdered Status = "ORDERED"
)

// 单次加购数量范围
const (
	MinQuantity     = 1
	MaxQuantity     = 100
	DefaultQuantity = 1
)

// Cart 购物车(聚合根)
// 设计说明:
// 1. 每个用户只有一行购物车(user_id唯一),结算后置为ORDERED,下次加购时重新激活
// 2. Items只在查询购物车时加载,加购/结算流程按需查询明细
type Cart struct {
	ID        uint
	UserID    uint
	Status    Status
	Items     []*Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive 是否可修改/结算
func (c *Cart) IsActive() bool {
	return c.Status == StatusActive
}

// Reactivate ORDERED → ACTIVE,返回状态是否发生变化
func (c *Cart) Reactivate() bool {
	if c.IsActive() {
		return false
	}
	c.Status = StatusActive
	c.UpdatedAt = time.Now()
	return true
}

// Item 购物车明细
// UnitPrice是加购时计算的折后价快照,结算时按此价格成交
type Item struct {
	ID        uint
	CartID    uint
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
	Product   *product.Product // 仅查询购物车时填充
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem 创建新明细,数量不能超过当前库存
func NewItem(cartID, productID uint, quantity int, unitPrice decimal.Decimal, stock int) (*Item, error) {
	if quantity > stock {
		return nil, ErrStockExceeded.WithMessage("库存不足:请求%d件,库存仅剩%d件", quantity, stock)
	}
	now := time.Now()
	return &Item{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Merge 合并数量并刷新快照价
// 合并后数量超过库存时返回StockExceeded,明细保持不变
func (i *Item) Merge(quantity int, unitPrice decimal.Decimal, stock int) error {
	merged := i.Quantity + quantity
	if merged > stock {
		return ErrStockExceeded.WithMessage("购物车中已有%d件,再加%d件将超出库存(剩余%d件)", i.Quantity, quantity, stock)
	}
	i.Quantity = merged
	i.UnitPrice = unitPrice
	i.UpdatedAt = time.Now()
	return nil
}

// LineTotal 单价×数量
func (i *Item) LineTotal() decimal.Decimal {
	return pricing.LineTotal(i.UnitPrice, i.Quantity)
}

// Summary 购物车汇总
type Summary struct {
	TotalItems    int             // 数量合计
	TotalPrice    decimal.Decimal // 金额合计(2位小数)
	DistinctItems int             // 商品种类数
}

// Summarize 汇总明细
func Summarize(items []*Item) Summary {
	s := Summary{TotalPrice: decimal.Zero, DistinctItems: len(items)}
	for _, item := range items {
		s.TotalItems += item.Quantity
		s.TotalPrice = s.TotalPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.TotalPrice = s.TotalPrice.Round(2)
	return s
}

// ValidateQuantity 加购数量必须在[1,100]之间
func ValidateQuantity(quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}
