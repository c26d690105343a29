package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/mall/internal/domain/pricing"
)

// OrderStatus 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 支付不在本服务范围内,订单创建后停留在待支付
type OrderStatus int

const (
	OrderStatusPending OrderStatus = 1 // 待支付
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "PENDING"
	default:
		return "UNKNOWN"
	}
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,OrderItem是子实体,创建后只追加不修改
// 2. 总金额不落库,由明细实时汇总(TotalAmount),避免冗余字段与明细不一致
type Order struct {
	ID        uint
	OrderNo   string // 订单号(业务主键,全局唯一)
	UserID    uint
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem 订单明细
// UnitPrice复制自购物车快照价,结算时不按实时价重新计算
type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal 明细小计
func (i OrderItem) LineTotal() decimal.Decimal {
	return pricing.LineTotal(i.UnitPrice, i.Quantity)
}

// NewOrder 创建新订单(工厂方法),初始状态为待支付
func NewOrder(orderNo string, userID uint, items []OrderItem) *Order {
	now := time.Now()
	return &Order{
		OrderNo:   orderNo,
		UserID:    userID,
		Status:    OrderStatusPending,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TotalAmount 订单总金额(明细小计之和)
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// TotalQuantity 商品件数合计
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
