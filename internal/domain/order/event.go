package order

import "time"

// RoutingKeyCreated 订单创建事件的路由键
const RoutingKeyCreated = "order.created"

// CreatedEvent 结算提交后发布的事件
type CreatedEvent struct {
	OrderID     uint               `json:"order_id"`
	OrderNo     string             `json:"order_no"`
	UserID      uint               `json:"user_id"`
	TotalAmount string             `json:"total_amount"`
	Items       []CreatedEventItem `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
}

type CreatedEventItem struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// NewCreatedEvent 由订单构造事件(金额以字符串传递,避免消费方浮点误差)
func NewCreatedEvent(o *Order) CreatedEvent {
	items := make([]CreatedEventItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = CreatedEventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		}
	}
	return CreatedEvent{
		OrderID:     o.ID,
		OrderNo:     o.OrderNo,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount().StringFixed(2),
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}
