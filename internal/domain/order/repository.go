package order

import (
	"context"
)

// Repository 订单仓储接口
type Repository interface {
	// Create 创建订单及全部明细(同一事务),回填ID
	Create(ctx context.Context, order *Order) error

	// ListByUserID 分页查询用户订单(预加载明细,按创建时间倒序)
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)
}
