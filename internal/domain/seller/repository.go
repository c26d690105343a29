package seller

import (
	"context"
)

// Repository 卖家档案仓储接口
type Repository interface {
	// Create 用户或店铺名重复返回ErrSellerDuplicate
	Create(ctx context.Context, p *Profile) error

	// FindByUserID 不存在返回ErrSellerNotFound
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)

	// ApplyStats 原子累加统计
	// UPDATE seller_profiles SET total_sales = total_sales + ?, total_orders = total_orders + ? WHERE id = ?
	// 档案不存在返回ErrSellerNotFound
	ApplyStats(ctx context.Context, delta StatsDelta) error
}
