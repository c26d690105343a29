package cart

import (
	"context"
)

// Repository 购物车仓储接口
type Repository interface {
	// FindByUserID 查询用户购物车(含明细及商品),不存在返回ErrCartNotFound
	FindByUserID(ctx context.Context, userID uint) (*Cart, error)

	// GetOrCreateForUpdate 查找或创建用户购物车并加行锁(事务内调用)
	// 新建购物车状态为ACTIVE;已有购物车原样返回,由调用方决定是否重新激活
	GetOrCreateForUpdate(ctx context.Context, userID uint) (*Cart, error)

	// LockActiveByUserID 锁定用户的ACTIVE购物车(事务内调用)
	// 不存在或非ACTIVE返回ErrNoActiveCart
	LockActiveByUserID(ctx context.Context, userID uint) (*Cart, error)

	// UpdateStatus 更新购物车状态
	UpdateStatus(ctx context.Context, cartID uint, status Status) error

	// LockItem 锁定(cart, product)对应的明细,不存在返回ErrCartItemNotFound
	LockItem(ctx context.Context, cartID, productID uint) (*Item, error)

	// ListItems 按明细id升序返回(不含商品)
	ListItems(ctx context.Context, cartID uint) ([]*Item, error)

	// CreateItem 新增明细
	CreateItem(ctx context.Context, item *Item) error

	// UpdateItem 更新明细数量和快照价
	UpdateItem(ctx context.Context, item *Item) error

	// DeleteItem 删除用户自己购物车中的明细,不存在或不属于该用户返回ErrCartItemNotFound
	DeleteItem(ctx context.Context, userID, itemID uint) error

	// DeleteItems 清空购物车明细
	DeleteItems(ctx context.Context, cartID uint) error
}
