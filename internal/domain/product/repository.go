package product

import (
	"context"
)

// Repository 商品仓储接口
// 带Lock前缀的方法使用SELECT ... FOR UPDATE,必须在事务内调用
type Repository interface {
	// Create 创建商品,标题重复返回ErrTitleDuplicate
	Create(ctx context.Context, p *Product) error

	// FindByID 不存在返回ErrProductNotFound
	FindByID(ctx context.Context, id uint) (*Product, error)

	// LockByID 悲观锁查询单个商品
	LockByID(ctx context.Context, id uint) (*Product, error)

	// LockByIDs 按id升序锁定多个商品(固定加锁顺序,降低死锁概率)
	// 任一id不存在返回ErrProductNotFound
	LockByIDs(ctx context.Context, ids []uint) (map[uint]*Product, error)

	// DecrementStock 原子扣减库存
	// UPDATE products SET stock_quantity = stock_quantity - ? WHERE id = ? AND stock_quantity >= ?
	// 影响0行时返回ErrInsufficientStock或ErrProductNotFound
	DecrementStock(ctx context.Context, id uint, quantity int) error

	// MarkOutOfStock 库存为0时将状态置为OUT_OF_STOCK
	// 条件更新:WHERE id = ? AND stock_quantity = 0
	MarkOutOfStock(ctx context.Context, id uint) error
}
