package tx

import "context"

// Manager 事务边界（由infrastructure层实现）
// fn内通过ctx执行的所有仓储操作属于同一事务：
// fn返回error时整体回滚，返回nil时提交。
// 实现可以在锁冲突时重新执行fn，因此fn不得在事务外产生副作用。
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
