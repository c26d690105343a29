package order

import (
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrOrderNoDuplicate 订单号冲突(极小概率,事务回滚后由客户端重试)
	ErrOrderNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号冲突,请重试")
)
