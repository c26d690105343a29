package cart

import (
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// 购物车领域错误定义
var (
	ErrCartNotFound = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车不存在")

	// ErrNoActiveCart 结算时没有ACTIVE状态的购物车
	ErrNoActiveCart = apperrors.New(apperrors.ErrCodeCartNotFound, "没有可结算的购物车")

	ErrCartItemNotFound = apperrors.New(apperrors.ErrCodeNotFound, "购物车商品不存在")

	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空")

	// ErrStockExceeded 加购数量(含已有数量)超过库存
	ErrStockExceeded = apperrors.New(apperrors.ErrCodeStockExceeded, "超出库存")

	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须是1-100之间的整数")
)
