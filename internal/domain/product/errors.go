package product

import (
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// 商品领域错误定义
var (
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrTitleDuplicate 商品标题唯一
	ErrTitleDuplicate = apperrors.New(apperrors.ErrCodeTitleDuplicate, "商品标题已存在")

	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "商品标题长度应为2-200个字符")
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrProductUnavailable 商品状态不是ACTIVE
	ErrProductUnavailable = apperrors.New(apperrors.ErrCodeProductUnavailable, "商品当前不可购买")

	// ErrInsufficientStock 结算时实时库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")
)
