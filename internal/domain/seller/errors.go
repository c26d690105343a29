package seller

import (
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

var (
	ErrSellerNotFound = apperrors.New(apperrors.ErrCodeSellerNotFound, "店铺不存在")

	// ErrSellerDuplicate 用户已开通店铺或店铺名已被占用
	ErrSellerDuplicate = apperrors.New(apperrors.ErrCodeSellerDuplicate, "已开通店铺或店铺名已被占用")

	ErrInvalidShopName = apperrors.New(apperrors.ErrCodeInvalidParams, "店铺名长度应为2-50个字符")

	// ErrNotSeller 发布商品前必须开通店铺
	ErrNotSeller = apperrors.New(apperrors.ErrCodeForbidden, "请先开通店铺")
)
