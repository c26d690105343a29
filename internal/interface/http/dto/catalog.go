package dto

import "github.com/shopspring/decimal"

// OnboardSellerRequest 开通店铺
type OnboardSellerRequest struct {
	ShopName string `json:"shop_name" binding:"required,min=2,max=50"`
}

// CreateProductRequest 商品上架
// 金额字段接受JSON数字或字符串("99.90"),由decimal解析,避免float64精度问题
type CreateProductRequest struct {
	Title         string          `json:"title" binding:"required,min=2,max=200"`
	Description   string          `json:"description" binding:"max=5000"`
	Price         decimal.Decimal `json:"price"`
	DiscountType  string          `json:"discount_type" binding:"omitempty,oneof=none percent amount"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
}
