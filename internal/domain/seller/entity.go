package seller

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Profile 卖家档案(店铺)
// TotalSales/TotalOrders是结算时累加的运行统计,只通过原子自增修改
// Rating相关字段由评价模块维护,本服务只读
type Profile struct {
	ID          uint
	UserID      uint
	ShopName    string
	TotalSales  decimal.Decimal
	TotalOrders int
	Rating      decimal.Decimal
	RatingCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProfile 开通店铺
func NewProfile(userID uint, shopName string) (*Profile, error) {
	if n := utf8.RuneCountInString(shopName); n < 2 || n > 50 {
		return nil, ErrInvalidShopName
	}
	now := time.Now()
	return &Profile{
		UserID:     userID,
		ShopName:   shopName,
		TotalSales: decimal.Zero,
		Rating:     decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
