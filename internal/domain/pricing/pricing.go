// Package pricing 商品成交价计算
//
// 加购时写入购物车的快照价与结算时用于比对的实时价都由EffectivePrice计算，
// 两条路径的折扣语义因此完全一致。
package pricing

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// DiscountType 折扣类型
type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent" // 百分比折扣，Value=10表示打9折
	DiscountAmount  DiscountType = "amount"  // 立减金额
)

// 金额统一保留2位小数
const currencyScale = 2

var hundred = decimal.NewFromInt(100)

// Discount 折扣规则
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// NoDiscount 无折扣
func NoDiscount() Discount {
	return Discount{Type: DiscountNone, Value: decimal.Zero}
}

// Validate 校验折扣规则（发布商品时调用）
// percent取值(0,100]，amount取值>=0，none的Value必须为0
func (d Discount) Validate() error {
	switch d.Type {
	case "", DiscountNone:
		if !d.Value.IsZero() {
			return apperrors.New(apperrors.ErrCodeInvalidParams, "无折扣时折扣值必须为0")
		}
	case DiscountPercent:
		if !d.Value.IsPositive() || d.Value.GreaterThan(hundred) {
			return apperrors.New(apperrors.ErrCodeInvalidParams, "百分比折扣必须在(0,100]之间")
		}
	case DiscountAmount:
		if d.Value.IsNegative() {
			return apperrors.New(apperrors.ErrCodeInvalidParams, "立减金额不能为负数")
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的折扣类型: "+string(d.Type))
	}
	return nil
}

// EffectivePrice 计算折后单价
//   - percent且v>0：base × (1 − v/100)
//   - amount且v>0：base − v
//   - 其他情况：base
//
// 结果不低于0，保留2位小数（四舍五入）。
func EffectivePrice(base decimal.Decimal, d Discount) decimal.Decimal {
	price := base
	if d.Value.IsPositive() {
		switch d.Type {
		case DiscountPercent:
			price = base.Mul(hundred.Sub(d.Value)).Div(hundred)
		case DiscountAmount:
			price = base.Sub(d.Value)
		}
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return price.Round(currencyScale)
}

// LineTotal 单价×数量，保留2位小数
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(currencyScale)
}
