package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		discount Discount
		want     string
	}{
		{"无折扣", "100", NoDiscount(), "100"},
		{"九折", "100", Discount{DiscountPercent, d("10")}, "90"},
		{"立减", "100", Discount{DiscountAmount, d("15.5")}, "84.5"},
		{"立减超过原价按0计", "10", Discount{DiscountAmount, d("25")}, "0"},
		{"百分百折扣", "59.9", Discount{DiscountPercent, d("100")}, "0"},
		{"折扣值为0视为无折扣", "20", Discount{DiscountPercent, decimal.Zero}, "20"},
		{"负折扣值视为无折扣", "20", Discount{DiscountAmount, d("-5")}, "20"},
		{"未知类型视为无折扣", "20", Discount{"coupon", d("5")}, "20"},
		{"四舍五入到分", "19.99", Discount{DiscountPercent, d("15")}, "16.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectivePrice(d(tt.base), tt.discount)
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDiscount_Validate(t *testing.T) {
	assert.NoError(t, NoDiscount().Validate())
	assert.NoError(t, Discount{}.Validate())
	assert.NoError(t, Discount{DiscountPercent, d("100")}.Validate())
	assert.NoError(t, Discount{DiscountAmount, decimal.Zero}.Validate())

	assert.Error(t, Discount{DiscountNone, d("1")}.Validate())
	assert.Error(t, Discount{DiscountPercent, decimal.Zero}.Validate())
	assert.Error(t, Discount{DiscountPercent, d("100.01")}.Validate())
	assert.Error(t, Discount{DiscountAmount, d("-1")}.Validate())
	assert.Error(t, Discount{"bogo", d("1")}.Validate())
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "450", LineTotal(d("90"), 5).String())
	assert.Equal(t, "3.3", LineTotal(d("1.1"), 3).String())
}
