package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrder_Totals(t *testing.T) {
	o := NewOrder("ORD1", 7, []OrderItem{
		{ProductID: 1, Quantity: 5, UnitPrice: decimal.NewFromInt(90)},
		{ProductID: 2, Quantity: 2, UnitPrice: decimal.RequireFromString("12.35")},
	})

	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, "474.70", o.TotalAmount().StringFixed(2))
	assert.Equal(t, 7, o.TotalQuantity())
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
}

func TestGenerateOrderNo(t *testing.T) {
	now := time.Unix(1699248000, 0)
	no := GenerateOrderNo(now)
	assert.Regexp(t, regexp.MustCompile(`^ORD1699248000\d{6}$`), no)
}

func TestNewCreatedEvent(t *testing.T) {
	o := NewOrder("ORD2", 1, []OrderItem{{ProductID: 9, Quantity: 3, UnitPrice: decimal.NewFromInt(90)}})
	o.ID = 11

	e := NewCreatedEvent(o)
	assert.Equal(t, uint(11), e.OrderID)
	assert.Equal(t, "270.00", e.TotalAmount)
	assert.Equal(t, "90.00", e.Items[0].UnitPrice)
}
