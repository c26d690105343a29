package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/seller"
	"github.com/xiebiao/mall/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

func newFixture(t *testing.T) (*PublishUseCase, *GetUseCase) {
	t.Helper()
	store := memory.NewStore()
	p, err := seller.NewProfile(1, "shop-one")
	require.NoError(t, err)
	require.NoError(t, store.Sellers().Create(context.Background(), p))
	return NewPublishUseCase(store.Products(), store.Sellers()), NewGetUseCase(store.Products())
}

func TestPublishAndGet(t *testing.T) {
	publish, get := newFixture(t)
	ctx := context.Background()

	created, err := publish.Execute(ctx, PublishRequest{
		UserID:        1,
		Title:         "机械键盘",
		Price:         decimal.RequireFromString("100"),
		DiscountType:  "percent",
		DiscountValue: decimal.RequireFromString("10"),
		Stock:         5,
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", created.Price)
	assert.Equal(t, "90.00", created.EffectivePrice)
	assert.Equal(t, "ACTIVE", created.Status)

	got, err := get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, 5, got.Stock)
}

func TestPublish_Errors(t *testing.T) {
	publish, get := newFixture(t)
	ctx := context.Background()
	valid := PublishRequest{UserID: 1, Title: "鼠标垫", Price: decimal.NewFromInt(20), Stock: 1}

	tests := []struct {
		name    string
		mutate  func(r *PublishRequest)
		wantErr error
	}{
		{"未开店", func(r *PublishRequest) { r.UserID = 2 }, seller.ErrNotSeller},
		{"价格为0", func(r *PublishRequest) { r.Price = decimal.Zero }, product.ErrInvalidPrice},
		{"负库存", func(r *PublishRequest) { r.Stock = -1 }, product.ErrInvalidStock},
		{"折扣超100%", func(r *PublishRequest) {
			r.DiscountType = "percent"
			r.DiscountValue = decimal.NewFromInt(101)
		}, apperrors.ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := publish.Execute(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := publish.Execute(ctx, valid)
	require.NoError(t, err)
	_, err = publish.Execute(ctx, valid)
	assert.ErrorIs(t, err, product.ErrTitleDuplicate)

	_, err = get.Execute(ctx, 999)
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestPublish_ZeroStockIsOutOfStock(t *testing.T) {
	publish, _ := newFixture(t)
	created, err := publish.Execute(context.Background(), PublishRequest{
		UserID: 1, Title: "限量款", Price: decimal.NewFromInt(10), Stock: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "OUT_OF_STOCK", created.Status)
}
