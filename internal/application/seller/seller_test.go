package seller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall/internal/domain/seller"
	"github.com/xiebiao/mall/internal/infrastructure/persistence/memory"
)

func TestOnboardAndGetProfile(t *testing.T) {
	repo := memory.NewStore().Sellers()
	onboard := NewOnboardUseCase(repo)
	get := NewGetProfileUseCase(repo)
	ctx := context.Background()

	created, err := onboard.Execute(ctx, OnboardRequest{UserID: 1, ShopName: "书香小铺"})
	require.NoError(t, err)
	assert.Equal(t, "0.00", created.TotalSales)
	assert.Equal(t, 0, created.TotalOrders)

	got, err := get.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "书香小铺", got.ShopName)
}

func TestOnboard_Errors(t *testing.T) {
	repo := memory.NewStore().Sellers()
	onboard := NewOnboardUseCase(repo)
	ctx := context.Background()

	_, err := onboard.Execute(ctx, OnboardRequest{UserID: 1, ShopName: "店"})
	assert.ErrorIs(t, err, seller.ErrInvalidShopName)

	_, err = onboard.Execute(ctx, OnboardRequest{UserID: 1, ShopName: "shop-a"})
	require.NoError(t, err)

	// 同一用户再次开店
	_, err = onboard.Execute(ctx, OnboardRequest{UserID: 1, ShopName: "shop-b"})
	assert.ErrorIs(t, err, seller.ErrSellerDuplicate)

	// 店铺名被占用
	_, err = onboard.Execute(ctx, OnboardRequest{UserID: 2, ShopName: "shop-a"})
	assert.ErrorIs(t, err, seller.ErrSellerDuplicate)

	_, err = NewGetProfileUseCase(repo).Execute(ctx, 99)
	assert.ErrorIs(t, err, seller.ErrSellerNotFound)
}
