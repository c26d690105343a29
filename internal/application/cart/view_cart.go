package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/mall/internal/domain/cart"
)

// ViewCartUseCase 查看购物车
type ViewCartUseCase struct {
	cartRepo cart.Repository
}

func NewViewCartUseCase(cartRepo cart.Repository) *ViewCartUseCase {
	return &ViewCartUseCase{cartRepo: cartRepo}
}

// CartResponse 购物车详情
type CartResponse struct {
	ID      uint            `json:"id"`
	Status  string          `json:"status"`
	Items   []ItemResponse  `json:"items"`
	Summary SummaryResponse `json:"summary"`
}

// Execute 用户从未加购过时返回ErrCartNotFound
func (uc *ViewCartUseCase) Execute(ctx context.Context, userID uint) (*CartResponse, error) {
	c, err := uc.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]ItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, toItemResponse(item, item.Product))
	}

	return &CartResponse{
		ID:      c.ID,
		Status:  string(c.Status),
		Items:   items,
		Summary: toSummaryResponse(cart.Summarize(c.Items)),
	}, nil
}

// RemoveItemUseCase 删除购物车明细
// 只能删除自己购物车中的明细,其他用户的明细按不存在处理
type RemoveItemUseCase struct {
	cartRepo cart.Repository
	logger   *zap.Logger
}

func NewRemoveItemUseCase(cartRepo cart.Repository, logger *zap.Logger) *RemoveItemUseCase {
	return &RemoveItemUseCase{cartRepo: cartRepo, logger: logger}
}

func (uc *RemoveItemUseCase) Execute(ctx context.Context, userID, itemID uint) error {
	if err := uc.cartRepo.DeleteItem(ctx, userID, itemID); err != nil {
		return err
	}
	uc.logger.Info("cart item removed", zap.Uint("user_id", userID), zap.Uint("item_id", itemID))
	return nil
}
