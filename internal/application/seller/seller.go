package seller

import (
	"context"
	"time"

	"github.com/xiebiao/mall/internal/domain/seller"
)

// OnboardUseCase 开通店铺
// user_id与shop_name的唯一性由数据库UNIQUE索引保证
type OnboardUseCase struct {
	sellerRepo seller.Repository
}

// NewOnboardUseCase 创建开店用例
func NewOnboardUseCase(sellerRepo seller.Repository) *OnboardUseCase {
	return &OnboardUseCase{sellerRepo: sellerRepo}
}

// OnboardRequest 开店请求
type OnboardRequest struct {
	UserID   uint
	ShopName string
}

// ProfileResponse 店铺信息(含运行统计)
type ProfileResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	ShopName    string `json:"shop_name"`
	TotalSales  string `json:"total_sales"`
	TotalOrders int    `json:"total_orders"`
	Rating      string `json:"rating"`
	RatingCount int    `json:"rating_count"`
	CreatedAt   string `json:"created_at"`
}

func (uc *OnboardUseCase) Execute(ctx context.Context, req OnboardRequest) (*ProfileResponse, error) {
	p, err := seller.NewProfile(req.UserID, req.ShopName)
	if err != nil {
		return nil, err
	}
	if err := uc.sellerRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// GetProfileUseCase 查询当前用户的店铺
type GetProfileUseCase struct {
	sellerRepo seller.Repository
}

func NewGetProfileUseCase(sellerRepo seller.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{sellerRepo: sellerRepo}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	p, err := uc.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

func toProfileResponse(p *seller.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		ShopName:    p.ShopName,
		TotalSales:  p.TotalSales.StringFixed(2),
		TotalOrders: p.TotalOrders,
		Rating:      p.Rating.StringFixed(2),
		RatingCount: p.RatingCount,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
