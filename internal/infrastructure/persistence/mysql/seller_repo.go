package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/mall/internal/domain/seller"
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

type sellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家档案仓储
func NewSellerRepository(db *gorm.DB) seller.Repository {
	return &sellerRepository{db: db}
}

// Create user_id与shop_name都有UNIQUE索引，任一冲突都视为重复开店
func (r *sellerRepository) Create(ctx context.Context, p *seller.Profile) error {
	model := toSellerModel(p)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return seller.ErrSellerDuplicate
		}
		return apperrors.Wrap(err, "创建卖家档案失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *sellerRepository) FindByUserID(ctx context.Context, userID uint) (*seller.Profile, error) {
	var model SellerProfileModel
	if err := dbFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, seller.ErrSellerNotFound
		}
		return nil, apperrors.Wrap(err, "查询卖家档案失败")
	}
	return toSellerEntity(&model), nil
}

// ApplyStats 原子累加卖家统计
// 使用 col = col + ? 而不是读出再写回，并发结算不会丢失更新
func (r *sellerRepository) ApplyStats(ctx context.Context, d seller.StatsDelta) error {
	result := dbFromContext(ctx, r.db).
		Model(&SellerProfileModel{}).
		Where("id = ?", d.SellerID).
		Updates(map[string]interface{}{
			"total_sales":  gorm.Expr("total_sales + ?", d.Sales),
			"total_orders": gorm.Expr("total_orders + ?", d.Orders),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新卖家统计失败")
	}
	if result.RowsAffected == 0 {
		return seller.ErrSellerNotFound
	}
	return nil
}

func toSellerModel(p *seller.Profile) *SellerProfileModel {
	return &SellerProfileModel{
		ID:          p.ID,
		UserID:      p.UserID,
		ShopName:    p.ShopName,
		TotalSales:  p.TotalSales,
		TotalOrders: p.TotalOrders,
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
	}
}

func toSellerEntity(m *SellerProfileModel) *seller.Profile {
	return &seller.Profile{
		ID:          m.ID,
		UserID:      m.UserID,
		ShopName:    m.ShopName,
		TotalSales:  m.TotalSales,
		TotalOrders: m.TotalOrders,
		Rating:      m.Rating,
		RatingCount: m.RatingCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
