package mysql

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/mall/internal/domain/pricing"
	"github.com/xiebiao/mall/internal/domain/product"
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// productRepository 商品仓储实现（MySQL）
// 教学要点：
// 1. Lock*方法使用SELECT ... FOR UPDATE，只能在TxManager.Transaction内调用
// 2. 扣减库存使用条件UPDATE，数据库层面保证库存不为负
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品，标题有UNIQUE索引
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return product.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "创建商品失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 普通查询（快照读）
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// LockByID 悲观锁查询
// SELECT * FROM products WHERE id = ? FOR UPDATE
// 其他事务对同一行的FOR UPDATE会阻塞直到当前事务提交或回滚
func (r *productRepository) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "锁定商品失败")
	}
	return toProductEntity(&model), nil
}

// LockByIDs 一条语句按id升序锁定多个商品
// InnoDB按索引扫描顺序加锁，ORDER BY id保证所有结算事务的加锁顺序一致
func (r *productRepository) LockByIDs(ctx context.Context, ids []uint) (map[uint]*product.Product, error) {
	if len(ids) == 0 {
		return map[uint]*product.Product{}, nil
	}

	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var models []ProductModel
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "锁定商品失败")
	}

	out := make(map[uint]*product.Product, len(models))
	for i := range models {
		out[models[i].ID] = toProductEntity(&models[i])
	}
	for _, id := range sorted {
		if _, ok := out[id]; !ok {
			return nil, product.ErrProductNotFound.WithMessage("商品不存在: %d", id)
		}
	}
	return out, nil
}

// DecrementStock 原子扣减库存
// 影响行数为0时再查一次，区分商品不存在与库存不足
func (r *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	db := dbFromContext(ctx, r.db)
	result := db.Model(&ProductModel{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		var model ProductModel
		if err := db.Select("id", "title", "stock_quantity").First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.Wrap(err, "查询商品失败")
		}
		return product.ErrInsufficientStock.WithMessage("%s 库存不足:需要%d件,剩余%d件",
			model.Title, quantity, model.StockQuantity)
	}
	return nil
}

// MarkOutOfStock 库存恰好为0时置为售罄
func (r *productRepository) MarkOutOfStock(ctx context.Context, id uint) error {
	err := dbFromContext(ctx, r.db).
		Model(&ProductModel{}).
		Where("id = ? AND stock_quantity = 0", id).
		Update("status", string(product.StatusOutOfStock)).Error
	if err != nil {
		return apperrors.Wrap(err, "更新商品状态失败")
	}
	return nil
}

func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		DiscountType:  string(p.Discount.Type),
		DiscountValue: p.Discount.Value,
		StockQuantity: p.Stock,
		Status:        string(p.Status),
		SellerID:      p.SellerID,
	}
}

func toProductEntity(m *ProductModel) *product.Product {
	return &product.Product{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Discount: pricing.Discount{
			Type:  pricing.DiscountType(m.DiscountType),
			Value: m.DiscountValue,
		},
		Stock:     m.StockQuantity,
		Status:    product.Status(m.Status),
		SellerID:  m.SellerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
