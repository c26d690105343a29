package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/mall/internal/domain/cart"
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// cartRepository 购物车仓储实现（MySQL）
// 加购事务加锁顺序：product → cart → cart_item；结算事务：cart → products(id升序)
// 同一用户加购与结算交叉时可能死锁，由TxManager整体重试
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// FindByUserID 查询购物车及明细
// Preload("Items.Product")会执行三条SQL，避免N+1
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	var model CartModel
	err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	return toCartEntity(&model), nil
}

// GetOrCreateForUpdate 查找或创建购物车并加行锁
// 两个请求同时为新用户建购物车时，INSERT ... ON CONFLICT DO NOTHING让后到者不报错，
// 随后的FOR UPDATE读到先到者创建的行
func (r *cartRepository) GetOrCreateForUpdate(ctx context.Context, userID uint) (*cart.Cart, error) {
	db := dbFromContext(ctx, r.db)

	model, err := r.lockByUserID(db, userID)
	if err == nil {
		return toCartEntity(model), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, "锁定购物车失败")
	}

	created := &CartModel{UserID: userID, Status: string(cart.StatusActive)}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, apperrors.Wrap(err, "创建购物车失败")
	}

	model, err = r.lockByUserID(db, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "锁定购物车失败")
	}
	return toCartEntity(model), nil
}

// LockActiveByUserID 结算入口：锁定购物车行，同一用户的并发结算在此串行化
func (r *cartRepository) LockActiveByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	model, err := r.lockByUserID(dbFromContext(ctx, r.db), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrNoActiveCart
		}
		return nil, apperrors.Wrap(err, "锁定购物车失败")
	}
	if model.Status != string(cart.StatusActive) {
		return nil, cart.ErrNoActiveCart
	}
	return toCartEntity(model), nil
}

func (r *cartRepository) lockByUserID(db *gorm.DB, userID uint) (*CartModel, error) {
	var model CartModel
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *cartRepository) UpdateStatus(ctx context.Context, cartID uint, status cart.Status) error {
	result := dbFromContext(ctx, r.db).
		Model(&CartModel{}).
		Where("id = ?", cartID).
		Update("status", string(status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车状态失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartNotFound
	}
	return nil
}

// LockItem 锁定明细行，(cart_id, product_id)唯一索引保证最多一行
func (r *cartRepository) LockItem(ctx context.Context, cartID, productID uint) (*cart.Item, error) {
	var model CartItemModel
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartItemNotFound
		}
		return nil, apperrors.Wrap(err, "锁定购物车明细失败")
	}
	return toCartItemEntity(&model), nil
}

func (r *cartRepository) ListItems(ctx context.Context, cartID uint) ([]*cart.Item, error) {
	var models []CartItemModel
	err := dbFromContext(ctx, r.db).
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车明细失败")
	}

	items := make([]*cart.Item, 0, len(models))
	for i := range models {
		items = append(items, toCartItemEntity(&models[i]))
	}
	return items, nil
}

// CreateItem Omit关联，避免GORM顺带upsert商品
func (r *cartRepository) CreateItem(ctx context.Context, item *cart.Item) error {
	model := &CartItemModel{
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}
	if err := dbFromContext(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "购物车明细重复")
		}
		return apperrors.Wrap(err, "创建购物车明细失败")
	}

	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *cartRepository) UpdateItem(ctx context.Context, item *cart.Item) error {
	result := dbFromContext(ctx, r.db).
		Model(&CartItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车明细失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

// DeleteItem 只删除属于该用户购物车的明细
// DELETE FROM cart_items WHERE id = ? AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)
func (r *cartRepository) DeleteItem(ctx context.Context, userID, itemID uint) error {
	db := dbFromContext(ctx, r.db)
	owned := db.Session(&gorm.Session{NewDB: true}).
		Model(&CartModel{}).
		Select("id").
		Where("user_id = ?", userID)

	result := db.Where("id = ? AND cart_id IN (?)", itemID, owned).Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车明细失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItems(ctx context.Context, cartID uint) error {
	if err := dbFromContext(ctx, r.db).Where("cart_id = ?", cartID).Delete(&CartItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

func toCartEntity(m *CartModel) *cart.Cart {
	c := &cart.Cart{
		ID:        m.ID,
		UserID:    m.UserID,
		Status:    cart.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for i := range m.Items {
		c.Items = append(c.Items, toCartItemEntity(&m.Items[i]))
	}
	return c
}

func toCartItemEntity(m *CartItemModel) *cart.Item {
	item := &cart.Item{
		ID:        m.ID,
		CartID:    m.CartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Product != nil {
		item.Product = toProductEntity(m.Product)
	}
	return item
}
