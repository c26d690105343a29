package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/mall/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，SQL日志写入zap
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境打印全部SQL，生产环境只打印慢查询和错误
// 4. database.auto_migrate=true时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 生产环境应使用版本化的迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&SellerProfileModel{},
		&ProductModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// UserModel GORM用户模型
// infrastructure层的数据模型，domain/user/entity.go是不依赖GORM的领域实体
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string { return "users" }

// SellerProfileModel 卖家档案
// total_sales/total_orders只通过 col = col + ? 原子累加
type SellerProfileModel struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"uniqueIndex;not null;comment:用户ID"`
	ShopName    string          `gorm:"uniqueIndex;size:50;not null;comment:店铺名"`
	TotalSales  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0;comment:累计销售额"`
	TotalOrders int             `gorm:"not null;default:0;comment:累计订单明细数"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0;comment:评分"`
	RatingCount int             `gorm:"not null;default:0;comment:评分人数"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SellerProfileModel) TableName() string { return "seller_profiles" }

// ProductModel 商品
// stock_quantity带CHECK约束，扣减语句同时带 stock_quantity >= ? 条件
type ProductModel struct {
	ID            uint            `gorm:"primaryKey"`
	Title         string          `gorm:"uniqueIndex;size:200;not null;comment:商品标题"`
	Description   string          `gorm:"type:text;comment:商品描述"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:原价"`
	DiscountType  string          `gorm:"size:16;not null;default:none;comment:折扣类型(none/percent/amount)"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;comment:折扣值"`
	StockQuantity int             `gorm:"not null;default:0;check:chk_products_stock,stock_quantity >= 0;comment:库存"`
	Status        string          `gorm:"index;size:20;not null;default:ACTIVE;comment:状态"`
	SellerID      uint            `gorm:"index;not null;comment:卖家档案ID"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ProductModel) TableName() string { return "products" }

// CartModel 购物车(每个用户一行)
type CartModel struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"uniqueIndex;not null;comment:用户ID"`
	Status    string          `gorm:"size:16;not null;default:ACTIVE;comment:状态(ACTIVE/ORDERED)"`
	Items     []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartModel) TableName() string { return "carts" }

// CartItemModel 购物车明细,(cart_id, product_id)唯一
type CartItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	CartID    uint            `gorm:"uniqueIndex:uk_cart_product;not null"`
	ProductID uint            `gorm:"uniqueIndex:uk_cart_product;index;not null"`
	Quantity  int             `gorm:"not null;comment:数量"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:加购时折后价快照"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartItemModel) TableName() string { return "cart_items" }

// OrderModel 订单,总金额由明细汇总,不落库
type OrderModel struct {
	ID        uint             `gorm:"primaryKey"`
	OrderNo   string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID    uint             `gorm:"index;not null;comment:买家用户ID"`
	Status    int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1待支付)"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单明细,UnitPrice为成交价(复制自购物车快照)
type OrderItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"index;not null;comment:订单ID"`
	ProductID uint            `gorm:"index;not null;comment:商品ID"`
	Quantity  int             `gorm:"not null;comment:购买数量"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:成交单价"`
}

func (OrderItemModel) TableName() string { return "order_items" }
