package mysql

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/mall/internal/domain/tx"
	"github.com/xiebiao/mall/internal/infrastructure/config"
	apperrors "github.com/xiebiao/mall/pkg/errors"
	"github.com/xiebiao/mall/pkg/metrics"
)

// txKey context中事务DB的键（非导出类型，避免与其他包冲突）
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 死锁(1213)/锁等待超时(1205)时整体重试，重试耗尽返回可重试错误(50003)
type TxManager struct {
	db          *gorm.DB
	logger      *zap.Logger
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

var _ tx.Manager = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *TxManager {
	metrics.Init()

	attempts := cfg.Database.TxMaxRetries
	if attempts < 1 {
		attempts = 1
	}
	return &TxManager{
		db:          db,
		logger:      logger,
		maxAttempts: attempts,
		newBackOff:  defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Second
	return b
}

// Transaction 执行事务
// fn内所有Repository操作都在同一事务中执行：返回error则ROLLBACK，返回nil则COMMIT
// ctx中已有事务时直接复用，不再开启新事务
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    cart, err := cartRepo.LockActiveByUserID(ctx, userID)
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	    return productRepo.DecrementStock(ctx, productID, qty) // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return retryOnConflict(ctx, m.maxAttempts, m.newBackOff(), m.logger, func() error {
		return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Repository的dbFromContext会从context提取事务DB
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
	})
}

// retryOnConflict 锁冲突时按退避策略重试op，最多执行attempts次
// 非锁冲突错误立即返回（backoff.Permanent）
func retryOnConflict(ctx context.Context, attempts int, b backoff.BackOff, logger *zap.Logger, op func() error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := op()
		if err == nil || isRetryableError(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		metrics.TxRetriesTotal.Inc()
		logger.Warn("transaction conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
	err := backoff.RetryNotify(operation, policy, notify)
	if err != nil && isRetryableError(err) {
		logger.Error("transaction conflict, retries exhausted",
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return apperrors.WrapTransient(err)
	}
	return err
}

// dbFromContext 从context获取事务DB，没有事务时返回普通连接
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
