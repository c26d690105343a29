package mysql

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "github.com/xiebiao/mall/pkg/errors"
)

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, isDuplicateError(nil))
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, isDuplicateError(fmt.Errorf("create: %w", &mysqldriver.MySQLError{Number: 1062})))
	assert.False(t, isDuplicateError(&mysqldriver.MySQLError{Number: 1213}))
	assert.False(t, isDuplicateError(errors.New("Duplicate entry")))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&mysqldriver.MySQLError{Number: 1213}))
	assert.True(t, isRetryableError(&mysqldriver.MySQLError{Number: 1205}))
	// 仓储层包装后仍能识别
	assert.True(t, isRetryableError(apperrors.Wrap(&mysqldriver.MySQLError{Number: 1213}, "扣减库存失败")))
	assert.False(t, isRetryableError(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, isRetryableError(gorm.ErrRecordNotFound))
	assert.False(t, isRetryableError(nil))
}
