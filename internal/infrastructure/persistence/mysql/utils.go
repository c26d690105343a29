package mysql

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL错误码
const (
	errDuplicateEntry  = 1062 // Duplicate entry 'xxx' for key 'yyy'
	errLockWaitTimeout = 1205 // Lock wait timeout exceeded
	errDeadlock        = 1213 // Deadlock found when trying to get lock
)

// isDuplicateError 判断是否为唯一索引冲突
// TranslateError未开启时GORM直接返回驱动错误，两种情况都要识别
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return mysqlErrorNumber(err) == errDuplicateEntry
}

// isRetryableError 死锁或锁等待超时，整个事务可以重来
func isRetryableError(err error) bool {
	switch mysqlErrorNumber(err) {
	case errDeadlock, errLockWaitTimeout:
		return true
	}
	return false
}

func mysqlErrorNumber(err error) uint16 {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}
