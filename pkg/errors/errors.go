package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，前三位即HTTP状态码（40012 → 400，40404 → 404）
// 2. 状态码在创建错误时就已确定，接口层不再根据Message文本推断
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使WithMessage派生出的错误仍能匹配预定义错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus 错误码对应的HTTP状态码
// 未知区间一律按500处理
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if http.StatusText(status) == "" || status < 400 {
		return http.StatusInternalServerError
	}
	return status
}

// IsRetryable 是否为可重试的临时性故障
func (e *AppError) IsRetryable() bool {
	return e.Code == ErrCodeTransient
}

// WithMessage 基于当前错误码派生一条带上下文信息的错误
// 示例：ErrStockExceeded.WithMessage("购物车已有3件,库存仅剩4件")
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapTransient 包装可重试的存储故障（锁冲突重试耗尽、连接不可用）
func WrapTransient(err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransient,
		Message: "系统繁忙，请稍后重试",
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码 = HTTP状态码 * 100 + 序号
// - 400xx: 参数错误、业务规则校验失败
// - 401xx: 认证失败
// - 403xx: 无权限
// - 404xx: 资源不存在
// - 409xx: 唯一约束冲突
// - 500xx: 服务端错误

const (
	// 系统级错误码
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeTransient     = 50003 // 临时性故障（可重试）

	// 认证授权错误
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40300 // 无权限

	// 资源错误
	ErrCodeNotFound        = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound    = 40401 // 用户不存在
	ErrCodeProductNotFound = 40402 // 商品不存在
	ErrCodeOrderNotFound   = 40403 // 订单不存在
	ErrCodeCartNotFound    = 40404 // 购物车不存在
	ErrCodeSellerNotFound  = 40405 // 卖家不存在

	// 业务规则错误
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock  = 40001 // 库存不足(结算时)
	ErrCodeStockExceeded      = 40002 // 超出库存(加购时)
	ErrCodeProductUnavailable = 40003 // 商品不可售
	ErrCodeEmptyCart          = 40004 // 购物车为空
	ErrCodeWeakPassword       = 40005 // 密码强度不足

	// 参数错误
	ErrCodeInvalidParams = 40050 // 参数错误
	ErrCodeBindError     = 40051 // 参数绑定失败

	// 唯一约束冲突
	ErrCodeDuplicateEntry  = 40900 // 重复记录(通用)
	ErrCodeEmailDuplicate  = 40901 // 邮箱已存在
	ErrCodeTitleDuplicate  = 40902 // 商品标题已存在
	ErrCodeSellerDuplicate = 40903 // 已开通店铺或店铺名重复
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrUserNotFound  = New(ErrCodeUserNotFound, "用户不存在")
	ErrOrderNotFound = New(ErrCodeOrderNotFound, "订单不存在")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}
