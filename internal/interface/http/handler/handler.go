package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// bindError 参数绑定/校验失败统一返回40051
func bindError(err error) *apperrors.AppError {
	return apperrors.ErrBindError.WithMessage("参数错误: %v", err)
}

// pathID 解析路径中的正整数ID
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidParams.WithMessage("无效的%s: %s", name, c.Param(name))
	}
	return uint(id), nil
}

// queryInt 解析可选的整数查询参数，缺省或非法时返回def
func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}
