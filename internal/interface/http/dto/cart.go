package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// Quantity 加购数量
// 同时接受JSON数字(3)和数字字符串("3"),小数和其他内容视为参数错误
type Quantity int

func (q *Quantity) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("quantity必须是整数: %s", string(b))
	}
	*q = Quantity(n)
	return nil
}

// AddToCartRequest 加购请求体(可省略,省略时数量为1)
type AddToCartRequest struct {
	Quantity *Quantity `json:"quantity"`
}
