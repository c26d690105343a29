package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNo 生成订单号
// 格式:ORD + 时间戳(秒) + 6位随机数,示例:ORD1699248000123456
// 时间前缀保证大致有序,随机后缀防止遍历;唯一性最终由order_no唯一索引兜底
func GenerateOrderNo(now time.Time) string {
	return fmt.Sprintf("ORD%d%06d", now.Unix(), rand.IntN(1000000))
}
