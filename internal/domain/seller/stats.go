package seller

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StatsDelta 单个卖家在一次结算中的统计增量
type StatsDelta struct {
	SellerID uint
	Sales    decimal.Decimal
	Orders   int
}

// StatsAccumulator 按卖家归并一次结算内的订单明细贡献
// 每条明细计一次订单数(同一卖家的3条明细 → total_orders+3),
// 归并后每个卖家只执行一次原子自增
type StatsAccumulator struct {
	deltas map[uint]*StatsDelta
}

// NewStatsAccumulator 创建累加器
func NewStatsAccumulator() *StatsAccumulator {
	return &StatsAccumulator{deltas: make(map[uint]*StatsDelta)}
}

// Add 记录一条明细的小计
func (a *StatsAccumulator) Add(sellerID uint, lineTotal decimal.Decimal) {
	d, ok := a.deltas[sellerID]
	if !ok {
		d = &StatsDelta{SellerID: sellerID, Sales: decimal.Zero}
		a.deltas[sellerID] = d
	}
	d.Sales = d.Sales.Add(lineTotal)
	d.Orders++
}

// Deltas 按SellerID升序返回(固定加锁顺序)
func (a *StatsAccumulator) Deltas() []StatsDelta {
	out := make([]StatsDelta, 0, len(a.deltas))
	for _, d := range a.deltas {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SellerID < out[j].SellerID })
	return out
}
