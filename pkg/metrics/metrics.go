// Package metrics 商城服务的Prometheus指标
//
// 指标分三组：
//   - HTTP层：请求数、耗时、处理中请求数（由middleware.Metrics记录）
//   - 交易核心：加购结果、结算结果与耗时、事务冲突重试次数
//   - 下游依赖：订单事件发布结果、熔断器状态
//
// 命名规范沿用Prometheus约定：Counter以_total结尾，Histogram以单位结尾，
// 标签只使用有限取值（result、method、route），不使用user_id等高基数字段。
//
// 用法：
//
//	metrics.Init()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	...
//	metrics.CartAddsTotal.WithLabelValues(metrics.ResultMerged).Inc()
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultCreated  = "created"
	ResultMerged   = "merged"
	ResultRejected = "rejected"
	ResultSuccess  = "success"
	ResultFailure  = "failure"
)

var (
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、route（gin路由模板，而非原始URL）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// CartAddsTotal 加购次数，result=created|merged|rejected
	CartAddsTotal *prometheus.CounterVec

	// CheckoutsTotal 结算次数，result=success|failure
	CheckoutsTotal *prometheus.CounterVec

	// CheckoutDuration 结算事务耗时（含重试）
	CheckoutDuration prometheus.Histogram

	// CheckoutsInProgress 正在执行的结算数
	CheckoutsInProgress prometheus.Gauge

	// TxRetriesTotal 因死锁/锁等待超时而重试的事务次数
	TxRetriesTotal prometheus.Counter

	// EventsPublishedTotal 领域事件发布次数
	// 标签：routing_key、result=success|failure
	EventsPublishedTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec
)

// Init 注册全部指标到默认Registry，可重复调用
func Init() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CartAddsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_adds_total",
			Help: "加购次数",
		},
		[]string{"result"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "结算次数",
		},
		[]string{"result"},
	)

	// 结算持有多把行锁，耗时集中在10ms-1s
	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "结算事务耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	CheckoutsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "checkouts_in_progress",
			Help: "正在执行的结算数",
		},
	)

	TxRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_tx_retries_total",
			Help: "事务冲突重试次数",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "领域事件发布次数",
		},
		[]string{"routing_key", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)
}
