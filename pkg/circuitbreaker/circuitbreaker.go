// Package circuitbreaker 保护事务外的下游调用（如事件发布）
//
// 状态机：
//
//	CLOSED ──连续失败达到阈值──▶ OPEN ──OpenTimeout到期──▶ HALF_OPEN
//	   ▲                                                     │
//	   └──────────────探测成功────────────────────────────────┤
//	                                   探测失败 → OPEN ◀──────┘
//
// OPEN状态下调用立即返回ErrOpenState，不再等待下游超时，
// 这样RabbitMQ不可用时结算接口的延迟不受影响。
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开或半开探测名额已满
var ErrOpenState = errors.New("circuit breaker is open")

// Settings 熔断器参数，零值字段使用默认值
type Settings struct {
	FailureThreshold uint32        // 连续失败多少次后熔断，默认5
	OpenTimeout      time.Duration // OPEN持续时间，默认30s
	HalfOpenMaxCalls uint32        // HALF_OPEN允许的并发探测数，默认1

	// OnStateChange 状态切换回调（在锁内调用，不要在其中调用Breaker方法）
	OnStateChange func(name string, from, to State)
}

// Breaker 连续失败计数熔断器
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

	mu            sync.Mutex
	state         State
	failures      uint32    // CLOSED下的连续失败数
	halfOpenCalls uint32    // HALF_OPEN下进行中的探测数
	openedAt      time.Time // 进入OPEN的时间
}

// New 创建熔断器
func New(name string, s Settings) *Breaker {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.HalfOpenMaxCalls == 0 {
		s.HalfOpenMaxCalls = 1
	}
	return &Breaker{
		name:     name,
		settings: s,
		now:      time.Now,
		state:    StateClosed,
	}
}

// Name 熔断器名称
func (b *Breaker) Name() string { return b.name }

// Execute 在熔断保护下执行fn
// ctx已取消时不计入失败
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	state, err := b.allow()
	if err != nil {
		return err
	}

	err = fn(ctx)
	if err != nil && ctx.Err() != nil {
		b.release(state)
		return err
	}

	b.record(state, err == nil)
	return err
}

// State 当前状态（OPEN超时后返回HALF_OPEN）
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

func (b *Breaker) allow() (State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch state := b.currentState(); state {
	case StateOpen:
		return state, ErrOpenState
	case StateHalfOpen:
		if b.halfOpenCalls >= b.settings.HalfOpenMaxCalls {
			return state, ErrOpenState
		}
		b.halfOpenCalls++
		return state, nil
	default:
		return state, nil
	}
}

func (b *Breaker) release(state State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state == StateHalfOpen && b.state == StateHalfOpen && b.halfOpenCalls > 0 {
		b.halfOpenCalls--
	}
}

func (b *Breaker) record(state State, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 执行期间状态已被其他调用切换，本次结果作废
	if b.state != state {
		return
	}

	switch state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		if success {
			b.transition(StateClosed)
		} else {
			b.transition(StateOpen)
		}
	}
}

// currentState 调用方需持有锁
func (b *Breaker) currentState() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.OpenTimeout {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.failures = 0
	b.halfOpenCalls = 0
	if to == StateOpen {
		b.openedAt = b.now()
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
