package gserve

import (
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/legamerdc/gserve/poller"
)

// Strategy 选择 ACCEPT 状态的接受策略。
type Strategy uint8

const (
	// StrategySerial 阻塞 accept，handler 同步跑完才接受下一个连接。
	StrategySerial Strategy = iota
	// StrategySelect 单线程就绪等待，同时跟踪多个连接。
	StrategySelect
)

func (s Strategy) String() string {
	switch s {
	case StrategySerial:
		return "serial"
	case StrategySelect:
		return "select"
	default:
		return "unknown"
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serial", "sequential":
		return StrategySerial, nil
	case "select", "multiplexed":
		return StrategySelect, nil
	}
	return 0, errors.Errorf("gserve: unknown strategy %q", s)
}

// MultiplexFailure 决定多路复用策略中等待或 accept 失败的影响范围。
type MultiplexFailure uint8

const (
	// FailProcess 记录日志后以状态码 1 退出整个进程（默认）。
	FailProcess MultiplexFailure = iota
	// FailWorker 与其它失败一致，只结束当前 worker。
	FailWorker
)

func (m MultiplexFailure) String() string {
	switch m {
	case FailProcess:
		return "process"
	case FailWorker:
		return "worker"
	default:
		return "unknown"
	}
}

func ParseMultiplexFailure(s string) (MultiplexFailure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "process":
		return FailProcess, nil
	case "worker":
		return FailWorker, nil
	}
	return 0, errors.Errorf("gserve: unknown multiplex failure policy %q", s)
}

// Lifecycle 描述一次运行使用的生命周期：接受策略、等待超时及附属选项。
// 构造后不可变，可交给 Run；Destroy 之后不能再使用。
type Lifecycle struct {
	strategy  Strategy
	timeout   *time.Duration // nil 表示无限等待
	logger    *log.Logger
	onFailure MultiplexFailure
	backend   poller.Backend
	destroyed atomic.Bool
}

// Option 配置 Lifecycle。
type Option func(*Lifecycle) error

// WithTimeout 设置多路复用等待的超时；不设置时无限等待。
func WithTimeout(d time.Duration) Option {
	return func(l *Lifecycle) error {
		if d < 0 {
			return ErrInvalidTimeout
		}
		l.timeout = &d
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Lifecycle) error {
		if logger != nil {
			l.logger = logger
		}
		return nil
	}
}

func WithMultiplexFailure(m MultiplexFailure) Option {
	return func(l *Lifecycle) error {
		l.onFailure = m
		return nil
	}
}

// WithBackend 选择多路复用策略的就绪等待后端，默认 select。
func WithBackend(b poller.Backend) Option {
	return func(l *Lifecycle) error {
		l.backend = b
		return nil
	}
}

// NewLifecycle 创建生命周期描述。
func NewLifecycle(s Strategy, opts ...Option) (*Lifecycle, error) {
	if s != StrategySerial && s != StrategySelect {
		return nil, errors.Errorf("gserve: unknown strategy %d", s)
	}
	l := &Lifecycle{strategy: s}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	if l.logger == nil {
		l.logger = defaultLogger()
	}
	return l, nil
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "gserve",
		ReportTimestamp: true,
	})
}

// Destroy 释放生命周期描述；之后传给 Run 会返回 ErrLifecycleDestroyed。
// 已经在运行的 worker 不受影响。
func (l *Lifecycle) Destroy() { l.destroyed.Store(true) }

func (l *Lifecycle) Strategy() Strategy { return l.strategy }

// Timeout 返回等待超时；ok 为 false 表示无限等待。
func (l *Lifecycle) Timeout() (d time.Duration, ok bool) {
	if l.timeout == nil {
		return 0, false
	}
	return *l.timeout, true
}

func (l *Lifecycle) Backend() poller.Backend            { return l.backend }
func (l *Lifecycle) MultiplexFailure() MultiplexFailure { return l.onFailure }
