package gserve

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrPlatformNotSupported 需要 select(2) 的 unix 平台
	ErrPlatformNotSupported = errors.New("gserve: platform not supported (requires linux or darwin)")

	ErrNilHandler         = errors.New("gserve: nil handler")
	ErrNilConfig          = errors.New("gserve: nil config")
	ErrNilLifecycle       = errors.New("gserve: nil lifecycle")
	ErrLifecycleDestroyed = errors.New("gserve: lifecycle destroyed")
	ErrInvalidDescriptor  = errors.New("gserve: invalid listening descriptor")
	ErrInvalidBacklog     = errors.New("gserve: backlog must be positive")
	ErrInvalidTimeout     = errors.New("gserve: timeout must not be negative")
)

// ErrorKind 区分失败的作用范围。
type ErrorKind uint8

const (
	// KindSetup init/bind/listen 失败，仅结束当前 worker。
	KindSetup ErrorKind = iota + 1
	// KindAccept 串行策略 accept 失败，仅结束当前 worker。
	KindAccept
	// KindMultiplex 多路复用策略的等待或 accept 失败，按 MultiplexFailure 策略处理。
	KindMultiplex
)

func (k ErrorKind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindAccept:
		return "accept"
	case KindMultiplex:
		return "multiplex"
	default:
		return "unknown"
	}
}

// Error 描述使 worker 进入 ERROR 状态的失败。
type Error struct {
	Kind  ErrorKind
	State State  // 失败发生时所在的状态
	Op    string // 失败的系统调用
	Err   error  // 原始 errno
}

func (e *Error) Error() string {
	return fmt.Sprintf("gserve: %s failed in %s: %s: %v", e.Kind, e.State, e.Op, e.Err)
}

// Diagnostic 返回 "<状态编号> - <系统错误描述>" 形式的诊断行。
func (e *Error) Diagnostic() string {
	return fmt.Sprintf("%d - %s", int(e.State), e.Err.Error())
}

func (e *Error) Unwrap() error { return e.Err }

// Cause 兼容 github.com/pkg/errors 的 causer。
func (e *Error) Cause() error { return e.Err }
