package poller

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// FD 表示文件描述符。
type FD = int

// Poller 是多路复用接受策略使用的就绪等待后端。
// 只由单个 worker goroutine 使用，不做并发保护。
type Poller interface {
	// Register 把 fd 加入关注集合。
	Register(fd FD) error
	// Unregister 把 fd 移出关注集合；监听 fd 不可移除。
	Unregister(fd FD) error
	// Wait 阻塞直到有 fd 可读或超时（timeout 为 nil 时无限等待），
	// 就绪 fd 按数值升序追加到 ready 后返回。被信号打断时返回空集合。
	Wait(timeout *time.Duration, ready []FD) ([]FD, error)
	Close() error
}

// Backend 选择就绪等待的系统调用。
type Backend uint8

const (
	// BackendSelect 使用 select(2)，受 FD_SETSIZE 限制。
	BackendSelect Backend = iota
	// BackendEpoll 使用水平触发的 epoll（仅 Linux）。
	BackendEpoll
	// BackendKqueue 使用水平触发的 kqueue（仅 darwin）。
	BackendKqueue
)

var (
	ErrBackendUnsupported = errors.New("poller: backend not supported on this platform")
	ErrOutOfRange         = errors.New("poller: descriptor out of range")
	ErrPinned             = errors.New("poller: listening descriptor cannot be removed")
	ErrNotRegistered      = errors.New("poller: descriptor not registered")
)

func (b Backend) String() string {
	switch b {
	case BackendSelect:
		return "select"
	case BackendEpoll:
		return "epoll"
	case BackendKqueue:
		return "kqueue"
	default:
		return "unknown"
	}
}

// ParseBackend 解析配置中的后端名称。
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "select":
		return BackendSelect, nil
	case "epoll":
		return BackendEpoll, nil
	case "kqueue":
		return BackendKqueue, nil
	}
	return 0, errors.Errorf("poller: unknown backend %q", s)
}
