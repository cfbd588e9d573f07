//go:build linux || darwin

package gserve

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/legamerdc/gserve/internal/netutil"
)

// Run 启动一个 worker：专属 goroutine（锁定到系统线程）依次执行
// INIT → BIND → LISTEN → ACCEPT，任一失败进入 ERROR 后结束。
// fd 为调用方预先创建、尚未绑定的监听套接字，所有权仍归调用方。
func Run(cfg *Config, lc *Lifecycle, fd int, h Handler, data any) (*Worker, error) {
	switch {
	case cfg == nil:
		return nil, ErrNilConfig
	case lc == nil:
		return nil, ErrNilLifecycle
	case h == nil:
		return nil, ErrNilHandler
	case fd < 0:
		return nil, ErrInvalidDescriptor
	}
	if lc.destroyed.Load() {
		return nil, ErrLifecycleDestroyed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 零值 Lifecycle 没有 logger
	logger := lc.logger
	if logger == nil {
		logger = defaultLogger()
	}

	w := newWorker()
	e := &env{
		cfg:  cfg,
		lc:   lc,
		fd:   fd,
		h:    h,
		data: data,
		w:    w,
		log:  logger.With("fd", fd, "strategy", lc.strategy),
	}
	if cfg.Verbose {
		e.log.SetLevel(log.DebugLevel)
	}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(w.done)
		e.run()
	}()
	return w, nil
}

// Socket 创建交给 Run 的监听套接字：未绑定的 IPv4 流式套接字，带 CLOEXEC。
func Socket() (int, error) { return netutil.Socket() }
