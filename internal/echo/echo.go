//go:build linux || darwin

// Package echo 提供演示用的行回显 handler：按行累积输入并原样写回。
package echo

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/legamerdc/gserve"
	"github.com/legamerdc/gserve/internal/ring"
)

const defaultBufSize = 4096

type Options struct {
	// BufSize 为每连接缓冲大小；单行超过它会退役连接。
	BufSize int
	// Drain 为 true 时一次调用读到 EOF 为止（串行策略使用），
	// 否则每次只读一次（多路复用策略使用）。
	Drain  bool
	Logger *log.Logger
}

// Handler 只在 worker goroutine 中调用，连接表不加锁。
type Handler struct {
	opts  Options
	conns map[int]*ring.Buffer
	lines atomic.Int64 // 可在其它 goroutine 读取
}

var _ gserve.Handler = (*Handler)(nil)

func New(opts Options) *Handler {
	if opts.BufSize <= 0 {
		opts.BufSize = defaultBufSize
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Handler{opts: opts, conns: make(map[int]*ring.Buffer)}
}

// Lines 返回累计回显的行数。
func (h *Handler) Lines() int { return int(h.lines.Load()) }

func (h *Handler) Serve(fd int, cfg *gserve.Config, data any) bool {
	b, ok := h.conns[fd]
	if !ok {
		b = ring.New(h.opts.BufSize)
		h.conns[fd] = b
	}
	for {
		n, err := b.ReadFd(fd)
		if err != nil || n == 0 {
			if err != nil && err != unix.ECONNRESET {
				h.opts.Logger.Warn("echo: read", "conn", fd, "err", err)
			}
			return h.retire(fd)
		}
		if err := h.flushLines(fd, b); err != nil {
			h.opts.Logger.Warn("echo: write", "conn", fd, "err", err)
			return h.retire(fd)
		}
		if !h.opts.Drain {
			return false
		}
	}
}

func (h *Handler) flushLines(fd int, b *ring.Buffer) error {
	for {
		line, ok := b.Line()
		if !ok {
			return nil
		}
		if err := writeAll(fd, line); err != nil {
			return err
		}
		b.Discard(len(line))
		h.lines.Add(1)
	}
}

func (h *Handler) retire(fd int) bool {
	delete(h.conns, fd)
	return true
}

func writeAll(fd int, p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
