//go:build linux

package poller

import (
	"math"
	"slices"
	"time"

	"golang.org/x/sys/unix"
)

// epollPoller 使用水平触发：未读完的数据在下一轮仍会报告，与 select 语义一致。
type epollPoller struct {
	efd    int
	listen FD
	events []unix.EpollEvent
}

func newEpoll(listen FD) (Poller, error) {
	efd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	p := &epollPoller{efd: efd, listen: listen, events: make([]unix.EpollEvent, 1024)}
	if err := p.Register(listen); err != nil {
		unix.Close(efd)
		return nil, err
	}
	return p, nil
}

func (p *epollPoller) Register(fd FD) error {
	if fd < 0 {
		return ErrOutOfRange
	}
	ev := &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	return unix.EpollCtl(p.efd, unix.EPOLL_CTL_ADD, fd, ev)
}

func (p *epollPoller) Unregister(fd FD) error {
	if fd == p.listen {
		return ErrPinned
	}
	err := unix.EpollCtl(p.efd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT {
		return ErrNotRegistered
	}
	return err
}

func (p *epollPoller) Wait(timeout *time.Duration, ready []FD) ([]FD, error) {
	n, err := unix.EpollWait(p.efd, p.events, epollMsec(timeout))
	if err != nil {
		if err == unix.EINTR {
			return ready, nil
		}
		return ready, err
	}
	start := len(ready)
	for i := 0; i < n; i++ {
		// ERR/HUP 也当作可读交给 handler，由其读到 EOF 后退役
		ready = append(ready, int(p.events[i].Fd))
	}
	slices.Sort(ready[start:])
	return ready, nil
}

// epollMsec 把超时换算成 epoll_wait 的毫秒参数：nil 为 -1（无限等待），
// 不足 1ms 的正值按 1ms，超出 int32 的截到 MaxInt32。
func epollMsec(timeout *time.Duration) int {
	if timeout == nil {
		return -1
	}
	ms := timeout.Milliseconds()
	switch {
	case ms > math.MaxInt32:
		return math.MaxInt32
	case ms == 0 && *timeout > 0:
		return 1
	}
	return int(ms)
}

func (p *epollPoller) Close() error { return unix.Close(p.efd) }
