//go:build darwin

package poller

import (
	"slices"
	"time"

	"golang.org/x/sys/unix"
)

// kqueuePoller 只注册 EVFILT_READ，且不带 EV_CLEAR：
// 未读完的数据在下一轮仍会报告，与 select 语义一致。
type kqueuePoller struct {
	kq     int
	listen FD
	events []unix.Kevent_t
}

func newKqueue(listen FD) (Poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	p := &kqueuePoller{kq: kq, listen: listen, events: make([]unix.Kevent_t, 1024)}
	if err := p.Register(listen); err != nil {
		unix.Close(kq)
		return nil, err
	}
	return p, nil
}

func (p *kqueuePoller) change(fd FD, flags int) error {
	var kev unix.Kevent_t
	unix.SetKevent(&kev, fd, unix.EVFILT_READ, flags)
	_, err := unix.Kevent(p.kq, []unix.Kevent_t{kev}, nil, nil)
	return err
}

func (p *kqueuePoller) Register(fd FD) error {
	if fd < 0 {
		return ErrOutOfRange
	}
	return p.change(fd, unix.EV_ADD)
}

func (p *kqueuePoller) Unregister(fd FD) error {
	if fd == p.listen {
		return ErrPinned
	}
	err := p.change(fd, unix.EV_DELETE)
	if err == unix.ENOENT {
		return ErrNotRegistered
	}
	return err
}

func (p *kqueuePoller) Wait(timeout *time.Duration, ready []FD) ([]FD, error) {
	var tsp *unix.Timespec
	if timeout != nil {
		ts := unix.NsecToTimespec(timeout.Nanoseconds())
		tsp = &ts
	}
	n, err := unix.Kevent(p.kq, nil, p.events, tsp)
	if err != nil {
		if err == unix.EINTR {
			return ready, nil
		}
		return ready, err
	}
	start := len(ready)
	for i := 0; i < n; i++ {
		// EV_EOF 也交给 handler，由其读到 EOF 后退役
		ready = append(ready, int(p.events[i].Ident))
	}
	slices.Sort(ready[start:])
	return ready, nil
}

func (p *kqueuePoller) Close() error { return unix.Close(p.kq) }
