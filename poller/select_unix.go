//go:build linux || darwin

package poller

import (
	"time"

	"golang.org/x/sys/unix"
)

// darwin 的 select 拒绝超过 1e8 秒的 timeval
const maxSelectTimeout = 100_000_000 * time.Second

// SelectPoller 基于 select(2)：每轮复制关注集合作为工作副本，
// 按 fd 升序扫描就绪位。
type SelectPoller struct {
	set  *Set
	work unix.FdSet
}

func NewSelect(listen FD) (*SelectPoller, error) {
	s, err := NewSet(listen)
	if err != nil {
		return nil, err
	}
	return &SelectPoller{set: s}, nil
}

func (p *SelectPoller) Register(fd FD) error   { return p.set.Add(fd) }
func (p *SelectPoller) Unregister(fd FD) error { return p.set.Remove(fd) }

// Set 暴露关注集合（只读使用）。
func (p *SelectPoller) Set() *Set { return p.set }

func (p *SelectPoller) Wait(timeout *time.Duration, ready []FD) ([]FD, error) {
	p.set.CopyTo(&p.work)
	hi := p.set.Max()

	var tvp *unix.Timeval
	if timeout != nil {
		// Linux 会改写 timeval，每轮重新构造
		tv := unix.NsecToTimeval(min(*timeout, maxSelectTimeout).Nanoseconds())
		tvp = &tv
	}
	n, err := unix.Select(hi+1, &p.work, nil, nil, tvp)
	if err != nil {
		if err == unix.EINTR {
			return ready, nil
		}
		return ready, err
	}
	for fd := 0; fd <= hi && n > 0; fd++ {
		if p.work.IsSet(fd) {
			ready = append(ready, fd)
			n--
		}
	}
	return ready, nil
}

func (p *SelectPoller) Close() error { return nil }
