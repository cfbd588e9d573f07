//go:build linux || darwin

package poller

import (
	"golang.org/x/sys/unix"
)

// Set 是 select 后端的关注集合，同时维护集合中的最大 fd。
// 监听 fd 作为下界常驻集合，最大值回退扫描不会越过它。
type Set struct {
	fds   unix.FdSet
	floor FD
	max   FD
	n     int
}

// NewSet 返回只含监听 fd 的集合。
func NewSet(listen FD) (*Set, error) {
	if listen < 0 || listen >= unix.FD_SETSIZE {
		return nil, ErrOutOfRange
	}
	s := &Set{floor: listen, max: listen, n: 1}
	s.fds.Zero()
	s.fds.Set(listen)
	return s, nil
}

func (s *Set) Add(fd FD) error {
	if fd < 0 || fd >= unix.FD_SETSIZE {
		return ErrOutOfRange
	}
	if s.fds.IsSet(fd) {
		return nil
	}
	s.fds.Set(fd)
	s.n++
	if fd > s.max {
		s.max = fd
	}
	return nil
}

// Remove 移出 fd；若移出的是当前最大值，则向下扫描到仍在集合中的 fd。
func (s *Set) Remove(fd FD) error {
	if fd == s.floor {
		return ErrPinned
	}
	if !s.Contains(fd) {
		return ErrNotRegistered
	}
	s.fds.Clear(fd)
	s.n--
	for s.max > s.floor && !s.fds.IsSet(s.max) {
		s.max--
	}
	return nil
}

func (s *Set) Contains(fd FD) bool {
	if fd < 0 || fd >= unix.FD_SETSIZE {
		return false
	}
	return s.fds.IsSet(fd)
}

func (s *Set) Max() FD    { return s.max }
func (s *Set) Listen() FD { return s.floor }
func (s *Set) Len() int   { return s.n }

// CopyTo 把集合复制到 dst，select 会就地改写工作副本。
func (s *Set) CopyTo(dst *unix.FdSet) { *dst = s.fds }
