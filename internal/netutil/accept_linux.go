//go:build linux

package netutil

import "golang.org/x/sys/unix"

// Accept 阻塞接受一个连接，新 fd 带 CLOEXEC 且保持阻塞模式。
// 被信号打断时重试。
func Accept(lfd int) (int, error) {
	for {
		fd, _, err := unix.Accept4(lfd, unix.SOCK_CLOEXEC)
		if err == unix.EINTR {
			continue
		}
		return fd, err
	}
}
