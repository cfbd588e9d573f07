//go:build darwin

package netutil

import "golang.org/x/sys/unix"

// Accept 阻塞接受一个连接；darwin 没有 accept4，接受后再设置 CLOEXEC。
func Accept(lfd int) (int, error) {
	for {
		fd, _, err := unix.Accept(lfd)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return -1, err
		}
		unix.CloseOnExec(fd)
		return fd, nil
	}
}
