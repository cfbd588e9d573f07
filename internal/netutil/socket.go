//go:build linux || darwin

package netutil

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Socket 创建未绑定的 IPv4 流式套接字（阻塞模式，CLOEXEC）。
func Socket() (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	return fd, nil
}

func Close(fd int) error { return unix.Close(fd) }

func SetReuseAddr(fd int, enable bool) error {
	v := 0
	if enable {
		v = 1
	}
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, v)
}

// AnyAddr4 返回通配地址 0.0.0.0:port。
func AnyAddr4(port uint16) *unix.SockaddrInet4 {
	var sa unix.SockaddrInet4
	sa.Port = int(port)
	sa.Addr = [4]byte{0, 0, 0, 0}
	return &sa
}

// LocalPort 通过 getsockname 读取实际绑定端口（端口 0 时由内核分配）。
func LocalPort(fd int) (uint16, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, err
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return uint16(a.Port), nil
	case *unix.SockaddrInet6:
		return uint16(a.Port), nil
	}
	return 0, syscall.EAFNOSUPPORT
}

// TCPAddr 把 sockaddr 转成 net.TCPAddr，便于日志输出。
func TCPAddr(sa *unix.SockaddrInet4) *net.TCPAddr {
	return &net.TCPAddr{IP: net.IPv4(sa.Addr[0], sa.Addr[1], sa.Addr[2], sa.Addr[3]), Port: sa.Port}
}
