// Package client 提供一个原始字节的 TCP 客户端，供 probe 命令和测试连接 gserve。
package client

import (
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Handler interface {
	OnOpen(c *Client)
	OnData(c *Client, b []byte)
	OnClose(c *Client, err error)
}

type Client struct {
	conn net.Conn
	mu   sync.Mutex
	done chan struct{}
}

// Dial 连接服务端并启动读循环；OnOpen 在读循环启动前同步调用。
func Dial(network, address string, timeout time.Duration, h Handler) (*Client, error) {
	nc, err := net.DialTimeout(network, address, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "client: dial %s", address)
	}
	c := &Client{conn: nc, done: make(chan struct{})}
	h.OnOpen(c)
	go c.readLoop(h)
	return c, nil
}

func (c *Client) readLoop(h Handler) {
	defer close(c.done)
	buf := make([]byte, 64<<10)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			// 回调可能异步持有数据，交出拷贝
			h.OnData(c, append([]byte(nil), buf[:n]...))
		}
		if err != nil {
			h.OnClose(c, err)
			return
		}
	}
}

func (c *Client) Write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.conn.Write(b)
	return err
}

// CloseWrite 半关闭写方向，服务端会读到 EOF。
func (c *Client) CloseWrite() error {
	if tc, ok := c.conn.(*net.TCPConn); ok {
		return tc.CloseWrite()
	}
	return c.conn.Close()
}

func (c *Client) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// Done 在读循环退出后关闭。
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Close() error { return c.conn.Close() }
