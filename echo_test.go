//go:build linux

package gserve_test

import (
	"bufio"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/legamerdc/gserve"
	"github.com/legamerdc/gserve/client"
	"github.com/legamerdc/gserve/internal/echo"
	"github.com/legamerdc/gserve/poller"
)

const waitFor = 3 * time.Second

func runEcho(t *testing.T, s gserve.Strategy, b poller.Backend, h gserve.Handler) *gserve.Worker {
	t.Helper()
	lc, err := gserve.NewLifecycle(s,
		gserve.WithLogger(log.New(io.Discard)),
		gserve.WithBackend(b),
		gserve.WithMultiplexFailure(gserve.FailWorker),
	)
	require.NoError(t, err)
	fd, err := gserve.Socket()
	require.NoError(t, err)

	w, err := gserve.Run(&gserve.Config{Backlog: 16}, lc, fd, h, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Shutdown(fd, unix.SHUT_RDWR)
		<-w.Done()
		_ = unix.Close(fd)
	})
	require.Eventually(t, func() bool { return w.State() == gserve.StateAccept }, waitFor, 5*time.Millisecond)
	return w
}

// pipeHandler 把客户端收到的字节转进管道，便于按行读取。
type pipeHandler struct {
	w      *io.PipeWriter
	closed chan error
}

func (p *pipeHandler) OnOpen(*client.Client) {}

func (p *pipeHandler) OnData(_ *client.Client, b []byte) { _, _ = p.w.Write(b) }

func (p *pipeHandler) OnClose(_ *client.Client, err error) {
	p.closed <- err
	_ = p.w.Close()
}

func TestEchoEndToEnd(t *testing.T) {
	cases := []struct {
		name string
		s    gserve.Strategy
		b    poller.Backend
	}{
		{"serial", gserve.StrategySerial, poller.BackendSelect},
		{"select", gserve.StrategySelect, poller.BackendSelect},
		{"epoll", gserve.StrategySelect, poller.BackendEpoll},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := echo.New(echo.Options{Drain: tc.s == gserve.StrategySerial, Logger: log.New(io.Discard)})
			w := runEcho(t, tc.s, tc.b, h)

			pr, pw := io.Pipe()
			ph := &pipeHandler{w: pw, closed: make(chan error, 1)}
			c, err := client.Dial("tcp4", fmt.Sprintf("127.0.0.1:%d", w.Port()), waitFor, ph)
			require.NoError(t, err)
			defer c.Close()

			require.NoError(t, c.Write([]byte("hello\nwor")))
			require.NoError(t, c.Write([]byte("ld\n")))

			r := bufio.NewReader(pr)
			line, err := r.ReadString('\n')
			require.NoError(t, err)
			require.Equal(t, "hello\n", line)
			line, err = r.ReadString('\n')
			require.NoError(t, err)
			require.Equal(t, "world\n", line)

			require.NoError(t, c.CloseWrite())
			select {
			case <-ph.closed:
			case <-time.After(waitFor):
				t.Fatal("server did not close the connection")
			}
		})
	}
}
