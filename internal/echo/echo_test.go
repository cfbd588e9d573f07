//go:build linux || darwin

package echo

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func pair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func readAvailable(t *testing.T, fd int) string {
	t.Helper()
	buf := make([]byte, 256)
	n, err := unix.Read(fd, buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestServeEchoesCompleteLines(t *testing.T) {
	srv, peer := pair(t)
	h := New(Options{Logger: log.New(io.Discard)})

	_, err := unix.Write(peer, []byte("one\ntw"))
	require.NoError(t, err)
	require.False(t, h.Serve(srv, nil, nil))
	require.Equal(t, "one\n", readAvailable(t, peer))

	_, err = unix.Write(peer, []byte("o\n"))
	require.NoError(t, err)
	require.False(t, h.Serve(srv, nil, nil))
	require.Equal(t, "two\n", readAvailable(t, peer))
	require.Equal(t, 2, h.Lines())
}

func TestServeRetiresOnEOF(t *testing.T) {
	srv, peer := pair(t)
	h := New(Options{Logger: log.New(io.Discard)})

	_, err := unix.Write(peer, []byte("partial"))
	require.NoError(t, err)
	require.False(t, h.Serve(srv, nil, nil))
	require.Len(t, h.conns, 1)

	require.NoError(t, unix.Shutdown(peer, unix.SHUT_WR))
	require.True(t, h.Serve(srv, nil, nil))
	require.Empty(t, h.conns)
}

func TestServeDrainReadsUntilEOF(t *testing.T) {
	srv, peer := pair(t)
	h := New(Options{Drain: true, Logger: log.New(io.Discard)})

	_, err := unix.Write(peer, []byte("a\nb\nc\n"))
	require.NoError(t, err)
	require.NoError(t, unix.Shutdown(peer, unix.SHUT_WR))

	require.True(t, h.Serve(srv, nil, nil))
	require.Equal(t, "a\nb\nc\n", readAvailable(t, peer))
	require.Equal(t, 3, h.Lines())
}

func TestServeRetiresOversizedLine(t *testing.T) {
	srv, peer := pair(t)
	h := New(Options{BufSize: 4, Logger: log.New(io.Discard)})

	_, err := unix.Write(peer, []byte("abcdefgh"))
	require.NoError(t, err)
	require.False(t, h.Serve(srv, nil, nil))
	require.True(t, h.Serve(srv, nil, nil), "buffer full without a newline")
}
