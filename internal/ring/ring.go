//go:build linux || darwin

package ring

import (
	"bytes"

	"github.com/pkg/errors"

	"golang.org/x/sys/unix"
)

var ErrFull = errors.New("ring: buffer full")

// Buffer 是单 goroutine 使用的环形字节缓冲，容量为 2 的幂。
type Buffer struct {
	buf      []byte
	mask     int
	readPos  int
	writePos int
}

// New 返回容量为 2 的幂次的环形缓冲。若 cap 非 2 的幂则向上取整。
func New(capacity int) *Buffer {
	capPow2 := 1
	for capPow2 < capacity {
		capPow2 <<= 1
	}
	return &Buffer{buf: make([]byte, capPow2), mask: capPow2 - 1}
}

func (b *Buffer) Cap() int  { return len(b.buf) }
func (b *Buffer) Len() int  { return b.writePos - b.readPos }
func (b *Buffer) Free() int { return b.Cap() - b.Len() }

// ReadFd 从 fd 读一次，直接写入尾部的连续空闲区。
// 返回 0, nil 表示对端关闭。
func (b *Buffer) ReadFd(fd int) (int, error) {
	if b.Free() == 0 {
		return 0, ErrFull
	}
	start := b.writePos & b.mask
	end := len(b.buf)
	if b.Free() < end-start {
		end = start + b.Free()
	}
	for {
		n, err := unix.Read(fd, b.buf[start:end])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		b.writePos += n
		return n, nil
	}
}

// Peek 读取最多 n 字节但不前进读指针；跨越边界时返回拷贝。
func (b *Buffer) Peek(n int) []byte {
	if n <= 0 {
		return nil
	}
	if ln := b.Len(); n > ln {
		n = ln
	}
	start := b.readPos & b.mask
	if start+n <= len(b.buf) {
		return b.buf[start : start+n]
	}
	out := make([]byte, n)
	l := copy(out, b.buf[start:])
	copy(out[l:], b.buf[:n-l])
	return out
}

// Line 返回第一个以 '\n' 结尾的行（含换行符），不前进读指针。
func (b *Buffer) Line() ([]byte, bool) {
	p := b.Peek(b.Len())
	i := bytes.IndexByte(p, '\n')
	if i < 0 {
		return nil, false
	}
	return p[:i+1], true
}

// Discard 前进读指针。
func (b *Buffer) Discard(n int) int {
	if ln := b.Len(); n > ln {
		n = ln
	}
	b.readPos += n
	if b.readPos == b.writePos {
		b.readPos, b.writePos = 0, 0
	}
	return n
}
