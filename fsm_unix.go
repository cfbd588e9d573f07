//go:build linux || darwin

package gserve

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/legamerdc/gserve/internal/netutil"
)

// exit 可在测试中替换
var exit = os.Exit

// env 为 worker 私有的运行时状态，只有 worker goroutine 访问，不加锁。
type env struct {
	cfg  *Config
	lc   *Lifecycle
	fd   int
	addr unix.SockaddrInet4
	h    Handler
	data any
	w    *Worker
	log  *log.Logger
	err  *Error
}

// run 按状态表推进直到 EXIT。
func (e *env) run() {
	from, to := StateStart, StateInit
	for to != StateExit {
		if !legal(from, to) {
			e.fail(KindSetup, from, "transition", errors.Errorf("illegal transition %s -> %s", from, to))
			if from == StateError {
				break
			}
			to = StateError
		}
		e.w.setState(to)
		e.log.Debug("enter state", "from", from, "to", to)
		from, to = to, e.enter(from, to)
	}
	e.w.setState(StateExit)
}

func (e *env) enter(from, to State) State {
	switch to {
	case StateInit:
		return e.init()
	case StateBind:
		return e.bind()
	case StateListen:
		return e.listen()
	case StateAccept:
		if e.lc.strategy == StrategySelect {
			return e.acceptSelect()
		}
		return e.acceptSerial()
	case StateError:
		return e.report(from)
	}
	return e.fail(KindSetup, from, "transition", errors.Errorf("no step for state %s", to))
}

func (e *env) init() State {
	e.addr = *netutil.AnyAddr4(e.cfg.Port)
	return StateBind
}

func (e *env) bind() State {
	if e.cfg.ReuseAddress {
		if err := netutil.SetReuseAddr(e.fd, true); err != nil {
			return e.fail(KindSetup, StateBind, "setsockopt(SO_REUSEADDR)", err)
		}
	}
	if err := unix.Bind(e.fd, &e.addr); err != nil {
		return e.fail(KindSetup, StateBind, "bind", err)
	}
	port, err := netutil.LocalPort(e.fd)
	if err != nil {
		port = e.cfg.Port
	}
	e.w.port.Store(uint32(port))
	e.log = e.log.With("port", port)
	e.log.Debug("bound", "addr", netutil.TCPAddr(&e.addr), "reuse", e.cfg.ReuseAddress)
	return StateListen
}

func (e *env) listen() State {
	if err := unix.Listen(e.fd, e.cfg.Backlog); err != nil {
		return e.fail(KindSetup, StateListen, "listen", err)
	}
	e.log.Info("listening", "backlog", e.cfg.Backlog)
	return StateAccept
}

// fail 记录失败并转入 ERROR。
func (e *env) fail(kind ErrorKind, st State, op string, err error) State {
	e.err = &Error{Kind: kind, State: st, Op: op, Err: err}
	return StateError
}

// report 为 ERROR 状态：输出诊断并结束。
func (e *env) report(from State) State {
	if e.err == nil {
		e.err = &Error{Kind: KindSetup, State: from, Op: "unknown", Err: unix.EINVAL}
	}
	e.log.Error(e.err.Diagnostic(), "kind", e.err.Kind, "state", e.err.State, "op", e.err.Op)
	e.w.err = e.err
	return StateExit
}

func (e *env) closeConn(fd int) {
	if err := unix.Close(fd); err != nil {
		e.log.Warn("close connection", "conn", fd, "err", err)
	}
}
