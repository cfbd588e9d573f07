//go:build linux || darwin

package gserve

import (
	"github.com/legamerdc/gserve/internal/netutil"
	"github.com/legamerdc/gserve/poller"
)

// newPoller 可在测试中替换
var newPoller = poller.New

// acceptSelect 单线程就绪循环：每轮等待后按 fd 升序处理，
// 监听 fd 就绪则 accept 并加入关注集合，其余交给 handler。
func (e *env) acceptSelect() State {
	p, err := newPoller(e.lc.backend, e.fd)
	if err != nil {
		return e.multiplexFailure("poller", err)
	}
	defer p.Close()

	ready := make([]poller.FD, 0, 64)
	for {
		ready, err = p.Wait(e.lc.timeout, ready[:0])
		if err != nil {
			return e.multiplexFailure(e.lc.backend.String(), err)
		}
		if len(ready) == 0 {
			// 超时或被信号打断；预留给周期性检查
			continue
		}
		for _, fd := range ready {
			if fd == e.fd {
				cfd, err := netutil.Accept(e.fd)
				if err != nil {
					return e.multiplexFailure("accept", err)
				}
				if err := p.Register(cfd); err != nil {
					e.log.Warn("cannot track connection, closing", "conn", cfd, "err", err)
					e.closeConn(cfd)
					continue
				}
				e.log.Debug("accepted", "conn", cfd)
				continue
			}
			if !e.h.Serve(fd, e.cfg, e.data) {
				continue
			}
			if err := p.Unregister(fd); err != nil {
				e.log.Warn("unregister connection", "conn", fd, "err", err)
			}
			e.closeConn(fd)
			e.log.Debug("retired", "conn", fd)
		}
	}
}

// multiplexFailure 按 MultiplexFailure 策略处理：默认结束整个进程。
func (e *env) multiplexFailure(op string, err error) State {
	st := e.fail(KindMultiplex, StateAccept, op, err)
	if e.lc.onFailure == FailProcess {
		e.log.Error(e.err.Diagnostic(), "kind", e.err.Kind, "op", op, "policy", e.lc.onFailure)
		exit(1)
	}
	return st
}
