//go:build linux || darwin

package gserve

import (
	"github.com/legamerdc/gserve/internal/netutil"
)

// acceptSerial 阻塞 accept，handler 同步执行完并关闭连接后才接受下一个。
// 只有 accept 失败才会离开循环。
func (e *env) acceptSerial() State {
	for {
		cfd, err := netutil.Accept(e.fd)
		if err != nil {
			return e.fail(KindAccept, StateAccept, "accept", err)
		}
		e.log.Debug("accepted", "conn", cfd)
		e.h.Serve(cfd, e.cfg, e.data)
		e.closeConn(cfd)
	}
}
