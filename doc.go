// Package gserve 把调用方创建的监听套接字依次推进 INIT → BIND → LISTEN → ACCEPT，
// 并用串行或 select 多路复用两种接受策略把连接交给 Handler。
//
//	fd, _ := gserve.Socket()
//	lc, _ := gserve.NewLifecycle(gserve.StrategySelect, gserve.WithTimeout(time.Second))
//	w, err := gserve.Run(&gserve.Config{Port: 9000, Backlog: 128}, lc, fd, h, nil)
//	...
//	err = w.Wait()
//
// 任一步骤失败都会进入 ERROR，输出 "<状态编号> - <错误描述>" 后结束 worker。
package gserve
