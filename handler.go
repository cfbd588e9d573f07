package gserve

// Handler 为用户连接回调，在 worker goroutine 中同步调用。
// 返回 true 表示退役该连接：由 gserve 关闭 fd 并停止跟踪，handler 自己不要关闭 fd。
// 串行策略下 handler 返回后连接总会被关闭。
type Handler interface {
	Serve(fd int, cfg *Config, data any) (retire bool)
}

// HandlerFunc 把普通函数适配为 Handler。
type HandlerFunc func(fd int, cfg *Config, data any) bool

func (f HandlerFunc) Serve(fd int, cfg *Config, data any) bool { return f(fd, cfg, data) }
