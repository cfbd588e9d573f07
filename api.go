package gserve

// Config 为服务端配置，由调用方持有；worker 整个生命周期只读。
type Config struct {
	Port         uint16 // 监听端口，0 表示由内核分配
	Backlog      int    // 未接受连接队列上限
	ReuseAddress bool   // bind 前设置 SO_REUSEADDR
	Verbose      bool   // worker 日志提升到 debug
}

// DefaultConfig 提供一组可工作的默认值
func DefaultConfig() Config {
	return Config{
		Port:    8080,
		Backlog: 128,
	}
}

func (c *Config) Validate() error {
	if c.Backlog <= 0 {
		return ErrInvalidBacklog
	}
	return nil
}
