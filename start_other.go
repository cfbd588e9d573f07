//go:build !linux && !darwin

package gserve

// Run 在不支持的平台返回占位错误，保证编译通过
func Run(cfg *Config, lc *Lifecycle, fd int, h Handler, data any) (*Worker, error) {
	return nil, ErrPlatformNotSupported
}

func Socket() (int, error) { return -1, ErrPlatformNotSupported }
