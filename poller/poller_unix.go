//go:build linux || darwin

package poller

// New 创建指定后端的 Poller，并把监听 fd 预先加入关注集合。
func New(b Backend, listen FD) (Poller, error) {
	switch b {
	case BackendSelect:
		return NewSelect(listen)
	case BackendEpoll:
		return newEpoll(listen)
	case BackendKqueue:
		return newKqueue(listen)
	}
	return nil, ErrBackendUnsupported
}
