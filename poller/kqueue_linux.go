//go:build linux

package poller

func newKqueue(listen FD) (Poller, error) { return nil, ErrBackendUnsupported }
