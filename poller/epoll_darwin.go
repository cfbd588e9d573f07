//go:build darwin

package poller

func newEpoll(listen FD) (Poller, error) { return nil, ErrBackendUnsupported }
