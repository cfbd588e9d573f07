package gserve

import "sync/atomic"

// Worker 是 Run 返回的句柄，对应独占整个生命周期的那个 goroutine。
// gserve 自身从不 join；是否等待由调用方决定。
type Worker struct {
	state atomic.Int32
	port  atomic.Uint32
	done  chan struct{}
	err   error // 在 done 关闭前写入
}

func newWorker() *Worker {
	w := &Worker{done: make(chan struct{})}
	w.state.Store(int32(StateStart))
	return w
}

// Done 在 worker 结束后关闭。
func (w *Worker) Done() <-chan struct{} { return w.done }

// Wait 阻塞到 worker 结束，返回使其进入 ERROR 的 *Error。
func (w *Worker) Wait() error {
	<-w.done
	return w.err
}

// Err 非阻塞版本的 Wait；worker 仍在运行时返回 nil。
func (w *Worker) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// State 返回 worker 当前所处的状态。
func (w *Worker) State() State { return State(w.state.Load()) }

// Port 返回 bind 之后实际绑定的端口，bind 之前为 0。
func (w *Worker) Port() uint16 { return uint16(w.port.Load()) }

func (w *Worker) setState(s State) { w.state.Store(int32(s)) }
