package gserve

// State 为生命周期状态，编号稳定，用于诊断输出。
type State int32

const (
	StateStart State = iota
	StateExit
	StateInit
	StateBind
	StateListen
	StateAccept
	StateError
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateExit:
		return "exit"
	case StateInit:
		return "init"
	case StateBind:
		return "bind"
	case StateListen:
		return "listen"
	case StateAccept:
		return "accept"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Transition 为状态表中的一条边；进入 To 时执行 To 对应的步骤。
type Transition struct {
	From, To State
}

var transitions = []Transition{
	{StateStart, StateInit},
	{StateInit, StateBind},
	{StateBind, StateListen},
	{StateListen, StateAccept},
	{StateInit, StateError},
	{StateBind, StateError},
	{StateListen, StateError},
	{StateAccept, StateError},
	{StateError, StateExit},
}

// Transitions 返回状态表的副本。
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

func legal(from, to State) bool {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
