package signal

import "github.com/lwmacct/251215-go-pkg-signal/pkg/actor"

// 消息类型标识
const (
	KindStop      = "signal.stop"
	KindTerminate = "signal.terminate"
)

// StopSignal 请求 Actor 优雅停止
type StopSignal struct{}

// Kind 实现 actor.Message
func (*StopSignal) Kind() string { return KindStop }

// Deliver 实现 actor.Deliverer，交给 Actor 的 HandleStop
func (m *StopSignal) Deliver(ctx *actor.Context, a actor.Actor) bool {
	h, ok := a.(StopHandler)
	if !ok {
		return false
	}
	h.HandleStop(ctx, m)
	return true
}

// TerminateSignal 请求 Actor 立即终止
type TerminateSignal struct{}

// Kind 实现 actor.Message
func (*TerminateSignal) Kind() string { return KindTerminate }

// Deliver 实现 actor.Deliverer，交给 Actor 的 HandleTerminate
func (m *TerminateSignal) Deliver(ctx *actor.Context, a actor.Actor) bool {
	h, ok := a.(TerminateHandler)
	if !ok {
		return false
	}
	h.HandleTerminate(ctx, m)
	return true
}

var (
	_ actor.Deliverer = (*StopSignal)(nil)
	_ actor.Deliverer = (*TerminateSignal)(nil)
)
