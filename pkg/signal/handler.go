package signal

import "github.com/lwmacct/251215-go-pkg-signal/pkg/actor"

// StopHandler 处理 StopSignal
type StopHandler interface {
	HandleStop(ctx *actor.Context, msg *StopSignal)
}

// TerminateHandler 处理 TerminateSignal
type TerminateHandler interface {
	HandleTerminate(ctx *actor.Context, msg *TerminateSignal)
}

// Handler 能处理全部信号的 Actor
//
// 其他泛型代码可以用它作为约束，要求类型参数具备信号处理能力。
type Handler interface {
	actor.Actor
	StopHandler
	TerminateHandler
}

// Defaults 默认的信号处理方法，嵌入到 Actor 中使用
//
// 嵌入类型可以自行定义 HandleStop 或 HandleTerminate 覆盖默认行为。
type Defaults struct{}

// HandleStop 优雅停止当前 Actor
func (Defaults) HandleStop(ctx *actor.Context, _ *StopSignal) {
	ctx.StopSelf()
}

// HandleTerminate 立即终止当前 Actor
func (Defaults) HandleTerminate(ctx *actor.Context, _ *TerminateSignal) {
	ctx.TerminateSelf()
}

var (
	_ StopHandler      = Defaults{}
	_ TerminateHandler = Defaults{}
)

// Assert 在编译期确认 A 满足 Handler，运行时无任何效果
//
//	var _ = signal.Assert[*Worker]
func Assert[A Handler]() {}
