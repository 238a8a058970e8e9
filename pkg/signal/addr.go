package signal

import "github.com/lwmacct/251215-go-pkg-signal/pkg/actor"

// Addr 信号能力的 Actor 地址
//
// 只有 A 满足 [Handler] 时才能构造 Addr，因此 Stop 与 Terminate 只出现在
// 能处理信号的 Actor 的地址上。零值可用，所有操作都是空操作。
type Addr[A Handler] struct {
	ref actor.Ref[A]
}

// Of 为已有的类型化引用附加信号操作
func Of[A Handler](ref actor.Ref[A]) Addr[A] {
	return Addr[A]{ref: ref}
}

// Spawn 创建 Actor 并返回其信号地址
func Spawn[A Handler](sys *actor.System, a A, name string) Addr[A] {
	return Addr[A]{ref: actor.Spawn(sys, a, name)}
}

// Stop 投递一条 StopSignal，立即返回
func (a Addr[A]) Stop() { Stop(a.ref) }

// Terminate 投递一条 TerminateSignal，立即返回
func (a Addr[A]) Terminate() { Terminate(a.ref) }

// Ref 返回底层类型化引用
func (a Addr[A]) Ref() actor.Ref[A] { return a.ref }

// PID 返回底层 PID
func (a Addr[A]) PID() *actor.PID { return a.ref.PID() }

func (a Addr[A]) String() string { return a.ref.String() }

// Stop 向 ref 投递一条 StopSignal
//
// 每次调用构造新的消息并入队一次，不等待处理，目标已退出时静默丢弃。
func Stop[A Handler](ref actor.Ref[A]) {
	ref.Tell(&StopSignal{})
}

// Terminate 向 ref 投递一条 TerminateSignal
func Terminate[A Handler](ref actor.Ref[A]) {
	ref.Tell(&TerminateSignal{})
}
