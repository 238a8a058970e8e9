// Package signal 让持有 Actor 地址的一方也能停止或终止该 Actor
//
// Actor 只能在自己的执行上下文里调用 [actor.Context.StopSelf] 或
// [actor.Context.TerminateSelf] 结束自己。本包定义两种控制消息 [StopSignal]
// 与 [TerminateSignal]，Actor 实现对应的处理方法后，任何持有其地址的代码都可以
// 通过投递消息请求它结束：
//
//	type Worker struct {
//		actor.BaseActor
//		signal.Defaults
//	}
//
//	addr := signal.Spawn(sys, &Worker{}, "worker")
//	addr.Stop()      // 优雅停止：已入队的消息处理完后退出
//	addr.Terminate() // 立即终止：跳过 Stopping 钩子
//
// # 处理方法
//
// 满足 [Handler] 的 Actor 才有 [Addr]，该约束在编译期检查。处理方法有三种来源：
//
//   - 嵌入 [Defaults]，直接调用运行时的停止与终止原语
//   - 由 signalgen 生成（见 cmd/signalgen），适合不想嵌入字段的类型和泛型 Actor
//   - 手写 HandleStop / HandleTerminate，可以拒绝停止或先做清理
//
// 本包只规定信号，不规定 Actor 收到信号后的行为。
//
// # 投递语义
//
// Stop 与 Terminate 都是 fire-and-forget：不阻塞、不等待处理、不报告失败。
// 目标已退出时消息进入死信队列，调用方无感知。同一调用方先后发出的信号按顺序到达。
//
// 两种消息也可以通过原始的 [actor.PID.Tell] 发送；目标 Actor 没有对应处理方法时
// 消息交给它的 Receive。
package signal
