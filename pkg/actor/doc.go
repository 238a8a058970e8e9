// Package actor 提供轻量级 Actor 运行时
//
// 每个 Actor 是独立的计算单元：拥有私有状态，通过邮箱接收消息，一次只处理一条消息。
//
// # 核心组件
//
// [System] 是 Actor 系统的入口，管理所有 Actor 的生命周期：
//
//	sys := actor.NewSystem("my-system")
//	defer sys.Shutdown()
//
// [Actor] 接口定义消息处理行为，[ActorFunc] 提供函数式快捷方式。
//
// [PID] 是 Actor 的唯一标识，[PID.Tell] 异步发送消息（fire-and-forget），
// [PID.Request] 同步请求并等待响应。[Ref] 是携带 Actor 类型的引用，
// 由 [Spawn] 创建，供泛型代码在编译期约束 Actor 的能力。
//
// [Context] 提供 Actor 运行时上下文，支持回复消息、创建子 Actor、监控等操作。
//
// # 消息路由
//
// 普通消息交给 [Actor.Receive]。实现了 [Deliverer] 的消息由消息自己路由到
// Actor 上的类型化处理方法，Actor 没有对应方法时回落到 Receive。
//
// # 生命周期
//
// Actor 只能在自己的执行上下文中结束自己：
//
//   - [Context.StopSelf] 优雅停止：先处理完已入队的消息，再收到 [Stopping]，最后收到 [Stopped]
//   - [Context.TerminateSelf] 立即终止：当前消息结束后立刻退出，跳过 [Stopping]，仍会收到 [Stopped]
//
// 监督者等外部代码可以用 [System.Stop] 和 [System.Terminate] 达到同样效果。
// [Stopped.Reason] 区分两种结局，[System.StateOf] 在 Actor 退出后仍能查到最终状态。
// 向已退出的 Actor 发送消息不会报错，消息进入死信队列。
//
// # 监督策略
//
// [OneForOneStrategy] 只重启失败的 Actor，[AllForOneStrategy] 重启所有兄弟 Actor，
// [ExponentialBackoffStrategy] 指数退避重启。监督指令 [Directive] 包括
// DirectiveResume、DirectiveRestart、DirectiveStop、DirectiveTerminate、DirectiveEscalate。
//
// # 配置与指标
//
// [SystemConfig] 可由 [LoadSystemConfig] 从 YAML 文件加载；[Metrics] 接口接收运行时指标，
// 默认 [NopMetrics]，内存实现为 [StatsMetrics]。
package actor
