package actor

import (
	"context"
	"fmt"
	"time"
)

// Message Actor 消息接口
// 所有 Actor 间传递的消息都必须实现此接口
type Message interface {
	// Kind 返回消息类型标识，用于路由和监控
	Kind() string
}

// Deliverer 自带路由能力的消息
//
// 运行时投递消息时优先调用 Deliver，由消息自己把自己交给 Actor 上对应的
// 类型化处理方法。返回 false 表示该 Actor 没有声明此类消息的处理方法，
// 此时消息回落到 [Actor.Receive]。
type Deliverer interface {
	Message
	Deliver(ctx *Context, a Actor) bool
}

// PID (Process ID) Actor 进程标识符
// 类似 Erlang 的 PID，是 Actor 的唯一寻址方式
type PID struct {
	// ID Actor 唯一标识（本地）
	ID string
	// Address 网络地址，本地 Actor 为空
	// 格式: "host:port" 用于未来分布式扩展
	Address string
	// system 所属的 Actor 系统（内部使用）
	system *System
}

// String 返回 PID 的字符串表示
func (p *PID) String() string {
	if p.Address != "" {
		return fmt.Sprintf("%s@%s", p.ID, p.Address)
	}
	return p.ID
}

// Tell 发送消息（fire-and-forget）
// 目标已停止或系统已关闭时静默丢弃
func (p *PID) Tell(msg Message) {
	if p.system != nil {
		p.system.Send(p, msg)
	}
}

// TrySend 尝试发送消息（非阻塞）
// 如果邮箱已满，返回 false
func (p *PID) TrySend(msg Message) bool {
	if p.system == nil {
		return false
	}
	return p.system.TrySend(p, msg)
}

// Request 发送请求并等待响应（同步调用）
func (p *PID) Request(msg Message, timeout time.Duration) (Message, error) {
	if p.system == nil {
		return nil, fmt.Errorf("actor system not available")
	}
	return p.system.Request(p, msg, timeout)
}

// Actor Actor 接口
// 实现此接口即可成为 Actor
type Actor interface {
	// Receive 处理接收到的消息
	// ctx 提供 Actor 上下文，msg 为接收到的消息
	Receive(ctx *Context, msg Message)
}

// ActorFunc 函数式 Actor，便于快速创建简单 Actor
type ActorFunc func(ctx *Context, msg Message)

// Receive 实现 Actor 接口
func (f ActorFunc) Receive(ctx *Context, msg Message) {
	f(ctx, msg)
}

// BaseActor 基础 Actor 实现
// 提供默认的空实现，方便嵌入
type BaseActor struct{}

// Receive 默认实现，不处理任何消息
func (b *BaseActor) Receive(_ *Context, _ Message) {}

// Context Actor 执行上下文
// 提供 Actor 执行时所需的环境信息和操作方法
type Context struct {
	// Self 当前 Actor 的 PID
	Self *PID
	// Sender 消息发送者的 PID（如果有）
	Sender *PID
	// Parent 父 Actor 的 PID（如果有）
	Parent *PID
	// Children 子 Actor 列表
	Children []*PID

	// 内部引用
	system       *System
	cell         *actorCell
	ctx          context.Context
	message      Message
	responseChan chan Message    // 用于 Request/Response 模式
	requestCtx   context.Context // 请求的 context，用于检查是否已取消
}

// Reply 回复消息给发送者
// 如果是 Request/Response 模式，通过 channel 返回响应
// 如果有 Sender，通过消息发送响应
func (c *Context) Reply(msg Message) {
	if c.responseChan != nil {
		if c.requestCtx != nil {
			select {
			case <-c.requestCtx.Done():
				return
			default:
			}
		}

		select {
		case c.responseChan <- msg:
		default:
		}
		return
	}
	if c.Sender != nil {
		c.system.SendWithSender(c.Sender, msg, c.Self)
	}
}

// Forward 转发当前消息到另一个 Actor
func (c *Context) Forward(target *PID) {
	if c.message != nil {
		c.system.SendWithSender(target, c.message, c.Sender)
	}
}

// Spawn 创建子 Actor
func (c *Context) Spawn(actor Actor, name string) *PID {
	pid := c.system.spawn(actor, name, c.Self)
	c.Children = append(c.Children, pid)
	return pid
}

// SpawnWithProps 使用属性创建子 Actor
func (c *Context) SpawnWithProps(actor Actor, props *Props) *PID {
	pid := c.system.spawnWithProps(actor, props, c.Self)
	c.Children = append(c.Children, pid)
	return pid
}

// Stop 停止指定 Actor
func (c *Context) Stop(pid *PID) {
	c.system.Stop(pid)
}

// StopSelf 优雅停止当前 Actor
//
// 停止请求排在邮箱中已有消息之后，之前入队的消息都会被处理；
// 随后 Actor 收到 [Stopping]，最后收到 Reason 为 [StopReasonStopped] 的 [Stopped]。
// 重复调用没有额外效果。
func (c *Context) StopSelf() {
	c.system.Stop(c.Self)
}

// TerminateSelf 立即终止当前 Actor
//
// 当前消息处理完后 Actor 立刻退出，邮箱中剩余消息被丢弃，不会收到 [Stopping]，
// 只会收到 Reason 为 [StopReasonTerminated] 的 [Stopped]。
func (c *Context) TerminateSelf() {
	cell := c.cell
	if cell == nil {
		cell = c.system.lookup(c.Self)
	}
	if cell != nil {
		c.system.terminate(cell)
	}
}

// Context 获取 Go context
func (c *Context) Context() context.Context {
	return c.ctx
}

// Message 获取当前正在处理的消息
func (c *Context) Message() Message {
	return c.message
}

// System 获取 Actor 系统引用
func (c *Context) System() *System {
	return c.system
}

// Watch 监控另一个 Actor
// 当被监控的 Actor 终止时，会收到 Terminated 消息
func (c *Context) Watch(pid *PID) {
	c.system.Send(pid, &Watch{Watcher: c.Self})
}

// Unwatch 取消监控
func (c *Context) Unwatch(pid *PID) {
	c.system.Send(pid, &Unwatch{Watcher: c.Self})
}

// Props Actor 属性配置
type Props struct {
	// Name Actor 名称，为空时自动生成
	Name string
	// MailboxSize 邮箱大小
	MailboxSize int
	// SupervisorStrategy 监督策略
	SupervisorStrategy SupervisorStrategy
}

// DefaultProps 默认属性
func DefaultProps(name string) *Props {
	return &Props{
		Name:        name,
		MailboxSize: 100,
	}
}

// WithMailboxSize 设置邮箱大小
func (p *Props) WithMailboxSize(size int) *Props {
	p.MailboxSize = size
	return p
}

// WithSupervisor 设置监督策略
func (p *Props) WithSupervisor(strategy SupervisorStrategy) *Props {
	p.SupervisorStrategy = strategy
	return p
}

// ============== 系统消息 ==============

// Started Actor 启动完成消息
type Started struct{}

// Kind 实现 Message 接口
func (s *Started) Kind() string { return "system.started" }

// Stopping Actor 正在停止消息（优雅停止钩子，立即终止时跳过）
type Stopping struct{}

// Kind 实现 Message 接口
func (s *Stopping) Kind() string { return "system.stopping" }

// StopReason Actor 退出原因
type StopReason int

const (
	// StopReasonStopped 优雅停止
	StopReasonStopped StopReason = iota
	// StopReasonTerminated 立即终止
	StopReasonTerminated
)

// String 返回原因名称
func (r StopReason) String() string {
	switch r {
	case StopReasonStopped:
		return "stopped"
	case StopReasonTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Stopped Actor 已停止消息，Actor 收到的最后一条消息
type Stopped struct {
	Reason StopReason
}

// Kind 实现 Message 接口
func (s *Stopped) Kind() string { return "system.stopped" }

// Restarting Actor 正在重启消息
type Restarting struct{}

// Kind 实现 Message 接口
func (r *Restarting) Kind() string { return "system.restarting" }

// PoisonPill 毒丸消息，优雅停止 Actor
type PoisonPill struct {
	// 由 System.Stop 设置，投递失败时用于撤销 Stopping 状态
	cell *actorCell
}

// Kind 实现 Message 接口
func (p *PoisonPill) Kind() string { return "system.poison_pill" }

// Watch 监控请求
type Watch struct {
	Watcher *PID
}

// Kind 实现 Message 接口
func (w *Watch) Kind() string { return "system.watch" }

// Unwatch 取消监控
type Unwatch struct {
	Watcher *PID
}

// Kind 实现 Message 接口
func (u *Unwatch) Kind() string { return "system.unwatch" }

// Terminated Actor 终止通知（发给监控者）
type Terminated struct {
	Who    *PID
	Reason StopReason
}

// Kind 实现 Message 接口
func (t *Terminated) Kind() string { return "system.terminated" }

// ============== 请求/响应支持 ==============

// ResponseTimeout 响应超时错误
type ResponseTimeout struct {
	Target  *PID
	Timeout time.Duration
}

// Kind 实现 Message 接口
func (r *ResponseTimeout) Kind() string { return "system.response_timeout" }

// Error 实现 error 接口
func (r *ResponseTimeout) Error() string {
	return fmt.Sprintf("request to %s timed out after %v", r.Target, r.Timeout)
}

// ============== 通用消息类型 ==============

// SimpleMessage 简单消息，用于快速创建消息
type SimpleMessage struct {
	kind    string
	Payload any
}

// NewSimpleMessage 创建简单消息
func NewSimpleMessage(kind string, payload any) *SimpleMessage {
	return &SimpleMessage{kind: kind, Payload: payload}
}

// Kind 实现 Message 接口
func (m *SimpleMessage) Kind() string { return m.kind }
