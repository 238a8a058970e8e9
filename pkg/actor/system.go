package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrActorNotFound 请求的目标 Actor 不存在
var ErrActorNotFound = errors.New("actor not found")

// System Actor 系统
// 管理所有 Actor 的生命周期、消息路由和监督
type System struct {
	// 基本信息
	name string

	// Actor 注册表
	actors   map[string]*actorCell
	actorsMu sync.RWMutex

	// 已退出 Actor 的最终状态
	graves *tombstones

	// 全局邮箱（用于路由消息）
	// 单一分发 goroutine 保证同一发送者的消息按 FIFO 顺序到达
	mailbox chan envelope

	// 死信队列（无法投递的消息）
	deadLetters chan envelope

	// 生命周期控制
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning atomic.Bool

	// 配置
	config *SystemConfig

	// 统计信息
	stats   *SystemStats
	metrics Metrics

	// 日志
	logger *slog.Logger
}

// SystemStats 系统统计
type SystemStats struct {
	TotalActors   int64
	TotalMessages int64
	DeadLetters   int64
	ProcessedMsgs int64
	StartTime     time.Time
}

// actorCell Actor 单元，包含 Actor 及其运行时状态
type actorCell struct {
	pid      *PID
	actor    Actor
	mailbox  chan envelope
	parent   *PID
	children map[string]*PID
	watchers map[string]*PID // 监控此 Actor 的其他 Actor

	// 状态
	state    State
	stateMu  sync.RWMutex
	restarts int

	// 立即终止标记，置位后消息循环不再处理任何消息
	terminating atomic.Bool

	// 监督策略
	supervisor SupervisorStrategy

	// 上下文
	ctx    context.Context
	cancel context.CancelFunc
}

func (c *actorCell) getState() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *actorCell) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// transition 仅当当前状态属于 from 时切换到 to
func (c *actorCell) transition(to State, from ...State) bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	for _, f := range from {
		if c.state == f {
			c.state = to
			return true
		}
	}
	return false
}

// envelope 消息信封
type envelope struct {
	target   *PID
	sender   *PID
	message  Message
	sentAt   time.Time
	response chan Message    // 用于 Request/Response
	ctx      context.Context // 用于取消请求
}

// NewSystem 创建新的 Actor 系统
func NewSystem(name string) *System {
	return NewSystemWithConfig(name, DefaultSystemConfig())
}

// NewSystemWithConfig 使用配置创建 Actor 系统
func NewSystemWithConfig(name string, config *SystemConfig) *System {
	if config == nil {
		config = DefaultSystemConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = NopMetrics()
	}

	s := &System{
		name:        name,
		actors:      make(map[string]*actorCell),
		graves:      newTombstones(config.TombstoneSize),
		mailbox:     make(chan envelope, config.MailboxSize),
		deadLetters: make(chan envelope, config.DeadLetterSize),
		ctx:         ctx,
		cancel:      cancel,
		config:      config,
		metrics:     metrics,
		logger:      logger.With("system", name),
		stats: &SystemStats{
			StartTime: time.Now(),
		},
	}

	s.isRunning.Store(true)

	// 启动消息分发器
	s.wg.Add(1)
	go s.dispatcher()

	// 启动死信处理器
	s.wg.Add(1)
	go s.deadLetterHandler()

	s.logger.Info("actor system started")
	return s
}

// Name 返回系统名称
func (s *System) Name() string {
	return s.name
}

// Spawn 创建 Actor
// name 为空时自动生成唯一名称
func (s *System) Spawn(actor Actor, name string) *PID {
	return s.spawn(actor, name, nil)
}

// SpawnWithProps 使用属性创建 Actor
func (s *System) SpawnWithProps(actor Actor, props *Props) *PID {
	return s.spawnWithProps(actor, props, nil)
}

// spawn 内部创建方法
func (s *System) spawn(actor Actor, name string, parent *PID) *PID {
	props := DefaultProps(name)
	return s.spawnWithProps(actor, props, parent)
}

// spawnWithProps 使用属性创建
func (s *System) spawnWithProps(actor Actor, props *Props, parent *PID) *PID {
	name := props.Name
	if name == "" {
		name = uuid.NewString()
	}

	s.actorsMu.Lock()
	defer s.actorsMu.Unlock()

	// 检查名称是否已存在
	if existing, exists := s.actors[name]; exists {
		s.logger.Warn("actor already exists, returning existing PID", "actor", name)
		return existing.pid
	}

	pid := &PID{
		ID:     name,
		system: s,
	}

	ctx, cancel := context.WithCancel(s.ctx)

	mailboxSize := props.MailboxSize
	if mailboxSize <= 0 {
		mailboxSize = s.config.DefaultActorMailboxSize
	}

	cell := &actorCell{
		pid:        pid,
		actor:      actor,
		mailbox:    make(chan envelope, mailboxSize),
		parent:     parent,
		children:   make(map[string]*PID),
		watchers:   make(map[string]*PID),
		state:      StateIdle,
		supervisor: props.SupervisorStrategy,
		ctx:        ctx,
		cancel:     cancel,
	}

	s.actors[name] = cell
	s.graves.forget(name)
	atomic.AddInt64(&s.stats.TotalActors, 1)
	s.metrics.ActorSpawned(name)

	if parent != nil {
		if parentCell, ok := s.actors[parent.ID]; ok {
			parentCell.children[name] = pid
		}
	}

	s.wg.Add(1)
	go s.actorLoop(cell)

	s.SendWithSender(pid, &Started{}, nil)

	s.logger.Debug("spawned actor", "actor", name, "parent", parent)
	return pid
}

// Send 发送消息（无发送者）
func (s *System) Send(target *PID, msg Message) {
	s.SendWithSender(target, msg, nil)
}

// SendWithSender 发送消息（带发送者）
// 永不阻塞：全局邮箱满时消息进入死信队列
func (s *System) SendWithSender(target *PID, msg Message, sender *PID) {
	if !s.isRunning.Load() || target == nil {
		return
	}

	env := envelope{
		target:  target,
		sender:  sender,
		message: msg,
		sentAt:  time.Now(),
	}

	select {
	case s.mailbox <- env:
		atomic.AddInt64(&s.stats.TotalMessages, 1)
	default:
		s.toDeadLetters(env)
	}
}

// TrySend 尝试发送消息（非阻塞）
// 如果邮箱已满，返回 false
func (s *System) TrySend(target *PID, msg Message) bool {
	if !s.isRunning.Load() || target == nil {
		return false
	}

	env := envelope{
		target:  target,
		message: msg,
		sentAt:  time.Now(),
	}

	select {
	case s.mailbox <- env:
		atomic.AddInt64(&s.stats.TotalMessages, 1)
		return true
	default:
		return false
	}
}

// Broadcast 广播消息到所有 Actor
func (s *System) Broadcast(msg Message) {
	s.BroadcastWithFilter(msg, func(*PID) bool { return true })
}

// BroadcastWithFilter 带过滤条件的广播
func (s *System) BroadcastWithFilter(msg Message, filter func(*PID) bool) {
	s.actorsMu.RLock()
	pids := make([]*PID, 0, len(s.actors))
	for _, cell := range s.actors {
		if filter(cell.pid) {
			pids = append(pids, cell.pid)
		}
	}
	s.actorsMu.RUnlock()

	for _, pid := range pids {
		s.TrySend(pid, msg)
	}
}

// Request 同步请求（等待响应）
func (s *System) Request(target *PID, msg Message, timeout time.Duration) (Message, error) {
	if !s.isRunning.Load() {
		return nil, fmt.Errorf("actor system is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	responseChan := make(chan Message, 1)
	env := envelope{
		target:   target,
		message:  msg,
		sentAt:   time.Now(),
		response: responseChan,
		ctx:      ctx,
	}

	select {
	case s.mailbox <- env:
		atomic.AddInt64(&s.stats.TotalMessages, 1)
	case <-ctx.Done():
		return nil, &ResponseTimeout{Target: target, Timeout: timeout}
	}

	select {
	case resp, ok := <-responseChan:
		if !ok {
			return nil, fmt.Errorf("request to %s: %w", target, ErrActorNotFound)
		}
		return resp, nil
	case <-ctx.Done():
		return nil, &ResponseTimeout{Target: target, Timeout: timeout}
	}
}

// Stop 优雅停止 Actor
//
// 发送 PoisonPill，排在已入队消息之后处理。Actor 已在停止中或已退出时无效果。
func (s *System) Stop(pid *PID) {
	cell := s.lookup(pid)
	if cell == nil {
		return
	}

	if !cell.transition(StateStopping, StateIdle, StateRunning, StateRestarting) {
		return
	}

	// 毒丸被丢弃时 toDeadLetters 会撤销 Stopping，之后可以再次 Stop
	s.Send(pid, &PoisonPill{cell: cell})
}

// StopGracefully 优雅停止 Actor 并等待其退出
func (s *System) StopGracefully(pid *PID, timeout time.Duration) error {
	s.Stop(pid)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.lookup(pid) == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	return fmt.Errorf("timeout waiting for actor %s to stop", pid.ID)
}

// Terminate 立即终止 Actor
//
// 正在处理的消息结束后 Actor 退出，邮箱中剩余消息被丢弃，跳过 Stopping 钩子。
// Actor 不存在时无效果。
func (s *System) Terminate(pid *PID) {
	if cell := s.lookup(pid); cell != nil {
		s.terminate(cell)
	}
}

// terminate 在 Actor 自身 goroutine 内调用时，当前消息返回后消息循环立即退出
func (s *System) terminate(cell *actorCell) {
	if !cell.terminating.CompareAndSwap(false, true) {
		return
	}
	cell.setState(StateTerminated)
	cell.cancel()
}

// StateOf 查询 Actor 的生命周期状态
// 已退出的 Actor 返回其最终状态（保留数量由 TombstoneSize 决定）
func (s *System) StateOf(pid *PID) (State, bool) {
	if pid == nil {
		return 0, false
	}
	if cell := s.lookup(pid); cell != nil {
		return cell.getState(), true
	}
	return s.graves.get(pid.ID)
}

// Shutdown 关闭整个 Actor 系统
func (s *System) Shutdown() {
	s.ShutdownWithTimeout(30 * time.Second)
}

// ShutdownWithTimeout 带超时的关闭
func (s *System) ShutdownWithTimeout(timeout time.Duration) {
	if !s.isRunning.CompareAndSwap(true, false) {
		return
	}
	s.logger.Info("actor system shutting down")

	// 取消上下文，所有 Actor 消息循环随之退出
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("actor system shutdown complete")
	case <-time.After(timeout):
		s.logger.Warn("actor system shutdown timeout, forcing exit")
	}
}

// dispatcher 全局消息分发器
func (s *System) dispatcher() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case env := <-s.mailbox:
			s.dispatchMessage(env)
		}
	}
}

// dispatchMessage 分发单条消息
func (s *System) dispatchMessage(env envelope) {
	cell := s.lookup(env.target)
	if cell == nil {
		// Actor 不存在（从未创建或已退出）
		s.toDeadLetters(env)
		return
	}

	select {
	case cell.mailbox <- env:
	default:
		s.logger.Warn("actor mailbox full, message queued to dead letter",
			"actor", env.target.ID, "kind", env.message.Kind())
		s.toDeadLetters(env)
	}
}

func (s *System) toDeadLetters(env envelope) {
	atomic.AddInt64(&s.stats.DeadLetters, 1)
	s.metrics.DeadLetter(env.message.Kind())

	if pill, ok := env.message.(*PoisonPill); ok && pill.cell != nil {
		// 停止请求没有送达，Actor 仍在运行
		pill.cell.transition(StateRunning, StateStopping)
	}

	select {
	case s.deadLetters <- env:
	default:
		s.logger.Warn("dead letter queue full, message dropped",
			"kind", env.message.Kind(), "target", env.target.ID)
	}
}

// actorLoop Actor 消息处理循环
func (s *System) actorLoop(cell *actorCell) {
	defer s.wg.Done()
	defer s.cleanupActor(cell)

	cell.transition(StateRunning, StateIdle)

	for {
		select {
		case <-cell.ctx.Done():
			return
		case env := <-cell.mailbox:
			if cell.terminating.Load() {
				return
			}

			s.processMessage(cell, env)

			if cell.terminating.Load() {
				return
			}
			if _, ok := env.message.(*PoisonPill); ok {
				return
			}
		}
	}
}

// processMessage 处理单条消息
func (s *System) processMessage(cell *actorCell, env envelope) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.metrics.MessagePanic(env.message.Kind())
			if s.config.PanicHandler != nil {
				s.config.PanicHandler(cell.pid, env.message, r)
			} else {
				s.logger.Error("panic in actor",
					"actor", cell.pid.ID,
					"kind", env.message.Kind(),
					"error", r,
					"stack", string(debug.Stack()))
			}
			s.handleFailure(cell, env.message, r)
		}
	}()

	ctx := &Context{
		Self:     cell.pid,
		Sender:   env.sender,
		Parent:   cell.parent,
		Children: s.getChildrenPIDs(cell),
		system:   s,
		cell:     cell,
		ctx:      cell.ctx,
		message:  env.message,
	}

	if env.response != nil {
		ctx.responseChan = env.response
		ctx.requestCtx = env.ctx
	}

	switch msg := env.message.(type) {
	case *PoisonPill:
		cell.setState(StateStopping)
		cell.actor.Receive(ctx, &Stopping{})
		return

	case *Watch:
		cell.watchers[msg.Watcher.ID] = msg.Watcher
		return

	case *Unwatch:
		delete(cell.watchers, msg.Watcher.ID)
		return

	case Deliverer:
		if !msg.Deliver(ctx, cell.actor) {
			cell.actor.Receive(ctx, env.message)
		}

	default:
		cell.actor.Receive(ctx, env.message)
	}

	atomic.AddInt64(&s.stats.ProcessedMsgs, 1)
	s.metrics.MessageProcessed(env.message.Kind(), time.Since(start))
}

// handleFailure 处理 Actor 失败
func (s *System) handleFailure(cell *actorCell, msg Message, err any) {
	supervisor := cell.supervisor
	if supervisor == nil && cell.parent != nil {
		// 使用父 Actor 的监督策略
		if parentCell := s.lookup(cell.parent); parentCell != nil {
			supervisor = parentCell.supervisor
		}
	}

	if supervisor == nil {
		supervisor = DefaultSupervisorStrategy()
	}

	result := supervisor.HandleFailure(s, cell.pid, msg, err)

	switch r := result.(type) {
	case DirectiveWithDelay:
		time.AfterFunc(r.Delay, func() {
			if r.Directive == DirectiveRestart {
				// 重启必须在 Actor 自己的消息循环中执行
				s.Send(cell.pid, restartSelf{})
				return
			}
			s.applyDirective(cell, r.Directive)
		})
	case Directive:
		s.applyDirective(cell, r)
	}
}

// applyDirective 应用监督指令
func (s *System) applyDirective(cell *actorCell, directive Directive) {
	switch directive {
	case DirectiveResume:
		s.logger.Debug("actor resumed after failure", "actor", cell.pid.ID)

	case DirectiveRestart:
		s.restart(cell)
		s.logger.Info("actor restarted", "actor", cell.pid.ID, "restarts", cell.restarts)

	case DirectiveStop:
		s.Stop(cell.pid)

	case DirectiveTerminate:
		s.terminate(cell)

	case DirectiveEscalate:
		if cell.parent != nil {
			s.Send(cell.parent, &Terminated{Who: cell.pid, Reason: StopReasonStopped})
		}
		s.Stop(cell.pid)
	}
}

func (s *System) restart(cell *actorCell) {
	if !cell.transition(StateRestarting, StateRunning) {
		return
	}
	cell.restarts++

	ctx := &Context{Self: cell.pid, system: s, cell: cell, ctx: cell.ctx}
	cell.actor.Receive(ctx, &Restarting{})

	s.Send(cell.pid, &Started{})
	cell.transition(StateRunning, StateRestarting)
}

// restartAllSiblings 重启所有兄弟 Actor（用于 AllForOne 策略）
func (s *System) restartAllSiblings(child *PID) {
	s.actorsMu.RLock()
	cell, exists := s.actors[child.ID]
	if !exists || cell.parent == nil {
		s.actorsMu.RUnlock()
		return
	}

	parentCell, parentExists := s.actors[cell.parent.ID]
	if !parentExists {
		s.actorsMu.RUnlock()
		return
	}

	siblings := make([]*actorCell, 0, len(parentCell.children))
	for _, childPID := range parentCell.children {
		if childCell, ok := s.actors[childPID.ID]; ok && childCell != cell {
			siblings = append(siblings, childCell)
		}
	}
	s.actorsMu.RUnlock()

	// 兄弟 Actor 在各自的消息循环中重启
	for _, sibling := range siblings {
		s.Send(sibling.pid, restartSelf{})
		s.logger.Info("actor restart requested by AllForOne strategy", "actor", sibling.pid.ID)
	}
}

// restartSelf 让 Actor 在自己的消息循环中执行重启
type restartSelf struct{}

func (restartSelf) Kind() string { return "system.restart_self" }

func (restartSelf) Deliver(ctx *Context, _ Actor) bool {
	ctx.system.restart(ctx.cell)
	return true
}

// cleanupActor 清理 Actor
func (s *System) cleanupActor(cell *actorCell) {
	reason := StopReasonStopped
	final := StateStopped
	if cell.terminating.Load() {
		reason = StopReasonTerminated
		final = StateTerminated
	}
	cell.setState(final)

	// Stopped 钩子在优雅停止与立即终止时都会执行
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in actor stopped hook", "actor", cell.pid.ID, "error", r)
			}
		}()
		ctx := &Context{Self: cell.pid, system: s, cell: cell, ctx: context.Background()}
		cell.actor.Receive(ctx, &Stopped{Reason: reason})
	}()

	for _, watcher := range cell.watchers {
		s.Send(watcher, &Terminated{Who: cell.pid, Reason: reason})
	}

	for _, child := range cell.children {
		s.Stop(child)
	}

	// 先记录终态再注销，保证任何时刻都能查到状态
	s.graves.record(cell.pid.ID, final)

	s.actorsMu.Lock()
	if s.actors[cell.pid.ID] == cell {
		delete(s.actors, cell.pid.ID)
	}
	if cell.parent != nil {
		if parentCell, ok := s.actors[cell.parent.ID]; ok {
			delete(parentCell.children, cell.pid.ID)
		}
	}
	s.actorsMu.Unlock()

	// 已注销，剩余消息转入死信，等待中的 Request 随之返回
	s.drainMailbox(cell)

	cell.cancel()

	atomic.AddInt64(&s.stats.TotalActors, -1)
	s.metrics.ActorExited(cell.pid.ID, reason)
	s.logger.Debug("actor exited", "actor", cell.pid.ID, "reason", reason)
}

func (s *System) drainMailbox(cell *actorCell) {
	for {
		select {
		case env := <-cell.mailbox:
			s.toDeadLetters(env)
		default:
			return
		}
	}
}

func (s *System) lookup(pid *PID) *actorCell {
	if pid == nil {
		return nil
	}
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()
	return s.actors[pid.ID]
}

// getChildrenPIDs 获取子 Actor PID 列表
func (s *System) getChildrenPIDs(cell *actorCell) []*PID {
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()

	pids := make([]*PID, 0, len(cell.children))
	for _, pid := range cell.children {
		pids = append(pids, pid)
	}
	return pids
}

// deadLetterHandler 死信处理器
func (s *System) deadLetterHandler() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case env := <-s.deadLetters:
			if s.config.EnableDeadLetterLogging {
				s.logger.Warn("dead letter",
					"kind", env.message.Kind(),
					"target", env.target.ID,
					"sender", env.sender)
			}
			if env.response != nil {
				// Request 的目标不存在，让等待方尽快超时返回
				close(env.response)
			}
		}
	}
}

// Stats 获取统计信息
func (s *System) Stats() *SystemStats {
	return &SystemStats{
		TotalActors:   atomic.LoadInt64(&s.stats.TotalActors),
		TotalMessages: atomic.LoadInt64(&s.stats.TotalMessages),
		DeadLetters:   atomic.LoadInt64(&s.stats.DeadLetters),
		ProcessedMsgs: atomic.LoadInt64(&s.stats.ProcessedMsgs),
		StartTime:     s.stats.StartTime,
	}
}

// GetActor 获取 Actor
func (s *System) GetActor(name string) (*PID, bool) {
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()

	if cell, ok := s.actors[name]; ok {
		return cell.pid, true
	}
	return nil, false
}

// ListActors 列出所有 Actor
func (s *System) ListActors() []*PID {
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()

	pids := make([]*PID, 0, len(s.actors))
	for _, cell := range s.actors {
		pids = append(pids, cell.pid)
	}
	return pids
}

// Count 返回 Actor 数量
func (s *System) Count() int {
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()
	return len(s.actors)
}

// IsRunning 检查系统是否运行中
func (s *System) IsRunning() bool {
	return s.isRunning.Load()
}
