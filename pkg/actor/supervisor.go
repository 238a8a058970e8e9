package actor

import (
	"sync"
	"time"
)

// Directive 监督指令
type Directive int

const (
	// DirectiveResume 恢复 Actor，继续处理消息
	DirectiveResume Directive = iota
	// DirectiveRestart 重启 Actor
	DirectiveRestart
	// DirectiveStop 优雅停止 Actor
	DirectiveStop
	// DirectiveTerminate 立即终止 Actor，跳过 Stopping 钩子
	DirectiveTerminate
	// DirectiveEscalate 上报给父 Actor 处理
	DirectiveEscalate
)

// DirectiveWithDelay 带延迟的指令
type DirectiveWithDelay struct {
	Directive Directive
	Delay     time.Duration
}

// String 返回指令名称
func (d Directive) String() string {
	switch d {
	case DirectiveResume:
		return "Resume"
	case DirectiveRestart:
		return "Restart"
	case DirectiveStop:
		return "Stop"
	case DirectiveTerminate:
		return "Terminate"
	case DirectiveEscalate:
		return "Escalate"
	default:
		return "Unknown"
	}
}

// SupervisorStrategy 监督策略接口
type SupervisorStrategy interface {
	// HandleFailure 处理 Actor 失败
	// 返回应该采取的指令，可以是 Directive 或 DirectiveWithDelay
	HandleFailure(system *System, child *PID, msg Message, err any) any
}

// Decider 决策函数类型
type Decider func(err any) Directive

// restartWindow 滑动时间窗口内的重启计数
type restartWindow struct {
	mu       sync.Mutex
	max      int
	within   time.Duration
	restarts []time.Time
}

// allow 窗口内重启次数未超限时记录本次重启并返回 true
func (w *restartWindow) allow(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.within)
	kept := w.restarts[:0]
	for _, t := range w.restarts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.restarts = kept

	if len(w.restarts) >= w.max {
		return false
	}
	w.restarts = append(w.restarts, now)
	return true
}

// ============== 内置监督策略 ==============

// OneForOneStrategy 一对一策略
// 只重启失败的 Actor，不影响其他子 Actor
type OneForOneStrategy struct {
	Decider Decider
	window  restartWindow
}

// NewOneForOneStrategy 创建一对一策略
// within 时间窗口内超过 maxRestarts 次重启后改为停止
func NewOneForOneStrategy(maxRestarts int, within time.Duration, decider Decider) *OneForOneStrategy {
	if decider == nil {
		decider = DefaultDecider
	}
	return &OneForOneStrategy{
		Decider: decider,
		window:  restartWindow{max: maxRestarts, within: within},
	}
}

// HandleFailure 实现 SupervisorStrategy
func (s *OneForOneStrategy) HandleFailure(_ *System, _ *PID, _ Message, err any) any {
	directive := s.Decider(err)
	if directive == DirectiveRestart && !s.window.allow(time.Now()) {
		return DirectiveStop
	}
	return directive
}

// AllForOneStrategy 全部重启策略
// 当一个子 Actor 失败时，重启所有兄弟 Actor
type AllForOneStrategy struct {
	Decider Decider
	window  restartWindow
}

// NewAllForOneStrategy 创建全部重启策略
func NewAllForOneStrategy(maxRestarts int, within time.Duration, decider Decider) *AllForOneStrategy {
	if decider == nil {
		decider = DefaultDecider
	}
	return &AllForOneStrategy{
		Decider: decider,
		window:  restartWindow{max: maxRestarts, within: within},
	}
}

// HandleFailure 实现 SupervisorStrategy
func (s *AllForOneStrategy) HandleFailure(system *System, child *PID, _ Message, err any) any {
	directive := s.Decider(err)
	if directive != DirectiveRestart {
		return directive
	}
	if !s.window.allow(time.Now()) {
		return DirectiveStop
	}
	if system != nil && child != nil {
		system.restartAllSiblings(child)
	}
	return directive
}

// ExponentialBackoffStrategy 指数退避策略
// 重启间隔逐渐增加
type ExponentialBackoffStrategy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxRestarts  int
	Decider      Decider

	mu           sync.Mutex
	currentDelay time.Duration
	restartCount int
}

// NewExponentialBackoffStrategy 创建指数退避策略
func NewExponentialBackoffStrategy(initialDelay, maxDelay time.Duration, maxRestarts int, decider Decider) *ExponentialBackoffStrategy {
	if decider == nil {
		decider = DefaultDecider
	}
	return &ExponentialBackoffStrategy{
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		MaxRestarts:  maxRestarts,
		Decider:      decider,
		currentDelay: initialDelay,
	}
}

// HandleFailure 实现 SupervisorStrategy
func (s *ExponentialBackoffStrategy) HandleFailure(_ *System, _ *PID, _ Message, err any) any {
	directive := s.Decider(err)
	if directive != DirectiveRestart {
		return directive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restartCount >= s.MaxRestarts {
		return DirectiveStop
	}

	delay := s.currentDelay
	s.currentDelay = min(s.currentDelay*2, s.MaxDelay)
	s.restartCount++

	return DirectiveWithDelay{
		Directive: DirectiveRestart,
		Delay:     delay,
	}
}

// Reset 重置退避状态
func (s *ExponentialBackoffStrategy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentDelay = s.InitialDelay
	s.restartCount = 0
}

// ============== 默认策略和决策器 ==============

// DefaultDecider 对所有错误采取重启
func DefaultDecider(_ any) Directive { return DirectiveRestart }

// StoppingDecider 对所有错误采取优雅停止
func StoppingDecider(_ any) Directive { return DirectiveStop }

// TerminatingDecider 对所有错误立即终止
func TerminatingDecider(_ any) Directive { return DirectiveTerminate }

// EscalatingDecider 对所有错误上报父 Actor
func EscalatingDecider(_ any) Directive { return DirectiveEscalate }

// ResumingDecider 忽略错误继续运行
func ResumingDecider(_ any) Directive { return DirectiveResume }

// DefaultSupervisorStrategy 默认监督策略
// 允许 1 分钟内 3 次重启
func DefaultSupervisorStrategy() SupervisorStrategy {
	return NewOneForOneStrategy(3, time.Minute, DefaultDecider)
}

// StrictSupervisorStrategy 严格监督策略
// 任何失败都停止 Actor
func StrictSupervisorStrategy() SupervisorStrategy {
	return NewOneForOneStrategy(0, time.Second, StoppingDecider)
}

// ============== 组合策略 ==============

// CompositeStrategy 组合策略
// 根据错误内容选择不同的策略
type CompositeStrategy struct {
	mu         sync.RWMutex
	strategies map[string]SupervisorStrategy
	fallback   SupervisorStrategy
}

// NewCompositeStrategy 创建组合策略
func NewCompositeStrategy(fallback SupervisorStrategy) *CompositeStrategy {
	if fallback == nil {
		fallback = DefaultSupervisorStrategy()
	}
	return &CompositeStrategy{
		strategies: make(map[string]SupervisorStrategy),
		fallback:   fallback,
	}
}

// RegisterStrategy 按错误文本注册策略
func (s *CompositeStrategy) RegisterStrategy(errText string, strategy SupervisorStrategy) {
	s.mu.Lock()
	s.strategies[errText] = strategy
	s.mu.Unlock()
}

// HandleFailure 实现 SupervisorStrategy
func (s *CompositeStrategy) HandleFailure(system *System, child *PID, msg Message, err any) any {
	if e, ok := err.(error); ok {
		s.mu.RLock()
		strategy, found := s.strategies[e.Error()]
		s.mu.RUnlock()
		if found {
			return strategy.HandleFailure(system, child, msg, err)
		}
	}
	return s.fallback.HandleFailure(system, child, msg, err)
}

// ============== 监督树辅助 ==============

// SupervisorConfig 监督配置
type SupervisorConfig struct {
	Strategy SupervisorStrategy
	Children []ChildSpec
}

// ChildSpec 子 Actor 规格
type ChildSpec struct {
	Name    string
	Factory func() Actor
	Props   *Props
}

// SupervisorActor 监督者 Actor
// 启动时创建并监控全部子 Actor，停止时优雅停止它们
type SupervisorActor struct {
	config *SupervisorConfig

	mu       sync.RWMutex
	children map[string]*PID
}

// NewSupervisorActor 创建监督者 Actor
func NewSupervisorActor(config *SupervisorConfig) *SupervisorActor {
	return &SupervisorActor{
		config:   config,
		children: make(map[string]*PID),
	}
}

// Receive 处理消息
func (s *SupervisorActor) Receive(ctx *Context, msg Message) {
	switch m := msg.(type) {
	case *Started:
		for _, spec := range s.config.Children {
			props := spec.Props
			if props == nil {
				props = DefaultProps(spec.Name)
			}
			props.SupervisorStrategy = s.config.Strategy
			pid := ctx.SpawnWithProps(spec.Factory(), props)
			ctx.Watch(pid)

			s.mu.Lock()
			s.children[spec.Name] = pid
			s.mu.Unlock()
		}

	case *Terminated:
		s.mu.Lock()
		delete(s.children, m.Who.ID)
		s.mu.Unlock()

	case *Stopping:
		s.mu.RLock()
		for _, pid := range s.children {
			ctx.Stop(pid)
		}
		s.mu.RUnlock()
	}
}

// GetChild 获取子 Actor
func (s *SupervisorActor) GetChild(name string) *PID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.children[name]
}
