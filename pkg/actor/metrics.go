package actor

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics Actor 系统指标接口
// 所有方法都必须是并发安全的
type Metrics interface {
	// ActorSpawned Actor 创建
	ActorSpawned(id string)
	// ActorExited Actor 退出，reason 区分优雅停止与立即终止
	ActorExited(id string, reason StopReason)
	// MessageProcessed 消息处理完成
	MessageProcessed(kind string, latency time.Duration)
	// MessagePanic 消息处理 panic
	MessagePanic(kind string)
	// DeadLetter 消息无法投递
	DeadLetter(kind string)
}

type nopMetrics struct{}

func (nopMetrics) ActorSpawned(string)                    {}
func (nopMetrics) ActorExited(string, StopReason)         {}
func (nopMetrics) MessageProcessed(string, time.Duration) {}
func (nopMetrics) MessagePanic(string)                    {}
func (nopMetrics) DeadLetter(string)                      {}

// NopMetrics 返回空实现
func NopMetrics() Metrics { return nopMetrics{} }

// ═══════════════════════════════════════════════════════════════════════════
// StatsMetrics 内存统计
// ═══════════════════════════════════════════════════════════════════════════

// MetricsSnapshot 指标快照
type MetricsSnapshot struct {
	Spawned     int64
	Stopped     int64 // 优雅停止的 Actor 数
	Terminated  int64 // 立即终止的 Actor 数
	Panics      int64
	DeadLetters int64

	MessagesHandled int64
	ByKind          map[string]int64

	AverageLatency time.Duration
	MaxLatency     time.Duration
	MinLatency     time.Duration
}

// StatsMetrics 线程安全的内存指标收集器
// 计数器使用原子操作，延迟与按类型计数使用锁保护
type StatsMetrics struct {
	spawned     atomic.Int64
	stopped     atomic.Int64
	terminated  atomic.Int64
	panics      atomic.Int64
	deadLetters atomic.Int64

	mu           sync.RWMutex
	handled      int64
	byKind       map[string]int64
	totalLatency time.Duration
	maxLatency   time.Duration
	minLatency   time.Duration
}

// NewStatsMetrics 创建内存指标收集器
func NewStatsMetrics() *StatsMetrics {
	return &StatsMetrics{
		byKind:     make(map[string]int64),
		minLatency: time.Duration(1<<63 - 1), // 最大值，确保第一次会被更新
	}
}

// ActorSpawned 实现 Metrics
func (m *StatsMetrics) ActorSpawned(string) { m.spawned.Add(1) }

// ActorExited 实现 Metrics
func (m *StatsMetrics) ActorExited(_ string, reason StopReason) {
	if reason == StopReasonTerminated {
		m.terminated.Add(1)
		return
	}
	m.stopped.Add(1)
}

// MessageProcessed 实现 Metrics
func (m *StatsMetrics) MessageProcessed(kind string, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handled++
	m.byKind[kind]++
	m.totalLatency += latency
	if latency > m.maxLatency {
		m.maxLatency = latency
	}
	if latency < m.minLatency {
		m.minLatency = latency
	}
}

// MessagePanic 实现 Metrics
func (m *StatsMetrics) MessagePanic(string) { m.panics.Add(1) }

// DeadLetter 实现 Metrics
func (m *StatsMetrics) DeadLetter(string) { m.deadLetters.Add(1) }

// Processed 返回某类消息的处理次数
func (m *StatsMetrics) Processed(kind string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byKind[kind]
}

// Snapshot 获取统计快照
func (m *StatsMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSnapshot{
		Spawned:         m.spawned.Load(),
		Stopped:         m.stopped.Load(),
		Terminated:      m.terminated.Load(),
		Panics:          m.panics.Load(),
		DeadLetters:     m.deadLetters.Load(),
		MessagesHandled: m.handled,
		ByKind:          make(map[string]int64, len(m.byKind)),
		MaxLatency:      m.maxLatency,
	}
	for k, v := range m.byKind {
		s.ByKind[k] = v
	}
	if m.handled > 0 {
		s.AverageLatency = m.totalLatency / time.Duration(m.handled)
		s.MinLatency = m.minLatency
	}
	return s
}

var (
	_ Metrics = nopMetrics{}
	_ Metrics = (*StatsMetrics)(nil)
)
