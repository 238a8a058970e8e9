package actor

import (
	"context"
	"errors"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// 通用请求-回复辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// RequestMessage 带回复通道的消息包装器
// 用于实现类型安全的请求-回复模式
type RequestMessage[T any] struct {
	inner     Message
	ReplyChan chan T
}

// Kind 实现 Message 接口，代理到内部消息
func (r *RequestMessage[T]) Kind() string {
	return r.inner.Kind()
}

// Inner 获取内部消息
func (r *RequestMessage[T]) Inner() Message {
	return r.inner
}

// Reply 发送回复（非阻塞，如果通道满则丢弃）
func (r *RequestMessage[T]) Reply(value T) bool {
	if r.ReplyChan == nil {
		return false
	}
	select {
	case r.ReplyChan <- value:
		return true
	default:
		return false
	}
}

// NewRequestMessage 创建请求消息
func NewRequestMessage[T any](msg Message) *RequestMessage[T] {
	return &RequestMessage[T]{
		inner:     msg,
		ReplyChan: make(chan T, 1),
	}
}

// Ask 向 Actor 发送消息并等待响应
//
//	type GetStatusMsg struct{}
//	func (m *GetStatusMsg) Kind() string { return "get_status" }
//
//	status, err := actor.Ask[*Status](pid, &GetStatusMsg{}, 5*time.Second)
func Ask[T any](pid *PID, msg Message, timeout time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	v, err := AskWithContext[T](ctx, pid, msg)
	if errors.Is(err, context.DeadlineExceeded) {
		return v, &ResponseTimeout{Target: pid, Timeout: timeout}
	}
	return v, err
}

// AskWithContext 带 context 的请求-回复
// 支持通过 context 取消请求
func AskWithContext[T any](ctx context.Context, pid *PID, msg Message) (T, error) {
	var zero T

	req := NewRequestMessage[T](msg)
	pid.Tell(req)

	select {
	case result := <-req.ReplyChan:
		return result, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
