package actor_test

import (
	"fmt"
	"time"

	"github.com/lwmacct/251215-go-pkg-signal/pkg/actor"
)

// PingMessage 示例消息类型
type PingMessage struct{}

func (m *PingMessage) Kind() string { return "ping" }

// PongMessage 示例响应消息
type PongMessage struct{}

func (m *PongMessage) Kind() string { return "pong" }

// QuitMessage 让 Actor 结束自己
type QuitMessage struct{ Now bool }

func (m *QuitMessage) Kind() string { return "quit" }

// Example_basic 演示 Actor 系统的基本使用
func Example_basic() {
	sys := actor.NewSystem("example")
	defer sys.Shutdown()

	pid := sys.Spawn(actor.ActorFunc(func(ctx *actor.Context, msg actor.Message) {
		switch msg.(type) {
		case *actor.Started:
			fmt.Println("Actor started")
		case *PingMessage:
			fmt.Println("Received Ping")
		}
	}), "greeter")

	pid.Tell(&PingMessage{})
	time.Sleep(20 * time.Millisecond)

	// Output:
	// Actor started
	// Received Ping
}

// Example_pidRequest 演示同步请求响应模式
func Example_pidRequest() {
	sys := actor.NewSystem("request-example")
	defer sys.Shutdown()

	pid := sys.Spawn(actor.ActorFunc(func(ctx *actor.Context, msg actor.Message) {
		if _, ok := msg.(*PingMessage); ok {
			ctx.Reply(&PongMessage{})
		}
	}), "responder")

	resp, err := pid.Request(&PingMessage{}, time.Second)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Response: %s\n", resp.Kind())

	// Output:
	// Response: pong
}

// Example_lifecycle 演示优雅停止与立即终止的区别
func Example_lifecycle() {
	sys := actor.NewSystem("lifecycle-example")
	defer sys.Shutdown()

	worker := func(ctx *actor.Context, msg actor.Message) {
		switch m := msg.(type) {
		case *QuitMessage:
			if m.Now {
				ctx.TerminateSelf()
			} else {
				ctx.StopSelf()
			}
		case *actor.Stopping:
			fmt.Printf("%s stopping\n", ctx.Self.ID)
		case *actor.Stopped:
			fmt.Printf("%s %s\n", ctx.Self.ID, m.Reason)
		}
	}

	graceful := sys.Spawn(actor.ActorFunc(worker), "graceful")
	graceful.Tell(&QuitMessage{})
	time.Sleep(20 * time.Millisecond)

	immediate := sys.Spawn(actor.ActorFunc(worker), "immediate")
	immediate.Tell(&QuitMessage{Now: true})
	time.Sleep(20 * time.Millisecond)

	state, _ := sys.StateOf(immediate)
	fmt.Println("final state:", state)

	// Output:
	// graceful stopping
	// graceful stopped
	// immediate terminated
	// final state: terminated
}

// Example_newOneForOneStrategy 演示一对一监督策略
func Example_newOneForOneStrategy() {
	sys := actor.NewSystem("supervisor-example")
	defer sys.Shutdown()

	// 1 分钟内最多重启 3 次
	props := actor.DefaultProps("worker").
		WithSupervisor(actor.NewOneForOneStrategy(3, time.Minute, actor.DefaultDecider))

	pid := sys.SpawnWithProps(actor.ActorFunc(func(ctx *actor.Context, msg actor.Message) {
		switch msg.(type) {
		case *actor.Started:
			fmt.Println("Worker started")
		case *actor.Restarting:
			fmt.Println("Worker restarting")
		case *PingMessage:
			panic("boom")
		}
	}), props)

	time.Sleep(10 * time.Millisecond)
	pid.Tell(&PingMessage{})
	time.Sleep(20 * time.Millisecond)

	// Output:
	// Worker started
	// Worker restarting
	// Worker started
}

// Example_statsMetrics 演示内存指标
func Example_statsMetrics() {
	metrics := actor.NewStatsMetrics()
	cfg := actor.DefaultSystemConfig()
	cfg.Metrics = metrics

	sys := actor.NewSystemWithConfig("metrics-example", cfg)
	defer sys.Shutdown()

	pid := sys.Spawn(actor.ActorFunc(func(ctx *actor.Context, msg actor.Message) {
		if _, ok := msg.(*QuitMessage); ok {
			ctx.TerminateSelf()
		}
	}), "short-lived")
	pid.Tell(&PingMessage{})
	pid.Tell(&QuitMessage{})
	time.Sleep(20 * time.Millisecond)

	snap := metrics.Snapshot()
	fmt.Println("pings:", snap.ByKind["ping"])
	fmt.Println("terminated:", snap.Terminated)

	// Output:
	// pings: 1
	// terminated: 1
}
