package signal_test

import (
	"fmt"
	"time"

	"github.com/lwmacct/251215-go-pkg-signal/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-signal/pkg/signal"
)

type Worker struct {
	actor.BaseActor
	signal.Defaults
}

func (w *Worker) Receive(ctx *actor.Context, msg actor.Message) {
	switch m := msg.(type) {
	case *actor.Stopping:
		fmt.Println("stopping")
	case *actor.Stopped:
		fmt.Println(m.Reason)
	}
}

// Cleaner 先清理再停止
type Cleaner struct {
	actor.BaseActor
	signal.Defaults
}

func (c *Cleaner) HandleStop(ctx *actor.Context, msg *signal.StopSignal) {
	fmt.Println("flushing buffers")
	c.Defaults.HandleStop(ctx, msg)
}

func Example() {
	sys := actor.NewSystem("signal-example")
	defer sys.Shutdown()

	addr := signal.Spawn(sys, &Worker{}, "worker")
	addr.Stop()
	time.Sleep(20 * time.Millisecond)

	addr = signal.Spawn(sys, &Worker{}, "worker")
	addr.Terminate()
	time.Sleep(20 * time.Millisecond)

	// Output:
	// stopping
	// stopped
	// terminated
}

func Example_customHandler() {
	sys := actor.NewSystem("signal-custom")
	defer sys.Shutdown()

	addr := signal.Spawn(sys, &Cleaner{}, "cleaner")
	addr.Stop()
	time.Sleep(20 * time.Millisecond)

	state, _ := sys.StateOf(addr.PID())
	fmt.Println(state)

	// Output:
	// flushing buffers
	// stopped
}
