package complete

import (
	"github.com/lwmacct/251215-go-pkg-signal/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-signal/pkg/signal"
)

//signal:handler
type Ledger struct {
	actor.BaseActor
	closed bool
}

func (l *Ledger) HandleStop(ctx *actor.Context, _ *signal.StopSignal) {
	l.closed = true
	ctx.StopSelf()
}

func (l *Ledger) HandleTerminate(ctx *actor.Context, _ *signal.TerminateSignal) {
	ctx.TerminateSelf()
}
