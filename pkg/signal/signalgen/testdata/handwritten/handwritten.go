package handwritten

import (
	"github.com/lwmacct/251215-go-pkg-signal/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-signal/pkg/signal"
)

//signal:handler
type Manual struct {
	actor.BaseActor
	flushed bool
}

// HandleStop 清理后再停止
func (m *Manual) HandleStop(ctx *actor.Context, _ *signal.StopSignal) {
	m.flushed = true
	ctx.StopSelf()
}
