package annotated

import "github.com/lwmacct/251215-go-pkg-signal/pkg/actor"

//signal:handler
type First struct {
	actor.BaseActor
}

type Plain struct {
	actor.BaseActor
}

type (
	//signal:handler
	Second struct {
		actor.BaseActor
	}

	Third struct{}
)
