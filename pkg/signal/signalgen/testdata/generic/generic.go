package generic

import (
	"fmt"
	str "strings"

	"github.com/lwmacct/251215-go-pkg-signal/pkg/actor"
)

type Cache[K comparable, V fmt.Stringer] struct {
	actor.BaseActor
	items map[K]V
}

type Pair[A, B any] struct {
	actor.BaseActor
	left  A
	right B
}

type Conflict[ctx any, c interface{ ~int | ~string }] struct {
	actor.BaseActor
}

type Buffered[W interface{ *str.Builder }] struct {
	actor.BaseActor
	out W
}

type Broken[T missing.Thing] struct {
	actor.BaseActor
}
