package basic

import "github.com/lwmacct/251215-go-pkg-signal/pkg/actor"

type Worker struct {
	actor.BaseActor
	jobs int
}

type Callback func()

type Named = Worker

type Runner interface {
	Run()
}
