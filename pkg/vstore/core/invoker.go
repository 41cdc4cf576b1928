package core

import (
	"sync"

	"github.com/prometheus/common/log"
)

// Invoker is used to spawn the go routines that drive the put verifier.
// The reconciler deadline runs on its own timer, outside the invoker.
type Invoker interface {
	// Spawn the function on its own go routine.
	Spawn(f func())
}

var (
	invoker     *routineInvoker
	invokerOnce sync.Once
)

// The process wide invoker, shared by every verifier instance.
type routineInvoker struct {
	group *sync.WaitGroup
}

func InvokerInstance() Invoker {
	invokerOnce.Do(func() {
		invoker = &routineInvoker{group: &sync.WaitGroup{}}
	})
	return invoker
}

func (i *routineInvoker) Spawn(f func()) {
	i.group.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("recovered spawned routine. %v", r)
			}
			i.group.Done()
		}()
		f()
	}()
}
