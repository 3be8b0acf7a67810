package mcp

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// ErrStopped is returned for calls submitted after the dispatcher exited.
var ErrStopped = errors.New("dispatcher stopped")

type job struct {
	fn   func() (any, error)
	done chan result
}

type result struct {
	val any
	err error
}

// Dispatcher runs every host call on one locked OS thread. COM objects
// belong to the apartment of the thread that created them, so the
// connector and everything obtained from it never leave this goroutine.
type Dispatcher struct {
	conn host.Connector
	log  *zap.Logger
	jobs chan job

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewDispatcher(conn host.Connector, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		conn: conn,
		log:  log,
		jobs: make(chan job),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the dispatcher goroutine. It returns once the goroutine
// owns its thread.
func (d *Dispatcher) Start() {
	ready := make(chan struct{})
	go d.loop(ready)
	<-ready
}

func (d *Dispatcher) loop(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(d.done)
	close(ready)

	sweeper, _ := d.conn.(host.Sweeper)
	for {
		select {
		case <-d.stop:
			if err := d.conn.Close(); err != nil {
				d.log.Warn("close host connection", zap.Error(err))
			}
			return
		case j := <-d.jobs:
			val, err := d.run(j.fn)
			if sweeper != nil {
				sweeper.Sweep()
			}
			j.done <- result{val: val, err: err}
		}
	}
}

// run executes fn, turning a panic inside the host driver into an error so
// one bad call cannot take the thread down.
func (d *Dispatcher) run(fn func() (any, error)) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("host call panicked", zap.Any("panic", r))
			err = &panicError{value: r}
		}
	}()
	return fn()
}

// Do queues fn and waits for its result. ctx bounds only the wait for a
// free dispatcher: once fn has started it runs to completion.
func (d *Dispatcher) Do(ctx context.Context, fn func() (any, error)) (any, error) {
	j := job{fn: fn, done: make(chan result, 1)}
	select {
	case d.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, ErrStopped
	}
	r := <-j.done
	return r.val, r.err
}

// Stop closes the host connection and waits for the goroutine to exit. It
// must only be called after Start.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	<-d.done
}

type panicError struct{ value any }

func (p *panicError) Error() string {
	return fmt.Sprintf("host call panicked: %v", p.value)
}
