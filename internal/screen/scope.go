package screen

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dispatcher hands completions back to the UI goroutine. Post must not block.
type Dispatcher interface {
	Post(fn func())
}

// DispatchFunc adapts a function to Dispatcher
type DispatchFunc func(fn func())

// Post calls f(fn)
func (f DispatchFunc) Post(fn func()) {
	f(fn)
}

// inlineDispatcher runs completions on the worker goroutine
var inlineDispatcher = DispatchFunc(func(fn func()) { fn() })

// scope ties background work to the screen lifetime. Completions of work that
// finishes after close are dropped.
type scope struct {
	ctx        context.Context
	cancel     context.CancelFunc
	group      errgroup.Group
	dispatcher Dispatcher
}

func newScope(parent context.Context, dispatcher Dispatcher) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel, dispatcher: dispatcher}
}

// launch runs work in the background and posts the completion it returns.
func (s *scope) launch(work func(ctx context.Context) func()) {
	s.group.Go(func() error {
		deliver := work(s.ctx)
		if deliver == nil || s.ctx.Err() != nil {
			return nil
		}
		s.dispatcher.Post(func() {
			if s.ctx.Err() != nil {
				return
			}
			deliver()
		})
		return nil
	})
}

func (s *scope) close() {
	s.cancel()
	_ = s.group.Wait()
}
