// Package workflow holds the per-page state machines. Each page instance owns
// a Scope; API calls run under a Task from that scope, and results are only
// applied while the task is still current.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrBusy   = errors.New("a request is already in flight")
	ErrClosed = errors.New("page has been closed")

	errEmptyResult = errors.New("response did not include a video url")
)

// Task is one in-flight backend call.
type Task struct {
	ID  string
	ctx context.Context

	cancel context.CancelFunc
}

// Context is cancelled when the task is superseded, reset or its scope closes.
func (t *Task) Context() context.Context {
	if t == nil {
		return context.Background()
	}
	return t.ctx
}

// Scope is the lifetime of one page instance.
type Scope struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	current *Task
	closed  bool
}

func NewScope(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Begin cancels any current task and starts a new one.
func (s *Scope) Begin() (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	s.cancelCurrentLocked()
	ctx, cancel := context.WithCancel(s.ctx)
	s.current = &Task{ID: uuid.NewString(), ctx: ctx, cancel: cancel}
	return s.current, nil
}

// Finish clears task if it is current and reports whether it was. The task's
// context is released either way.
func (s *Scope) Finish(task *Task) bool {
	if task == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task.cancel()
	if s.closed || s.current == nil || s.current.ID != task.ID {
		return false
	}
	s.current = nil
	return true
}

// Cancel aborts the current task, if any.
func (s *Scope) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelCurrentLocked()
}

func (s *Scope) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelCurrentLocked()
	s.closed = true
	s.cancel()
}

func (s *Scope) cancelCurrentLocked() {
	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}
}
