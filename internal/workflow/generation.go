package workflow

import (
	"context"
	"strings"
	"sync"

	"videoai-studio/internal/model"
)

// GenerationState is one of GenerationIdle, GenerationLoading,
// GenerationSucceeded or GenerationFailed.
type GenerationState interface {
	Phase() model.GenerationPhase
	isGenerationState()
}

type GenerationIdle struct{}

type GenerationLoading struct {
	Request model.GenerationRequest
	Task    *Task
}

type GenerationSucceeded struct {
	Request model.GenerationRequest
	Result  model.GenerationResult
}

type GenerationFailed struct {
	Request model.GenerationRequest
	Message string
	Err     error
}

func (GenerationIdle) Phase() model.GenerationPhase      { return model.PhaseIdle }
func (GenerationLoading) Phase() model.GenerationPhase   { return model.PhaseLoading }
func (GenerationSucceeded) Phase() model.GenerationPhase { return model.PhaseSuccess }
func (GenerationFailed) Phase() model.GenerationPhase    { return model.PhaseError }

func (GenerationIdle) isGenerationState()      {}
func (GenerationLoading) isGenerationState()   {}
func (GenerationSucceeded) isGenerationState() {}
func (GenerationFailed) isGenerationState()    {}

// Generation is the state of one generate page.
type Generation struct {
	mu            sync.Mutex
	scope         *Scope
	state         GenerationState
	failedMessage string
}

// NewGeneration starts idle. failedMessage is what the page shows for any
// failure; it must be non-empty.
func NewGeneration(parent context.Context, failedMessage string) *Generation {
	if strings.TrimSpace(failedMessage) == "" {
		failedMessage = "generation failed"
	}
	return &Generation{
		scope:         NewScope(parent),
		state:         GenerationIdle{},
		failedMessage: failedMessage,
	}
}

func (g *Generation) State() GenerationState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Generation) Phase() model.GenerationPhase {
	return g.State().Phase()
}

// Submit moves idle to loading and returns the task to run the request
// under. A blank prompt returns model.ErrEmptyPrompt and changes nothing.
func (g *Generation) Submit(req model.GenerationRequest) (*Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, model.ErrEmptyPrompt
	}
	if g.scope.Closed() {
		return nil, ErrClosed
	}
	if err := model.CheckGenerationTransition(g.state.Phase(), model.PhaseLoading); err != nil {
		return nil, ErrBusy
	}
	req.ImageCount = model.ClampImageCount(req.ImageCount)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	task, err := g.scope.Begin()
	if err != nil {
		return nil, err
	}
	g.state = GenerationLoading{Request: req, Task: task}
	return task, nil
}

// Resolve applies the outcome of task. It returns false, and changes
// nothing, when task is no longer the page's current task.
func (g *Generation) Resolve(task *Task, res model.GenerationResult, err error) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	loading, ok := g.state.(GenerationLoading)
	if !ok || loading.Task == nil || task == nil || loading.Task.ID != task.ID {
		g.scope.Finish(task)
		return false
	}
	if !g.scope.Finish(task) {
		return false
	}
	if err == nil && strings.TrimSpace(res.VideoURL) == "" {
		err = errEmptyResult
	}
	if err != nil {
		g.state = GenerationFailed{Request: loading.Request, Message: g.failedMessage, Err: err}
		return true
	}
	g.state = GenerationSucceeded{Request: loading.Request, Result: res}
	return true
}

// Reset returns to idle, discarding any result or message. An in-flight
// request is cancelled.
func (g *Generation) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scope.Cancel()
	g.state = GenerationIdle{}
}

// Close tears the page down; later Resolve calls are ignored.
func (g *Generation) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scope.Close()
	if _, ok := g.state.(GenerationLoading); ok {
		g.state = GenerationIdle{}
	}
}
