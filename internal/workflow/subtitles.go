package workflow

import (
	"context"
	"strings"
	"sync"

	"videoai-studio/internal/model"
)

// Source is a selected file that stays held until released.
// *media.Preview satisfies it.
type Source interface {
	Name() string
	Release() error
}

// SubtitleState is one of SubtitleEmpty, SubtitleFileSelected,
// SubtitleProcessing or SubtitleDone.
type SubtitleState interface {
	Phase() model.SubtitlePhase
	isSubtitleState()
}

type SubtitleEmpty struct{}

// SubtitleFileSelected carries Alert after a failed attempt until the user
// dismisses it.
type SubtitleFileSelected struct {
	Source Source
	Alert  string
}

type SubtitleProcessing struct {
	Source   Source
	Text     string
	Position model.Position
	Task     *Task
}

type SubtitleDone struct {
	Source Source
	Result model.GenerationResult
}

func (SubtitleEmpty) Phase() model.SubtitlePhase        { return model.PhaseEmpty }
func (SubtitleFileSelected) Phase() model.SubtitlePhase { return model.PhaseFileSelected }
func (SubtitleProcessing) Phase() model.SubtitlePhase   { return model.PhaseProcessing }
func (SubtitleDone) Phase() model.SubtitlePhase         { return model.PhaseDone }

func (SubtitleEmpty) isSubtitleState()        {}
func (SubtitleFileSelected) isSubtitleState() {}
func (SubtitleProcessing) isSubtitleState()   {}
func (SubtitleDone) isSubtitleState()         {}

// Subtitles is the state of one subtitle page.
type Subtitles struct {
	mu            sync.Mutex
	scope         *Scope
	contract      model.SubtitleContract
	state         SubtitleState
	source        Source
	failedMessage string
}

func NewSubtitles(parent context.Context, contract model.SubtitleContract, failedMessage string) *Subtitles {
	if contract == "" {
		contract = model.ContractCaptioned
	}
	if strings.TrimSpace(failedMessage) == "" {
		failedMessage = "subtitle processing failed"
	}
	return &Subtitles{
		scope:         NewScope(parent),
		contract:      contract,
		state:         SubtitleEmpty{},
		failedMessage: failedMessage,
	}
}

func (s *Subtitles) Contract() model.SubtitleContract {
	return s.contract
}

func (s *Subtitles) State() SubtitleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Subtitles) Phase() model.SubtitlePhase {
	return s.State().Phase()
}

// Select makes src the current file from any phase. The previous file is
// released, an in-flight request is cancelled and any result is cleared.
func (s *Subtitles) Select(src Source) error {
	if src == nil {
		return model.ErrNoFile
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scope.Closed() {
		_ = src.Release()
		return ErrClosed
	}
	s.scope.Cancel()
	if s.source != nil && s.source != src {
		_ = s.source.Release()
	}
	s.source = src
	s.state = SubtitleFileSelected{Source: src}
	return nil
}

// ClearResult drops a displayed result or an in-flight request while a
// replacement file is still loading. The current file stays selected.
func (s *Subtitles) ClearResult() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.state.(type) {
	case SubtitleDone:
		s.state = SubtitleFileSelected{Source: st.Source}
	case SubtitleProcessing:
		s.scope.Cancel()
		s.state = SubtitleFileSelected{Source: st.Source}
	}
}

// NeedsText reports whether Process requires subtitle text.
func (s *Subtitles) NeedsText() bool {
	return s.contract == model.ContractCaptioned
}

// Process moves file-selected to processing and returns the task to upload
// under.
func (s *Subtitles) Process(text string, position model.Position) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scope.Closed() {
		return nil, ErrClosed
	}
	switch s.state.(type) {
	case SubtitleEmpty:
		return nil, model.ErrNoFile
	case SubtitleProcessing:
		return nil, ErrBusy
	}
	if err := model.CheckSubtitleTransition(s.state.Phase(), model.PhaseProcessing); err != nil {
		return nil, err
	}
	if s.NeedsText() && strings.TrimSpace(text) == "" {
		return nil, model.ErrEmptySubtitleText
	}
	if position == "" {
		position = model.PositionBottom
	}
	if _, err := model.ParsePosition(string(position)); err != nil {
		return nil, err
	}

	task, err := s.scope.Begin()
	if err != nil {
		return nil, err
	}
	s.state = SubtitleProcessing{Source: s.source, Text: text, Position: position, Task: task}
	return task, nil
}

// Resolve applies the outcome of task. Failure returns to file-selected with
// the alert set. Stale tasks return false.
func (s *Subtitles) Resolve(task *Task, res model.GenerationResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	processing, ok := s.state.(SubtitleProcessing)
	if !ok || processing.Task == nil || task == nil || processing.Task.ID != task.ID {
		s.scope.Finish(task)
		return false
	}
	if !s.scope.Finish(task) {
		return false
	}
	if err == nil && strings.TrimSpace(res.VideoURL) == "" {
		err = errEmptyResult
	}
	if err != nil {
		s.state = SubtitleFileSelected{Source: processing.Source, Alert: s.failedMessage}
		return true
	}
	s.state = SubtitleDone{Source: processing.Source, Result: res}
	return true
}

func (s *Subtitles) DismissAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sel, ok := s.state.(SubtitleFileSelected); ok {
		sel.Alert = ""
		s.state = sel
	}
}

// Reset returns to empty and releases the selected file.
func (s *Subtitles) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope.Cancel()
	s.releaseLocked()
	s.state = SubtitleEmpty{}
}

func (s *Subtitles) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope.Close()
	s.releaseLocked()
	s.state = SubtitleEmpty{}
}

func (s *Subtitles) releaseLocked() {
	if s.source != nil {
		_ = s.source.Release()
		s.source = nil
	}
}
