package workflow

import (
	"context"
	"errors"
	"testing"

	"videoai-studio/internal/model"
)

const subtitleFailure = "Erreur lors du traitement de la vidéo. Veuillez réessayer."

type fakeSource struct {
	name     string
	released int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Release() error {
	f.released++
	return nil
}

func TestSubtitlesSelectProcessDone(t *testing.T) {
	s := NewSubtitles(context.Background(), model.ContractCaptioned, subtitleFailure)
	if s.Phase() != model.PhaseEmpty {
		t.Fatalf("expected empty, got %s", s.Phase())
	}
	if _, err := s.Process("hello", model.PositionBottom); !errors.Is(err, model.ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}

	src := &fakeSource{name: "clip.mp4"}
	if err := s.Select(src); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != model.PhaseFileSelected {
		t.Fatalf("expected file-selected, got %s", s.Phase())
	}

	if _, err := s.Process("  ", model.PositionBottom); !errors.Is(err, model.ErrEmptySubtitleText) {
		t.Fatalf("expected ErrEmptySubtitleText, got %v", err)
	}
	task, err := s.Process("hello", "")
	if err != nil {
		t.Fatal(err)
	}
	processing := s.State().(SubtitleProcessing)
	if processing.Position != model.PositionBottom || processing.Source != src {
		t.Fatalf("unexpected processing state %+v", processing)
	}
	if _, err := s.Process("hello", model.PositionTop); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if !s.Resolve(task, model.GenerationResult{VideoURL: "https://x/sub.mp4"}, nil) {
		t.Fatal("expected resolve to apply")
	}
	done, ok := s.State().(SubtitleDone)
	if !ok || done.Result.VideoURL != "https://x/sub.mp4" {
		t.Fatalf("unexpected state %#v", s.State())
	}
	if src.released != 0 {
		t.Fatal("source must stay held while selected")
	}
}

func TestSubtitlesFailureRaisesAlert(t *testing.T) {
	s := NewSubtitles(context.Background(), model.ContractCaptioned, subtitleFailure)
	_ = s.Select(&fakeSource{name: "a.mp4"})
	task, err := s.Process("hi", model.PositionTop)
	if err != nil {
		t.Fatal(err)
	}
	s.Resolve(task, model.GenerationResult{}, errors.New("network down"))

	sel, ok := s.State().(SubtitleFileSelected)
	if !ok {
		t.Fatalf("expected file-selected after failure, got %T", s.State())
	}
	if sel.Alert != subtitleFailure {
		t.Fatalf("unexpected alert %q", sel.Alert)
	}
	s.DismissAlert()
	if s.State().(SubtitleFileSelected).Alert != "" {
		t.Fatal("expected alert to be dismissed")
	}
	if _, err := s.Process("hi", model.PositionTop); err != nil {
		t.Fatalf("expected retry to be allowed, got %v", err)
	}
}

func TestSubtitlesSelectingNewFileClearsResultAndReleasesPrevious(t *testing.T) {
	s := NewSubtitles(context.Background(), model.ContractCaptioned, subtitleFailure)
	first := &fakeSource{name: "first.mp4"}
	_ = s.Select(first)
	task, _ := s.Process("hi", model.PositionMiddle)
	s.Resolve(task, model.GenerationResult{VideoURL: "https://x/1.mp4"}, nil)
	if s.Phase() != model.PhaseDone {
		t.Fatalf("expected done, got %s", s.Phase())
	}

	second := &fakeSource{name: "second.mp4"}
	if err := s.Select(second); err != nil {
		t.Fatal(err)
	}
	sel, ok := s.State().(SubtitleFileSelected)
	if !ok || sel.Source != second {
		t.Fatalf("expected second file selected, got %#v", s.State())
	}
	if first.released != 1 {
		t.Fatalf("expected first source released once, got %d", first.released)
	}

	// Reselecting the same source does not release it.
	_ = s.Select(second)
	if second.released != 0 {
		t.Fatal("reselected source must not be released")
	}
}

func TestSubtitlesClearResultKeepsFile(t *testing.T) {
	s := NewSubtitles(context.Background(), model.ContractCaptioned, subtitleFailure)
	src := &fakeSource{name: "a.mp4"}
	_ = s.Select(src)
	task, _ := s.Process("hi", model.PositionTop)
	s.Resolve(task, model.GenerationResult{VideoURL: "https://x/1.mp4"}, nil)

	s.ClearResult()
	sel, ok := s.State().(SubtitleFileSelected)
	if !ok || sel.Source != src || sel.Alert != "" {
		t.Fatalf("expected file-selected with the same source, got %#v", s.State())
	}
	if src.released != 0 {
		t.Fatal("clearing the result must not release the file")
	}

	task, _ = s.Process("hi", model.PositionTop)
	s.ClearResult()
	if task.Context().Err() == nil {
		t.Fatal("expected in-flight request cancelled")
	}
	if s.Resolve(task, model.GenerationResult{VideoURL: "https://x/2.mp4"}, nil) {
		t.Fatal("late response must be discarded")
	}
	if s.Phase() != model.PhaseFileSelected {
		t.Fatalf("expected file-selected, got %s", s.Phase())
	}
}

func TestSubtitlesSelectDuringProcessingDiscardsResponse(t *testing.T) {
	s := NewSubtitles(context.Background(), model.ContractCaptioned, subtitleFailure)
	_ = s.Select(&fakeSource{name: "a.mp4"})
	task, _ := s.Process("hi", model.PositionBottom)

	_ = s.Select(&fakeSource{name: "b.mp4"})
	if task.Context().Err() == nil {
		t.Fatal("expected in-flight upload to be cancelled")
	}
	if s.Resolve(task, model.GenerationResult{VideoURL: "https://stale"}, nil) {
		t.Fatal("stale response must be discarded")
	}
	if s.Phase() != model.PhaseFileSelected {
		t.Fatalf("expected file-selected, got %s", s.Phase())
	}
}

func TestSubtitlesAutoContractNeedsNoText(t *testing.T) {
	s := NewSubtitles(context.Background(), model.ContractAuto, subtitleFailure)
	if s.NeedsText() {
		t.Fatal("auto contract must not require text")
	}
	_ = s.Select(&fakeSource{name: "a.mp4"})
	if _, err := s.Process("", ""); err != nil {
		t.Fatalf("expected process without text, got %v", err)
	}
}

func TestSubtitlesResetAndCloseReleaseSource(t *testing.T) {
	s := NewSubtitles(context.Background(), "", subtitleFailure)
	if s.Contract() != model.ContractCaptioned {
		t.Fatalf("expected captioned default, got %s", s.Contract())
	}
	src := &fakeSource{name: "a.mp4"}
	_ = s.Select(src)
	task, _ := s.Process("hi", model.PositionBottom)

	s.Reset()
	if s.Phase() != model.PhaseEmpty {
		t.Fatalf("expected empty after reset, got %s", s.Phase())
	}
	if src.released != 1 {
		t.Fatalf("expected release on reset, got %d", src.released)
	}
	if task.Context().Err() == nil {
		t.Fatal("expected reset to cancel processing")
	}

	other := &fakeSource{name: "b.mp4"}
	_ = s.Select(other)
	s.Close()
	if other.released != 1 {
		t.Fatalf("expected release on close, got %d", other.released)
	}

	late := &fakeSource{name: "c.mp4"}
	if err := s.Select(late); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if late.released != 1 {
		t.Fatal("a source offered to a closed page must be released")
	}
}
