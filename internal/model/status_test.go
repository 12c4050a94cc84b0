package model

import "testing"

func TestCanTransitionGeneration_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from GenerationPhase
		to   GenerationPhase
	}{
		{PhaseIdle, PhaseLoading},
		{PhaseLoading, PhaseSuccess},
		{PhaseLoading, PhaseError},
		{PhaseSuccess, PhaseIdle},
		{PhaseError, PhaseIdle},
		{PhaseLoading, PhaseIdle},
	}

	for _, tc := range cases {
		if !CanTransitionGeneration(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransitionGeneration_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from GenerationPhase
		to   GenerationPhase
	}{
		{PhaseIdle, PhaseSuccess},
		{PhaseIdle, PhaseError},
		{PhaseLoading, PhaseLoading},
		{PhaseSuccess, PhaseLoading},
		{PhaseError, PhaseLoading},
		{"not_a_phase", PhaseIdle},
	}

	for _, tc := range cases {
		if CanTransitionGeneration(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestCanTransitionSubtitle(t *testing.T) {
	allowed := []struct {
		from SubtitlePhase
		to   SubtitlePhase
	}{
		{PhaseEmpty, PhaseFileSelected},
		{PhaseFileSelected, PhaseProcessing},
		{PhaseProcessing, PhaseDone},
		{PhaseProcessing, PhaseFileSelected},
		{PhaseDone, PhaseFileSelected},
		{PhaseDone, PhaseEmpty},
	}
	for _, tc := range allowed {
		if !CanTransitionSubtitle(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}

	rejected := []struct {
		from SubtitlePhase
		to   SubtitlePhase
	}{
		{PhaseEmpty, PhaseProcessing},
		{PhaseEmpty, PhaseDone},
		{PhaseFileSelected, PhaseDone},
		{PhaseDone, PhaseProcessing},
	}
	for _, tc := range rejected {
		if CanTransitionSubtitle(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestCheckGenerationTransition_ReportsPhases(t *testing.T) {
	if err := CheckGenerationTransition(PhaseIdle, PhaseSuccess); err == nil {
		t.Fatal("expected illegal transition error")
	}
	if err := CheckGenerationTransition(PhaseIdle, PhaseLoading); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
