package model

import "fmt"

type GenerationPhase string

const (
	PhaseIdle    GenerationPhase = "idle"
	PhaseLoading GenerationPhase = "loading"
	PhaseSuccess GenerationPhase = "success"
	PhaseError   GenerationPhase = "error"
)

type SubtitlePhase string

const (
	PhaseEmpty        SubtitlePhase = "empty"
	PhaseFileSelected SubtitlePhase = "file-selected"
	PhaseProcessing   SubtitlePhase = "processing"
	PhaseDone         SubtitlePhase = "done"
)

var generationTransitions = map[GenerationPhase]map[GenerationPhase]bool{
	PhaseIdle: {
		PhaseLoading: true,
	},
	PhaseLoading: {
		PhaseSuccess: true,
		PhaseError:   true,
		PhaseIdle:    true, // page torn down or reset mid-flight
	},
	PhaseSuccess: {
		PhaseIdle: true,
	},
	PhaseError: {
		PhaseIdle: true,
	},
}

var subtitleTransitions = map[SubtitlePhase]map[SubtitlePhase]bool{
	PhaseEmpty: {
		PhaseFileSelected: true,
	},
	PhaseFileSelected: {
		PhaseFileSelected: true,
		PhaseProcessing:   true,
		PhaseEmpty:        true,
	},
	PhaseProcessing: {
		PhaseDone:         true,
		PhaseFileSelected: true, // failure alert or new file picked
		PhaseEmpty:        true,
	},
	PhaseDone: {
		PhaseFileSelected: true,
		PhaseEmpty:        true,
	},
}

func IsKnownGenerationPhase(p GenerationPhase) bool {
	_, ok := generationTransitions[p]
	return ok
}

func IsKnownSubtitlePhase(p SubtitlePhase) bool {
	_, ok := subtitleTransitions[p]
	return ok
}

func CanTransitionGeneration(from, to GenerationPhase) bool {
	next, ok := generationTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func CanTransitionSubtitle(from, to SubtitlePhase) bool {
	next, ok := subtitleTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func CheckGenerationTransition(from, to GenerationPhase) error {
	if !CanTransitionGeneration(from, to) {
		return fmt.Errorf("invalid generation transition: %q -> %q", from, to)
	}
	return nil
}

func CheckSubtitleTransition(from, to SubtitlePhase) error {
	if !CanTransitionSubtitle(from, to) {
		return fmt.Errorf("invalid subtitle transition: %q -> %q", from, to)
	}
	return nil
}
