package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestClampImageCount(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-100, 1},
		{-1, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{6, 5},
		{1 << 30, 5},
	}
	for _, tc := range cases {
		if got := ClampImageCount(tc.in); got != tc.want {
			t.Fatalf("ClampImageCount(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	for n := -20; n <= 20; n++ {
		got := ClampImageCount(n)
		if got < MinImageCount || got > MaxImageCount {
			t.Fatalf("ClampImageCount(%d) = %d out of range", n, got)
		}
	}
}

func TestGenerationRequestWireFormat(t *testing.T) {
	req := NewGenerationRequest("Test idea", 3, CategoryTip, LanguageFrench)
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"prompt":"Test idea","n_images":3,"category":"tip","lang":"fr"}`
	if string(data) != want {
		t.Fatalf("unexpected wire body:\n got %s\nwant %s", data, want)
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	if err := NewGenerationRequest("   \t", 3, CategoryTip, LanguageFrench).Validate(); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	req := NewGenerationRequest("ok", 9, "", "")
	if err := req.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if req.ImageCount != MaxImageCount || req.Category != CategoryTip || req.Language != LanguageFrench {
		t.Fatalf("unexpected defaults: %+v", req)
	}
	req.TTSService = "robot"
	if err := req.Validate(); err == nil {
		t.Fatal("expected invalid tts service error")
	}
}

func TestSubtitleJobValidate(t *testing.T) {
	if err := (SubtitleJob{}).Validate(ContractCaptioned); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	job := SubtitleJob{Source: "clip.mp4", Text: "  "}
	if err := job.Validate(ContractCaptioned); !errors.Is(err, ErrEmptySubtitleText) {
		t.Fatalf("expected ErrEmptySubtitleText, got %v", err)
	}
	if err := job.Validate(ContractAuto); err != nil {
		t.Fatalf("auto contract should not require text: %v", err)
	}
}

func TestParseCategoryAcceptsFrenchAlias(t *testing.T) {
	got, err := ParseCategory("Astuce")
	if err != nil {
		t.Fatal(err)
	}
	if got != CategoryTip {
		t.Fatalf("got %q want %q", got, CategoryTip)
	}
	if _, err := ParseCategory("news"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestParsePositionDefaultsToBottom(t *testing.T) {
	got, err := ParsePosition("")
	if err != nil {
		t.Fatal(err)
	}
	if got != PositionBottom {
		t.Fatalf("got %q want %q", got, PositionBottom)
	}
}
