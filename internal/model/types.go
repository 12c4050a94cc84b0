package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinImageCount     = 1
	MaxImageCount     = 5
	DefaultImageCount = 3
)

type Category string

const (
	CategoryTip        Category = "tip"
	CategoryMotivation Category = "motivation"
	CategoryLifestyle  Category = "lifestyle"
)

var Categories = []Category{CategoryTip, CategoryMotivation, CategoryLifestyle}

type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

var Languages = []Language{LanguageFrench, LanguageEnglish}

type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

var Positions = []Position{PositionTop, PositionMiddle, PositionBottom}

// SubtitleContract selects the multipart layout sent to /add-subtitles.
type SubtitleContract string

const (
	// ContractCaptioned sends video + subtitle_text + position.
	ContractCaptioned SubtitleContract = "captioned"
	// ContractAuto sends video_file only; the backend transcribes and places subtitles.
	ContractAuto SubtitleContract = "auto"
)

const (
	TTSAuto       = "auto"
	TTSCartesia   = "cartesia"
	TTSElevenLabs = "elevenlabs"
)

var (
	ErrEmptyPrompt       = errors.New("prompt is required")
	ErrEmptySubtitleText = errors.New("subtitle text is required")
	ErrNoFile            = errors.New("a video file is required")
)

// GenerationRequest is the body of POST /generate-video.
type GenerationRequest struct {
	Prompt     string   `json:"prompt"`
	ImageCount int      `json:"n_images"`
	Category   Category `json:"category"`
	Language   Language `json:"lang"`
	Tone       string   `json:"tone,omitempty"`
	TTSService string   `json:"tts_service,omitempty"`
}

type GenerationResult struct {
	VideoURL string `json:"video_url"`
}

// SubtitleJob is the set of inputs for subtitle processing. Source is a
// local file path; Text and Position are only sent under ContractCaptioned.
type SubtitleJob struct {
	Source   string
	Text     string
	Position Position
}

func NewGenerationRequest(prompt string, imageCount int, category Category, lang Language) GenerationRequest {
	if category == "" {
		category = CategoryTip
	}
	if lang == "" {
		lang = LanguageFrench
	}
	return GenerationRequest{
		Prompt:     prompt,
		ImageCount: ClampImageCount(imageCount),
		Category:   category,
		Language:   lang,
	}
}

func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if r.ImageCount < MinImageCount || r.ImageCount > MaxImageCount {
		return fmt.Errorf("image count must be between %d and %d, got %d", MinImageCount, MaxImageCount, r.ImageCount)
	}
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return err
	}
	if _, err := ParseLanguage(string(r.Language)); err != nil {
		return err
	}
	if r.TTSService != "" {
		if _, err := ParseTTSService(r.TTSService); err != nil {
			return err
		}
	}
	return nil
}

func (j SubtitleJob) Validate(contract SubtitleContract) error {
	if strings.TrimSpace(j.Source) == "" {
		return ErrNoFile
	}
	if contract == ContractAuto {
		return nil
	}
	if strings.TrimSpace(j.Text) == "" {
		return ErrEmptySubtitleText
	}
	if j.Position != "" {
		if _, err := ParsePosition(string(j.Position)); err != nil {
			return err
		}
	}
	return nil
}

// ClampImageCount keeps n inside [MinImageCount, MaxImageCount].
func ClampImageCount(n int) int {
	if n < MinImageCount {
		return MinImageCount
	}
	if n > MaxImageCount {
		return MaxImageCount
	}
	return n
}

func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "tip", "astuce":
		return CategoryTip, nil
	case "motivation":
		return CategoryMotivation, nil
	case "lifestyle":
		return CategoryLifestyle, nil
	default:
		return "", fmt.Errorf("invalid category %q (expected tip, motivation, or lifestyle)", strings.TrimSpace(raw))
	}
}

func ParseLanguage(raw string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fr":
		return LanguageFrench, nil
	case "en":
		return LanguageEnglish, nil
	default:
		return "", fmt.Errorf("invalid language %q (expected fr or en)", strings.TrimSpace(raw))
	}
}

func ParsePosition(raw string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "top":
		return PositionTop, nil
	case "middle":
		return PositionMiddle, nil
	case "", "bottom":
		return PositionBottom, nil
	default:
		return "", fmt.Errorf("invalid position %q (expected top, middle, or bottom)", strings.TrimSpace(raw))
	}
}

func ParseSubtitleContract(raw string) (SubtitleContract, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ContractCaptioned):
		return ContractCaptioned, nil
	case string(ContractAuto):
		return ContractAuto, nil
	default:
		return "", fmt.Errorf("invalid subtitle contract %q (expected captioned or auto)", strings.TrimSpace(raw))
	}
}

func ParseTTSService(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", TTSAuto:
		return TTSAuto, nil
	case TTSCartesia:
		return TTSCartesia, nil
	case TTSElevenLabs:
		return TTSElevenLabs, nil
	default:
		return "", fmt.Errorf("invalid tts service %q (expected auto, cartesia, or elevenlabs)", strings.TrimSpace(raw))
	}
}
