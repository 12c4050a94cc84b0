// Package settings resolves the studio configuration: built-in defaults,
// then the YAML settings file, then the environment (optionally seeded from
// a .env file). Command flags are applied last by the caller.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"videoai-studio/internal/api"
	"videoai-studio/internal/filestore"
	"videoai-studio/internal/model"
)

const (
	DefaultConfigPath  = "config/studio.yaml"
	DefaultEnvFile     = ".env"
	DefaultDownloadDir = "downloads"
	DefaultLocale      = "fr"
)

const (
	EnvAPIURL           = "VIDEOAI_API_URL"
	EnvDownloadDir      = "VIDEOAI_DOWNLOAD_DIR"
	EnvSubtitleContract = "VIDEOAI_SUBTITLE_CONTRACT"
	EnvLocale           = "VIDEOAI_LOCALE"
	EnvRequestTimeout   = "VIDEOAI_REQUEST_TIMEOUT"
	EnvLogFile          = "VIDEOAI_LOG_FILE"
)

type Settings struct {
	APIBaseURL       string                 `yaml:"api_url" json:"api_url"`
	DownloadDir      string                 `yaml:"download_dir" json:"download_dir"`
	SubtitleContract model.SubtitleContract `yaml:"subtitle_contract" json:"subtitle_contract"`
	Locale           string                 `yaml:"locale" json:"locale"`
	// RequestTimeout is a Go duration string; empty means no client timeout.
	RequestTimeout string `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`
	LogFile        string `yaml:"log_file,omitempty" json:"log_file,omitempty"`
}

func Defaults() Settings {
	return Settings{
		APIBaseURL:       api.DefaultBaseURL,
		DownloadDir:      DefaultDownloadDir,
		SubtitleContract: model.ContractCaptioned,
		Locale:           DefaultLocale,
	}
}

// Normalize fills blanks with defaults and canonicalizes enum values. It does
// not reject bad values; see Validate.
func Normalize(raw Settings) Settings {
	def := Defaults()
	norm := raw
	norm.APIBaseURL = strings.TrimRight(strings.TrimSpace(norm.APIBaseURL), "/")
	if norm.APIBaseURL == "" {
		norm.APIBaseURL = def.APIBaseURL
	}
	norm.DownloadDir = strings.TrimSpace(norm.DownloadDir)
	if norm.DownloadDir == "" {
		norm.DownloadDir = def.DownloadDir
	}
	if c, err := model.ParseSubtitleContract(string(norm.SubtitleContract)); err == nil {
		norm.SubtitleContract = c
	}
	norm.Locale = strings.ToLower(strings.TrimSpace(norm.Locale))
	if norm.Locale == "" {
		norm.Locale = def.Locale
	}
	norm.RequestTimeout = strings.TrimSpace(norm.RequestTimeout)
	norm.LogFile = strings.TrimSpace(norm.LogFile)
	return norm
}

func (s Settings) Validate() error {
	if !strings.HasPrefix(s.APIBaseURL, "http://") && !strings.HasPrefix(s.APIBaseURL, "https://") {
		return fmt.Errorf("invalid api url %q (expected http:// or https://)", s.APIBaseURL)
	}
	if _, err := model.ParseSubtitleContract(string(s.SubtitleContract)); err != nil {
		return err
	}
	if _, err := model.ParseLanguage(s.Locale); err != nil {
		return fmt.Errorf("invalid locale %q (expected fr or en)", s.Locale)
	}
	if _, err := s.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout parses RequestTimeout; zero means none.
func (s Settings) Timeout() (time.Duration, error) {
	raw := strings.TrimSpace(s.RequestTimeout)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid request timeout %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("request timeout must be >= 0")
	}
	return d, nil
}

// ClientOptions builds API client options from resolved settings.
func (s Settings) ClientOptions() (api.Options, error) {
	timeout, err := s.Timeout()
	if err != nil {
		return api.Options{}, err
	}
	return api.Options{
		BaseURL:  s.APIBaseURL,
		Contract: s.SubtitleContract,
		Timeout:  timeout,
	}, nil
}

// ReadFile loads the settings document at path. A missing file yields
// defaults.
func ReadFile(path string) (Settings, error) {
	path = normalizeConfigPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return Normalize(s), nil
}

func WriteFile(path string, s Settings) error {
	path = normalizeConfigPath(path)
	norm := Normalize(s)
	if err := norm.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(norm)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return filestore.WriteBytes(path, data)
}

type LoadOptions struct {
	ConfigPath string
	// EnvFile is read when present; variables already set in the process
	// environment win over it.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves defaults < file < environment.
func Load(opts LoadOptions) (Settings, error) {
	s, err := ReadFile(opts.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	lookup, err := envLookup(opts)
	if err != nil {
		return Settings{}, err
	}
	s = Normalize(ApplyEnv(s, lookup))
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func envLookup(opts LoadOptions) (func(string) (string, bool), error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envFile := strings.TrimSpace(opts.EnvFile)
	if envFile == "" {
		return lookup, nil
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lookup, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// ApplyEnv overlays VIDEOAI_* variables that are set and non-blank.
func ApplyEnv(s Settings, lookup func(string) (string, bool)) Settings {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}
	if v, ok := get(EnvAPIURL); ok {
		s.APIBaseURL = v
	}
	if v, ok := get(EnvDownloadDir); ok {
		s.DownloadDir = v
	}
	if v, ok := get(EnvSubtitleContract); ok {
		s.SubtitleContract = model.SubtitleContract(strings.ToLower(v))
	}
	if v, ok := get(EnvLocale); ok {
		s.Locale = v
	}
	if v, ok := get(EnvRequestTimeout); ok {
		s.RequestTimeout = v
	}
	if v, ok := get(EnvLogFile); ok {
		s.LogFile = v
	}
	return s
}

// Overrides are command-line values; empty fields leave settings unchanged.
type Overrides struct {
	APIBaseURL       string
	DownloadDir      string
	SubtitleContract string
	Locale           string
	RequestTimeout   string
}

func (s Settings) Apply(o Overrides) (Settings, error) {
	if v := strings.TrimSpace(o.APIBaseURL); v != "" {
		s.APIBaseURL = v
	}
	if v := strings.TrimSpace(o.DownloadDir); v != "" {
		s.DownloadDir = v
	}
	if v := strings.TrimSpace(o.SubtitleContract); v != "" {
		s.SubtitleContract = model.SubtitleContract(strings.ToLower(v))
	}
	if v := strings.TrimSpace(o.Locale); v != "" {
		s.Locale = v
	}
	if v := strings.TrimSpace(o.RequestTimeout); v != "" {
		s.RequestTimeout = v
	}
	s = Normalize(s)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

var keys = map[string]func(*Settings, string){
	"api_url":           func(s *Settings, v string) { s.APIBaseURL = v },
	"download_dir":      func(s *Settings, v string) { s.DownloadDir = v },
	"subtitle_contract": func(s *Settings, v string) { s.SubtitleContract = model.SubtitleContract(strings.ToLower(v)) },
	"locale":            func(s *Settings, v string) { s.Locale = v },
	"request_timeout":   func(s *Settings, v string) { s.RequestTimeout = v },
	"log_file":          func(s *Settings, v string) { s.LogFile = v },
}

func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type UpdateResult struct {
	ConfigPath string   `json:"config_path"`
	Settings   Settings `json:"settings"`
}

// Set updates one key in the settings file and writes it back.
func Set(configPath, key, value string) (UpdateResult, error) {
	configPath = normalizeConfigPath(configPath)
	apply, ok := keys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return UpdateResult{}, fmt.Errorf("unknown setting %q (expected one of %s)", key, strings.Join(Keys(), ", "))
	}
	s, err := ReadFile(configPath)
	if err != nil {
		return UpdateResult{}, err
	}
	apply(&s, strings.TrimSpace(value))
	s = Normalize(s)
	if err := s.Validate(); err != nil {
		return UpdateResult{}, err
	}
	if err := WriteFile(configPath, s); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{ConfigPath: configPath, Settings: s}, nil
}

func normalizeConfigPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultConfigPath
	}
	return filepath.Clean(path)
}
