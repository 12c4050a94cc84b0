package cli

import (
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"videoai-studio/internal/api"
	"videoai-studio/internal/filestore"
	"videoai-studio/internal/settings"
)

// runtimeFlags are accepted by every command that talks to the backend.
type runtimeFlags struct {
	config      *string
	envFile     *string
	apiURL      *string
	downloadDir *string
	contract    *string
	locale      *string
	timeout     *string
}

func bindRuntimeFlags(fs *flag.FlagSet) *runtimeFlags {
	return &runtimeFlags{
		config:      fs.String("config", settings.DefaultConfigPath, "settings file path"),
		envFile:     fs.String("env-file", settings.DefaultEnvFile, "dotenv file with VIDEOAI_* variables (optional)"),
		apiURL:      fs.String("api-url", "", "backend base URL (overrides settings)"),
		downloadDir: fs.String("download-dir", "", "directory for downloaded videos (overrides settings)"),
		contract:    fs.String("contract", "", "subtitle request layout: captioned|auto (overrides settings)"),
		locale:      fs.String("locale", "", "interface language: fr|en (overrides settings)"),
		timeout:     fs.String("timeout", "", "request timeout, e.g. 90s; 0 disables (overrides settings)"),
	}
}

func (f *runtimeFlags) configPath() string {
	return strings.TrimSpace(*f.config)
}

// resolve applies defaults < settings file < environment < flags.
func (f *runtimeFlags) resolve() (settings.Settings, error) {
	s, err := settings.Load(settings.LoadOptions{
		ConfigPath: f.configPath(),
		EnvFile:    strings.TrimSpace(*f.envFile),
	})
	if err != nil {
		return settings.Settings{}, err
	}
	return s.Apply(settings.Overrides{
		APIBaseURL:       *f.apiURL,
		DownloadDir:      *f.downloadDir,
		SubtitleContract: *f.contract,
		Locale:           *f.locale,
		RequestTimeout:   *f.timeout,
	})
}

func newAPIClient(s settings.Settings) (*api.Client, error) {
	opts, err := s.ClientOptions()
	if err != nil {
		return nil, err
	}
	return api.NewClient(opts), nil
}

// setupLogging sends the standard logger to the configured log file, or
// discards it. The terminal belongs to the UI and command output.
func setupLogging(s settings.Settings) (func(), error) {
	path := strings.TrimSpace(s.LogFile)
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := filestore.Mkdir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	f, err := tea.LogToFile(path, "videoai")
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return func() {
		_ = f.Close()
	}, nil
}
