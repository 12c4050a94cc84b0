package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"videoai-studio/internal/api"
	"videoai-studio/internal/model"
)

func noEnv(string) (string, bool) { return "", false }

func TestReadFileDefaultsWhenMissing(t *testing.T) {
	s, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}
	if s.APIBaseURL != api.DefaultBaseURL || s.SubtitleContract != model.ContractCaptioned || s.Locale != "fr" {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestWriteFileRoundTripsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "studio.yaml")
	in := Settings{
		APIBaseURL:       "https://api.example.com/api/v1/",
		DownloadDir:      "out",
		SubtitleContract: "AUTO",
		Locale:           "EN",
		RequestTimeout:   "90s",
	}
	if err := WriteFile(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "subtitle_contract: auto") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}

	out, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.APIBaseURL != "https://api.example.com/api/v1" {
		t.Fatalf("trailing slash not trimmed: %q", out.APIBaseURL)
	}
	if out.SubtitleContract != model.ContractAuto || out.Locale != "en" {
		t.Fatalf("unexpected settings %+v", out)
	}
	if d, _ := out.Timeout(); d != 90*time.Second {
		t.Fatalf("unexpected timeout %s", d)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "studio.yaml")
	if err := WriteFile(cfg, Settings{APIBaseURL: "http://file:8000/api/v1", DownloadDir: "file-dl", Locale: "en"}); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("VIDEOAI_DOWNLOAD_DIR=dotenv-dl\nVIDEOAI_SUBTITLE_CONTRACT=auto\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDownloadDir, "env-dl")

	s, err := Load(LoadOptions{ConfigPath: cfg, EnvFile: envFile})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.APIBaseURL != "http://file:8000/api/v1" {
		t.Fatalf("file value lost: %q", s.APIBaseURL)
	}
	if s.DownloadDir != "env-dl" {
		t.Fatalf("process env should beat .env: %q", s.DownloadDir)
	}
	if s.SubtitleContract != model.ContractAuto {
		t.Fatalf(".env should beat file: %q", s.SubtitleContract)
	}
	if s.Locale != "en" {
		t.Fatalf("unexpected locale %q", s.Locale)
	}

	s, err = s.Apply(Overrides{APIBaseURL: "http://flag:9000/api/v1", SubtitleContract: "captioned"})
	if err != nil {
		t.Fatal(err)
	}
	if s.APIBaseURL != "http://flag:9000/api/v1" || s.SubtitleContract != model.ContractCaptioned {
		t.Fatalf("flags should win: %+v", s)
	}
	if s.DownloadDir != "env-dl" {
		t.Fatalf("unset flag must not clear value: %q", s.DownloadDir)
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	s, err := Load(LoadOptions{
		ConfigPath: filepath.Join(t.TempDir(), "none.yaml"),
		EnvFile:    filepath.Join(t.TempDir(), ".env"),
		LookupEnv:  noEnv,
	})
	if err != nil {
		t.Fatal(err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		EnvSubtitleContract: "guess",
		EnvLocale:           "de",
		EnvRequestTimeout:   "soon",
		EnvAPIURL:           "ftp://x",
	}
	for key, value := range cases {
		lookup := func(k string) (string, bool) {
			if k == key {
				return value, true
			}
			return "", false
		}
		if _, err := Load(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "x.yaml"), LookupEnv: lookup}); err == nil {
			t.Fatalf("%s=%s: expected validation error", key, value)
		}
	}
}

func TestSetUpdatesOneKey(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "studio.yaml")
	res, err := Set(cfg, "subtitle_contract", "auto")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if res.Settings.SubtitleContract != model.ContractAuto {
		t.Fatalf("unexpected contract %q", res.Settings.SubtitleContract)
	}
	if _, err := Set(cfg, "request_timeout", "2m"); err != nil {
		t.Fatal(err)
	}
	s, err := ReadFile(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.SubtitleContract != model.ContractAuto || s.RequestTimeout != "2m" {
		t.Fatalf("unexpected persisted settings %+v", s)
	}

	if _, err := Set(cfg, "colour", "blue"); err == nil {
		t.Fatal("expected unknown key error")
	}
	if _, err := Set(cfg, "locale", "xx"); err == nil {
		t.Fatal("expected invalid locale error")
	}
}

func TestClientOptions(t *testing.T) {
	s := Defaults()
	s.RequestTimeout = "30s"
	opts, err := s.ClientOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Timeout != 30*time.Second || opts.BaseURL != api.DefaultBaseURL || opts.Contract != model.ContractCaptioned {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestDoctorReportsBackendFailure(t *testing.T) {
	dir := t.TempDir()
	s := Defaults()
	s.DownloadDir = filepath.Join(dir, "downloads")

	res := Doctor(context.Background(), DoctorOptions{
		Settings:   s,
		ConfigPath: filepath.Join(dir, "config", "studio.yaml"),
		Health:     func(context.Context) error { return errors.New("connection refused") },
	})
	if res.OK {
		t.Fatal("expected doctor to fail when backend is down")
	}
	found := false
	for _, c := range res.Checks {
		if c.Name == "backend:health" {
			found = true
			if c.OK || !strings.Contains(c.Message, "connection refused") {
				t.Fatalf("unexpected health check %+v", c)
			}
		}
		if c.Name == "directory:downloads" && !c.OK {
			t.Fatalf("downloads dir should be writable: %s", c.Message)
		}
	}
	if !found {
		t.Fatal("missing backend:health check")
	}

	res = Doctor(context.Background(), DoctorOptions{
		Settings:   s,
		ConfigPath: filepath.Join(dir, "config", "studio.yaml"),
		Health:     func(context.Context) error { return nil },
	})
	if !res.OK {
		t.Fatalf("expected doctor to pass, got %+v", res.Checks)
	}
}
