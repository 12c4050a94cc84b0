package settings

import (
	"context"
	"path/filepath"

	"videoai-studio/internal/filestore"
	"videoai-studio/internal/media"
)

type DoctorOptions struct {
	Settings   Settings
	ConfigPath string
	// Health probes the backend; nil skips the check.
	Health func(ctx context.Context) error
}

type DoctorResult struct {
	OK     bool          `json:"ok"`
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	// Optional checks are reported but do not fail the result.
	Optional bool `json:"optional,omitempty"`
}

func Doctor(ctx context.Context, opts DoctorOptions) DoctorResult {
	s := Normalize(opts.Settings)
	checks := make([]DoctorCheck, 0, 5)

	if err := s.Validate(); err != nil {
		checks = append(checks, DoctorCheck{Name: "settings", OK: false, Message: err.Error()})
	} else {
		checks = append(checks, DoctorCheck{Name: "settings", OK: true, Message: "valid"})
	}

	if opts.Health != nil {
		if err := opts.Health(ctx); err != nil {
			checks = append(checks, DoctorCheck{Name: "backend:health", OK: false, Message: err.Error()})
		} else {
			checks = append(checks, DoctorCheck{Name: "backend:health", OK: true, Message: s.APIBaseURL + " is reachable"})
		}
	}

	dep := media.DependencyStatus()
	checks = append(checks, DoctorCheck{
		Name:     "dependency:ffprobe",
		OK:       dep.FFprobeFound,
		Message:  dependencyMessage(dep.FFprobeFound, dep.FFprobePath, "ffprobe"),
		Optional: true,
	})

	dlOK, dlMessage := filestore.EnsureWritableDir(s.DownloadDir)
	checks = append(checks, DoctorCheck{Name: "directory:downloads", OK: dlOK, Message: dlMessage})

	cfgOK, cfgMessage := filestore.EnsureWritableDir(filepath.Dir(normalizeConfigPath(opts.ConfigPath)))
	checks = append(checks, DoctorCheck{Name: "directory:config", OK: cfgOK, Message: cfgMessage})

	ok := true
	for _, c := range checks {
		if !c.OK && !c.Optional {
			ok = false
			break
		}
	}
	return DoctorResult{OK: ok, Checks: checks}
}

func dependencyMessage(ok bool, path, name string) string {
	if ok {
		return name + " found at " + path
	}
	return name + " not found on PATH (previews will show no metadata)"
}
