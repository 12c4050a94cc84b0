package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"videoai-studio/internal/settings"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

// runSettingsShow prints the effective settings: file, environment and
// flags already applied.
func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	rf := bindRuntimeFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := rf.resolve()
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": rf.configPath(),
			"settings":    s,
		})
	}
	printSettings(rf.configPath(), s)
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	config := fs.String("config", settings.DefaultConfigPath, "settings file path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: settings set [--config path] <key> <value> (keys: %s)", strings.Join(settings.Keys(), ", "))
	}

	res, err := settings.Set(*config, rest[0], rest[1])
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}
	fmt.Printf("updated %s in %s\n", strings.ToLower(strings.TrimSpace(rest[0])), res.ConfigPath)
	printSettings(res.ConfigPath, res.Settings)
	return nil
}

func printSettings(configPath string, s settings.Settings) {
	fmt.Printf("config: %s\n", configPath)
	fmt.Printf("api_url: %s\n", s.APIBaseURL)
	fmt.Printf("download_dir: %s\n", s.DownloadDir)
	fmt.Printf("subtitle_contract: %s\n", s.SubtitleContract)
	fmt.Printf("locale: %s\n", s.Locale)
	fmt.Printf("request_timeout: %s\n", defaultIfEmpty(s.RequestTimeout, "(none)"))
	fmt.Printf("log_file: %s\n", defaultIfEmpty(s.LogFile, "(none)"))
}

func printSettingsUsage() {
	fmt.Println("settings: show or update studio settings")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  videoai-studio settings show [--json]")
	fmt.Println("  videoai-studio settings set <key> <value>")
	fmt.Println()
	fmt.Printf("Keys: %s\n", strings.Join(settings.Keys(), ", "))
	fmt.Println()
	fmt.Println("Environment (overrides the file, flags override both):")
	fmt.Printf("  %s %s %s\n", settings.EnvAPIURL, settings.EnvDownloadDir, settings.EnvSubtitleContract)
	fmt.Printf("  %s %s %s\n", settings.EnvLocale, settings.EnvRequestTimeout, settings.EnvLogFile)
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	rf := bindRuntimeFlags(fs)
	offline := fs.Bool("offline", false, "skip the backend health check")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := rf.resolve()
	if err != nil {
		return err
	}
	opts := settings.DoctorOptions{Settings: s, ConfigPath: rf.configPath()}
	if !*offline {
		client, err := newAPIClient(s)
		if err != nil {
			return err
		}
		opts.Health = client.Health
	}
	res := settings.Doctor(context.Background(), opts)
	if *jsonOut {
		return printJSON(res)
	}

	for _, c := range res.Checks {
		status := "ok"
		switch {
		case !c.OK && c.Optional:
			status = "warn"
		case !c.OK:
			status = "fail"
		}
		fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("doctor: all checks passed")
	return nil
}
