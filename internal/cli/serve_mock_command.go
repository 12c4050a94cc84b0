package cli

import (
	"flag"
	"strings"
	"time"

	"videoai-studio/internal/mockbackend"
)

func runServeMock(args []string) error {
	fs := flag.NewFlagSet("serve-mock", flag.ContinueOnError)
	addr := fs.String("addr", ":8000", "listen address")
	videosDir := fs.String("videos-dir", "mock-videos", "directory for generated and uploaded videos")
	publicURL := fs.String("public-url", "", "base URL used in returned video links (default: request host)")
	delay := fs.Duration("delay", 2*time.Second, "artificial processing delay per request")
	fail := fs.Bool("fail", false, "answer every generation and subtitle request with 500")
	quiet := fs.Bool("quiet", false, "disable request logging")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	return mockbackend.Serve(strings.TrimSpace(*addr), mockbackend.Options{
		VideosDir: strings.TrimSpace(*videosDir),
		PublicURL: strings.TrimSpace(*publicURL),
		Delay:     *delay,
		Fail:      *fail,
		Logger:    !*quiet,
	})
}
