package cli

import "fmt"

// Run dispatches a command line. No arguments opens the studio.
func Run(args []string) error {
	if len(args) == 0 {
		return runStudio(nil)
	}

	switch args[0] {
	case "studio":
		return runStudio(args[1:])
	case "generate":
		return runGenerate(args[1:])
	case "subtitles":
		return runSubtitles(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "serve-mock":
		return runServeMock(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("videoai-studio: AI short-video generation and subtitling client")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  videoai-studio serve-mock &")
	fmt.Println("  videoai-studio")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  studio      interactive studio (default; --route /generate or /subtitles)")
	fmt.Println("  generate    generate a video from a prompt")
	fmt.Println("  subtitles   add subtitles to a local video")
	fmt.Println("  doctor      check settings, backend, ffprobe, and directories")
	fmt.Println("  settings    show/update studio settings")
	fmt.Println("  serve-mock  run a local backend that implements the API")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on generate, subtitles, doctor, and settings for machine-readable output")
	fmt.Println("  - --download saves results as video.mp4 / video_with_subtitles.mp4, never overwriting")
}
