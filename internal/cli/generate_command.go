package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"videoai-studio/internal/api"
	"videoai-studio/internal/model"
	"videoai-studio/internal/settings"
	"videoai-studio/internal/transfer"
	"videoai-studio/internal/workflow"
)

type commandOutput struct {
	VideoURL string           `json:"video_url"`
	Saved    *transfer.Result `json:"saved,omitempty"`
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	rf := bindRuntimeFlags(fs)
	prompt := fs.String("prompt", "", "video concept (prompted when omitted on a TTY)")
	images := fs.Int("images", model.DefaultImageCount, "number of images, 1-5 (out of range values are clamped)")
	category := fs.String("category", string(model.CategoryTip), "category: tip|motivation|lifestyle")
	lang := fs.String("lang", string(model.LanguageFrench), "narration language: fr|en")
	tone := fs.String("tone", "", "narration tone hint (optional)")
	tts := fs.String("tts", "", "speech service: auto|cartesia|elevenlabs (optional)")
	download := fs.Bool("download", false, "save the video into the download directory")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.TrimSpace(*prompt)
	if text == "" {
		var err error
		text, err = promptRequired("prompt")
		if err != nil {
			return err
		}
	}
	cat, err := model.ParseCategory(*category)
	if err != nil {
		return err
	}
	language, err := model.ParseLanguage(*lang)
	if err != nil {
		return err
	}
	req := model.NewGenerationRequest(text, *images, cat, language)
	req.Tone = strings.TrimSpace(*tone)
	if strings.TrimSpace(*tts) != "" {
		if req.TTSService, err = model.ParseTTSService(*tts); err != nil {
			return err
		}
	}

	s, err := rf.resolve()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(s)
	if err != nil {
		return err
	}
	defer closeLog()
	client, err := newAPIClient(s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	t := textFor(s.Locale)
	gen := workflow.NewGeneration(ctx, t.GenFailed)
	defer gen.Close()
	task, err := gen.Submit(req)
	if err != nil {
		return err
	}
	if !*jsonOut {
		fmt.Println(t.LoadingTitle)
	}
	res, callErr := client.GenerateVideo(task.Context(), req)
	gen.Resolve(task, res, callErr)

	switch st := gen.State().(type) {
	case workflow.GenerationSucceeded:
		return finishResult(ctx, client, s, st.Result.VideoURL, transfer.GeneratedName, *download, *jsonOut)
	case workflow.GenerationFailed:
		return resultError(st.Message, callErr)
	default:
		return fmt.Errorf("generation ended in unexpected state %q", st.Phase())
	}
}

// finishResult prints the video URL and optionally saves the file.
func finishResult(ctx context.Context, client *api.Client, s settings.Settings, url, name string, download, jsonOut bool) error {
	out := commandOutput{VideoURL: url}
	if download {
		bar := transfer.NewLiveProgress(!jsonOut && stdoutIsTTY(), name, os.Stdout)
		bar.Start()
		saved, err := transfer.Save(ctx, client, url, transfer.Options{
			Dir:      s.DownloadDir,
			Name:     name,
			Progress: bar.Update,
		})
		if err != nil {
			bar.Stop("download failed")
			return err
		}
		bar.Stop(fmt.Sprintf("saved %s (%s)", saved.Path, transfer.FormatBytes(saved.Bytes)))
		out.Saved = &saved
	}
	if jsonOut {
		return printJSON(out)
	}
	fmt.Printf("video_url: %s\n", out.VideoURL)
	if out.Saved != nil {
		fmt.Printf("saved: %s\n", out.Saved.Path)
	}
	return nil
}

// resultError pairs the user-facing failure message with the cause, which
// is only shown on the command line.
func resultError(message string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s", message)
	}
	return fmt.Errorf("%s (%w)", message, cause)
}
