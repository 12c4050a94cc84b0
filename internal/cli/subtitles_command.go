package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"videoai-studio/internal/api"
	"videoai-studio/internal/media"
	"videoai-studio/internal/model"
	"videoai-studio/internal/transfer"
	"videoai-studio/internal/workflow"
)

func runSubtitles(args []string) error {
	fs := flag.NewFlagSet("subtitles", flag.ContinueOnError)
	rf := bindRuntimeFlags(fs)
	video := fs.String("video", "", "local video file to caption")
	text := fs.String("text", "", "subtitle text (required by the captioned contract)")
	position := fs.String("position", string(model.PositionBottom), "subtitle position: top|middle|bottom")
	download := fs.Bool("download", false, "save the result into the download directory")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := strings.TrimSpace(*video)
	if path == "" {
		var err error
		path, err = promptRequired("video path")
		if err != nil {
			return err
		}
	}
	pos, err := model.ParsePosition(*position)
	if err != nil {
		return err
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
	subs := workflow.NewSubtitles(ctx, s.SubtitleContract, t.SubsFailed)
	defer subs.Close()

	preview, err := media.Open(path, media.FFprobe)
	if err != nil {
		return err
	}
	if err := subs.Select(preview); err != nil {
		_ = preview.Release()
		return err
	}
	subtitleText := strings.TrimSpace(*text)
	if subtitleText == "" && subs.NeedsText() {
		if subtitleText, err = promptRequired("subtitle text"); err != nil {
			return err
		}
	}
	task, err := subs.Process(subtitleText, pos)
	if err != nil {
		return err
	}
	body, err := preview.Reader()
	if err != nil {
		return err
	}
	if !*jsonOut {
		fmt.Printf("%s %s (%s)\n", t.Processing, preview.Name(), transfer.FormatBytes(preview.Size()))
	}
	job := model.SubtitleJob{Source: preview.Path(), Text: subtitleText, Position: pos}
	res, callErr := client.AddSubtitlesFrom(task.Context(), job, api.Upload{
		Name:        preview.Name(),
		ContentType: preview.ContentType(),
		Body:        body,
	})
	subs.Resolve(task, res, callErr)

	switch st := subs.State().(type) {
	case workflow.SubtitleDone:
		return finishResult(ctx, client, s, st.Result.VideoURL, transfer.SubtitledName, *download, *jsonOut)
	case workflow.SubtitleFileSelected:
		return resultError(st.Alert, callErr)
	default:
		return fmt.Errorf("subtitle processing ended in unexpected state %q", st.Phase())
	}
}
