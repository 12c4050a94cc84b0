package cli

import (
	"log"
	"math/rand"

	tea "github.com/charmbracelet/bubbletea"

	"videoai-studio/internal/media"
	"videoai-studio/internal/model"
	"videoai-studio/internal/transfer"
	"videoai-studio/internal/workflow"
)

// Every async result carries the id of the page instance that started it.
// A page ignores ids that are not its own.

type generateDoneMsg struct {
	page   string
	task   *workflow.Task
	result model.GenerationResult
	err    error
}

type subtitlesDoneMsg struct {
	page   string
	task   *workflow.Task
	result model.GenerationResult
	err    error
}

type previewLoadedMsg struct {
	page    string
	seq     int
	preview *media.Preview
	err     error
}

type downloadDoneMsg struct {
	page   string
	result transfer.Result
	err    error
}

type openDoneMsg struct {
	page string
	url  string
	err  error
}

// discardOrphan drops a result whose page is gone. A loaded preview still
// holds its file open and is released here.
func discardOrphan(msg tea.Msg) {
	switch msg := msg.(type) {
	case previewLoadedMsg:
		if msg.preview != nil {
			_ = msg.preview.Release()
		}
		log.Printf("discarded preview for closed page %s", msg.page)
	case generateDoneMsg:
		log.Printf("discarded generation result for closed page %s", msg.page)
	case subtitlesDoneMsg:
		log.Printf("discarded subtitle result for closed page %s", msg.page)
	case downloadDoneMsg:
		if msg.err == nil {
			log.Printf("download for closed page %s finished: %s", msg.page, msg.result.Path)
		}
	}
}

func downloadCmd(deps *studioDeps, page, url, name string) tea.Cmd {
	return func() tea.Msg {
		res, err := transfer.Save(deps.ctx, deps.client, url, transfer.Options{
			Dir:  deps.settings.DownloadDir,
			Name: name,
		})
		if err != nil {
			log.Printf("download %s: %v", url, err)
		}
		return downloadDoneMsg{page: page, result: res, err: err}
	}
}

func openCmd(deps *studioDeps, page, url string) tea.Cmd {
	return func() tea.Msg {
		return openDoneMsg{page: page, url: url, err: deps.open(url)}
	}
}

func randomIdea() string {
	return exampleIdeas[rand.Intn(len(exampleIdeas))]
}

// noteFor turns a finished download or open action into the line shown
// under the result.
func noteFor(t studioText, msg tea.Msg) resultNote {
	switch msg := msg.(type) {
	case downloadDoneMsg:
		if msg.err != nil {
			return resultNote{Text: t.SaveFailed + " " + msg.err.Error(), Err: true}
		}
		return resultNote{Text: t.Saved + " " + msg.result.Path}
	case openDoneMsg:
		if msg.err != nil {
			return resultNote{Text: t.OpenFailed + " " + msg.err.Error(), Err: true}
		}
	}
	return resultNote{}
}

func isAsyncResult(msg tea.Msg) bool {
	switch msg.(type) {
	case generateDoneMsg, subtitlesDoneMsg, previewLoadedMsg, downloadDoneMsg, openDoneMsg:
		return true
	}
	return false
}
