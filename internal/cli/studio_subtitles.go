package cli

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"videoai-studio/internal/api"
	"videoai-studio/internal/media"
	"videoai-studio/internal/model"
	"videoai-studio/internal/transfer"
	"videoai-studio/internal/workflow"
)

const (
	subFieldPath = iota
	subFieldText
	subFieldPosition
	subFieldProcess
)

var videoExtensions = []string{".mp4", ".mov", ".m4v", ".webm", ".mkv", ".avi"}

type subtitlesPage struct {
	id       string
	deps     *studioDeps
	subs     *workflow.Subtitles
	path     textinput.Model
	text     textarea.Model
	picker   filepicker.Model
	spinner  spinner.Model
	position int
	focus    int
	editing  bool
	picking  bool
	loadSeq  int
	loading  bool
	fileErr  string
	hint     string
	busy     bool
	note     resultNote
	width    int
}

func newSubtitlesPage(deps *studioDeps, width int) *subtitlesPage {
	t := deps.text
	ti := textinput.New()
	ti.Placeholder = t.PathHint
	ti.CharLimit = 1024

	ta := textarea.New()
	ta.Placeholder = t.TextHint
	ta.ShowLineNumbers = false
	ta.CharLimit = 500
	ta.SetHeight(3)

	fp := filepicker.New()
	fp.AllowedTypes = videoExtensions
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	p := &subtitlesPage{
		id:       uuid.NewString(),
		deps:     deps,
		subs:     workflow.NewSubtitles(deps.ctx, deps.settings.SubtitleContract, t.SubsFailed),
		path:     ti,
		text:     ta,
		picker:   fp,
		spinner:  sp,
		position: positionIndex(model.PositionBottom),
	}
	p.resize(width)
	return p
}

func positionIndex(pos model.Position) int {
	for i, v := range model.Positions {
		if v == pos {
			return i
		}
	}
	return 0
}

func (p *subtitlesPage) init() tea.Cmd {
	return nil
}

// close releases the selected file; an in-flight upload is cancelled.
func (p *subtitlesPage) close() {
	p.subs.Close()
}

func (p *subtitlesPage) resize(width int) {
	p.width = maxInt(width, 40)
	w := clampInt(p.width-8, 20, 80)
	p.path.Width = w
	p.text.SetWidth(w)
}

func (p *subtitlesPage) capturesKeys() bool {
	return p.editing || p.picking
}

// fields lists the focusable fields for the current contract. The auto
// contract has no text or position.
func (p *subtitlesPage) fields() []int {
	if p.subs.NeedsText() {
		return []int{subFieldPath, subFieldText, subFieldPosition, subFieldProcess}
	}
	return []int{subFieldPath, subFieldProcess}
}

func (p *subtitlesPage) moveFocus(delta int) {
	fields := p.fields()
	idx := 0
	for i, f := range fields {
		if f == p.focus {
			idx = i
		}
	}
	p.focus = fields[(idx+len(fields)+delta)%len(fields)]
}

func (p *subtitlesPage) loadPreview(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	p.loadSeq++
	p.loading = true
	p.fileErr = ""
	p.note = resultNote{}
	p.subs.ClearResult()
	seq := p.loadSeq
	id := p.id
	prober := p.deps.prober
	return tea.Batch(func() tea.Msg {
		preview, err := media.Open(path, prober)
		return previewLoadedMsg{page: id, seq: seq, preview: preview, err: err}
	}, p.spinner.Tick)
}

func (p *subtitlesPage) process() tea.Cmd {
	p.hint = ""
	if p.loading {
		return nil
	}
	text := p.text.Value()
	pos := model.Positions[p.position]
	task, err := p.subs.Process(text, pos)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptySubtitleText):
			p.hint = p.deps.text.SubtitleText
		case errors.Is(err, model.ErrNoFile):
			p.hint = p.deps.text.NoVideoTitle
		case errors.Is(err, workflow.ErrBusy):
		default:
			p.hint = err.Error()
		}
		return nil
	}
	processing, ok := p.subs.State().(workflow.SubtitleProcessing)
	if !ok {
		return nil
	}
	preview, _ := processing.Source.(*media.Preview)
	client := p.deps.client
	id := p.id
	job := model.SubtitleJob{Text: processing.Text, Position: processing.Position}
	run := func() tea.Msg {
		if preview == nil {
			return subtitlesDoneMsg{page: id, task: task, err: model.ErrNoFile}
		}
		body, err := preview.Reader()
		if err != nil {
			return subtitlesDoneMsg{page: id, task: task, err: err}
		}
		job.Source = preview.Path()
		res, err := client.AddSubtitlesFrom(task.Context(), job, api.Upload{
			Name:        preview.Name(),
			ContentType: preview.ContentType(),
			Body:        body,
		})
		return subtitlesDoneMsg{page: id, task: task, result: res, err: err}
	}
	p.note = resultNote{}
	return tea.Batch(run, p.spinner.Tick)
}

func (p *subtitlesPage) updateKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if p.picking {
		return p.updatePicker(msg)
	}
	if p.editing {
		return p.updateEditing(msg)
	}

	switch s := p.subs.State().(type) {
	case workflow.SubtitleProcessing:
		return nil
	case workflow.SubtitleFileSelected:
		if s.Alert != "" {
			if key == "enter" || key == "esc" {
				p.subs.DismissAlert()
			}
			return nil
		}
	case workflow.SubtitleDone:
		switch key {
		case "d":
			if p.busy {
				return nil
			}
			p.busy = true
			p.note = resultNote{}
			return downloadCmd(p.deps, p.id, s.Result.VideoURL, transfer.SubtitledName)
		case "o":
			return openCmd(p.deps, p.id, s.Result.VideoURL)
		case "n":
			p.subs.Reset()
			p.path.SetValue("")
			p.text.SetValue("")
			p.position = positionIndex(model.PositionBottom)
			p.note = resultNote{}
			p.focus = subFieldPath
			return nil
		}
	}

	switch key {
	case "up", "k":
		p.moveFocus(-1)
	case "down", "j":
		p.moveFocus(1)
	case "left", "h":
		if p.focus == subFieldPosition {
			p.position = (p.position + len(model.Positions) - 1) % len(model.Positions)
		}
	case "right", "l":
		if p.focus == subFieldPosition {
			p.position = (p.position + 1) % len(model.Positions)
		}
	case "b", "ctrl+o":
		p.picking = true
		return p.picker.Init()
	case "e", "i":
		return p.startEditing()
	case "enter":
		switch p.focus {
		case subFieldPath, subFieldText:
			return p.startEditing()
		case subFieldProcess:
			return p.process()
		default:
			p.moveFocus(1)
		}
	}
	return nil
}

func (p *subtitlesPage) startEditing() tea.Cmd {
	switch p.focus {
	case subFieldPath:
		p.editing = true
		return p.path.Focus()
	case subFieldText:
		if !p.subs.NeedsText() {
			return nil
		}
		p.editing = true
		return p.text.Focus()
	}
	return nil
}

func (p *subtitlesPage) stopEditing() {
	p.editing = false
	p.path.Blur()
	p.text.Blur()
}

func (p *subtitlesPage) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.stopEditing()
		return nil
	case "enter":
		if p.focus == subFieldPath {
			p.stopEditing()
			return p.loadPreview(p.path.Value())
		}
	case "ctrl+s":
		p.stopEditing()
		return p.process()
	}
	var cmd tea.Cmd
	if p.focus == subFieldPath {
		p.path, cmd = p.path.Update(msg)
	} else {
		p.text, cmd = p.text.Update(msg)
	}
	return cmd
}

func (p *subtitlesPage) updatePicker(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && (km.String() == "q" || km.String() == "ctrl+o") {
		p.picking = false
		return nil
	}
	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)
	if ok, path := p.picker.DidSelectFile(msg); ok {
		p.picking = false
		p.path.SetValue(path)
		return tea.Batch(cmd, p.loadPreview(path))
	}
	if ok, _ := p.picker.DidSelectDisabledFile(msg); ok {
		p.fileErr = p.deps.text.NotVideo
	}
	return cmd
}

func (p *subtitlesPage) handle(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case previewLoadedMsg:
		if msg.page != p.id {
			return false, nil
		}
		if msg.seq != p.loadSeq {
			if msg.preview != nil {
				_ = msg.preview.Release()
			}
			return true, nil
		}
		p.loading = false
		if msg.err != nil {
			log.Printf("open preview: %v", msg.err)
			if errors.Is(msg.err, media.ErrNotVideo) {
				p.fileErr = p.deps.text.NotVideo
			} else {
				p.fileErr = msg.err.Error()
			}
			return true, nil
		}
		if err := p.subs.Select(msg.preview); err != nil {
			p.fileErr = err.Error()
			return true, nil
		}
		p.note = resultNote{}
		if p.subs.NeedsText() {
			p.focus = subFieldText
		} else {
			p.focus = subFieldProcess
		}
		return true, nil
	case subtitlesDoneMsg:
		if msg.page != p.id {
			return false, nil
		}
		if msg.err != nil {
			log.Printf("add subtitles: %v", msg.err)
		}
		if !p.subs.Resolve(msg.task, msg.result, msg.err) {
			log.Printf("discarded stale subtitle result %s", msg.task.ID)
		}
		return true, nil
	case downloadDoneMsg:
		if msg.page != p.id {
			return false, nil
		}
		p.busy = false
		p.note = noteFor(p.deps.text, msg)
		return true, nil
	case openDoneMsg:
		if msg.page != p.id {
			return false, nil
		}
		p.note = noteFor(p.deps.text, msg)
		return true, nil
	case spinner.TickMsg:
		if !p.loading && p.subs.Phase() != model.PhaseProcessing {
			return true, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return true, cmd
	}
	if isAsyncResult(msg) {
		return false, nil
	}
	if p.picking {
		return true, p.updatePicker(msg)
	}
	if p.editing {
		var cmd tea.Cmd
		if p.focus == subFieldPath {
			p.path, cmd = p.path.Update(msg)
		} else {
			p.text, cmd = p.text.Update(msg)
		}
		return true, cmd
	}
	return false, nil
}

func (p *subtitlesPage) preview() *media.Preview {
	var src workflow.Source
	switch s := p.subs.State().(type) {
	case workflow.SubtitleFileSelected:
		src = s.Source
	case workflow.SubtitleProcessing:
		src = s.Source
	case workflow.SubtitleDone:
		src = s.Source
	}
	preview, _ := src.(*media.Preview)
	return preview
}

func (p *subtitlesPage) view(width int) string {
	t := p.deps.text
	panelW := clampInt(width-2, 30, 90)
	if p.picking {
		return lipgloss.JoinVertical(lipgloss.Left,
			studioTitleStyle.Render(t.PickFile),
			studioPanelStyle.Width(panelW).Render(p.picker.View()),
		)
	}

	state := p.subs.State()
	processing := state.Phase() == model.PhaseProcessing
	hasFile := state.Phase() != model.PhaseEmpty

	form := []string{
		studioTitleStyle.Render(t.SubsTitle),
		studioMutedStyle.Render(t.SubsSubtitle),
		"",
		fieldLabel(t.PathHint, p.focus == subFieldPath),
		p.path.View(),
		"  " + studioMutedStyle.Render("b: "+t.PickFile),
	}
	if p.loading {
		form = append(form, "  "+p.spinner.View())
	}
	if p.fileErr != "" {
		form = append(form, "  "+studioErrorStyle.Render("! "+p.fileErr))
	}
	if p.subs.NeedsText() {
		positions := make([]string, len(model.Positions))
		for i, pos := range model.Positions {
			positions[i] = t.PositionLabels[pos]
		}
		form = append(form,
			"",
			fieldLabel(t.SubtitleText, p.focus == subFieldText),
			p.text.View(),
			fieldLabel(t.Position, p.focus == subFieldPosition),
			"  "+viewSelect(positions, p.position),
		)
	} else {
		form = append(form, "", "  "+studioMutedStyle.Render(t.AutoContract))
	}
	ready := hasFile && !processing && (!p.subs.NeedsText() || strings.TrimSpace(p.text.Value()) != "")
	form = append(form, "", "  "+viewButton(t.Process, p.focus == subFieldProcess, ready))
	if p.hint != "" {
		form = append(form, "  "+studioErrorStyle.Render("! "+p.hint))
	}

	parts := []string{strings.Join(form, "\n"), ""}
	switch s := state.(type) {
	case workflow.SubtitleEmpty:
		parts = append(parts, viewNoVideo(t, panelW))
	case workflow.SubtitleFileSelected:
		parts = append(parts, viewPreview(t, p.preview(), panelW))
		if s.Alert != "" {
			parts = append(parts, viewAlert(t, s.Alert, panelW))
		}
	case workflow.SubtitleProcessing:
		parts = append(parts, viewPreview(t, p.preview(), panelW), viewProcessing(t, p.spinner.View(), panelW))
	case workflow.SubtitleDone:
		parts = append(parts, viewResult(t, t.WithSubtitles, s.Result.VideoURL, p.busy, p.note, panelW))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (p *subtitlesPage) hints() string {
	switch {
	case p.picking:
		return "up/down: move | enter: select | q: close browser"
	case p.editing && p.focus == subFieldPath:
		return "enter: load video | esc: done editing"
	case p.editing:
		return "esc: done editing | ctrl+s: add subtitles"
	}
	switch s := p.subs.State().(type) {
	case workflow.SubtitleProcessing:
		return "processing... | 1-3/tab: navigate (cancels) | q: quit"
	case workflow.SubtitleDone:
		return "d: download | o: open | n: new video | q: quit"
	case workflow.SubtitleFileSelected:
		if s.Alert != "" {
			return "enter/esc: dismiss"
		}
	}
	return "up/down: field | enter: edit/submit | b: browse | 1-3/tab: navigate | q: quit"
}
