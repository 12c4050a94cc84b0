package cli

import (
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"videoai-studio/internal/model"
	"videoai-studio/internal/transfer"
	"videoai-studio/internal/workflow"
)

const (
	genFieldConcept = iota
	genFieldImages
	genFieldCategory
	genFieldLanguage
	genFieldSubmit
	genFieldCount
)

type generatePage struct {
	id       string
	deps     *studioDeps
	gen      *workflow.Generation
	concept  textarea.Model
	slider   progress.Model
	spinner  spinner.Model
	images   int
	category int
	language int
	focus    int
	editing  bool
	hint     string
	busy     bool
	note     resultNote
	width    int
}

func newGeneratePage(deps *studioDeps, width int) *generatePage {
	t := deps.text
	ta := textarea.New()
	ta.Placeholder = t.ConceptHint
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetHeight(3)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	p := &generatePage{
		id:      uuid.NewString(),
		deps:    deps,
		gen:     workflow.NewGeneration(deps.ctx, t.GenFailed),
		concept: ta,
		slider:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(20)),
		spinner: sp,
		images:  model.DefaultImageCount,
	}
	p.resize(width)
	return p
}

func (p *generatePage) init() tea.Cmd {
	return nil
}

func (p *generatePage) close() {
	p.gen.Close()
}

func (p *generatePage) resize(width int) {
	p.width = maxInt(width, 40)
	p.concept.SetWidth(clampInt(p.width-8, 20, 80))
}

func (p *generatePage) capturesKeys() bool {
	return p.editing
}

func (p *generatePage) request() model.GenerationRequest {
	return model.NewGenerationRequest(
		p.concept.Value(),
		p.images,
		model.Categories[p.category],
		model.Languages[p.language],
	)
}

// submit starts a generation from idle only. A displayed result or error
// is left through "n" or retry first.
func (p *generatePage) submit(req model.GenerationRequest) tea.Cmd {
	p.hint = ""
	if p.gen.Phase() != model.PhaseIdle {
		return nil
	}
	task, err := p.gen.Submit(req)
	if err != nil {
		if errors.Is(err, model.ErrEmptyPrompt) {
			p.hint = p.deps.text.Concept
		} else if !errors.Is(err, workflow.ErrBusy) {
			p.hint = err.Error()
		}
		return nil
	}
	p.note = resultNote{}
	client := p.deps.client
	id := p.id
	run := func() tea.Msg {
		res, err := client.GenerateVideo(task.Context(), req)
		return generateDoneMsg{page: id, task: task, result: res, err: err}
	}
	return tea.Batch(run, p.spinner.Tick)
}

// retry dismisses the error and returns the form to idle. The request is
// not resubmitted.
func (p *generatePage) retry() {
	if p.gen.Phase() == model.PhaseError {
		p.gen.Reset()
		p.focus = genFieldSubmit
	}
}

func (p *generatePage) updateKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if p.editing {
		switch key {
		case "esc":
			p.editing = false
			p.concept.Blur()
			return nil
		case "ctrl+s":
			p.editing = false
			p.concept.Blur()
			return p.submit(p.request())
		}
		var cmd tea.Cmd
		p.concept, cmd = p.concept.Update(msg)
		return cmd
	}

	switch p.gen.State().(type) {
	case workflow.GenerationLoading:
		return nil
	case workflow.GenerationFailed:
		if key == "r" || key == "enter" {
			p.retry()
			return nil
		}
	case workflow.GenerationSucceeded:
		if cmd, ok := p.resultKey(key); ok {
			return cmd
		}
	}

	switch key {
	case "up", "k":
		p.focus = (p.focus + genFieldCount - 1) % genFieldCount
	case "down", "j":
		p.focus = (p.focus + 1) % genFieldCount
	case "left", "h":
		p.adjust(-1)
	case "right", "l":
		p.adjust(1)
	case "r":
		p.concept.SetValue(p.deps.idea())
		p.hint = ""
	case "e", "i":
		p.focus = genFieldConcept
		return p.startEditing()
	case "enter":
		switch p.focus {
		case genFieldConcept:
			return p.startEditing()
		case genFieldSubmit:
			return p.submit(p.request())
		default:
			p.focus++
		}
	}
	return nil
}

func (p *generatePage) resultKey(key string) (tea.Cmd, bool) {
	done, ok := p.gen.State().(workflow.GenerationSucceeded)
	if !ok {
		return nil, false
	}
	switch key {
	case "d":
		if p.busy {
			return nil, true
		}
		p.busy = true
		p.note = resultNote{}
		return downloadCmd(p.deps, p.id, done.Result.VideoURL, transfer.GeneratedName), true
	case "o":
		return openCmd(p.deps, p.id, done.Result.VideoURL), true
	case "n":
		p.gen.Reset()
		p.note = resultNote{}
		p.focus = genFieldConcept
		return nil, true
	}
	return nil, false
}

func (p *generatePage) startEditing() tea.Cmd {
	p.editing = true
	return p.concept.Focus()
}

func (p *generatePage) adjust(delta int) {
	switch p.focus {
	case genFieldImages:
		p.images = model.ClampImageCount(p.images + delta)
	case genFieldCategory:
		p.category = (p.category + len(model.Categories) + delta) % len(model.Categories)
	case genFieldLanguage:
		p.language = (p.language + len(model.Languages) + delta) % len(model.Languages)
	}
}

func (p *generatePage) handle(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case generateDoneMsg:
		if msg.page != p.id {
			return false, nil
		}
		if msg.err != nil {
			log.Printf("generate video: %v", msg.err)
		}
		if !p.gen.Resolve(msg.task, msg.result, msg.err) {
			log.Printf("discarded stale generation result %s", msg.task.ID)
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
		if p.gen.Phase() != model.PhaseLoading {
			return true, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return true, cmd
	}
	if isAsyncResult(msg) {
		return false, nil
	}
	if p.editing {
		var cmd tea.Cmd
		p.concept, cmd = p.concept.Update(msg)
		return true, cmd
	}
	return false, nil
}

func (p *generatePage) view(width int) string {
	t := p.deps.text
	loading := p.gen.Phase() == model.PhaseLoading

	categories := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = t.CategoryLabels[c]
	}
	languages := make([]string, len(model.Languages))
	for i, l := range model.Languages {
		languages[i] = t.LanguageLabels[l]
	}

	form := []string{
		studioTitleStyle.Render(t.GenTitle),
		studioMutedStyle.Render(t.GenSubtitle),
		"",
		fieldLabel(t.Concept, p.focus == genFieldConcept),
		p.concept.View(),
		"",
		fieldLabel(t.ImageCount, p.focus == genFieldImages),
		"  " + viewImageSlider(p.slider, p.images),
		fieldLabel(t.Category, p.focus == genFieldCategory),
		"  " + viewSelect(categories, p.category),
		fieldLabel(t.Language, p.focus == genFieldLanguage),
		"  " + viewSelect(languages, p.language),
		"",
		"  " + viewButton(t.Submit, p.focus == genFieldSubmit, !loading && strings.TrimSpace(p.concept.Value()) != ""),
	}
	if p.hint != "" {
		form = append(form, "  "+studioErrorStyle.Render("! "+p.hint))
	}

	panelW := clampInt(width-2, 30, 90)
	var panel string
	switch s := p.gen.State().(type) {
	case workflow.GenerationLoading:
		panel = viewLoading(t, p.spinner.View(), panelW)
	case workflow.GenerationFailed:
		panel = viewError(t, s.Message, panelW)
	case workflow.GenerationSucceeded:
		panel = viewResult(t, t.GenTitle, s.Result.VideoURL, p.busy, p.note, panelW)
	default:
		panel = viewEmptyState(t, panelW)
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(form, "\n"), "", panel)
}

func (p *generatePage) hints() string {
	if p.editing {
		return "esc: done editing | ctrl+s: generate | ctrl+c: quit"
	}
	switch p.gen.Phase() {
	case model.PhaseLoading:
		return "generating... | 1-3/tab: navigate (cancels) | q: quit"
	case model.PhaseError:
		return "r/enter: retry | 1-3/tab: navigate | q: quit"
	case model.PhaseSuccess:
		return "d: download | o: open | n: another | 1-3/tab: navigate | q: quit"
	}
	return "up/down: field | left/right: change | enter: edit/submit | r: random idea | q: quit"
}
