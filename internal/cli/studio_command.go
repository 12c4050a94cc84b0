package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-rod/rod/lib/launcher"

	"videoai-studio/internal/api"
	"videoai-studio/internal/media"
	"videoai-studio/internal/model"
	"videoai-studio/internal/settings"
)

type studioScreen int

const (
	screenHome studioScreen = iota
	screenGenerate
	screenSubtitles
)

var studioRoutes = map[string]studioScreen{
	"/":          screenHome,
	"/generate":  screenGenerate,
	"/subtitles": screenSubtitles,
}

func parseRoute(raw string) (studioScreen, error) {
	route := strings.TrimSpace(raw)
	if route == "" {
		return screenHome, nil
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if s, ok := studioRoutes[strings.ToLower(route)]; ok {
		return s, nil
	}
	return screenHome, fmt.Errorf("unknown route %q (expected /, /generate, or /subtitles)", raw)
}

// studioClient is the part of *api.Client the pages use.
type studioClient interface {
	GenerateVideo(ctx context.Context, req model.GenerationRequest) (model.GenerationResult, error)
	AddSubtitlesFrom(ctx context.Context, job model.SubtitleJob, upload api.Upload) (model.GenerationResult, error)
	Fetch(ctx context.Context, url string) (*api.Asset, error)
}

// studioDeps are shared by every page instance.
type studioDeps struct {
	ctx      context.Context
	client   studioClient
	settings settings.Settings
	text     studioText
	prober   media.Prober
	open     func(url string) error
	idea     func() string
}

func openInBrowser(url string) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("no url to open")
	}
	launcher.Open(url)
	return nil
}

type studioModel struct {
	deps       *studioDeps
	screen     studioScreen
	homeCursor int
	gen        *generatePage
	subs       *subtitlesPage
	width      int
	height     int
	status     string
}

func newStudioModel(deps *studioDeps, start studioScreen) studioModel {
	m := studioModel{deps: deps, screen: screenHome, width: 100, height: 30}
	m.navigate(start)
	return m
}

func runStudio(args []string) error {
	fs := flag.NewFlagSet("studio", flag.ContinueOnError)
	rf := bindRuntimeFlags(fs)
	route := fs.String("route", "/", "screen to open: /, /generate, or /subtitles")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := parseRoute(*route)
	if err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("studio requires an interactive terminal (TTY); use generate or subtitles instead")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	deps := &studioDeps{
		ctx:      ctx,
		client:   client,
		settings: s,
		text:     textFor(s.Locale),
		prober:   media.FFprobe,
		open:     openInBrowser,
		idea:     randomIdea,
	}

	m := newStudioModel(deps, start)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if fm, ok := finalModel.(studioModel); ok {
		fm.closePages()
	}
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("studio requires an interactive terminal (TTY)")
		}
		return err
	}
	return nil
}

func (m studioModel) Init() tea.Cmd {
	return m.pageInit()
}

func (m *studioModel) navigate(to studioScreen) tea.Cmd {
	if to == m.screen && m.pageOpen(to) {
		return nil
	}
	m.closePages()
	m.screen = to
	m.status = ""
	switch to {
	case screenGenerate:
		m.gen = newGeneratePage(m.deps, m.width)
	case screenSubtitles:
		m.subs = newSubtitlesPage(m.deps, m.width)
	}
	return m.pageInit()
}

func (m studioModel) pageOpen(s studioScreen) bool {
	switch s {
	case screenGenerate:
		return m.gen != nil
	case screenSubtitles:
		return m.subs != nil
	default:
		return true
	}
}

func (m studioModel) pageInit() tea.Cmd {
	switch m.screen {
	case screenGenerate:
		if m.gen != nil {
			return m.gen.init()
		}
	case screenSubtitles:
		if m.subs != nil {
			return m.subs.init()
		}
	}
	return nil
}

// closePages tears down every page instance; late results for them are
// then dropped.
func (m *studioModel) closePages() {
	if m.gen != nil {
		m.gen.close()
		m.gen = nil
	}
	if m.subs != nil {
		m.subs.close()
		m.subs = nil
	}
}

func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.gen != nil {
			m.gen.resize(m.width)
		}
		if m.subs != nil {
			m.subs.resize(m.width)
		}
		return m, nil
	case generateDoneMsg, downloadDoneMsg, openDoneMsg:
		return m.routeToPages(msg)
	case subtitlesDoneMsg, previewLoadedMsg:
		return m.routeToPages(msg)
	case spinner.TickMsg:
		return m.routeToActive(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m.routeToActive(msg)
}

func (m studioModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.closePages()
		return m, tea.Quit
	}
	if !m.pageCapturesKeys() {
		switch key {
		case "q":
			m.closePages()
			return m, tea.Quit
		case "1":
			return m, m.navigate(screenHome)
		case "2":
			return m, m.navigate(screenGenerate)
		case "3":
			return m, m.navigate(screenSubtitles)
		case "tab":
			return m, m.navigate((m.screen + 1) % 3)
		case "shift+tab":
			return m, m.navigate((m.screen + 2) % 3)
		}
	}

	switch m.screen {
	case screenGenerate:
		if m.gen != nil {
			return m, m.gen.updateKey(msg)
		}
	case screenSubtitles:
		if m.subs != nil {
			return m, m.subs.updateKey(msg)
		}
	default:
		return m.updateHome(key)
	}
	return m, nil
}

func (m studioModel) updateHome(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h", "up", "k":
		m.homeCursor = 0
	case "right", "l", "down", "j":
		m.homeCursor = 1
	case "enter", " ":
		if m.homeCursor == 0 {
			return m, m.navigate(screenGenerate)
		}
		return m, m.navigate(screenSubtitles)
	}
	return m, nil
}

// pageCapturesKeys is true while a text field or the file picker is being
// edited; navigation keys are then typed into the field.
func (m studioModel) pageCapturesKeys() bool {
	switch m.screen {
	case screenGenerate:
		return m.gen != nil && m.gen.capturesKeys()
	case screenSubtitles:
		return m.subs != nil && m.subs.capturesKeys()
	}
	return false
}

func (m studioModel) routeToPages(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	handled := false
	if m.gen != nil {
		ok, cmd := m.gen.handle(msg)
		handled = handled || ok
		cmds = append(cmds, cmd)
	}
	if m.subs != nil {
		ok, cmd := m.subs.handle(msg)
		handled = handled || ok
		cmds = append(cmds, cmd)
	}
	if !handled {
		discardOrphan(msg)
		// A download outlives its page; report where it went.
		if dl, ok := msg.(downloadDoneMsg); ok {
			if dl.err != nil {
				m.status = "error: " + dl.err.Error()
			} else {
				m.status = m.deps.text.Saved + " " + dl.result.Path
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func (m studioModel) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenGenerate:
		if m.gen != nil {
			_, cmd := m.gen.handle(msg)
			return m, cmd
		}
	case screenSubtitles:
		if m.subs != nil {
			_, cmd := m.subs.handle(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m studioModel) View() string {
	t := m.deps.text
	width := m.width
	if width <= 0 {
		width = 100
	}
	tabs := []navTab{
		{Label: t.NavHome, Active: m.screen == screenHome},
		{Label: t.NavGen, Active: m.screen == screenGenerate},
		{Label: t.NavSubs, Active: m.screen == screenSubtitles},
	}
	header := viewHeader(t, tabs, width)

	var body, hints string
	switch m.screen {
	case screenGenerate:
		if m.gen != nil {
			body = m.gen.view(width)
			hints = m.gen.hints()
		}
	case screenSubtitles:
		if m.subs != nil {
			body = m.subs.view(width)
			hints = m.subs.hints()
		}
	default:
		body = viewHomeCards(t, m.homeCursor, width)
		hints = "left/right: choose | enter: open | 1-3/tab: navigate | q: quit"
	}
	footer := studioMutedStyle.Render(wrapOrTrim(hints, width))
	parts := []string{header, "", body, footer}
	if status := viewStatusLine(m.status, width); status != "" {
		parts = append(parts, status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
