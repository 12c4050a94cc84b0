package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"videoai-studio/internal/media"
	"videoai-studio/internal/model"
	"videoai-studio/internal/transfer"
)

// Everything in this file is a pure function of its arguments.

func viewEmptyState(t studioText, width int) string {
	body := studioTitleStyle.Render(t.EmptyTitle) + "\n\n" + studioMutedStyle.Render(wrapWords(t.EmptyBody, maxInt(width-6, 20)))
	return studioPanelStyle.Width(width).Render(body)
}

func viewLoading(t studioText, spinner string, width int) string {
	body := spinner + " " + studioAccentStyle.Render(t.LoadingTitle) + "\n" + studioMutedStyle.Render(t.LoadingBody)
	return studioPanelStyle.Width(width).Render(body)
}

func viewProcessing(t studioText, spinner string, width int) string {
	return studioPanelStyle.Width(width).Render(spinner + " " + studioAccentStyle.Render(t.Processing))
}

func viewError(t studioText, message string, width int) string {
	body := studioErrorStyle.Render(t.ErrorTitle) + "\n\n" +
		wrapWords(message, maxInt(width-6, 20)) + "\n\n" +
		studioMutedStyle.Render("enter/r: "+t.Retry)
	return studioPanelStyle.Width(width).BorderForeground(lipgloss.Color("203")).Render(body)
}

// resultNote is the outcome of the last download or open action.
type resultNote struct {
	Text string
	Err  bool
}

func viewResult(t studioText, title, url string, busy bool, note resultNote, width int) string {
	lines := []string{
		studioOKStyle.Render(title),
		"",
		wrapOrTrim(url, maxInt(width-6, 20)),
		"",
	}
	actions := fmt.Sprintf("d: %s | o: %s | n: %s", t.Download, t.Open, t.Another)
	if busy {
		actions = studioMutedStyle.Render(t.Download + "...")
	}
	lines = append(lines, studioMutedStyle.Render(wrapWords(actions, maxInt(width-6, 20))))
	if strings.TrimSpace(note.Text) != "" {
		style := studioOKStyle
		if note.Err {
			style = studioErrorStyle
		}
		lines = append(lines, "", style.Render(wrapOrTrim(note.Text, maxInt(width-6, 20))))
	}
	return studioPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func viewNoVideo(t studioText, width int) string {
	body := studioTitleStyle.Render(t.NoVideoTitle) + "\n\n" + studioMutedStyle.Render(wrapWords(t.NoVideoBody, maxInt(width-6, 20)))
	return studioPanelStyle.Width(width).Render(body)
}

func viewPreview(t studioText, p *media.Preview, width int) string {
	if p == nil {
		return viewNoVideo(t, width)
	}
	lines := []string{
		studioTitleStyle.Render(t.Preview),
		"",
		kv("file", p.Name()),
		kv("size", transfer.FormatBytes(p.Size())),
		kv("type", p.ContentType()),
	}
	info := p.Info()
	if p.ProbeErr() != nil {
		lines = append(lines, studioMutedStyle.Render("("+t.ProbeMissing+")"))
	} else {
		if d := formatDuration(info.Duration); d != "" {
			lines = append(lines, kv("duration", d))
		}
		if r := info.Resolution(); r != "" {
			lines = append(lines, kv("resolution", r))
		}
		if info.Codec != "" {
			lines = append(lines, kv("codec", info.Codec))
		}
	}
	for i := range lines {
		lines[i] = wrapOrTrim(lines[i], maxInt(width-6, 12))
	}
	return studioPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func viewAlert(t studioText, message string, width int) string {
	body := studioErrorStyle.Render("!") + " " + wrapWords(message, maxInt(width-10, 20)) + "\n\n" + studioMutedStyle.Render(t.DismissHint)
	return studioAlertStyle.Width(width).Render(body)
}

// viewImageSlider renders the 1..5 image count as a bar.
func viewImageSlider(bar progress.Model, count int) string {
	count = model.ClampImageCount(count)
	pct := float64(count-model.MinImageCount) / float64(model.MaxImageCount-model.MinImageCount)
	return fmt.Sprintf("%d %s %d  [%d]", model.MinImageCount, bar.ViewAs(pct), model.MaxImageCount, count)
}

func viewSelect(options []string, selected int) string {
	parts := make([]string, 0, len(options))
	for i, opt := range options {
		if i == selected {
			parts = append(parts, studioSelStyle.Render(" "+opt+" "))
			continue
		}
		parts = append(parts, studioMutedStyle.Render(" "+opt+" "))
	}
	return strings.Join(parts, " ")
}

func viewButton(label string, focused, enabled bool) string {
	text := "[ " + label + " ]"
	switch {
	case !enabled:
		return studioMutedStyle.Render(text)
	case focused:
		return studioSelStyle.Render(text)
	default:
		return studioAccentStyle.Render(text)
	}
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return studioAccentStyle.Render("> " + label)
	}
	return "  " + label
}

type navTab struct {
	Label  string
	Active bool
}

func viewHeader(t studioText, tabs []navTab, width int) string {
	parts := []string{studioTitleStyle.Render(t.AppName) + "  "}
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Label)
		if tab.Active {
			parts = append(parts, studioTabOnStyle.Render(label))
		} else {
			parts = append(parts, studioTabStyle.Render(label))
		}
	}
	return wrapOrTrim(lipgloss.JoinHorizontal(lipgloss.Top, parts...), maxInt(width, 20))
}

func viewHomeCards(t studioText, cursor, width int) string {
	cardW := clampInt((width-4)/2, 24, 48)
	card := func(title, desc string, selected bool) string {
		style := studioPanelStyle.Width(cardW)
		if selected {
			style = style.BorderForeground(lipgloss.Color("62"))
		}
		body := studioTitleStyle.Render(title) + "\n\n" + wrapWords(desc, maxInt(cardW-4, 16)) + "\n\n" + studioAccentStyle.Render(t.Start+" →")
		return style.Render(body)
	}
	left := card(t.HomeGen, t.HomeGenD, cursor == 0)
	right := card(t.HomeSubs, t.HomeSubsD, cursor == 1)
	intro := studioTitleStyle.Render(wrapWords(t.HomeTitle, maxInt(width-2, 20))) + "\n" + studioMutedStyle.Render(wrapWords(t.HomeSub, maxInt(width-2, 20)))
	if width < 2*cardW+2 {
		return lipgloss.JoinVertical(lipgloss.Left, intro, "", left, right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, intro, "", lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
}

func viewStatusLine(msg string, width int) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ""
	}
	style := studioMutedStyle
	if strings.HasPrefix(strings.ToLower(msg), "error:") {
		style = studioErrorStyle
	}
	return style.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}
