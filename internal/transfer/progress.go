package transfer

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

// LiveProgress redraws a one-line download bar on a ticker. It is a no-op
// when disabled, e.g. when output is not a terminal or is JSON.
type LiveProgress struct {
	enabled bool
	label   string
	out     io.Writer
	bar     progress.Model

	mu      sync.Mutex
	written int64
	total   int64
	started time.Time

	stop chan struct{}
	once sync.Once
}

func NewLiveProgress(enabled bool, label string, out io.Writer) *LiveProgress {
	return &LiveProgress{
		enabled: enabled,
		label:   label,
		out:     out,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		total:   -1,
		stop:    make(chan struct{}),
	}
}

func (p *LiveProgress) Start() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	p.started = time.Now()
	p.mu.Unlock()
	go func() {
		t := time.NewTicker(200 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-t.C:
				fmt.Fprintf(p.out, "\r\033[2K%s", p.Render())
			}
		}
	}()
}

// Update is a ProgressFunc.
func (p *LiveProgress) Update(written, total int64) {
	p.mu.Lock()
	p.written = written
	p.total = total
	p.mu.Unlock()
}

func (p *LiveProgress) Stop(final string) {
	if !p.enabled {
		return
	}
	p.once.Do(func() {
		close(p.stop)
		fmt.Fprintf(p.out, "\r\033[2K%s\n", final)
	})
}

func (p *LiveProgress) Render() string {
	p.mu.Lock()
	written, total, started := p.written, p.total, p.started
	p.mu.Unlock()

	rate := ""
	if elapsed := time.Since(started).Seconds(); !started.IsZero() && elapsed > 0 && written > 0 {
		rate = " " + FormatBytes(int64(float64(written)/elapsed)) + "/s"
	}
	if total <= 0 {
		return fmt.Sprintf("%s %s%s", p.label, FormatBytes(written), rate)
	}
	pct := float64(written) / float64(total)
	if pct > 1 {
		pct = 1
	}
	return fmt.Sprintf("%s %s %s / %s%s", p.label, p.bar.ViewAs(pct), FormatBytes(written), FormatBytes(total), rate)
}

func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for q := n / unit; q >= unit; q /= unit {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	suffix := "KMGTPE"[exp]
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + string(suffix) + "iB"
}
