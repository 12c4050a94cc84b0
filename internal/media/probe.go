package media

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const probeTimeout = 15 * time.Second

type DependencyReport struct {
	FFprobeFound bool   `json:"ffprobe_found"`
	FFprobePath  string `json:"ffprobe_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath("ffprobe"); err == nil {
		report.FFprobeFound = true
		report.FFprobePath = path
	}
	return report
}

// Info is the subset of ffprobe output shown in the preview panel.
type Info struct {
	Duration time.Duration `json:"duration"`
	Width    int           `json:"width,omitempty"`
	Height   int           `json:"height,omitempty"`
	Codec    string        `json:"codec,omitempty"`
}

func (i Info) Resolution() string {
	if i.Width <= 0 || i.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}

// Prober extracts Info from a local file.
type Prober func(path string) (Info, error)

// FFprobe runs ffprobe through ffmpeg-go. Missing ffprobe is an error the
// caller may treat as "no metadata".
func FFprobe(path string) (Info, error) {
	if !DependencyStatus().FFprobeFound {
		return Info{}, fmt.Errorf("missing dependency: ffprobe is not installed or not on PATH")
	}
	out, err := ffmpeg.ProbeWithTimeout(path, probeTimeout, ffmpeg.KwArgs{})
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbe([]byte(out))
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

func parseProbe(data []byte) (Info, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	info := Info{Duration: parseSeconds(raw.Format.Duration)}
	for _, s := range raw.Streams {
		if s.CodecType != "video" {
			continue
		}
		info.Width = s.Width
		info.Height = s.Height
		info.Codec = s.CodecName
		if info.Duration == 0 {
			info.Duration = parseSeconds(s.Duration)
		}
		break
	}
	return info, nil
}

func parseSeconds(raw string) time.Duration {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}
