package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotVideo = errors.New("selected file is not a video")
	ErrReleased = errors.New("preview has been released")
)

// Preview holds a selected video open for as long as it is selected. It is
// acquired with Open and must be released with Release; both the subtitle
// page and the CLI own exactly one at a time.
type Preview struct {
	path     string
	name     string
	size     int64
	mime     string
	info     Info
	probeErr error

	mu       sync.Mutex
	file     *os.File
	released bool
}

// Open validates that path is a readable video file, opens it and probes it.
// A nil prober skips metadata. Probe failures are kept on the preview and do
// not fail the open.
func Open(path string, prober Prober) (*Preview, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("video path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", abs)
	}

	mt, err := mimetype.DetectFile(abs)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", abs, err)
	}
	if !IsVideoMIME(mt) {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotVideo, filepath.Base(abs), mt.String())
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	p := &Preview{
		path: abs,
		name: filepath.Base(abs),
		size: st.Size(),
		mime: mt.String(),
		file: f,
	}
	if prober != nil {
		p.info, p.probeErr = prober(abs)
	}
	return p, nil
}

// IsVideoMIME reports whether mt or one of its parents is a video/* type.
func IsVideoMIME(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "video/") {
			return true
		}
	}
	return false
}

func (p *Preview) Path() string        { return p.path }
func (p *Preview) Name() string        { return p.name }
func (p *Preview) Size() int64         { return p.size }
func (p *Preview) ContentType() string { return p.mime }
func (p *Preview) Info() Info          { return p.info }
func (p *Preview) ProbeErr() error     { return p.probeErr }

// Reader returns an independent reader over the held file, so a retry after
// a failed upload starts from the first byte again.
func (p *Preview) Reader() (io.Reader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || p.file == nil {
		return nil, ErrReleased
	}
	return io.NewSectionReader(p.file, 0, p.size), nil
}

func (p *Preview) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// Release closes the file. Safe to call more than once.
func (p *Preview) Release() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	p.released = true
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}
