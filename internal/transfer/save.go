// Package transfer saves result videos into the download directory.
package transfer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"videoai-studio/internal/api"
	"videoai-studio/internal/filestore"
)

const (
	GeneratedName = "video.mp4"
	SubtitledName = "video_with_subtitles.mp4"

	defaultLockWait = 2 * time.Minute
)

// Fetcher is satisfied by *api.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*api.Asset, error)
}

// ProgressFunc receives bytes written so far and the expected total, which
// is -1 when the server did not send a length.
type ProgressFunc func(written, total int64)

type Options struct {
	Dir      string
	Name     string
	Progress ProgressFunc
	LockWait time.Duration
}

type Result struct {
	URL   string `json:"url"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Save downloads url into opts.Dir under opts.Name, or "name (N).ext" if
// that exists. The directory lock is held until the file is in place so
// concurrent saves never pick the same name.
func Save(ctx context.Context, f Fetcher, url string, opts Options) (Result, error) {
	if strings.TrimSpace(url) == "" {
		return Result{}, fmt.Errorf("video url is required")
	}
	if strings.TrimSpace(opts.Dir) == "" {
		return Result{}, fmt.Errorf("download directory is required")
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = GeneratedName
	}
	wait := opts.LockWait
	if wait <= 0 {
		wait = defaultLockWait
	}

	asset, err := f.Fetch(ctx, url)
	if err != nil {
		return Result{}, err
	}
	defer asset.Close()

	lock, err := filestore.AcquireDirLockWait(opts.Dir, wait)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = lock.Release()
	}()

	path, err := filestore.UniquePath(opts.Dir, name)
	if err != nil {
		return Result{}, err
	}

	total := asset.ContentLength
	if total <= 0 {
		total = -1
	}
	src := io.Reader(asset.Body)
	if opts.Progress != nil {
		opts.Progress(0, total)
		src = &countingReader{r: asset.Body, total: total, fn: opts.Progress}
	}
	n, err := filestore.WriteStream(path, src)
	if err != nil {
		return Result{}, fmt.Errorf("save %s: %w", url, err)
	}
	return Result{URL: url, Path: path, Bytes: n}, nil
}

type countingReader struct {
	r     io.Reader
	n     atomic.Int64
	total int64
	fn    ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.fn(c.n.Add(int64(n)), c.total)
	}
	return n, err
}
