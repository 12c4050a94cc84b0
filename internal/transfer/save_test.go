package transfer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videoai-studio/internal/api"
)

type stubFetcher struct {
	body   string
	length int64
	err    error
	urls   []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*api.Asset, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}
	return &api.Asset{Body: io.NopCloser(strings.NewReader(s.body)), ContentLength: s.length}, nil
}

func TestSavePicksBrowserStyleUniqueNames(t *testing.T) {
	dir := t.TempDir()
	f := &stubFetcher{body: "clip", length: 4}

	first, err := Save(context.Background(), f, "https://x/y.mp4", Options{Dir: dir})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if filepath.Base(first.Path) != GeneratedName || first.Bytes != 4 {
		t.Fatalf("unexpected first result %+v", first)
	}

	second, err := Save(context.Background(), f, "https://x/y.mp4", Options{Dir: dir})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if filepath.Base(second.Path) != "video (1).mp4" {
		t.Fatalf("expected video (1).mp4, got %s", second.Path)
	}

	third, err := Save(context.Background(), f, "https://x/s.mp4", Options{Dir: dir, Name: SubtitledName})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(third.Path) != SubtitledName {
		t.Fatalf("unexpected name %s", third.Path)
	}
	data, err := os.ReadFile(third.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "clip" {
		t.Fatalf("unexpected content %q", data)
	}

	if _, err := os.Stat(filepath.Join(dir, ".videoai.lock")); !os.IsNotExist(err) {
		t.Fatalf("expected lock to be released, stat err=%v", err)
	}
}

func TestSaveReportsProgress(t *testing.T) {
	var last, total int64
	calls := 0
	_, err := Save(context.Background(), &stubFetcher{body: strings.Repeat("a", 1000), length: 1000}, "https://x/y.mp4", Options{
		Dir: t.TempDir(),
		Progress: func(w, tt int64) {
			calls++
			last, total = w, tt
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls < 2 || last != 1000 || total != 1000 {
		t.Fatalf("unexpected progress calls=%d last=%d total=%d", calls, last, total)
	}
}

func TestSaveFetchFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := Save(context.Background(), &stubFetcher{err: errors.New("404")}, "https://x/y.mp4", Options{Dir: dir})
	if err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
	if _, err := Save(context.Background(), &stubFetcher{}, " ", Options{Dir: dir}); err == nil {
		t.Fatal("expected blank url error")
	}
}

func TestLiveProgressRender(t *testing.T) {
	p := NewLiveProgress(false, "download", io.Discard)
	p.Update(512, -1)
	if got := p.Render(); !strings.Contains(got, "512 B") {
		t.Fatalf("unexpected render %q", got)
	}
	p.Update(1024, 2048)
	if got := p.Render(); !strings.Contains(got, "1.0 KiB / 2.0 KiB") {
		t.Fatalf("unexpected render %q", got)
	}
	p.Stop("done")
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{0: "0 B", 1023: "1023 B", 1536: "1.5 KiB", 5 * 1024 * 1024: "5.0 MiB"}
	for in, want := range cases {
		if got := FormatBytes(in); got != want {
			t.Fatalf("FormatBytes(%d)=%q want %q", in, got, want)
		}
	}
}
