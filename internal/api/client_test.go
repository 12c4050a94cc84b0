package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoai-studio/internal/model"
)

func TestGenerateVideoPostsJSONAndReturnsURL(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"video_url":"https://x/y.mp4"}`)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL + "/api/v1/"})
	res, err := c.GenerateVideo(context.Background(), model.NewGenerationRequest("Test idea", 3, model.CategoryTip, model.LanguageFrench))
	require.NoError(t, err)

	assert.Equal(t, "https://x/y.mp4", res.VideoURL)
	assert.Equal(t, "/api/v1/generate-video", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"prompt":"Test idea","n_images":3,"category":"tip","lang":"fr"}`, string(gotBody))
}

func TestGenerateVideoRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	_, err := c.GenerateVideo(context.Background(), model.NewGenerationRequest("x", 1, "", ""))
	require.Error(t, err)

	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, http.StatusInternalServerError, ne.StatusCode)
	assert.Contains(t, ne.Body, "boom")
	assert.True(t, IsNetworkError(err))
}

func TestGenerateVideoRequiresVideoURL(t *testing.T) {
	for name, body := range map[string]string{
		"empty url":  `{"video_url":""}`,
		"missing":    `{}`,
		"not json":   `<html>`,
		"whitespace": `{"video_url":"   "}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer srv.Close()

			_, err := NewClient(Options{BaseURL: srv.URL}).GenerateVideo(context.Background(), model.NewGenerationRequest("x", 1, "", ""))
			require.Error(t, err)
			assert.True(t, IsNetworkError(err))
		})
	}
}

func TestGenerateVideoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(Options{BaseURL: url}).GenerateVideo(context.Background(), model.NewGenerationRequest("x", 1, "", ""))
	require.Error(t, err)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Zero(t, ne.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestGenerateVideoHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := NewClient(Options{BaseURL: srv.URL}).GenerateVideo(ctx, model.NewGenerationRequest("x", 1, "", ""))
		done <- err
	}()
	cancel()

	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type capturedForm struct {
	fields    map[string]string
	fileField string
	fileName  string
	fileType  string
	fileBody  string
}

func captureMultipart(t *testing.T, r *http.Request) capturedForm {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	out := capturedForm{fields: map[string]string{}}
	mr := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			out.fileField = part.FormName()
			out.fileName = part.FileName()
			out.fileType = part.Header.Get("Content-Type")
			out.fileBody = string(data)
			continue
		}
		out.fields[part.FormName()] = string(data)
	}
	return out
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	// ftyp header so content sniffing yields video/mp4.
	data := []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'm', 'p', '4', '1'}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAddSubtitlesCaptionedContract(t *testing.T) {
	var form capturedForm
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/add-subtitles", r.URL.Path)
		form = captureMultipart(t, r)
		_, _ = io.WriteString(w, `{"video_url":"https://x/sub.mp4"}`)
	}))
	defer srv.Close()

	src := writeVideo(t)
	c := NewClient(Options{BaseURL: srv.URL})
	res, err := c.AddSubtitles(context.Background(), model.SubtitleJob{Source: src, Text: "Hello", Position: model.PositionTop})
	require.NoError(t, err)

	assert.Equal(t, "https://x/sub.mp4", res.VideoURL)
	assert.Equal(t, "video", form.fileField)
	assert.Equal(t, "clip.mp4", form.fileName)
	assert.Equal(t, "video/mp4", form.fileType)
	assert.Equal(t, "Hello", form.fields["subtitle_text"])
	assert.Equal(t, "top", form.fields["position"])
}

func TestAddSubtitlesDefaultsPositionToBottom(t *testing.T) {
	var form capturedForm
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form = captureMultipart(t, r)
		_, _ = io.WriteString(w, `{"video_url":"https://x/sub.mp4"}`)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	_, err := c.AddSubtitlesFrom(context.Background(), model.SubtitleJob{Text: "Hi"}, Upload{Name: "a.webm", Body: strings.NewReader("data")})
	require.NoError(t, err)

	assert.Equal(t, "bottom", form.fields["position"])
	assert.Equal(t, "application/octet-stream", form.fileType)
	assert.Equal(t, "data", form.fileBody)
}

func TestAddSubtitlesAutoContract(t *testing.T) {
	var form capturedForm
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form = captureMultipart(t, r)
		_, _ = io.WriteString(w, `{"video_url":"https://x/auto.mp4"}`)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Contract: model.ContractAuto})
	assert.Equal(t, model.ContractAuto, c.Contract())

	res, err := c.AddSubtitles(context.Background(), model.SubtitleJob{Source: writeVideo(t), Text: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "https://x/auto.mp4", res.VideoURL)
	assert.Equal(t, "video_file", form.fileField)
	assert.Empty(t, form.fields)
}

func TestAddSubtitlesMissingSource(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := c.AddSubtitles(context.Background(), model.SubtitleJob{Source: filepath.Join(t.TempDir(), "missing.mp4"), Text: "x"})
	require.Error(t, err)
	assert.False(t, IsNetworkError(err))
}

func TestHealthAndFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"API is running"}`)
	})
	mux.HandleFunc("/videos/a.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = io.WriteString(w, "clip")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL + "/api/v1"})
	require.NoError(t, c.Health(context.Background()))

	asset, err := c.Fetch(context.Background(), srv.URL+"/videos/a.mp4")
	require.NoError(t, err)
	defer asset.Close()
	body, err := io.ReadAll(asset.Body)
	require.NoError(t, err)
	assert.Equal(t, "clip", string(body))
	assert.Equal(t, "video/mp4", asset.ContentType)

	_, err = c.Fetch(context.Background(), srv.URL+"/videos/missing.mp4")
	require.Error(t, err)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, http.StatusNotFound, ne.StatusCode)

	bad := NewClient(Options{BaseURL: srv.URL + "/nope"})
	assert.Error(t, bad.Health(context.Background()))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, model.ContractCaptioned, c.Contract())
}
