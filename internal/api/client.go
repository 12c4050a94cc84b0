package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"videoai-studio/internal/model"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/v1"

	generatePath  = "/generate-video"
	subtitlesPath = "/add-subtitles"
	healthPath    = "/health"

	userAgent = "videoai-studio"
)

// NetworkError covers every way a backend call can fail: transport errors,
// non-2xx statuses and bodies that do not decode into a result.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" ")
	b.WriteString(e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
		if e.Body != "" {
			b.WriteString(": ")
			b.WriteString(e.Body)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

type Options struct {
	BaseURL  string
	Contract model.SubtitleContract
	// Timeout bounds a whole call including the body; zero means none.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a thin, stateless wrapper over the video backend.
type Client struct {
	baseURL  string
	contract model.SubtitleContract
	http     *http.Client
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	contract := opts.Contract
	if contract == "" {
		contract = model.ContractCaptioned
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{baseURL: base, contract: contract, http: hc}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Contract() model.SubtitleContract {
	return c.contract
}

func (c *Client) GenerateVideo(ctx context.Context, req model.GenerationRequest) (model.GenerationResult, error) {
	endpoint := c.baseURL + generatePath
	body, err := json.Marshal(req)
	if err != nil {
		return model.GenerationResult{}, fmt.Errorf("encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return model.GenerationResult{}, &NetworkError{Op: "generate video", URL: endpoint, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.doResult(httpReq, "generate video")
}

// Upload is the file part of a subtitle request.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// AddSubtitles streams the source file as multipart/form-data. The field
// layout follows the client's subtitle contract.
func (c *Client) AddSubtitles(ctx context.Context, job model.SubtitleJob) (model.GenerationResult, error) {
	src, err := os.Open(job.Source)
	if err != nil {
		return model.GenerationResult{}, fmt.Errorf("open source video: %w", err)
	}
	defer src.Close()

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(job.Source); err == nil {
		contentType = mt.String()
	}
	return c.AddSubtitlesFrom(ctx, job, Upload{Name: filepath.Base(job.Source), ContentType: contentType, Body: src})
}

// AddSubtitlesFrom is AddSubtitles with the file body supplied by the caller,
// e.g. from a preview that already holds the file open.
func (c *Client) AddSubtitlesFrom(ctx context.Context, job model.SubtitleJob, upload Upload) (model.GenerationResult, error) {
	endpoint := c.baseURL + subtitlesPath
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(c.writeSubtitleForm(mw, job, upload))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return model.GenerationResult{}, &NetworkError{Op: "add subtitles", URL: endpoint, Err: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	res, err := c.doResult(httpReq, "add subtitles")
	_ = pr.Close()
	return res, err
}

func (c *Client) writeSubtitleForm(mw *multipart.Writer, job model.SubtitleJob, upload Upload) error {
	fileField := "video"
	if c.contract == model.ContractAuto {
		fileField = "video_file"
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, upload.Name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, upload.Body); err != nil {
		return fmt.Errorf("stream source video: %w", err)
	}

	if c.contract == model.ContractCaptioned {
		if err := mw.WriteField("subtitle_text", job.Text); err != nil {
			return err
		}
		position := job.Position
		if position == "" {
			position = model.PositionBottom
		}
		if err := mw.WriteField("position", string(position)); err != nil {
			return err
		}
	}
	return mw.Close()
}

func (c *Client) Health(ctx context.Context) error {
	endpoint := c.baseURL + healthPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &NetworkError{Op: "health", URL: endpoint, Err: err}
	}
	resp, err := c.do(req)
	if err != nil {
		return &NetworkError{Op: "health", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: "health", URL: endpoint, StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)}
	}
	return nil
}

// Asset is an open download stream; the caller must Close it.
type Asset struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
}

func (a *Asset) Close() error {
	return a.Body.Close()
}

func (c *Client) Fetch(ctx context.Context, assetURL string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: "fetch", URL: assetURL, Err: err}
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, &NetworkError{Op: "fetch", URL: assetURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, &NetworkError{Op: "fetch", URL: assetURL, StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)}
	}
	return &Asset{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
		ContentType:   resp.Header.Get("Content-Type"),
	}, nil
}

func (c *Client) doResult(req *http.Request, op string) (model.GenerationResult, error) {
	endpoint := req.URL.String()
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return model.GenerationResult{}, &NetworkError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.GenerationResult{}, &NetworkError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)}
	}

	var out model.GenerationResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.GenerationResult{}, &NetworkError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if strings.TrimSpace(out.VideoURL) == "" {
		return model.GenerationResult{}, &NetworkError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: errors.New("response did not include video_url")}
	}
	return out, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return c.http.Do(req)
}

func readSnippet(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(body))
}
