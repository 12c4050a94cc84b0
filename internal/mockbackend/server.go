// Package mockbackend serves the video backend contract locally so the
// studio can be demoed and tested without the real generation service.
package mockbackend

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"videoai-studio/internal/filestore"
	"videoai-studio/internal/model"
)

const defaultTone = "percutant"

// placeholderVideo stands in for a rendered clip: an ftyp box, enough for
// MIME sniffers to classify the file as video/mp4.
var placeholderVideo = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'm', 'p', '4', '1',
}

type Options struct {
	// VideosDir receives generated and uploaded files; served under /videos.
	VideosDir string
	// PublicURL prefixes returned video URLs; empty uses the request host.
	PublicURL string
	Delay     time.Duration
	Fail      bool
	Logger    bool
}

// Call records one request that reached a handler.
type Call struct {
	Route      string
	Generation *model.GenerationRequest
	Fields     map[string]string
	FileField  string
	FileName   string
	FileSize   int64
}

type Server struct {
	opts Options

	mu    sync.Mutex
	calls []Call
	fail  bool
}

func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.VideosDir) == "" {
		return nil, fmt.Errorf("videos directory is required")
	}
	if err := filestore.Mkdir(opts.VideosDir); err != nil {
		return nil, err
	}
	return &Server{opts: opts, fail: opts.Fail}, nil
}

// SetFail toggles forced 500 responses on the two processing routes.
func (s *Server) SetFail(v bool) {
	s.mu.Lock()
	s.fail = v
	s.mu.Unlock()
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) record(c Call) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

func (s *Server) failing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail
}

// Handler builds the gin engine. Routes mirror the real backend under
// /api/v1 and serve produced files under /videos.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.opts.Logger {
		r.Use(gin.Logger())
	}
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.handleHealth)
		v1.POST("/generate-video", s.handleGenerate)
		v1.POST("/add-subtitles", s.handleAddSubtitles)
	}
	r.Static("/videos", s.opts.VideosDir)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API is running"})
}

func (s *Server) handleGenerate(c *gin.Context) {
	// Omitted fields keep the backend's defaults.
	req := model.GenerationRequest{
		ImageCount: model.DefaultImageCount,
		Category:   model.CategoryTip,
		Language:   model.LanguageFrench,
		Tone:       defaultTone,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid request: " + err.Error()})
		return
	}
	s.record(Call{Route: "generate-video", Generation: &req})

	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "prompt is required"})
		return
	}
	if req.ImageCount < model.MinImageCount || req.ImageCount > model.MaxImageCount {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fmt.Sprintf("n_images must be between %d and %d", model.MinImageCount, model.MaxImageCount)})
		return
	}
	if !s.wait(c) {
		return
	}
	if s.failing() {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Erreur lors de la génération de la vidéo : forced failure"})
		return
	}

	name := "tiktok_" + uuid.New().String() + ".mp4"
	if err := filestore.WriteBytes(filepath.Join(s.opts.VideosDir, name), placeholderVideo); err != nil {
		log.Printf("mock backend: write %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	log.Printf("mock backend: generated %s for prompt %q (images=%d category=%s lang=%s)", name, req.Prompt, req.ImageCount, req.Category, req.Language)
	c.JSON(http.StatusOK, model.GenerationResult{VideoURL: s.videoURL(c, name)})
}

func (s *Server) handleAddSubtitles(c *gin.Context) {
	fileField := "video"
	fh, err := c.FormFile(fileField)
	if err != nil {
		fileField = "video_file"
		fh, err = c.FormFile(fileField)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "a video or video_file part is required"})
		return
	}

	call := Call{
		Route:     "add-subtitles",
		Fields:    map[string]string{},
		FileField: fileField,
		FileName:  fh.Filename,
		FileSize:  fh.Size,
	}
	for _, key := range []string{"subtitle_text", "position"} {
		if v, ok := c.GetPostForm(key); ok {
			call.Fields[key] = v
		}
	}
	s.record(call)

	if fileField == "video" && strings.TrimSpace(call.Fields["subtitle_text"]) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "subtitle_text is required with the video field"})
		return
	}
	if pos, ok := call.Fields["position"]; ok {
		if _, err := model.ParsePosition(pos); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
	}
	if !s.wait(c) {
		return
	}
	if s.failing() {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process video: forced failure"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	defer src.Close()

	name := "subtitled_" + uuid.New().String() + ".mp4"
	if err := saveUpload(filepath.Join(s.opts.VideosDir, name), src); err != nil {
		log.Printf("mock backend: save %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	log.Printf("mock backend: subtitled %s -> %s (%d bytes)", fh.Filename, name, fh.Size)
	c.JSON(http.StatusOK, model.GenerationResult{VideoURL: s.videoURL(c, name)})
}

// wait sleeps for the configured delay; it returns false if the client went
// away meanwhile.
func (s *Server) wait(c *gin.Context) bool {
	if s.opts.Delay <= 0 {
		return true
	}
	select {
	case <-time.After(s.opts.Delay):
		return true
	case <-c.Request.Context().Done():
		return false
	}
}

func (s *Server) videoURL(c *gin.Context, name string) string {
	base := strings.TrimRight(strings.TrimSpace(s.opts.PublicURL), "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/videos/" + name
}

func saveUpload(path string, src io.Reader) error {
	_, err := filestore.WriteStream(path, src)
	return err
}

// Serve runs the mock backend until the listener fails.
func Serve(addr string, opts Options) error {
	srv, err := New(opts)
	if err != nil {
		return err
	}
	if !opts.Logger {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Printf("mock backend listening on %s (videos in %s)", addr, opts.VideosDir)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("mock backend: %w", err)
	}
	return nil
}

func init() {
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.TestMode)
	}
}
