package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JackWithOneEye/sensiedit/internal/database"
	"github.com/JackWithOneEye/sensiedit/internal/livereload"
	"github.com/JackWithOneEye/sensiedit/internal/lrucache"
	"github.com/JackWithOneEye/sensiedit/internal/metrics"
	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/web"
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

type ServerConfig interface {
	Port() uint
	SessionTTL() time.Duration
	SessionCapacity() int
	MinRomBytes() int64
	MaxRomBytes() int64
	ScanWindow() rom.ScanWindow
	LiveReload() bool
}

// decodedRomCapacity bounds how many distinct images stay decoded in memory.
const decodedRomCapacity = 32

type server struct {
	cfg      ServerConfig
	db       database.DatabaseService
	metrics  *metrics.Recorder
	window   rom.ScanWindow
	sessions lrucache.LruCache[string, *session]
	decoded  lrucache.LruCache[string, *decodedRom]
	decodes  singleflight.Group
	log      *slog.Logger
}

// NewServer wires the API. A nil recorder disables metrics.
func NewServer(cfg ServerConfig, db database.DatabaseService, rec *metrics.Recorder) *http.Server {
	s := &server{
		cfg:     cfg,
		db:      db,
		metrics: rec,
		window:  cfg.ScanWindow(),
		sessions: lrucache.NewLruCache(cfg.SessionCapacity(),
			lrucache.WithTTL[string, *session](cfg.SessionTTL())),
		decoded: lrucache.NewLruCache[string, *decodedRom](decodedRomCapacity),
		log:     slog.Default().With("component", "server"),
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port()),
		Handler:           s.registerRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *server) registerRoutes() http.Handler {
	r := gin.Default()
	r.Use(s.metrics.Middleware())
	r.MaxMultipartMemory = s.cfg.MaxRomBytes() + 1<<20

	globals := web.Globals{
		MinRomBytes: s.cfg.MinRomBytes(),
		MaxRomBytes: s.cfg.MaxRomBytes(),
		SessionTTL:  s.cfg.SessionTTL().String(),
	}
	index := func(c *gin.Context) {
		templ.Handler(web.Index(&globals)).ServeHTTP(c.Writer, c.Request)
	}
	if s.cfg.LiveReload() {
		r.GET(livereload.DefaultOptions.Path, livereload.Handler)
		r.GET("/", livereload.InjectScript(livereload.DefaultOptions, index))
	} else {
		r.GET("/", index)
	}
	r.GET("/assets/editor.js", s.editorScriptHandler)

	api := r.Group("/api")
	api.POST("/upload-rom", s.uploadRomHandler)
	api.POST("/validate", s.validateHandler)
	api.POST("/generate-rom", s.generateRomHandler)
	api.POST("/upload-json", s.uploadJSONHandler)
	api.DELETE("/session/:id", s.deleteSessionHandler)

	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", s.readyHandler)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}

func (s *server) editorScriptHandler(c *gin.Context) {
	js, err := web.EditorScript()
	if err != nil {
		s.log.Error("could not build editor script", "err", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/javascript; charset=utf-8", js)
}

func (s *server) readyHandler(c *gin.Context) {
	if err := s.db.Ping(c); err != nil {
		s.log.Error("database not ready", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}
