package application

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/booklet-imposer/internal/api"
	"github.com/eugenenazirov/booklet-imposer/internal/config"
	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
	"github.com/eugenenazirov/booklet-imposer/internal/messages"
	"github.com/eugenenazirov/booklet-imposer/internal/page"
	"github.com/eugenenazirov/booklet-imposer/internal/render"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	calculator imposition.Calculator
	localizer  *messages.Localizer
	handler    *api.Handler
	router     http.Handler
	page       http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	localizer, err := messages.New(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	templatePath, err := resolveProjectPath(filepath.Join("web", "templates", "index.html"))
	if err != nil {
		return nil, err
	}
	tmpl, err := render.ParseTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	calc := imposition.New()
	handler := api.NewHandler(calc, localizer,
		api.WithMaxPages(cfg.MaxPages),
		api.WithLogger(logger),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	var pageHandler http.Handler = page.NewHandler(calc, localizer, tmpl,
		page.WithMaxPages(cfg.MaxPages),
		page.WithLogger(logger),
	)
	pageHandler = api.RecoveryMiddleware(logger, localizer, pageHandler)
	if cfg.EnableRequestLogging {
		pageHandler = api.LoggingMiddleware(logger, pageHandler)
	}
	pageHandler = api.RequestIDMiddleware(pageHandler)

	rootHandler, err := BuildRootHandler(apiRouter, pageHandler)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		calculator: calc,
		localizer:  localizer,
		handler:    handler,
		router:     apiRouter,
		page:       pageHandler,
		logger:     logger,
		server:     NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that serves static files,
// routes API requests and hands everything else to the page handler.
func BuildRootHandler(apiHandler, pageHandler http.Handler) (http.Handler, error) {
	mux := http.NewServeMux()

	staticPath, err := resolveProjectPath(filepath.Join("web", "static"))
	if err != nil {
		return nil, err
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticPath))))
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", pageHandler)

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
