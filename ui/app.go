package ui

import (
	"bytes"
	"embed"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"solarweb/domain/table"
	"solarweb/internal"
	"solarweb/internal/errors"
	"solarweb/ports"
)

//go:embed templates/*.html static/* content/*.md
var embeddedFiles embed.FS

const defaultHistoryLimit = 10

// App represents the UI application
type App struct {
	router      *chi.Mux
	analysisAPI ports.AnalysisAPI
	uploads     ports.UploadRepository
	templates   *template.Template
	config      Config
	logger      *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Timezone       *time.Location
	CopyGroups     []table.CopyGroup
	MaxUploadBytes int64
	HistoryLimit   int
	// API is mounted under /api when set
	API http.Handler
}

// NewApp creates a new UI application
func NewApp(analysisAPI ports.AnalysisAPI, uploads ports.UploadRepository, config Config, logger *internal.Logger) (*App, error) {
	if config.Timezone == nil {
		config.Timezone = time.UTC
	}
	if len(config.CopyGroups) == 0 {
		config.CopyGroups = table.DefaultCopyGroups()
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 32 << 20
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = defaultHistoryLimit
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"ratio": func(v float64, comma bool) string {
			return table.FormatNumber(v, comma)
		},
		"bytes":  formatBytes,
		"imgsrc": imageSource,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:      chi.NewRouter(),
		analysisAPI: analysisAPI,
		uploads:     uploads,
		templates:   templates,
		config:      config,
		logger:      logger.With("UI"),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS, _ := fs.Sub(embeddedFiles, "static")
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/about", a.handleAbout)

	a.router.Route("/energy", func(r chi.Router) {
		r.Get("/", a.handleEnergy)
		r.Post("/", a.handleEnergyUpload)
		r.Get("/{id}", a.handleEnergyResult)
		r.Post("/{id}/delete", a.handleEnergyDelete)
	})

	a.router.Route("/solar", func(r chi.Router) {
		r.Get("/", a.handleSolar)
		r.Post("/", a.handleSolarUpload)
		r.Get("/{id}", a.handleSolarResult)
	})

	if a.config.API != nil {
		a.router.Mount("/api", a.config.API)
	}

	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.renderError(w, r, errors.NotFound("page "+r.URL.Path))
	})
}

// Handler returns the root HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	a.logger.Info("Starting solarweb server on %s", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("Template error for %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("Error writing template response: %v", err)
	}
}

type errorPage struct {
	pageData
	Status  int
	Code    string
	Message string
}

func (a *App) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		a.logger.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}

	message := err.Error()
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	a.renderTemplate(w, status, "error.html", errorPage{
		pageData: pageData{Title: http.StatusText(status)},
		Status:   status,
		Code:     errors.GetCode(err),
		Message:  message,
	})
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// imageSource admits only inline images produced by the API client
func imageSource(dataURI string) template.URL {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return ""
	}
	return template.URL(dataURI)
}
