package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"dompet/internal/app"
	"dompet/internal/cache"
	"dompet/internal/core"
	applog "dompet/internal/log"
	"dompet/internal/middleware/ratelimit"
	"dompet/internal/middleware/security"
	"dompet/internal/middleware/trace"
	appweb "dompet/web"
)

// Options configures the server around the application state.
type Options struct {
	CurrencyPrefix     string
	GoogleClientID     string
	RateLimitPerMinute int
	CacheCleanup       time.Duration
	// Ready reports whether the session backend is usable.
	Ready  func(ctx context.Context) error
	Logger *applog.Logger
}

type Server struct {
	http.Server
	app       *app.App
	templates *template.Template
	opts      Options
	logger    *applog.Logger
	started   time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	caches   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server. Call Shutdown to stop it and its background work.
func NewServer(addr string, a *app.App, opts Options) *Server {
	if opts.CurrencyPrefix == "" {
		opts.CurrencyPrefix = core.DefaultCurrencyPrefix
	}
	if opts.CacheCleanup <= 0 {
		opts.CacheCleanup = 10 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = applog.FromContext(context.Background())
	}

	s := &Server{
		app:      a,
		opts:     opts,
		logger:   opts.Logger.WithComponent(applog.ComponentHTTP),
		started:  time.Now(),
		detector: security.NewDetector(),
		caches:   cache.NewManager(),
	}
	s.limiter = ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: opts.RateLimitPerMinute,
		Methods:           []string{http.MethodPost},
	})
	s.tracer = trace.NewMiddleware(opts.Logger, s.detector.ExtractClientIP)

	for _, c := range a.Caches() {
		s.caches.Register(c)
	}
	s.caches.StartCleanup(opts.CacheCleanup)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	page := func(h http.HandlerFunc) http.Handler { return security.NoStore(h) }
	mux.Handle("/", page(s.handleIndex))
	mux.Handle("/login", page(s.handleLogin))
	mux.Handle("/signup", page(s.handleSignup))
	mux.Handle("/login/google", page(s.handleGoogleLogin))
	mux.Handle("/logout", page(s.handleLogout))
	mux.Handle("/main", page(s.handleMain))
	mux.Handle("/add", page(s.handleAdd))
	mux.Handle("/transactions", page(s.handleSaveTransaction))
	mux.Handle("/transactions/load", page(s.handleLoadTransaction))
	mux.Handle("/transactions/delete", page(s.handleDeleteTransaction))
	mux.Handle("/transactions/clear", page(s.handleClearForm))
	mux.Handle("/history", page(s.handleHistory))
	mux.Handle("/history/export.xlsx", page(s.handleExport))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)

	var handler http.Handler = applog.ComponentMiddleware(applog.ComponentHTTP)(mux)
	handler = limited(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = s.detector.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError("Terlalu banyak permintaan. Coba lagi nanti.").Write(w)
}

// render executes a template into a buffer so a failure never leaves a
// half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	data.GoogleClientID = s.opts.GoogleClientID
	data.LoggedIn = s.app.Session().LoggedIn()

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldComponent, applog.ComponentTemplate,
			applog.FieldOperation, applog.OpRender,
			"template", name,
			applog.FieldError, err)
		InternalServerError("Gagal menampilkan halaman").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.Bytes()).Write(w)
}
