package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dompet/internal/app"
	"dompet/internal/core"
	"dompet/internal/history"
	applog "dompet/internal/log"
)

// pageData is the view model shared by every template.
type pageData struct {
	View           app.View
	Title          string
	UserName       string
	LoggedIn       bool
	GoogleClientID string
	Notice         string
	NoticeError    bool
	Hint           string

	// main
	Income      string
	Expense     string
	Balance     string
	ChartConfig string

	// add
	Form    app.Form
	Editing bool
	Types   []typeOption

	// history
	Filter     history.Filter
	Rows       []historyRow
	Categories []string
	AllLabel   string
}

var viewTitles = map[app.View]string{
	app.ViewLogin:   "Login",
	app.ViewMain:    "Ringkasan",
	app.ViewAdd:     "Tambah Transaksi",
	app.ViewHistory: "Riwayat",
}

func newPage(view app.View) pageData {
	return pageData{View: view, Title: viewTitles[view], AllLabel: history.AllCategories}
}

// show runs the view router and handles the outcomes every view shares.
// It returns false when a response has already been written.
func (s *Server) show(w http.ResponseWriter, r *http.Request, view app.View) (app.Result, bool) {
	res, err := s.app.Show(r.Context(), view)
	switch {
	case err == nil:
		return res, true
	case errors.Is(err, app.ErrNotLoggedIn):
		Redirect("/login").Write(w)
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "View failed",
			applog.FieldView, view, applog.FieldError, err)
		InternalServerError("Gagal menampilkan halaman").Write(w)
	}
	return res, false
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"timestamp":  time.Now().Format(time.RFC3339),
		"uptime":     time.Since(s.started).Round(time.Second).String(),
		"requests":   s.tracer.TotalRequests(),
		"view_cache": s.app.CacheStats(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.opts.Ready != nil {
		if err := s.opts.Ready(ctx); err != nil {
			checks["session_backend"] = "failed: " + err.Error()
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["session_backend"] = "ok"
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		InternalServerError("encode response").Write(w)
		return
	}
	NewResponse().Status(status).NoStore().Body("application/json", raw).Write(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Halaman tidak ditemukan").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.app.Session().LoggedIn() {
		Redirect("/main").Write(w)
		return
	}
	Redirect("/login").Write(w)
}

func (s *Server) handleMain(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	res, ok := s.show(w, r, app.ViewMain)
	if !ok {
		return
	}

	prefix := s.opts.CurrencyPrefix
	data := newPage(app.ViewMain)
	data.UserName = res.UserName
	data.Income = core.FormatAmount(prefix, res.Totals.Income)
	data.Expense = core.FormatAmount(prefix, res.Totals.Expense)
	data.Balance = core.FormatAmount(prefix, res.Totals.Balance)
	data.ChartConfig = string(res.ChartPayload)
	s.render(w, r, http.StatusOK, "main.html", data)
}
