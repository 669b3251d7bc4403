package http

import (
	"bytes"
	"net/http"

	"dompet/internal/app"
	"dompet/internal/export"
	applog "dompet/internal/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// applyFilter records the filter inputs carried by the query, if any.
func (s *Server) applyFilter(r *http.Request) {
	if f, ok := ParseFilter(r.URL.Query()); ok {
		s.app.SetFilter(f)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.app.Session().LoggedIn() {
		s.applyFilter(r)
	}
	res, ok := s.show(w, r, app.ViewHistory)
	if !ok {
		return
	}

	data := newPage(app.ViewHistory)
	data.UserName = res.UserName
	data.Filter = res.Filter
	data.Rows = historyRows(res.Entries, s.opts.CurrencyPrefix)
	data.Categories = res.Categories
	s.render(w, r, http.StatusOK, "history.html", data)
}

// handleExport writes the currently filtered history as a workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.app.Session().LoggedIn() {
		s.applyFilter(r)
	}
	res, ok := s.show(w, r, app.ViewHistory)
	if !ok {
		return
	}

	ctx := r.Context()
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, res.Entries, s.opts.CurrencyPrefix); err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "Export failed", err, applog.ComponentExport, applog.OpExport, nil)
		InternalServerError("Gagal membuat file").Write(w)
		return
	}

	applog.FromContext(ctx).InfoContext(ctx, "History exported",
		applog.FieldComponent, applog.ComponentExport,
		applog.FieldEntries, len(res.Entries))
	NewResponse().
		Header("Content-Disposition", `attachment; filename="riwayat.xlsx"`).
		Body(xlsxContentType, buf.Bytes()).
		Write(w)
}
