package http

import (
	"errors"
	"net/http"

	"dompet/internal/app"
	"dompet/internal/core"
	"dompet/internal/history"
	"dompet/internal/ledger"
	applog "dompet/internal/log"
)

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	res, ok := s.show(w, r, app.ViewAdd)
	if !ok {
		return
	}

	data := newPage(app.ViewAdd)
	data.UserName = res.UserName
	data.Form = res.Form
	data.Editing = res.Editing
	data.Types = typeOptions(res.Form.Type)
	data.Categories = history.Categories(s.app.Transactions())
	s.render(w, r, http.StatusOK, "add.html", data)
}

// handleSaveTransaction stores the form. Missing amount or date leaves
// everything as it was and returns to the form.
func (s *Server) handleSaveTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	form := ParseTransactionForm(r.PostForm)
	err := s.app.Save(ctx, form)
	switch {
	case err == nil:
		Redirect("/history").Write(w)
	case errors.Is(err, app.ErrNotLoggedIn):
		Redirect("/login").Write(w)
	case errors.Is(err, core.ErrMissingAmount), errors.Is(err, core.ErrMissingDate):
		Redirect("/add").Write(w)
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		applog.FromContext(ctx).WarnContext(ctx, "Selected transaction no longer exists", applog.FieldError, err)
		Redirect("/add").Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "Save failed", err, applog.ComponentLedger, applog.OpCreate, nil)
		InternalServerError("Gagal menyimpan transaksi").Write(w)
	}
}

// handleLoadTransaction selects a record for editing. It changes state, so
// it only answers POST.
func (s *Server) handleLoadTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	index, err := ParseIndex(r.PostForm)
	if err != nil {
		BadRequestError("Indeks transaksi tidak valid").Write(w)
		return
	}

	_, err = s.app.Load(r.Context(), index)
	switch {
	case err == nil:
		Redirect("/add").Write(w)
	case errors.Is(err, app.ErrNotLoggedIn):
		Redirect("/login").Write(w)
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		NotFoundError("Transaksi tidak ditemukan").Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Load failed", err, applog.ComponentLedger, applog.OpSelect, applog.NewFields().WithIndex(index))
		InternalServerError("Gagal memuat transaksi").Write(w)
	}
}

// handleDeleteTransaction removes the selected record. Without a selection
// nothing changes.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	err := s.app.Delete(r.Context())
	switch {
	case err == nil:
		Redirect("/history").Write(w)
	case errors.Is(err, app.ErrNotLoggedIn):
		Redirect("/login").Write(w)
	case errors.Is(err, app.ErrNoSelection), errors.Is(err, ledger.ErrIndexOutOfRange):
		Redirect("/add").Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Delete failed", err, applog.ComponentLedger, applog.OpDelete, nil)
		InternalServerError("Gagal menghapus transaksi").Write(w)
	}
}

func (s *Server) handleClearForm(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if !s.app.Session().LoggedIn() {
		Redirect("/login").Write(w)
		return
	}
	s.app.ClearForm()
	Redirect("/add").Write(w)
}
