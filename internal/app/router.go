package app

import (
	"context"

	"dompet/internal/history"
	applog "dompet/internal/log"
	"dompet/internal/summary"
)

type View string

const (
	ViewLogin   View = "login"
	ViewMain    View = "main"
	ViewAdd     View = "add"
	ViewHistory View = "history"
)

func (v View) Valid() bool {
	switch v {
	case ViewLogin, ViewMain, ViewAdd, ViewHistory:
		return true
	}
	return false
}

// Result is what a view needs to render. Slices may be shared with the
// derived-view cache and must be treated as read-only.
type Result struct {
	View     View
	UserName string

	// history
	Filter     history.Filter
	Entries    []history.Entry
	Categories []string

	// main
	Totals       summary.Totals
	ChartPayload []byte

	// add
	Form    Form
	Editing bool
}

// Show activates a view and pulls a fresh derivation for it. Every view
// except login requires a logged-in session.
func (a *App) Show(ctx context.Context, view View) (Result, error) {
	if !view.Valid() {
		return Result{}, ErrUnknownView
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if view != ViewLogin && !a.session.LoggedIn() {
		applog.FromContext(ctx).DebugContext(ctx, "View blocked, not logged in", applog.FieldView, view)
		return Result{View: ViewLogin}, ErrNotLoggedIn
	}

	res := Result{View: view, UserName: a.session.UserName()}
	switch view {
	case ViewHistory:
		txs := a.store.All()
		rev := a.store.Revision()
		res.Filter = a.filter
		res.Entries = a.historyEntries(txs, rev)
		res.Categories = history.Categories(txs)

	case ViewMain:
		txs := a.store.All()
		rev := a.store.Revision()
		res.Totals = a.totals(txs, rev)
		cfg := summary.NewLineChart(a.series(txs, rev), a.style)
		ch, err := a.redrawLocked(ctx, cfg)
		if err != nil {
			return res, err
		}
		res.ChartPayload = ch.Payload()

	case ViewAdd:
		res.Form = a.form
		res.Editing = a.hasSelected
	}
	return res, nil
}
