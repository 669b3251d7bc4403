// Package app owns the application state that the views work on: the
// transaction store, the selected record, the filter inputs, the session
// and the current chart. Every operation is serialised, giving the same
// single thread of control as an event-driven UI.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/history"
	"dompet/internal/ledger"
	applog "dompet/internal/log"
	"dompet/internal/session"
	"dompet/internal/summary"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNoSelection = errors.New("no transaction selected")
	ErrUnknownView = errors.New("unknown view")
)

// Form mirrors the transaction form fields as typed by the user.
type Form struct {
	Amount   string
	Type     string
	Date     string
	Category string
}

func formFrom(tx core.Transaction) Form {
	return Form{
		Amount:   tx.Amount.String(),
		Type:     tx.Type.String(),
		Date:     tx.Date,
		Category: tx.Category,
	}
}

type Options struct {
	Canvas     Canvas
	ChartStyle summary.ChartStyle
	CacheSize  int
	CacheTTL   time.Duration
}

func DefaultOptions() Options {
	return Options{
		Canvas:     NewJSONCanvas(),
		ChartStyle: summary.DefaultChartStyle(),
		CacheSize:  100,
		CacheTTL:   5 * time.Minute,
	}
}

type App struct {
	mu sync.Mutex

	store   *ledger.Store
	session *session.Session
	canvas  Canvas
	style   summary.ChartStyle

	selected    int
	hasSelected bool
	form        Form
	filter      history.Filter
	chart       Chart

	historyCache *cache.LRUCache[[]history.Entry]
	totalsCache  *cache.LRUCache[summary.Totals]
	seriesCache  *cache.LRUCache[summary.Series]
}

func New(store *ledger.Store, sess *session.Session, opts Options) *App {
	def := DefaultOptions()
	if opts.Canvas == nil {
		opts.Canvas = def.Canvas
	}
	if opts.ChartStyle == (summary.ChartStyle{}) {
		opts.ChartStyle = def.ChartStyle
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	if store == nil {
		store = ledger.New()
	}
	if sess == nil {
		sess = session.New(nil)
	}

	return &App{
		store:        store,
		session:      sess,
		canvas:       opts.Canvas,
		style:        opts.ChartStyle,
		form:         Form{Type: string(core.Income)},
		filter:       history.Filter{Category: history.AllCategories},
		historyCache: cache.NewLRUCache[[]history.Entry](opts.CacheSize, opts.CacheTTL),
		totalsCache:  cache.NewLRUCache[summary.Totals](opts.CacheSize, opts.CacheTTL),
		seriesCache:  cache.NewLRUCache[summary.Series](opts.CacheSize, opts.CacheTTL),
	}
}

// Session exposes the session for login and logout.
func (a *App) Session() *session.Session {
	return a.session
}

// Caches returns the derived-view caches so their expiry can be managed.
func (a *App) Caches() []cache.Cleaner {
	return []cache.Cleaner{a.historyCache, a.totalsCache, a.seriesCache}
}

// CacheStats reports the derived-view caches by view name.
func (a *App) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"history": a.historyCache.Stats(),
		"totals":  a.totalsCache.Stats(),
		"series":  a.seriesCache.Stats(),
	}
}

// Save stores the form as a new record, or over the selected record when
// one is selected. A zero amount or empty date leaves the store untouched.
func (a *App) Save(ctx context.Context, f Form) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.LoggedIn() {
		return ErrNotLoggedIn
	}
	a.form = f

	tx := core.Transaction{
		Amount:   core.ParseAmount(f.Amount),
		Type:     core.ParseType(f.Type),
		Date:     strings.TrimSpace(f.Date),
		Category: f.Category,
	}
	if err := tx.Validate(); err != nil {
		applog.FromContext(ctx).DebugContext(ctx, "Transaction not saved", applog.FieldError, err)
		return err
	}

	op, index := applog.OpCreate, a.store.Len()
	if a.hasSelected {
		op, index = applog.OpUpdate, a.selected
		if err := a.store.Update(index, tx); err != nil {
			applog.FromContext(ctx).DebugContext(ctx, "Selected transaction not updated",
				applog.FieldIndex, index, applog.FieldError, err)
			return err
		}
	} else {
		a.store.Add(tx)
	}
	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogTransactionSaved(ctx, op, index, tx.Type.String(), tx.Date, tx.Category)

	a.clearFormLocked()
	return nil
}

// Load selects the record at index and returns it as form values.
func (a *App) Load(ctx context.Context, index int) (Form, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.LoggedIn() {
		return Form{}, ErrNotLoggedIn
	}
	tx, err := a.store.Get(index)
	if err != nil {
		applog.FromContext(ctx).DebugContext(ctx, "Transaction not loaded",
			applog.FieldIndex, index, applog.FieldError, err)
		return Form{}, err
	}
	a.selected, a.hasSelected = index, true
	a.form = formFrom(tx)
	return a.form, nil
}

// Delete removes the selected record.
func (a *App) Delete(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.LoggedIn() {
		return ErrNotLoggedIn
	}
	if !a.hasSelected {
		return ErrNoSelection
	}
	if err := a.store.Delete(a.selected); err != nil {
		return err
	}
	applog.FromContext(ctx).WithComponent(applog.ComponentLedger).InfoContext(ctx, "Transaction deleted",
		applog.FieldOperation, applog.OpDelete, applog.FieldIndex, a.selected)
	a.clearFormLocked()
	return nil
}

// ClearForm empties amount and date and drops the selection. Type and
// category keep their last values.
func (a *App) ClearForm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearFormLocked()
}

func (a *App) clearFormLocked() {
	a.form.Amount = ""
	a.form.Date = ""
	a.selected, a.hasSelected = 0, false
}

// Selected returns the selected store index, if any.
func (a *App) Selected() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected, a.hasSelected
}

// SetFilter records the history filter inputs used by the next history view.
func (a *App) SetFilter(f history.Filter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if f.Category == "" {
		f.Category = history.AllCategories
	}
	a.filter = f
}

func (a *App) Filter() history.Filter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}

// Transactions returns every stored record in order.
func (a *App) Transactions() []core.Transaction {
	return a.store.All()
}

func (a *App) historyEntries(txs []core.Transaction, rev uint64) []history.Entry {
	key := fmt.Sprintf("%d\x00%s\x00%s\x00%s", rev, a.filter.Query, a.filter.Range, a.filter.Category)
	return a.historyCache.GetOrCompute(key, func() []history.Entry {
		return a.filter.Apply(txs)
	})
}

func (a *App) totals(txs []core.Transaction, rev uint64) summary.Totals {
	return a.totalsCache.GetOrCompute(strconv.FormatUint(rev, 10), func() summary.Totals {
		return summary.Aggregate(txs)
	})
}

func (a *App) series(txs []core.Transaction, rev uint64) summary.Series {
	return a.seriesCache.GetOrCompute(strconv.FormatUint(rev, 10), func() summary.Series {
		return summary.BuildSeries(txs)
	})
}

// redrawLocked destroys the current chart before drawing the new one.
func (a *App) redrawLocked(ctx context.Context, cfg summary.ChartConfig) (Chart, error) {
	if a.chart != nil {
		a.chart.Destroy()
		a.chart = nil
	}
	ch, err := a.canvas.Draw(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("draw chart: %w", err)
	}
	a.chart = ch
	return ch, nil
}
