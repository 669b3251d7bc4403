package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"dompet/internal/app"
	"dompet/internal/ledger"
	"dompet/internal/session"
)

type testEnv struct {
	srv     *Server
	store   *ledger.Store
	markers *session.MemoryMarkers
	canvas  *app.JSONCanvas
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	store := ledger.New()
	markers := session.NewMemoryMarkers()
	canvas := app.NewJSONCanvas()
	appOpts := app.DefaultOptions()
	appOpts.Canvas = canvas
	a := app.New(store, session.New(markers), appOpts)

	if opts.RateLimitPerMinute == 0 {
		opts.RateLimitPerMinute = 1000
	}
	srv := NewServer(":0", a, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: store, markers: markers, canvas: canvas}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/login", url.Values{"username": {"budi"}, "password": {"rahasia"}})
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/main" {
		t.Fatalf("login: status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
}

func (e *testEnv) save(t *testing.T, amount, typ, date, category string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/transactions", url.Values{
		"amount": {amount}, "type": {typ}, "date": {date}, "category": {category},
	})
}

func (e *testEnv) load(t *testing.T, index string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/transactions/load", url.Values{"index": {index}})
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (body %s)", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("location = %q, want %q", got, location)
	}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := env.do(t, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
		if !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
			t.Fatalf("%s content type %q", path, rr.Header().Get("Content-Type"))
		}
	}
}

func TestHealthReportsViewCacheStats(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)
	env.save(t, "100", "income", "2025-01-01", "Gaji")
	env.do(t, http.MethodGet, "/main", nil)
	env.do(t, http.MethodGet, "/main", nil)

	rr := env.do(t, http.MethodGet, "/healthz", nil)
	var body struct {
		Requests  int64 `json:"requests"`
		ViewCache map[string]struct {
			Size   int    `json:"size"`
			Hits   uint64 `json:"hits"`
			Misses uint64 `json:"misses"`
		} `json:"view_cache"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	totals, ok := body.ViewCache["totals"]
	if !ok || totals.Misses != 1 || totals.Hits != 1 || totals.Size != 1 {
		t.Fatalf("unexpected totals cache stats: %+v", body.ViewCache)
	}
	if _, ok := body.ViewCache["history"]; !ok {
		t.Fatalf("history cache missing: %+v", body.ViewCache)
	}
	if body.Requests < 4 {
		t.Fatalf("requests = %d, want at least 4", body.Requests)
	}
}

func TestReadyReportsBackendFailure(t *testing.T) {
	env := newTestEnv(t, Options{Ready: func(context.Context) error { return errors.New("db gone") }})
	rr := env.do(t, http.MethodGet, "/readyz", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", rr.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "not_ready" || !strings.Contains(body.Checks["session_backend"], "db gone") {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestViewsRequireLogin(t *testing.T) {
	env := newTestEnv(t, Options{})

	expectRedirect(t, env.do(t, http.MethodGet, "/", nil), "/login")
	for _, path := range []string{"/main", "/add", "/history", "/history/export.xlsx"} {
		expectRedirect(t, env.do(t, http.MethodGet, path, nil), "/login")
	}
	expectRedirect(t, env.load(t, "0"), "/login")
	expectRedirect(t, env.save(t, "100", "income", "2025-01-01", "Gaji"), "/login")
	if env.store.Len() != 0 {
		t.Fatalf("store mutated while logged out")
	}

	rr := env.do(t, http.MethodGet, "/login", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "loginUsername") {
		t.Fatalf("login page: status=%d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "g_id_onload") {
		t.Fatalf("google button must be hidden without a client id")
	}
}

func TestLoginNotices(t *testing.T) {
	env := newTestEnv(t, Options{GoogleClientID: "client.apps.googleusercontent.com"})

	rr := env.do(t, http.MethodPost, "/login", url.Values{"username": {"budi"}, "password": {"  "}})
	if rr.Code != http.StatusUnprocessableEntity || !strings.Contains(rr.Body.String(), "Username (WAJIB) dan Password (WAJIB) harus diisi!") {
		t.Fatalf("missing-credentials notice: status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/signup", url.Values{"username": {""}})
	if rr.Code != http.StatusUnprocessableEntity || !strings.Contains(rr.Body.String(), "Please enter username") {
		t.Fatalf("signup notice: status=%d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/signup", url.Values{"username": {"sari"}})
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Account created for sari") {
		t.Fatalf("signup success: status=%d", rr.Code)
	}
	if env.srv.app.Session().LoggedIn() {
		t.Fatalf("signup must not log in")
	}

	rr = env.do(t, http.MethodGet, "/login", nil)
	if !strings.Contains(rr.Body.String(), "g_id_onload") {
		t.Fatalf("google button expected when a client id is configured")
	}
}

func fakeIDToken(claims map[string]any) string {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	raw, _ := json.Marshal(claims)
	return header + "." + enc.EncodeToString(raw) + "." + enc.EncodeToString([]byte("sig"))
}

func TestGoogleLoginPersistsMarkerAndLogout(t *testing.T) {
	env := newTestEnv(t, Options{GoogleClientID: "client"})
	ctx := context.Background()

	rr := env.do(t, http.MethodPost, "/login/google", url.Values{"credential": {"not-a-token"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad token status=%d", rr.Code)
	}

	token := fakeIDToken(map[string]any{"name": "Sari Dewi", "email": "sari@example.com", "exp": 4102444800})
	expectRedirect(t, env.do(t, http.MethodPost, "/login/google", url.Values{"credential": {token}}), "/main")

	if v, _ := env.markers.Get(ctx, session.KeyLoggedIn); v != "true" {
		t.Fatalf("isLoggedIn marker = %q", v)
	}
	if v, _ := env.markers.Get(ctx, session.KeyLoginMethod); v != "google" {
		t.Fatalf("loginMethod marker = %q", v)
	}

	rr = env.do(t, http.MethodGet, "/main", nil)
	if !strings.Contains(rr.Body.String(), "Sari Dewi") {
		t.Fatalf("display name missing from header")
	}

	expectRedirect(t, env.do(t, http.MethodPost, "/logout", nil), "/login")
	if _, err := env.markers.Get(ctx, session.KeyLoggedIn); !errors.Is(err, session.ErrMarkerNotFound) {
		t.Fatalf("marker should be cleared, got %v", err)
	}
	expectRedirect(t, env.do(t, http.MethodGet, "/main", nil), "/login")
}

func TestTransactionFlow(t *testing.T) {
	env := newTestEnv(t, Options{CurrencyPrefix: "Rp "})
	env.login(t)

	expectRedirect(t, env.save(t, "100", "income", "2025-01-01", "Gaji"), "/history")
	expectRedirect(t, env.save(t, "40", "expense", "2025-01-01", "Makan"), "/history")
	expectRedirect(t, env.save(t, "10", "income", "2025-01-02", "Bonus"), "/history")

	// missing amount and missing date are ignored
	expectRedirect(t, env.save(t, "", "income", "2025-01-03", "Kosong"), "/add")
	expectRedirect(t, env.save(t, "5", "income", "", "Kosong"), "/add")
	if env.store.Len() != 3 {
		t.Fatalf("store len = %d, want 3", env.store.Len())
	}

	rr := env.do(t, http.MethodGet, "/main", nil)
	body := rr.Body.String()
	for _, want := range []string{"Rp 110", "Rp 40", "Rp 70", "Pemasukan", "#22c55e"} {
		if !strings.Contains(body, want) {
			t.Errorf("main view missing %q", want)
		}
	}
	env.do(t, http.MethodGet, "/main", nil)
	if env.canvas.Live() != 1 {
		t.Fatalf("live charts = %d, want 1", env.canvas.Live())
	}

	rr = env.do(t, http.MethodGet, "/history", nil)
	if !strings.Contains(rr.Body.String(), "Makan - Rp 40 (2025-01-01)") {
		t.Fatalf("history row missing: %s", rr.Body.String())
	}

	// edit the second record through its store index
	expectRedirect(t, env.load(t, "1"), "/add")
	rr = env.do(t, http.MethodGet, "/add", nil)
	if !strings.Contains(rr.Body.String(), `value="40"`) || !strings.Contains(rr.Body.String(), "Ubah Transaksi") {
		t.Fatalf("add view not prefilled: %s", rr.Body.String())
	}
	expectRedirect(t, env.save(t, "45", "expense", "2025-01-01", "Makan"), "/history")
	if env.store.Len() != 3 {
		t.Fatalf("update appended a record")
	}
	got, _ := env.store.Get(1)
	if got.Amount.String() != "45" {
		t.Fatalf("record 1 amount = %s", got.Amount)
	}

	// delete without a selection does nothing
	expectRedirect(t, env.do(t, http.MethodPost, "/transactions/delete", nil), "/add")
	if env.store.Len() != 3 {
		t.Fatalf("delete without selection mutated the store")
	}

	expectRedirect(t, env.load(t, "0"), "/add")
	expectRedirect(t, env.do(t, http.MethodPost, "/transactions/delete", nil), "/history")
	all := env.store.All()
	if len(all) != 2 || all[0].Category != "Makan" {
		t.Fatalf("unexpected store after delete: %+v", all)
	}

	rr = env.load(t, "9")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("out of range load status=%d", rr.Code)
	}
	rr = env.load(t, "x")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad index status=%d", rr.Code)
	}
}

func TestClearForm(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)
	env.save(t, "100", "expense", "2025-01-01", "Makan")

	expectRedirect(t, env.load(t, "0"), "/add")
	expectRedirect(t, env.do(t, http.MethodPost, "/transactions/clear", nil), "/add")

	rr := env.do(t, http.MethodGet, "/add", nil)
	body := rr.Body.String()
	if strings.Contains(body, `value="100"`) || strings.Contains(body, "Ubah Transaksi") {
		t.Fatalf("form should be cleared: %s", body)
	}
	if !strings.Contains(body, `value="Makan"`) {
		t.Fatalf("category should be kept")
	}
}

func TestHistoryFilterAndExport(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)
	env.save(t, "100", "income", "2025-01-01", "Gaji")
	env.save(t, "40", "expense", "2025-01-05", "Makan")
	env.save(t, "15", "expense", "2025-01-10", "Transport")

	rr := env.do(t, http.MethodGet, "/history?q=MAK&range=&category=All", nil)
	body := rr.Body.String()
	if !strings.Contains(body, "Makan - ") || strings.Contains(body, "Gaji - ") {
		t.Fatalf("query filter not applied: %s", body)
	}

	rr = env.do(t, http.MethodGet, "/history?q=&range="+url.QueryEscape("2025-01-05 to 2025-01-10")+"&category=Transport", nil)
	body = rr.Body.String()
	if !strings.Contains(body, `name="index" value="2"`) || strings.Contains(body, `value="1"`) {
		t.Fatalf("range and category filter not applied: %s", body)
	}

	// the export follows the current filter
	rr = env.do(t, http.MethodGet, "/history/export.xlsx", nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("export status=%d type=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	f, err := excelize.OpenReader(rr.Body)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(rows) != 2 || rows[1][3] != "Transport" {
		t.Fatalf("unexpected export rows: %v", rows)
	}

	// inputs are matched as typed
	for _, q := range []string{
		"q=" + url.QueryEscape(" mak") + "&range=&category=All",
		"q=&range=" + url.QueryEscape("2025-01-01 to ") + "&category=All",
	} {
		rr = env.do(t, http.MethodGet, "/history?"+q, nil)
		if !strings.Contains(rr.Body.String(), "Belum ada transaksi.") {
			t.Errorf("%s should match nothing: %s", q, rr.Body.String())
		}
	}
}

func TestMethodChecks(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/transactions"},
		{http.MethodGet, "/logout"},
		{http.MethodGet, "/transactions/load?index=0"},
		{http.MethodPost, "/main"},
		{http.MethodDelete, "/login"},
	} {
		rr := env.do(t, tc.method, tc.path, nil)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s status=%d, want 405", tc.method, tc.path, rr.Code)
		}
	}
	rr := env.do(t, http.MethodGet, "/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown path status=%d", rr.Code)
	}
}

func TestSecurityHeadersAndRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{RateLimitPerMinute: 2})

	rr := env.do(t, http.MethodGet, "/login", nil)
	if rr.Header().Get("X-Frame-Options") != "DENY" || rr.Header().Get("Content-Security-Policy") == "" {
		t.Fatalf("security headers missing")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}
	if rr.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("views must not be cached")
	}

	form := url.Values{"username": {""}, "password": {""}}
	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, env.do(t, http.MethodPost, "/login", form).Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third POST should be limited, got %v", codes)
	}
	if env.do(t, http.MethodGet, "/login", nil).Code != http.StatusOK {
		t.Fatalf("GETs are not limited")
	}
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		rr := env.do(t, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}
