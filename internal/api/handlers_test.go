// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forumlens/internal/analytics"
	"github.com/tomtom215/forumlens/internal/cache"
	"github.com/tomtom215/forumlens/internal/config"
	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/models"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testPosts() []models.ForumPost {
	now := testNow.Unix()
	return []models.ForumPost{
		{ID: "p1", Title: "Go generics in practice", Author: strPtr("alice"), Platform: models.PlatformReddit, Source: "golang", Score: 50, NumComments: 10, CreatedUTC: now - 2*86400, Permalink: "/p1"},
		{ID: "p2", Title: "Rust vs Go", Author: strPtr("bob"), Platform: models.PlatformReddit, Source: "rust", Score: 100, NumComments: 20, CreatedUTC: now - 86400, Permalink: "/p2"},
		{ID: "p3", Title: "Show HN: Forumlens", Author: strPtr("carol"), Platform: models.PlatformHackerNews, Source: "show", Score: 200, NumComments: 40, CreatedUTC: now - 3600, Permalink: "/p3"},
	}
}

func writeSnapshot(t *testing.T, posts []models.ForumPost) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forum.db")
	if err := database.BuildSnapshot(context.Background(), database.EngineSQLite, path, posts); err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	return path
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

// testServer is an unloaded handle behind the full router.
type testServer struct {
	db      *database.DB
	svc     *analytics.Service
	handler http.Handler
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	db, err := database.New(database.Options{
		WorkDir:          t.TempDir(),
		MaxSnapshotBytes: cfg.Database.MaxSnapshotBytes,
		Now:              func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := analytics.NewService(db, cache.New(analytics.DefaultTTL), analytics.Config{})
	router := NewRouter(NewHandler(svc, cfg), cfg)
	return &testServer{db: db, svc: svc, handler: router.SetupChi()}
}

func newLoadedServer(t *testing.T) *testServer {
	t.Helper()
	ts := newTestServer(t, testConfig())
	if err := ts.db.Load(context.Background(), database.PathSource(writeSnapshot(t, testPosts()))); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return ts
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec, env
}

func (ts *testServer) get(t *testing.T, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return ts.do(t, http.MethodGet, target, nil, "")
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

// ============================================================================
// Health
// ============================================================================

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig())

	if rec, env := ts.get(t, "/api/v1/health/live"); rec.Code != http.StatusOK || env.Status != "success" {
		t.Errorf("live = %d %s", rec.Code, env.Status)
	}
	if rec, _ := ts.get(t, "/api/v1/health/ready"); rec.Code != http.StatusOK {
		t.Errorf("ready without configured source = %d, want 200", rec.Code)
	}

	cfg := testConfig()
	cfg.Database.Source = "/var/lib/forumlens/forum.db"
	pending := newTestServer(t, cfg)
	rec, env := pending.get(t, "/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != codeNotLoaded {
		t.Errorf("ready before load = %d %+v, want 503 NOT_LOADED", rec.Code, env.Error)
	}
}

// ============================================================================
// Database lifecycle
// ============================================================================

func TestQueriesBeforeLoad(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec, env := ts.get(t, "/api/v1/analytics/top-authors")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Metadata.Loaded == nil || *env.Metadata.Loaded {
		t.Errorf("metadata.loaded = %v, want false", env.Metadata.Loaded)
	}
	var authors []models.AuthorStats
	decodeData(t, env, &authors)
	if authors == nil || len(authors) != 0 {
		t.Errorf("authors = %v, want empty list", authors)
	}
}

func TestDatabaseLifecycle(t *testing.T) {
	path := writeSnapshot(t, testPosts())
	cfg := testConfig()
	cfg.Database.AllowedSources = []string{filepath.Dir(path)}
	ts := newTestServer(t, cfg)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/database?source="+url.QueryEscape(path), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("load = %d %+v", rec.Code, env.Error)
	}
	var status models.DatabaseStatus
	decodeData(t, env, &status)
	if !status.Loaded || status.Engine != "sqlite" || status.DataVersion != 1 {
		t.Errorf("status after load = %+v", status)
	}

	_, env = ts.get(t, "/api/v1/summary")
	var summary models.DatabaseSummary
	decodeData(t, env, &summary)
	if summary.TotalPosts != 3 || env.Metadata.Cached {
		t.Errorf("summary = %+v cached=%v", summary, env.Metadata.Cached)
	}
	if _, env = ts.get(t, "/api/v1/summary"); !env.Metadata.Cached || env.Metadata.QueryTimeMS != 0 {
		t.Errorf("second summary metadata = %+v, want cached", env.Metadata)
	}

	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/database/export", nil))
	original, _ := os.ReadFile(path)
	if rec.Code != http.StatusOK || !bytes.Equal(rec.Body.Bytes(), original) {
		t.Errorf("export = %d, %d bytes, want %d bytes", rec.Code, rec.Body.Len(), len(original))
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".sqlite") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	if rec, _ := ts.do(t, http.MethodDelete, "/api/v1/database", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("close = %d", rec.Code)
	}
	_, env = ts.get(t, "/api/v1/summary")
	decodeData(t, env, &summary)
	if summary.TotalPosts != 0 || env.Metadata.Cached {
		t.Errorf("summary after close = %+v cached=%v", summary, env.Metadata.Cached)
	}
	if rec, env := ts.get(t, "/api/v1/database/export"); rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != codeNotLoaded {
		t.Errorf("export after close = %d", rec.Code)
	}
}

func TestDatabaseLoadBodies(t *testing.T) {
	snapshot, err := os.ReadFile(writeSnapshot(t, testPosts()))
	if err != nil {
		t.Fatal(err)
	}
	path := writeSnapshot(t, testPosts())
	missing := filepath.Join(t.TempDir(), "nope.db")
	outside := writeSnapshot(t, testPosts())
	allowed := []string{filepath.Dir(path), filepath.Dir(missing)}

	tests := []struct {
		name        string
		target      string
		body        []byte
		contentType string
		maxBytes    int64
		wantStatus  int
		wantCode    string
	}{
		{name: "raw upload", target: "/api/v1/database", body: snapshot, contentType: "application/octet-stream", wantStatus: http.StatusOK},
		{name: "json source", target: "/api/v1/database", body: []byte(`{"source":"` + path + `"}`), contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json missing source", target: "/api/v1/database", body: []byte(`{}`), contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: codeValidation},
		{name: "json malformed", target: "/api/v1/database", body: []byte(`{"source":`), contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: codeValidation},
		{name: "empty body", target: "/api/v1/database", wantStatus: http.StatusBadRequest, wantCode: codeValidation},
		{name: "not a snapshot", target: "/api/v1/database", body: []byte("id,title\n1,hello\n"), contentType: "text/csv", wantStatus: http.StatusUnprocessableEntity, wantCode: codeLoad},
		{name: "upload too large", target: "/api/v1/database", body: snapshot, maxBytes: 64, wantStatus: http.StatusRequestEntityTooLarge, wantCode: codeTooLarge},
		{name: "missing file", target: "/api/v1/database?source=" + url.QueryEscape(missing), wantStatus: http.StatusBadGateway, wantCode: codeLoad},
		{name: "url without host", target: "/api/v1/database?source=" + url.QueryEscape("https://"), wantStatus: http.StatusBadRequest, wantCode: codeValidation},
		{name: "path outside allowlist", target: "/api/v1/database?source=" + url.QueryEscape(outside), wantStatus: http.StatusForbidden, wantCode: codeSourceNotAllowed},
		{name: "traversal out of allowlist", target: "/api/v1/database?source=" + url.QueryEscape(filepath.Dir(path)+"/../"+filepath.Base(filepath.Dir(outside))+"/forum.db"), wantStatus: http.StatusForbidden, wantCode: codeSourceNotAllowed},
		{name: "url outside allowlist", target: "/api/v1/database?source=" + url.QueryEscape("http://169.254.169.254/latest/meta-data"), wantStatus: http.StatusForbidden, wantCode: codeSourceNotAllowed},
		{name: "json path outside allowlist", target: "/api/v1/database", body: []byte(`{"source":"` + outside + `"}`), contentType: "application/json", wantStatus: http.StatusForbidden, wantCode: codeSourceNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Database.MaxSnapshotBytes = tt.maxBytes
			cfg.Database.AllowedSources = allowed
			ts := newTestServer(t, cfg)

			rec, env := ts.do(t, http.MethodPost, tt.target, bytes.NewReader(tt.body), tt.contentType)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%+v)", rec.Code, tt.wantStatus, env.Error)
			}
			if tt.wantCode != "" && (env.Error == nil || env.Error.Code != tt.wantCode) {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if tt.wantStatus == http.StatusOK && !ts.db.Loaded() {
				t.Error("expected snapshot to be loaded")
			}
		})
	}
}

func TestDatabaseLoadDefaultsToUploadOnly(t *testing.T) {
	ts := newTestServer(t, testConfig())
	path := writeSnapshot(t, testPosts())

	rec, env := ts.do(t, http.MethodPost, "/api/v1/database?source="+url.QueryEscape(path), nil, "")
	if rec.Code != http.StatusForbidden || env.Error == nil || env.Error.Code != codeSourceNotAllowed {
		t.Fatalf("load by path = %d %+v, want 403 %s", rec.Code, env.Error, codeSourceNotAllowed)
	}
	if ts.db.Loaded() {
		t.Error("a rejected source must not be loaded")
	}

	snapshot, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec, env := ts.do(t, http.MethodPost, "/api/v1/database", bytes.NewReader(snapshot), "application/octet-stream"); rec.Code != http.StatusOK {
		t.Errorf("upload = %d %+v, want 200", rec.Code, env.Error)
	}
}

func TestLoadErrorDoesNotLeakCause(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "secret-name.db")
	cfg := testConfig()
	cfg.Database.AllowedSources = []string{dir}
	ts := newTestServer(t, cfg)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/database?source="+url.QueryEscape(missing), nil, "")
	if rec.Code != http.StatusBadGateway || env.Error == nil {
		t.Fatalf("status = %d %+v, want 502", rec.Code, env.Error)
	}
	if strings.Contains(env.Error.Message, "secret-name") || strings.Contains(env.Error.Message, dir) {
		t.Errorf("Message %q leaks the source", env.Error.Message)
	}
	if kind, _ := env.Error.Details["kind"].(string); kind != "fetch" {
		t.Errorf("Details = %v, want kind fetch", env.Error.Details)
	}

	rec, env = ts.do(t, http.MethodPost, "/api/v1/database", strings.NewReader("garbage"), "application/octet-stream")
	if rec.Code != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Message != "Snapshot load failed" {
		t.Errorf("format error = %d %+v", rec.Code, env.Error)
	}
}

func TestFailedLoadKeepsPreviousSnapshot(t *testing.T) {
	ts := newLoadedServer(t)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/database", strings.NewReader("garbage"), "application/octet-stream")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	_, env := ts.get(t, "/api/v1/posts")
	var page models.PostsResponse
	decodeData(t, env, &page)
	if page.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3 from previous snapshot", page.TotalCount)
	}
}

// ============================================================================
// Posts and search
// ============================================================================

func TestPostsEndpoint(t *testing.T) {
	ts := newLoadedServer(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
		total   int64
	}{
		{"default newest first", "", []string{"p3", "p2", "p1"}, 3},
		{"platform", "platform=reddit", []string{"p2", "p1"}, 2},
		{"score asc paged", "sort_by=score&sort_order=asc&limit=1&offset=1", []string{"p2"}, 3},
		{"uppercase order", "sort_by=score&sort_order=ASC&limit=1", []string{"p1"}, 3},
		{"bad order", "sort_order=sideways", nil, 0},
		{"search content", "search=SHOW", []string{"p3"}, 1},
		{"date range", "start_date=" + itoa(testNow.Unix()-86400-1) + "&end_date=" + itoa(testNow.Unix()), []string{"p3", "p2"}, 2},
		{"limit zero", "limit=0", []string{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.get(t, "/api/v1/posts?"+tt.query)
			if tt.wantIDs == nil {
				if rec.Code != http.StatusBadRequest {
					t.Errorf("status = %d, want 400", rec.Code)
				}
				return
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d (%+v)", rec.Code, env.Error)
			}
			var page models.PostsResponse
			decodeData(t, env, &page)
			ids := make([]string, 0, len(page.Posts))
			for _, p := range page.Posts {
				ids = append(ids, p.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if page.TotalCount != tt.total {
				t.Errorf("TotalCount = %d, want %d", page.TotalCount, tt.total)
			}
		})
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestPostsValidation(t *testing.T) {
	ts := newLoadedServer(t)

	tests := []struct {
		query     string
		wantField string
	}{
		{"limit=abc", "limit"},
		{"limit=5000", "limit"},
		{"offset=-1", "offset"},
		{"platform=lobsters", "platform"},
		{"sort_by=author", "sort_by"},
		{"min_score=1.5", "min_score"},
		{"start_date=-5", "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, env := ts.get(t, "/api/v1/posts?"+tt.query)
			if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != codeValidation {
				t.Fatalf("status = %d error = %+v", rec.Code, env.Error)
			}
			if got := env.Error.Details["field"]; got != tt.wantField {
				t.Errorf("field = %v, want %s", got, tt.wantField)
			}
		})
	}
}

func TestPostByID(t *testing.T) {
	ts := newLoadedServer(t)

	rec, env := ts.get(t, "/api/v1/posts/p2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var post models.ForumPost
	decodeData(t, env, &post)
	if post.Title != "Rust vs Go" {
		t.Errorf("Title = %q", post.Title)
	}

	if rec, env := ts.get(t, "/api/v1/posts/missing"); rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != codeNotFound {
		t.Errorf("missing post = %d", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := newLoadedServer(t)

	_, env := ts.get(t, "/api/v1/search?q=go")
	var results []models.SearchResult
	decodeData(t, env, &results)
	if len(results) != 2 || results[0].ID != "p1" {
		t.Errorf("results = %+v, want p1 (prefix) first", results)
	}

	_, env = ts.get(t, "/api/v1/search?q=%20%20")
	decodeData(t, env, &results)
	if len(results) != 0 {
		t.Errorf("blank query returned %d results", len(results))
	}

	if rec, _ := ts.get(t, "/api/v1/search?q=go&limit=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", rec.Code)
	}
}

// ============================================================================
// Analytics
// ============================================================================

func TestAnalyticsEndpoints(t *testing.T) {
	ts := newLoadedServer(t)

	t.Run("timeseries", func(t *testing.T) {
		_, env := ts.get(t, "/api/v1/analytics/timeseries?days=7")
		var series []models.TimeSeriesData
		decodeData(t, env, &series)
		if len(series) != 3 {
			t.Errorf("len(series) = %d, want 3", len(series))
		}
	})

	t.Run("heatmap", func(t *testing.T) {
		_, env := ts.get(t, "/api/v1/analytics/heatmap?days=0&min_posts=1")
		var cells []models.HeatmapCell
		decodeData(t, env, &cells)
		if len(cells) != 3 {
			t.Errorf("len(cells) = %d, want 3", len(cells))
		}
	})

	t.Run("top authors", func(t *testing.T) {
		_, env := ts.get(t, "/api/v1/analytics/top-authors?limit=2")
		var authors []models.AuthorStats
		decodeData(t, env, &authors)
		if len(authors) != 2 {
			t.Errorf("len(authors) = %d, want 2", len(authors))
		}
	})

	t.Run("top sources", func(t *testing.T) {
		_, env := ts.get(t, "/api/v1/analytics/top-sources")
		var sources []models.SourceStats
		decodeData(t, env, &sources)
		if len(sources) != 3 {
			t.Errorf("len(sources) = %d, want 3", len(sources))
		}
	})

	t.Run("platforms", func(t *testing.T) {
		_, env := ts.get(t, "/api/v1/analytics/platforms")
		var platforms []models.PlatformStats
		decodeData(t, env, &platforms)
		if len(platforms) != 2 {
			t.Errorf("len(platforms) = %d, want 2", len(platforms))
		}
	})

	t.Run("engagement", func(t *testing.T) {
		_, env := ts.get(t, "/api/v1/analytics/engagement?days=7")
		var m models.EngagementMetrics
		decodeData(t, env, &m)
		if m.TotalPosts != 3 || m.TotalScore != 350 || m.UniqueAuthors != 3 {
			t.Errorf("engagement = %+v", m)
		}
	})

	t.Run("engagement compare", func(t *testing.T) {
		_, env := ts.get(t, "/api/v1/analytics/engagement/compare?days=1")
		var cmp models.EngagementComparison
		decodeData(t, env, &cmp)
		// The current window starts exactly at p2's timestamp, so it holds p2 and p3.
		if cmp.Current.TotalPosts != 2 || cmp.Previous.TotalPosts != 1 || cmp.PostsGrowth != 100 {
			t.Errorf("compare = %+v", cmp)
		}
	})

	t.Run("bad window", func(t *testing.T) {
		if rec, _ := ts.get(t, "/api/v1/analytics/engagement?days=-1"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestTimeSeriesFill(t *testing.T) {
	ts := newTestServer(t, testConfig())
	now := testNow.Unix()
	posts := []models.ForumPost{
		{ID: "x1", Title: "a", Platform: models.PlatformOther, Source: "s", CreatedUTC: now - 3*86400, Permalink: "/x1"},
		{ID: "x2", Title: "b", Platform: models.PlatformOther, Source: "s", CreatedUTC: now, Permalink: "/x2"},
	}
	if err := ts.db.Load(context.Background(), database.PathSource(writeSnapshot(t, posts))); err != nil {
		t.Fatal(err)
	}

	var sparse, filled []models.TimeSeriesData
	_, env := ts.get(t, "/api/v1/analytics/timeseries?days=7")
	decodeData(t, env, &sparse)
	_, env = ts.get(t, "/api/v1/analytics/timeseries?days=7&fill=true")
	decodeData(t, env, &filled)

	if len(sparse) != 2 || len(filled) != 4 {
		t.Errorf("sparse=%d filled=%d, want 2 and 4", len(sparse), len(filled))
	}
	if !env.Metadata.Cached {
		t.Error("filled series should reuse the cached sparse series")
	}
}

// ============================================================================
// Cache, metrics and routing
// ============================================================================

func TestCacheEndpoints(t *testing.T) {
	ts := newLoadedServer(t)

	ts.get(t, "/api/v1/summary")
	ts.get(t, "/api/v1/summary")

	_, env := ts.get(t, "/api/v1/cache")
	var stats models.CacheStatsResponse
	decodeData(t, env, &stats)
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats = %+v", stats)
	}

	_, env = ts.do(t, http.MethodDelete, "/api/v1/cache", nil, "")
	var cleared map[string]int
	decodeData(t, env, &cleared)
	if cleared["removed"] != 1 {
		t.Errorf("removed = %d, want 1", cleared["removed"])
	}
	if _, env := ts.get(t, "/api/v1/summary"); env.Metadata.Cached {
		t.Error("summary served from cache after clear")
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 2
	cfg.Security.RateLimitWindow = time.Minute
	ts := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		if rec, _ := ts.get(t, "/api/v1/summary"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec, env := ts.get(t, "/api/v1/summary")
	if rec.Code != http.StatusTooManyRequests || env.Error == nil || env.Error.Code != codeRateLimited {
		t.Errorf("third request = %d %+v, want 429", rec.Code, env.Error)
	}
	if rec, _ := ts.get(t, "/api/v1/health/live"); rec.Code != http.StatusOK {
		t.Errorf("health probe rate limited: %d", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t, testConfig())

	if rec, env := ts.get(t, "/api/v1/nope"); rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != codeNotFound {
		t.Errorf("unknown route = %d", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodPut, "/api/v1/cache", nil, ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT /cache = %d, want 405", rec.Code)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "forumlens_") {
		t.Errorf("/metrics = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "trace-1")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "trace-1" {
		t.Errorf("X-Request-ID = %q, want trace-1", got)
	}
}
