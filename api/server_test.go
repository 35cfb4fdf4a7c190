package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"docbuilder/api"
	"docbuilder/draft"
	"docbuilder/intake"
	"docbuilder/notify"
	"docbuilder/remote"
	"docbuilder/snippet"
	"docbuilder/sqlitedb"
	"docbuilder/storage"
	"docbuilder/templates"
	"docbuilder/ui"
)

// newTestServices wires every service on temp files and an in-memory
// database.
func newTestServices(t *testing.T) (*api.Services, storage.Storage) {
	t.Helper()
	dir := t.TempDir()
	st, err := storage.NewFile(dir + "/storage.json")
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	db, err := sqlitedb.Open(":memory:")
	if err != nil {
		t.Fatalf("sqlitedb: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo, err := templates.NewRepository(db)
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	sm, err := snippet.NewManager(dir + "/snippets.json")
	if err != nil {
		t.Fatalf("snippets: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &api.Services{
		Drafts:    draft.NewStore(st, draft.WithLogger(logger)),
		Notify:    notify.NewCenter(),
		Snippets:  sm,
		Templates: repo,
		Themes:    ui.Themes{Storage: st},
		Upload:    intake.Options{MaxSize: 64, Multiple: true},
		Editor: api.EditorOptions{
			AutosaveInterval: time.Hour,
			RestoreDelay:     10 * time.Millisecond,
			PreviewDebounce:  5 * time.Millisecond,
		},
		Log: logger,
	}, st
}

func newTestServer(t *testing.T, svc *api.Services) *httptest.Server {
	t.Helper()
	staticFS := fstest.MapFS{
		"index.html":    {Data: []byte("<html>editor</html>")},
		"js/editor.js":  {Data: []byte("// js")},
		"css/style.css": {Data: []byte("body{}")},
	}
	srv := httptest.NewServer(api.RegisterRoutes(svc, staticFS))
	t.Cleanup(srv.Close)
	return srv
}

// testClient is a browser stand-in: it keeps cookies and echoes the CSRF
// token on unsafe requests.
type testClient struct {
	t    *testing.T
	srv  *httptest.Server
	http *http.Client
	jar  http.CookieJar
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	jar, _ := cookiejar.New(nil)
	c := &testClient{t: t, srv: srv, http: &http.Client{Jar: jar}, jar: jar}
	resp, err := c.http.Get(srv.URL + "/api/csrf")
	if err != nil {
		t.Fatalf("GET /api/csrf: %v", err)
	}
	resp.Body.Close()
	if c.cookie(api.CSRFCookie) == "" || c.cookie(api.ClientCookie) == "" {
		t.Fatal("expected csrf and client cookies")
	}
	return c
}

func (c *testClient) cookie(name string) string {
	u, _ := url.Parse(c.srv.URL)
	for _, ck := range c.jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// id is the client's storage namespace.
func (c *testClient) id() string { return c.cookie(api.ClientCookie) }

func (c *testClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = strings.NewReader(s)
		} else {
			raw, _ := json.Marshal(body)
			r = bytes.NewReader(raw)
		}
	}
	req, _ := http.NewRequest(method, c.srv.URL+path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(api.CSRFHeader, c.cookie(api.CSRFCookie))
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, body)
	}
}

// hasToast reports whether client currently shows a toast with message.
func hasToast(svc *api.Services, client, message string, sev notify.Severity) bool {
	for _, t := range svc.Notify.Active(client) {
		if t.Message == message && t.Severity == sev {
			return true
		}
	}
	return false
}

func TestIndexServed(t *testing.T) {
	svc, _ := newTestServices(t)
	srv := newTestServer(t, svc)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html content-type, got %q", ct)
	}

	js, err := http.Get(srv.URL + "/js/editor.js")
	if err != nil {
		t.Fatal(err)
	}
	js.Body.Close()
	expectStatus(t, js, http.StatusOK)
}

func TestCSRFRequired(t *testing.T) {
	svc, _ := newTestServices(t)
	srv := newTestServer(t, svc)

	resp, err := http.Post(srv.URL+"/api/scan", "application/json", strings.NewReader(`{"content":"{{a}}"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	expectStatus(t, resp, http.StatusForbidden)

	c := newTestClient(t, srv)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/scan", strings.NewReader(`{"content":"{{a}}"}`))
	req.Header.Set(api.CSRFHeader, "wrong")
	bad, err := c.http.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	expectStatus(t, bad, http.StatusForbidden)

	expectStatus(t, c.do(http.MethodPost, "/api/scan", map[string]string{"content": "{{a}}"}), http.StatusOK)
}

func TestClientCookieIsStable(t *testing.T) {
	svc, _ := newTestServices(t)
	srv := newTestServer(t, svc)
	c := newTestClient(t, srv)
	first := c.id()
	c.do(http.MethodGet, "/api/theme", nil)
	if c.id() != first {
		t.Fatalf("client id changed from %s to %s", first, c.id())
	}
}

func TestRemoteClientAgainstServer(t *testing.T) {
	svc, _ := newTestServices(t)
	srv := newTestServer(t, svc)

	var notes []string
	rc, err := remote.New(srv.URL, remote.NotifierFunc(func(msg string, _ notify.Severity) {
		notes = append(notes, msg)
	}))
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Fields []string `json:"fields"`
	}
	err = rc.Do(context.Background(), http.MethodPost, "/api/scan", map[string]string{"content": "{{nom_client}} {{ville}}"}, &out)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(out.Fields) != 2 || out.Fields[0] != "nom_client" {
		t.Fatalf("unexpected fields %v", out.Fields)
	}

	if err := rc.Do(context.Background(), http.MethodGet, "/api/templates/missing", nil, nil); err == nil {
		t.Fatal("expected an error for a missing template")
	}
	if len(notes) != 1 || notes[0] != remote.ConnectionError {
		t.Fatalf("expected one connection error note, got %v", notes)
	}
}
