package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/gobacklog/internal/backlog"
	"github.com/hyperifyio/gobacklog/internal/fetch"
	"github.com/hyperifyio/gobacklog/internal/pipeline"
	"github.com/hyperifyio/gobacklog/internal/store"
)

// newTestAPI returns the API under test plus a content server that serves
// a fixed HTML page at any path.
func newTestAPI(t *testing.T) (*httptest.Server, *httptest.Server, *store.Store) {
	t.Helper()
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Hello</title></head><body><article>
<p>Body text long enough for the extractor to produce a usable heuristic
summary during the handler tests in this file.</p></article></body></html>`))
	}))
	t.Cleanup(content.Close)

	st := &store.Store{Path: filepath.Join(t.TempDir(), "articles.json")}
	srv := &Server{
		Store: st,
		Pipe: &pipeline.Pipeline{
			Fetcher: &fetch.Client{MaxAttempts: 1, PerRequestTimeout: 2 * time.Second},
		},
	}
	api := httptest.NewServer(srv.Router())
	t.Cleanup(api.Close)
	return api, content, st
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeArticle(t *testing.T, resp *http.Response) backlog.Article {
	t.Helper()
	defer resp.Body.Close()
	var a backlog.Article
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestCreateArticle(t *testing.T) {
	api, content, _ := newTestAPI(t)

	resp := postJSON(t, api.URL+"/api/articles",
		fmt.Sprintf(`{"url":%q,"tags":["x"],"priority":"high"}`, content.URL+"/post"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	a := decodeArticle(t, resp)
	if a.Title != "Hello" {
		t.Fatalf("title = %q, want Hello", a.Title)
	}
	if a.Priority != backlog.PriorityHigh || a.Status != backlog.StatusUnread {
		t.Fatalf("unexpected article: %+v", a)
	}
	if len(a.Tags) != 1 || a.Tags[0] != "x" {
		t.Fatalf("tags = %v", a.Tags)
	}
	if a.ID == "" || a.ReadAt != nil {
		t.Fatalf("identity invariants violated: %+v", a)
	}
}

func TestCreateArticle_FetchFailure(t *testing.T) {
	api, content, st := newTestAPI(t)
	content.Close() // now unreachable

	resp := postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	resp.Body.Close()

	got, _ := st.List(store.Filter{})
	if len(got) != 0 {
		t.Fatalf("failed add must not grow the collection")
	}
}

func TestCreateArticle_Validation(t *testing.T) {
	api, _, _ := newTestAPI(t)

	for _, body := range []string{
		`{"url":""}`,
		`{"url":"https://example.com","priority":"urgent"}`,
		`{"url":"https://example.com","unknown_field":1}`,
	} {
		resp := postJSON(t, api.URL+"/api/articles", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestListAndFilters(t *testing.T) {
	api, content, _ := newTestAPI(t)

	resp := postJSON(t, api.URL+"/api/articles",
		fmt.Sprintf(`{"url":%q,"tags":["go"],"priority":"high"}`, content.URL+"/1"))
	resp.Body.Close()
	resp = postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL+"/2"))
	resp.Body.Close()

	resp, err := http.Get(api.URL + "/api/articles?priority=high&tag=go")
	if err != nil {
		t.Fatal(err)
	}
	var list []backlog.Article
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(list) != 1 {
		t.Fatalf("filtered list = %d items, want 1", len(list))
	}

	// The seeded articles come from the loopback content server.
	resp, _ = http.Get(api.URL + "/api/articles?source=127.0.0.1")
	_ = json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 2 {
		t.Fatalf("source filter = %d items, want 2", len(list))
	}
	resp, _ = http.Get(api.URL + "/api/articles?source=nosuchdomain")
	_ = json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 0 {
		t.Fatalf("unmatched source filter = %d items, want 0", len(list))
	}

	resp, _ = http.Get(api.URL + "/api/articles?status=bogus")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad enum: status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetByPrefixAndErrors(t *testing.T) {
	api, content, st := newTestAPI(t)

	resp := postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	a := decodeArticle(t, resp)

	resp, _ = http.Get(api.URL + "/api/articles/" + a.ID[:8])
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("prefix get: status = %d", resp.StatusCode)
	}
	got := decodeArticle(t, resp)
	if got.ID != a.ID {
		t.Fatalf("prefix resolved to wrong article")
	}

	resp, _ = http.Get(api.URL + "/api/articles/zzzz")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing: status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	// Force an ambiguous prefix with fixed ids.
	st.NewID = func() string { return "aa" + time.Now().Format("150405.000000000") }
	resp = postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	resp.Body.Close()
	resp = postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	resp.Body.Close()

	resp, _ = http.Get(api.URL + "/api/articles/aa")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("ambiguous: status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPatchArticle(t *testing.T) {
	api, content, _ := newTestAPI(t)

	resp := postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	a := decodeArticle(t, resp)

	patch := func(body string) *http.Response {
		req, _ := http.NewRequest(http.MethodPatch, api.URL+"/api/articles/"+a.ID,
			bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	resp = patch(`{"title":"Renamed","priority":"low"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status = %d, want 200", resp.StatusCode)
	}
	got := decodeArticle(t, resp)
	if got.Title != "Renamed" || got.Priority != backlog.PriorityLow {
		t.Fatalf("patch not applied: %+v", got)
	}

	// Status is not patchable; it has its own transitions.
	resp = patch(`{"status":"read"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = patch(`{"priority":"urgent"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad priority: status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestReadUnreadCycle(t *testing.T) {
	api, content, _ := newTestAPI(t)

	resp := postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	a := decodeArticle(t, resp)

	resp = postJSON(t, api.URL+"/api/articles/"+a.ID+"/read", "")
	read := decodeArticle(t, resp)
	if read.Status != backlog.StatusRead || read.ReadAt == nil {
		t.Fatalf("read transition: %+v", read)
	}

	resp = postJSON(t, api.URL+"/api/articles/"+a.ID+"/unread", "")
	unread := decodeArticle(t, resp)
	if unread.Status != backlog.StatusUnread || unread.ReadAt != nil {
		t.Fatalf("unread transition: %+v", unread)
	}
}

func TestDeleteArticle(t *testing.T) {
	api, content, _ := newTestAPI(t)

	resp := postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	a := decodeArticle(t, resp)

	req, _ := http.NewRequest(http.MethodDelete, api.URL+"/api/articles/"+a.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status = %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if body["status"] != "deleted" || body["id"] != a.ID {
		t.Fatalf("delete response: %v", body)
	}

	req, _ = http.NewRequest(http.MethodDelete, api.URL+"/api/articles/"+a.ID, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("double delete: status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestExportEndpoint(t *testing.T) {
	api, content, _ := newTestAPI(t)
	resp := postJSON(t, api.URL+"/api/articles", fmt.Sprintf(`{"url":%q}`, content.URL))
	resp.Body.Close()

	resp, err := http.Get(api.URL + "/api/export")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestHealth(t *testing.T) {
	api, _, _ := newTestAPI(t)
	resp, err := http.Get(api.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status = %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	api, _, _ := newTestAPI(t)
	req, _ := http.NewRequest(http.MethodOptions, api.URL+"/api/articles", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight: status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}
