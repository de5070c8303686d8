package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"GeneSetViz/pkg/config"
)

var (
	testAppOnce sync.Once
	testApp     *App
)

// newTestApp shares one App across tests so the Prometheus collectors are
// registered only once.
func newTestApp() *App {
	testAppOnce.Do(func() {
		cfg, _ := config.Load("")
		testApp = &App{
			Config:  cfg,
			Store:   NewRunStore(),
			Metrics: NewMetrics(),
		}
	})
	return testApp
}

func postForm(t *testing.T, mux http.Handler, path string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile(name, name+".tsv")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

var runIDPattern = regexp.MustCompile(`/download/([0-9a-f]+)/`)

func TestVennFlow(t *testing.T) {
	mux := newTestApp().Routes()

	rec := postForm(t, mux, "/", map[string]string{
		"split": "auto",
		"name1": "X", "list1": "a,b,c",
		"name2": "Y", "list2": "b,c,d",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "X ∩ Y") {
		t.Errorf("result page missing intersection label:\n%s", body)
	}
	if !strings.Contains(body, "b, c") {
		t.Errorf("result page missing intersection elements")
	}

	m := runIDPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatal("no run id in result page")
	}

	// the stored run serves the CSV download
	req := httptest.NewRequest(http.MethodGet, "/download/"+m[1]+"/intersections.csv", nil)
	dl := httptest.NewRecorder()
	mux.ServeHTTP(dl, req)
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d", dl.Code)
	}
	if got := dl.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q; want text/csv", got)
	}
	if !strings.Contains(dl.Body.String(), "X ∩ Y,2") {
		t.Errorf("csv missing intersection row:\n%s", dl.Body.String())
	}
}

func TestVennRejectsSingleSet(t *testing.T) {
	mux := newTestApp().Routes()
	rec := postForm(t, mux, "/", map[string]string{
		"name1": "X", "list1": "a,b",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "between 2 and 6") {
		t.Errorf("expected set-count warning, got:\n%s", rec.Body.String())
	}
}

func TestVennRejectsEmptySet(t *testing.T) {
	mux := newTestApp().Routes()
	rec := postForm(t, mux, "/", map[string]string{
		"name1": "X", "list1": "a,b",
		"name2": "Y", "list2": "nan",
	}, nil)
	if !strings.Contains(rec.Body.String(), "empty after normalization") {
		t.Errorf("expected empty-set warning, got:\n%s", rec.Body.String())
	}
}

func TestEnrichFlow(t *testing.T) {
	mux := newTestApp().Routes()

	rec := postForm(t, mux, "/enrich",
		map[string]string{
			"query":      "g1\ng2",
			"correction": "none",
		},
		map[string]string{
			"annotation": "g1\tGO:0003700\ng3\tGO:0003700\ng2\tGO:0006355\ng4\tGO:0006355\n",
		})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "GO:0003700") || !strings.Contains(body, "GO:0006355") {
		t.Errorf("result page missing terms:\n%s", body)
	}
}

func TestEnrichEmptyQueryWarning(t *testing.T) {
	mux := newTestApp().Routes()
	rec := postForm(t, mux, "/enrich",
		map[string]string{"query": "  "},
		map[string]string{"annotation": "g1\tGO:1\n"})
	if !strings.Contains(rec.Body.String(), "query gene list is empty") {
		t.Errorf("expected empty-query warning, got:\n%s", rec.Body.String())
	}
}

func TestDownloadUnknownRun(t *testing.T) {
	mux := newTestApp().Routes()
	req := httptest.NewRequest(http.MethodGet, "/download/deadbeef/intersections.csv", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}
