package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/oiltrends/internal/pipeline"
	"github.com/hyperifyio/oiltrends/internal/trend"
)

// stubLLM records chat requests and answers with a fixed completion.
type stubLLM struct {
	mu       sync.Mutex
	requests []string
	reply    string
}

func (s *stubLLM) register(mux *http.ServeMux, model string) {
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		user := ""
		if len(req.Messages) >= 2 {
			user = req.Messages[1].Content
		}
		s.mu.Lock()
		s.requests = append(s.requests, user)
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"model":   model,
			"choices": []map[string]any{{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": s.reply}}},
		})
	})
}

func (s *stubLLM) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func renderPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(40, 10, text)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	return buf.Bytes()
}

func serveHTML(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}
}

func servePDF(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(data)
	}
}

func newTestApp(t *testing.T, srv *httptest.Server, model string) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.LLMBaseURL = srv.URL + "/v1"
	cfg.LLMModel = model
	cfg.LLMAPIKey = "test"
	if err := ValidateConfig(cfg, true); err != nil {
		t.Fatalf("validate: %v", err)
	}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestFindPDFLinksAndSummarize_EndToEnd(t *testing.T) {
	const model = "gemini-2.0-flash"
	llm := &stubLLM{reply: "- Palm oil prices rose on tight supply."}
	mux := http.NewServeMux()
	llm.register(mux, model)
	mux.HandleFunc("/reports", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			serveHTML(`<html><body><a href="/files/q2.pdf">Q2</a></body></html>`)(w, r)
			return
		}
		serveHTML(`<html><body>
<a href="/files/q1.pdf">Q1</a>
<a href="/files/missing.pdf">Q0</a>
<a href="/files/notes.PDF">notes</a>
<a href="/reports?page=2">Next ›</a>
</body></html>`)(w, r)
	})
	mux.HandleFunc("/files/q1.pdf", servePDF(renderPDF(t, "Palm Oil price increased to 950 in March 2024.")))
	mux.HandleFunc("/files/q2.pdf", servePDF(renderPDF(t, "PFAD export demand is down to 400 in Apr 2024.")))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestApp(t, srv, model)
	a.Preflight(context.Background())
	res, err := a.FindPDFLinksAndSummarize(context.Background(), srv.URL+"/reports", 3)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Summary != "- Palm oil prices rose on tight supply." {
		t.Fatalf("unexpected summary %q", res.Summary)
	}
	if len(res.Links) != 3 {
		t.Fatalf("expected 3 PDF links (case-sensitive suffix), got %+v", res.Links)
	}
	if len(res.Notices) != 1 || res.Notices[0].Kind != pipeline.NoticeFetch || !strings.HasSuffix(res.Notices[0].URL, "/files/missing.pdf") {
		t.Fatalf("expected one fetch notice for missing.pdf, got %+v", res.Notices)
	}
	if res.Documents != 2 {
		t.Fatalf("expected 2 documents, got %d", res.Documents)
	}
	if got := res.Report.Records[trend.PFAD]; len(got) != 1 || got[0].Direction != trend.Down {
		t.Fatalf("unexpected PFAD records %+v", got)
	}
	calls := llm.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one chat completion, got %d", len(calls))
	}
	if !strings.HasPrefix(calls[0], pipeline.DefaultInstruction) || !strings.Contains(calls[0], "Palm Oil price increased to 950") {
		t.Fatalf("unexpected prompt sent to LLM:\n%s", calls[0])
	}
}

func TestFindPDFLinksAndSummarize_NoLinks(t *testing.T) {
	llm := &stubLLM{reply: "unused"}
	mux := http.NewServeMux()
	llm.register(mux, "m")
	mux.HandleFunc("/empty", serveHTML(`<html><body><a href="/a.html">a</a></body></html>`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestApp(t, srv, "m")
	_, err := a.FindPDFLinksAndSummarize(context.Background(), srv.URL+"/empty", 1)
	if !errors.Is(err, pipeline.ErrNoLinksFound) {
		t.Fatalf("expected ErrNoLinksFound, got %v", err)
	}
	if n := len(llm.calls()); n != 0 {
		t.Fatalf("LLM must not be called, got %d calls", n)
	}
}

func TestFindPDFLinksAndSummarize_LLMFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	})
	mux.HandleFunc("/list", serveHTML(`<a href="/r.pdf">r</a>`))
	mux.HandleFunc("/r.pdf", servePDF(renderPDF(t, "Sunflower Oil price fell.")))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestApp(t, srv, "m")
	_, err := a.FindPDFLinksAndSummarize(context.Background(), srv.URL+"/list", 1)
	if !errors.Is(err, pipeline.ErrSummarizationFailed) {
		t.Fatalf("expected ErrSummarizationFailed, got %v", err)
	}
}

func TestFindKeywordLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/news", serveHTML(`<html><body>
<a href="/palm-oil-weekly">Weekly</a>
<a href="/misc">Bio-Diesel blending rules</a>
<a href="/other">Other</a>
<a href="/news/2">Next</a>
</body></html>`))
	mux.HandleFunc("/news/2", serveHTML(`<a href="/pfad">PFAD outlook</a>`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Keywords = []string{"Palm-Oil", "Bio-diesel", "PFAD"}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	links, err := a.FindKeywordLinks(context.Background(), srv.URL+"/news", 2)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []string{"/palm-oil-weekly", "/misc", "/pfad"}
	if len(links) != len(want) {
		t.Fatalf("got %+v, want %v", links, want)
	}
	for i, l := range links {
		if l.Href != want[i] {
			t.Fatalf("link %d = %q, want %q", i, l.Href, want[i])
		}
	}
	abs, err := links[2].Resolve()
	if err != nil || abs != srv.URL+"/pfad" {
		t.Fatalf("resolve = %q, %v", abs, err)
	}

	if _, err := a.FindKeywordLinks(context.Background(), srv.URL+"/news/2", 1); err != nil {
		t.Fatalf("second page alone: %v", err)
	}
	cfg.Keywords = []string{"Rapeseed"}
	b, _ := New(context.Background(), cfg)
	defer b.Close()
	if _, err := b.FindKeywordLinks(context.Background(), srv.URL+"/news/2", 1); !errors.Is(err, ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
}

func TestAnalyzePage(t *testing.T) {
	article := `<html><head><title>Vegetable oils weekly</title></head><body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Vegetable oils weekly</h1>
<p>Palm Oil price increased to 1,020 in Feb 2024 as export volumes from Indonesia slowed sharply.</p>
<p>Sunflower Oil supply stayed ample across the Black Sea region, while buyers waited for new crop offers.</p>
<p>Analysts said weather risks remain the main driver for the coming weeks of trading in Rotterdam.</p>
</article>
</body></html>`
	mux := http.NewServeMux()
	mux.HandleFunc("/weekly", serveHTML(article))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a, err := New(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	pa, err := a.AnalyzePage(context.Background(), srv.URL+"/weekly")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	recs := pa.Report.Records[trend.PalmOil]
	if len(recs) != 1 || recs[0].Direction != trend.Up || recs[0].Number != "1,020" || recs[0].Date != "Feb 2024" {
		t.Fatalf("unexpected palm oil records %+v", recs)
	}
	if len(pa.Report.Records[trend.SunflowerOil]) != 1 {
		t.Fatalf("expected sunflower oil record, got %+v", pa.Report.Records)
	}
	if pa.Report.Summary(trend.RapeseedOil) != trend.NoDataSentinel {
		t.Fatalf("rapeseed should have no data")
	}
}

func TestAnalyzePage_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	a, err := New(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	if _, err := a.AnalyzePage(context.Background(), srv.URL+"/gone"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_SSLVerifyOffKeepsLLMVerified(t *testing.T) {
	var mu sync.Mutex
	var auth []string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = append(auth, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/r/palm-oil.pdf">Palm-Oil weekly</a>`))
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.SSLVerify = false
	cfg.LLMBaseURL = srv.URL + "/v1"
	cfg.LLMAPIKey = "secret-key"
	cfg.Keywords = []string{"Palm-Oil"}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	links, err := a.FindKeywordLinks(context.Background(), srv.URL+"/page", 1)
	if err != nil || len(links) != 1 {
		t.Fatalf("page fetch should accept the self-signed certificate: links=%v err=%v", links, err)
	}
	if _, err := a.provider.ListModels(context.Background()); err == nil {
		t.Fatal("LLM request must reject an untrusted certificate")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(auth) != 0 {
		t.Fatalf("API key reached an unverified server: %v", auth)
	}
}
