package paginate

import "testing"

func TestPDFMatcher_CaseSensitiveSuffix(t *testing.T) {
	m := PDFMatcher()
	if !m("/docs/report.pdf", "") {
		t.Fatalf("expected .pdf suffix to match")
	}
	if m("/docs/REPORT.PDF", "") {
		t.Fatalf("upper-case suffix must not match")
	}
	if m("/docs/report.pdf?dl=1", "") {
		t.Fatalf("query after suffix must not match")
	}
}

func TestKeywordMatcher(t *testing.T) {
	m := KeywordMatcher("Palm Oil", "PFAD", " ")
	if !m("/x", "Latest PALM OIL prices") {
		t.Fatalf("expected text match")
	}
	if !m("/market/pfad-2024", "") {
		t.Fatalf("expected href match")
	}
	if m("/other", "Soybean") {
		t.Fatalf("unexpected match")
	}
	if KeywordMatcher()("/palm", "palm oil") {
		t.Fatalf("empty keyword set should not match")
	}
}

func TestIsNextAnchor(t *testing.T) {
	for _, s := range []string{"Next", "next »", "NEXT PAGE", "›"} {
		if !IsNextAnchor(s) {
			t.Fatalf("%q should be a next anchor", s)
		}
	}
	for _, s := range []string{"Previous", "‹", "2"} {
		if IsNextAnchor(s) {
			t.Fatalf("%q should not be a next anchor", s)
		}
	}
}

func TestLinkResolve(t *testing.T) {
	got, err := Link{Href: "/list?p=2", Page: "https://a.com/list"}.Resolve()
	if err != nil || got != "https://a.com/list?p=2" {
		t.Fatalf("resolve = %q, %v", got, err)
	}
	got, err = Link{Href: " https://b.com/x.pdf ", Page: "https://a.com/list"}.Resolve()
	if err != nil || got != "https://b.com/x.pdf" {
		t.Fatalf("absolute href = %q, %v", got, err)
	}
	got, err = Link{Href: "files/r.pdf", Page: "https://a.com/reports/index.html"}.Resolve()
	if err != nil || got != "https://a.com/reports/files/r.pdf" {
		t.Fatalf("relative href = %q, %v", got, err)
	}
}
