package worker

import (
	"strings"
	"testing"
)

func TestComposeStandaloneHTMLWrapsFragment(t *testing.T) {
	doc := ComposeStandaloneHTML(
		"Jane Doe <Portfolio>",
		"<main><h1>Jane Doe</h1></main>",
		"body { margin: 0; }",
		"console.log(\"ready\");",
	)

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Fatalf("expected doctype prefix, got %q", doc[:30])
	}
	if !strings.Contains(doc, "<title>Jane Doe &lt;Portfolio&gt;</title>") {
		t.Errorf("title should be HTML-escaped, got:\n%s", doc)
	}
	if !strings.Contains(doc, "body { margin: 0; }") {
		t.Error("stylesheet missing from composed document")
	}
	if !strings.Contains(doc, "<main><h1>Jane Doe</h1></main>") {
		t.Error("markup missing from composed document")
	}
	if !strings.Contains(doc, "console.log(\"ready\");") {
		t.Error("script missing from composed document")
	}

	styleIdx := strings.Index(doc, "<style>")
	bodyIdx := strings.Index(doc, "<body>")
	scriptIdx := strings.Index(doc, "<script>")
	if !(styleIdx < bodyIdx && bodyIdx < scriptIdx) {
		t.Errorf("expected style before body before script, got indexes %d %d %d", styleIdx, bodyIdx, scriptIdx)
	}
}

func TestComposeStandaloneHTMLOmitsEmptyBlocks(t *testing.T) {
	doc := ComposeStandaloneHTML("T", "<p>hi</p>", "", "  ")

	if strings.Contains(doc, "<style>") {
		t.Error("empty stylesheet should not produce a style tag")
	}
	if strings.Contains(doc, "<script>") {
		t.Error("blank script should not produce a script tag")
	}
}

func TestComposeStandaloneHTMLInjectsIntoFullDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><head><title>x</title></head><body><p>hi</p></body></html>"
	doc := ComposeStandaloneHTML("ignored", full, ".a{}", "var a=1;")

	if strings.Count(doc, "<html") != 1 {
		t.Fatalf("full document must not be wrapped again:\n%s", doc)
	}
	styleIdx := strings.Index(doc, "<style>")
	headEnd := strings.Index(doc, "</head>")
	if styleIdx < 0 || styleIdx > headEnd {
		t.Errorf("style should be injected before </head>, got style=%d head=%d", styleIdx, headEnd)
	}
	scriptIdx := strings.Index(doc, "<script>")
	bodyEnd := strings.Index(doc, "</body>")
	if scriptIdx < 0 || scriptIdx > bodyEnd {
		t.Errorf("script should be injected before </body>, got script=%d body=%d", scriptIdx, bodyEnd)
	}
	if strings.Contains(doc, "<title>ignored</title>") {
		t.Error("existing document title must be preserved")
	}
}
