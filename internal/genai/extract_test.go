package genai

import (
	"errors"
	"testing"
)

func TestExtractSiteContent_PureJSON(t *testing.T) {
	got, err := ExtractSiteContent(`{"html":"<p>x</p>","css":"body{}","js":"void 0"}`)
	if err != nil {
		t.Fatalf("ExtractSiteContent: %v", err)
	}
	if got.HTML != "<p>x</p>" || got.CSS != "body{}" || got.JS != "void 0" {
		t.Errorf("unexpected content: %+v", got)
	}
}

func TestExtractSiteContent_SurroundingProse(t *testing.T) {
	raw := `Sure! {"html":"<p>x</p>","css":"","js":""} Hope that helps!`
	got, err := ExtractSiteContent(raw)
	if err != nil {
		t.Fatalf("ExtractSiteContent: %v", err)
	}
	if got.HTML != "<p>x</p>" {
		t.Errorf("html: got %q", got.HTML)
	}
	if got.CSS != "" || got.JS != "" {
		t.Errorf("expected empty css/js, got %+v", got)
	}
}

func TestExtractSiteContent_MissingKeysDefaultEmpty(t *testing.T) {
	got, err := ExtractSiteContent(`{"html":"<div></div>"}`)
	if err != nil {
		t.Fatalf("ExtractSiteContent: %v", err)
	}
	if got.CSS != "" || got.JS != "" {
		t.Errorf("missing keys must default to empty strings, got %+v", got)
	}
}

func TestExtractSiteContent_NoBraces(t *testing.T) {
	_, err := ExtractSiteContent("I could not generate a site, sorry.")
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("expected ErrUnparseableResponse, got %v", err)
	}
}

func TestExtractSiteContent_ReversedBraces(t *testing.T) {
	_, err := ExtractSiteContent("} nothing useful {")
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("expected ErrUnparseableResponse, got %v", err)
	}
}

func TestExtractSiteContent_MalformedJSON(t *testing.T) {
	if _, err := ExtractSiteContent(`prefix {"html": "<p>} suffix`); err == nil {
		t.Fatal("expected error for malformed JSON inside braces")
	}
}

func TestExtractSiteContent_NonStringValuesRejected(t *testing.T) {
	if _, err := ExtractSiteContent(`{"html": 42, "css": "", "js": ""}`); err == nil {
		t.Fatal("expected schema rejection for non-string html")
	}
}

func TestFallbackContent_AllFieldsPresent(t *testing.T) {
	fb := FallbackContent()
	if fb.HTML == "" || fb.CSS == "" || fb.JS == "" {
		t.Fatalf("fallback triple must be fully populated: %+v", fb)
	}
	// The fallback is fixed content; two calls must agree.
	if fb != FallbackContent() {
		t.Error("fallback content must be deterministic")
	}
}
