package genai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer responds to every request with the given status and body.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

func geminiSuccessBody(text string) []byte {
	resp := geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func openAISuccessBody(text string) []byte {
	resp := openAIResponse{
		Choices: []openAIChoice{
			{Message: openAIMessage{Role: "assistant", Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func TestGeminiGenerate_Success(t *testing.T) {
	want := `{"html":"<p>x</p>","css":"","js":""}`
	srv := newTestServer(t, http.StatusOK, geminiSuccessBody(want))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestGeminiGenerate_VerifiesRequest(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write(geminiSuccessBody("ok"))
	}))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "secret", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "behave", "do it"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(gotPath, "models/gemini-2.0-flash:generateContent") {
		t.Errorf("path: got %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api key header: got %q", gotKey)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "behave" {
		t.Errorf("system instruction not forwarded: %+v", gotBody.SystemInstruction)
	}
}

func TestGeminiGenerate_UpstreamError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{"error":"quota"}`))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"candidates":[]}`))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error when no candidates are returned")
	}
}

func TestOpenAIGenerate_Success(t *testing.T) {
	want := "Hello from the model"
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "gpt-4o", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestOpenAIGenerate_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(openAISuccessBody("ok"))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "secret", Model: "gpt-4o", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization header: got %q", gotAuth)
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider("gemini", ProviderConfig{APIKey: "k", Model: "m"}); err != nil {
		t.Errorf("gemini: %v", err)
	}
	if _, err := NewProvider("openai", ProviderConfig{APIKey: "k", Model: "m"}); err != nil {
		t.Errorf("openai: %v", err)
	}
	if _, err := NewProvider("gemini", ProviderConfig{Model: "m"}); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := NewProvider("martian", ProviderConfig{APIKey: "k"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
