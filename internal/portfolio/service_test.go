package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/genai"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.PortfolioData{}, &database.Portfolio{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, provider genai.Provider) *Service {
	t.Helper()
	svc, err := NewService(db, provider, slog.Default())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func uintPtr(v uint) *uint { return &v }

const wellFormedResponse = `Here is your portfolio:
{"html":"<main>Ada</main>","css":"main{color:#333}","js":"console.log('hi')"}
Enjoy!`

func TestGenerate_MissingStructuredData(t *testing.T) {
	provider := &fakeProvider{response: wellFormedResponse}
	svc := newTestService(t, newTestDB(t), provider)

	_, err := svc.Generate(context.Background(), GenerateRequest{})
	if !errors.Is(err, ErrNoStructuredData) {
		t.Fatalf("expected ErrNoStructuredData, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider must not be called, got %d calls", provider.calls)
	}
}

func TestGenerate_SuccessPersistsLinkedRecords(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeProvider{response: wellFormedResponse})

	req := GenerateRequest{
		StructuredData: json.RawMessage(`{"personalInfo":{"name":"Ada Lovelace"},"skills":["Go","SQL"]}`),
		UserID:         uintPtr(42),
	}
	res, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.Saved || res.Fallback {
		t.Fatalf("expected saved non-fallback result: %+v", res)
	}
	if res.Content.HTML != "<main>Ada</main>" {
		t.Errorf("html: got %q", res.Content.HTML)
	}

	var dataRows []database.PortfolioData
	if err := db.Find(&dataRows).Error; err != nil {
		t.Fatalf("query portfolio data: %v", err)
	}
	if len(dataRows) != 1 {
		t.Fatalf("expected exactly one PortfolioData row, got %d", len(dataRows))
	}
	if !dataRows[0].AIEnhanced || dataRows[0].UserID != 42 {
		t.Errorf("unexpected data row: %+v", dataRows[0])
	}
	// Absent categories must be stored as empty sequences, never null.
	if string(dataRows[0].Experience) != "[]" {
		t.Errorf("experience default: got %s", dataRows[0].Experience)
	}

	var folios []database.Portfolio
	if err := db.Find(&folios).Error; err != nil {
		t.Fatalf("query portfolios: %v", err)
	}
	if len(folios) != 1 {
		t.Fatalf("expected exactly one Portfolio row, got %d", len(folios))
	}
	p := folios[0]
	if p.PortfolioDataID != dataRows[0].ID {
		t.Errorf("portfolio not linked: data id %d, fk %d", dataRows[0].ID, p.PortfolioDataID)
	}
	if p.Title != "Ada Lovelace" {
		t.Errorf("title: got %q", p.Title)
	}
	if p.Published || p.ViewCount != 0 {
		t.Errorf("new portfolio must be unpublished with zero views: %+v", p)
	}
	if p.HTML == "" || string(p.Metadata) != "{}" {
		t.Errorf("content/metadata defaults wrong: %+v", p)
	}
}

func TestGenerate_DefaultTitleAndSlugFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeProvider{response: wellFormedResponse})
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	req := GenerateRequest{
		StructuredData: json.RawMessage(`{"skills":["Go"]}`),
		UserID:         uintPtr(1),
	}
	if _, err := svc.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var p database.Portfolio
	if err := db.First(&p).Error; err != nil {
		t.Fatalf("load portfolio: %v", err)
	}
	if p.Title != "Untitled Portfolio" {
		t.Errorf("title: got %q", p.Title)
	}
	if p.Slug != "portfolio-1700000000000" {
		t.Errorf("slug: got %q", p.Slug)
	}
}

func TestGenerate_RepeatRequestsProduceDistinctRecords(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeProvider{response: wellFormedResponse})

	ts := int64(1700000000000)
	svc.now = func() time.Time {
		ts++
		return time.UnixMilli(ts)
	}

	req := GenerateRequest{
		StructuredData: json.RawMessage(`{"personalInfo":{"name":"Ada"}}`),
		UserID:         uintPtr(1),
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Generate(context.Background(), req); err != nil {
			t.Fatalf("Generate %d: %v", i, err)
		}
	}

	var folios []database.Portfolio
	if err := db.Find(&folios).Error; err != nil {
		t.Fatalf("query portfolios: %v", err)
	}
	if len(folios) != 2 {
		t.Fatalf("expected two portfolios, got %d", len(folios))
	}
	if folios[0].Slug == folios[1].Slug {
		t.Errorf("slugs must differ, both %q", folios[0].Slug)
	}
}

func TestGenerate_AnonymousSkipsPersistence(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeProvider{response: wellFormedResponse})

	res, err := svc.Generate(context.Background(), GenerateRequest{
		StructuredData: json.RawMessage(`{"personalInfo":{"name":"Ada"}}`),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Saved {
		t.Error("anonymous request must not report saved")
	}
	if res.Content.HTML != "<main>Ada</main>" {
		t.Errorf("content: got %+v", res.Content)
	}

	var count int64
	db.Model(&database.PortfolioData{}).Count(&count)
	if count != 0 {
		t.Errorf("expected zero PortfolioData rows, got %d", count)
	}
	db.Model(&database.Portfolio{}).Count(&count)
	if count != 0 {
		t.Errorf("expected zero Portfolio rows, got %d", count)
	}
}

func TestGenerate_ProviderErrorYieldsFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeProvider{err: errors.New("quota exceeded")})

	res, err := svc.Generate(context.Background(), GenerateRequest{
		StructuredData: json.RawMessage(`{"skills":[]}`),
		UserID:         uintPtr(1),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.Fallback || res.Saved {
		t.Fatalf("expected unsaved fallback result: %+v", res)
	}
	if res.Content != genai.FallbackContent() {
		t.Errorf("expected the fixed fallback triple, got %+v", res.Content)
	}

	var count int64
	db.Model(&database.PortfolioData{}).Count(&count)
	if count != 0 {
		t.Errorf("fallback must not persist, got %d rows", count)
	}
}

func TestGenerate_UnparseableResponseYieldsFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeProvider{response: "no json here at all"})

	res, err := svc.Generate(context.Background(), GenerateRequest{
		StructuredData: json.RawMessage(`{"skills":[]}`),
		UserID:         uintPtr(1),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.Fallback || res.Content != genai.FallbackContent() {
		t.Fatalf("expected fallback triple: %+v", res)
	}

	var count int64
	db.Model(&database.Portfolio{}).Count(&count)
	if count != 0 {
		t.Errorf("fallback must not persist, got %d rows", count)
	}
}

func TestGenerate_MalformedJSONYieldsFallback(t *testing.T) {
	svc := newTestService(t, newTestDB(t), &fakeProvider{response: `sure {"html": "<p>` + "`" + `} bye`})

	res, err := svc.Generate(context.Background(), GenerateRequest{
		StructuredData: json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.Fallback {
		t.Fatalf("expected fallback for malformed payload: %+v", res)
	}
}

func TestGenerate_PersistenceFailureKeepsGeneratedContent(t *testing.T) {
	// Only the PortfolioData table exists; phase B must fail after phase A.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.PortfolioData{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := newTestService(t, db, &fakeProvider{response: wellFormedResponse})
	res, err := svc.Generate(context.Background(), GenerateRequest{
		StructuredData: json.RawMessage(`{"personalInfo":{"name":"Ada"}}`),
		UserID:         uintPtr(1),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Saved {
		t.Error("failed persistence must not report saved")
	}
	if res.Fallback || res.Content.HTML != "<main>Ada</main>" {
		t.Errorf("generated content must survive a persistence failure: %+v", res)
	}

	// Phase A committed and is not rolled back.
	var count int64
	db.Model(&database.PortfolioData{}).Count(&count)
	if count != 1 {
		t.Errorf("expected the phase-A row to remain, got %d", count)
	}
}
