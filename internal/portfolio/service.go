// Package portfolio implements the resume-to-portfolio generation workflow:
// prompt construction, the generation call, tolerant response extraction,
// two-phase persistence, and the fallback path.
package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/errcode"
	"folioforge/internal/genai"
	"folioforge/internal/slug"
)

// ErrNoStructuredData marks a request without resume data. It is terminal:
// no provider call and no persistence may happen.
var ErrNoStructuredData = errors.New("portfolio: no structured data provided")

const defaultTitle = "Untitled Portfolio"
const defaultTemplateID = "modern"

// GenerateRequest carries one generation request through the pipeline.
// UserID is nil for anonymous requests; those are generated but not persisted.
type GenerateRequest struct {
	StructuredData json.RawMessage
	UserID         *uint
	TemplateID     string
	Metadata       json.RawMessage
	Customizations json.RawMessage
}

// GenerateResult is what the workflow hands back to the HTTP layer.
// Saved is true only when both persistence phases committed. Fallback is true
// when the fixed fallback triple was substituted for failed generation.
type GenerateResult struct {
	Content  genai.SiteContent
	Saved    bool
	Fallback bool
}

// Service orchestrates generation and persistence.
type Service struct {
	db       *gorm.DB
	provider genai.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds the workflow service. The provider must be non-nil; a
// missing generation credential is a startup failure, not a per-request one.
func NewService(db *gorm.DB, provider genai.Provider, logger *slog.Logger) (*Service, error) {
	if provider == nil {
		return nil, errors.New("portfolio: generation provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:       db,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Generate runs the full pipeline for one request.
//
// Failure semantics: a generation or extraction failure yields the fixed
// fallback triple and no persistence. A persistence failure after successful
// generation returns the GENERATED content with Saved=false instead of
// discarding it; only the save is lost, and the caller can tell.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if len(req.StructuredData) == 0 {
		return GenerateResult{}, ErrNoStructuredData
	}

	prompt := genai.BuildPrompt(req.StructuredData)

	raw, err := s.provider.Generate(ctx, genai.SystemPrompt(), prompt)
	if err != nil {
		s.logger.Error("generation call failed, serving fallback content",
			slog.String("provider", s.provider.Name()),
			slog.Int("error_code", errcode.ContentFallback),
			slog.Any("error", err),
		)
		return GenerateResult{Content: genai.FallbackContent(), Fallback: true}, nil
	}

	content, err := genai.ExtractSiteContent(raw)
	if err != nil {
		s.logger.Error("response extraction failed, serving fallback content",
			slog.Int("error_code", errcode.ContentFallback),
			slog.Any("error", err),
		)
		return GenerateResult{Content: genai.FallbackContent(), Fallback: true}, nil
	}

	if req.UserID == nil {
		return GenerateResult{Content: content}, nil
	}

	if err := s.persist(ctx, *req.UserID, req, content); err != nil {
		s.logger.Error("persistence failed, returning unsaved generated content",
			slog.Uint64("user_id", uint64(*req.UserID)),
			slog.Int("error_code", errcode.NotPersisted),
			slog.Any("error", err),
		)
		return GenerateResult{Content: content, Saved: false}, nil
	}

	return GenerateResult{Content: content, Saved: true}, nil
}

// persist writes the PortfolioData row, then the Portfolio row referencing
// it. The two inserts are strictly sequential: phase B needs phase A's
// generated identifier. There is no rollback of phase A if phase B fails.
func (s *Service) persist(ctx context.Context, userID uint, req GenerateRequest, content genai.SiteContent) error {
	categories := splitCategories(req.StructuredData)

	dataRow := database.PortfolioData{
		UserID:         userID,
		PersonalInfo:   categories.mapping("personalInfo"),
		Summary:        categories.mapping("professionalSummary"),
		Experience:     categories.sequence("experience"),
		Education:      categories.sequence("education"),
		Skills:         categories.sequence("skills"),
		Projects:       categories.sequence("projects"),
		Certifications: categories.sequence("certifications"),
		Achievements:   categories.sequence("achievements"),
		Languages:      categories.sequence("languages"),
		AIEnhanced:     true,
	}
	if err := s.db.WithContext(ctx).Create(&dataRow).Error; err != nil {
		return fmt.Errorf("insert portfolio data: %w", err)
	}

	name := personalName(categories.mapping("personalInfo"))
	title := defaultTitle
	if name != "" {
		title = name
	}

	templateID := req.TemplateID
	if templateID == "" {
		templateID = defaultTemplateID
	}

	row := database.Portfolio{
		UserID:          userID,
		PortfolioDataID: dataRow.ID,
		Title:           title,
		Slug:            slug.WithTimestamp(name, s.now()),
		TemplateID:      templateID,
		HTML:            content.HTML,
		CSS:             content.CSS,
		JS:              content.JS,
		Metadata:        jsonOrEmptyObject(req.Metadata),
		Customizations:  jsonOrEmptyObject(req.Customizations),
		Published:       false,
		ViewCount:       0,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert portfolio: %w", err)
	}

	return nil
}

type categorySet map[string]json.RawMessage

func splitCategories(structured json.RawMessage) categorySet {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(structured, &m); err != nil {
		return categorySet{}
	}
	return categorySet(m)
}

func (c categorySet) mapping(key string) datatypes.JSON {
	if v, ok := c[key]; ok && len(v) > 0 && string(v) != "null" {
		return datatypes.JSON(v)
	}
	return datatypes.JSON([]byte("{}"))
}

func (c categorySet) sequence(key string) datatypes.JSON {
	if v, ok := c[key]; ok && len(v) > 0 && string(v) != "null" {
		return datatypes.JSON(v)
	}
	return datatypes.JSON([]byte("[]"))
}

func jsonOrEmptyObject(raw json.RawMessage) datatypes.JSON {
	if len(raw) > 0 && string(raw) != "null" {
		return datatypes.JSON(raw)
	}
	return datatypes.JSON([]byte("{}"))
}

func personalName(personalInfo datatypes.JSON) string {
	var info struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(personalInfo, &info); err != nil {
		return ""
	}
	return info.Name
}
