package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"folioforge/internal/portfolio"
)

// generateService is the slice of the portfolio service this handler needs.
type generateService interface {
	Generate(ctx context.Context, req portfolio.GenerateRequest) (portfolio.GenerateResult, error)
}

// GenerateHandler serves the resume-to-portfolio generation endpoint.
type GenerateHandler struct {
	service generateService
	logger  *slog.Logger
}

// NewGenerateHandler builds the handler.
func NewGenerateHandler(service generateService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{service: service, logger: logger}
}

type generateRequest struct {
	StructuredData json.RawMessage `json:"structuredData"`
	UserID         *uint           `json:"userId"`
	TemplateID     string          `json:"templateId"`
	Metadata       json.RawMessage `json:"metadata"`
	Customizations json.RawMessage `json:"customizations"`
}

type siteContentResponse struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

type generateResponse struct {
	Success   bool                `json:"success"`
	Saved     bool                `json:"saved"`
	Portfolio siteContentResponse `json:"portfolio"`
}

// Generate runs the generation workflow for one request. The user identity
// comes from the authenticated context when present; the legacy body field
// is honored only for unauthenticated callers.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "No structured data provided")
		return
	}
	if len(req.StructuredData) == 0 || string(req.StructuredData) == "null" {
		BadRequest(c, "No structured data provided")
		return
	}

	userID := req.UserID
	if id, ok := userIDFromContext(c); ok {
		userID = &id
	}

	result, err := h.service.Generate(c.Request.Context(), portfolio.GenerateRequest{
		StructuredData: req.StructuredData,
		UserID:         userID,
		TemplateID:     req.TemplateID,
		Metadata:       req.Metadata,
		Customizations: req.Customizations,
	})
	if err != nil {
		if errors.Is(err, portfolio.ErrNoStructuredData) {
			BadRequest(c, "No structured data provided")
			return
		}
		Internal(c, "generation failed")
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Success: true,
		Saved:   result.Saved,
		Portfolio: siteContentResponse{
			HTML: result.Content.HTML,
			CSS:  result.Content.CSS,
			JS:   result.Content.JS,
		},
	})
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
