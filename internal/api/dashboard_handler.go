package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"folioforge/internal/database"
)

// DashboardHandler assembles the profile/resumes/portfolios view.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type profileView struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Headline    string `json:"headline"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type resumeView struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        time.Time `json:"created_at"`
}

type portfolioView struct {
	ID              uint           `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	TemplateID      string         `json:"template_id"`
	Published       bool           `json:"published"`
	ViewCount       int64          `json:"view_count"`
	PreviewImageURL string         `json:"preview_image_url,omitempty"`
	Metadata        datatypes.JSON `json:"metadata"`
	CreatedAt       time.Time      `json:"created_at"`
}

type dashboardResponse struct {
	Profile    profileView     `json:"profile"`
	Resumes    []resumeView    `json:"resumes"`
	Portfolios []portfolioView `json:"portfolios"`
}

// GetDashboard issues the three reads concurrently; none depends on another,
// and the view renders only once all have completed.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var (
		user       database.User
		resumes    []database.Resume
		portfolios []database.Portfolio
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.db.WithContext(ctx).First(&user, userID).Error
	})
	g.Go(func() error {
		return h.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&resumes).Error
	})
	g.Go(func() error {
		return h.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&portfolios).Error
	})
	if err := g.Wait(); err != nil {
		Internal(c, "failed to load dashboard")
		return
	}

	resumeItems := make([]resumeView, 0, len(resumes))
	for _, r := range resumes {
		status := r.ProcessingStatus
		if status == "" {
			status = "completed"
		}
		resumeItems = append(resumeItems, resumeView{
			ID:               r.ID,
			Title:            r.Title,
			ProcessingStatus: status,
			CreatedAt:        r.CreatedAt,
		})
	}

	portfolioItems := make([]portfolioView, 0, len(portfolios))
	for _, p := range portfolios {
		portfolioItems = append(portfolioItems, newPortfolioView(p))
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Profile: profileView{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Headline:    user.Headline,
			AvatarURL:   user.AvatarURL,
		},
		Resumes:    resumeItems,
		Portfolios: portfolioItems,
	})
}

func newPortfolioView(p database.Portfolio) portfolioView {
	metadata := p.Metadata
	if len(metadata) == 0 {
		metadata = datatypes.JSON([]byte("{}"))
	}
	return portfolioView{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		TemplateID:      p.TemplateID,
		Published:       p.Published,
		ViewCount:       p.ViewCount,
		PreviewImageURL: p.PreviewImageURL,
		Metadata:        metadata,
		CreatedAt:       p.CreatedAt,
	}
}
