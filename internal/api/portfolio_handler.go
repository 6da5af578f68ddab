package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"folioforge/internal/api/middleware"
	"folioforge/internal/database"
	"folioforge/internal/tasks"
)

// taskEnqueuer is the slice of *asynq.Client this handler needs.
type taskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PortfolioHandler serves portfolio reads and the publish trigger.
type PortfolioHandler struct {
	db          *gorm.DB
	asynqClient taskEnqueuer
}

// NewPortfolioHandler builds the handler.
func NewPortfolioHandler(db *gorm.DB, asynqClient taskEnqueuer) *PortfolioHandler {
	return &PortfolioHandler{db: db, asynqClient: asynqClient}
}

var errInvalidPortfolioID = errors.New("invalid portfolio id")

type portfolioDetail struct {
	portfolioView
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// ListPortfolios lists the user's portfolios, newest first.
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var portfolios []database.Portfolio
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&portfolios).Error; err != nil {
		Internal(c, "failed to list portfolios")
		return
	}

	items := make([]portfolioView, 0, len(portfolios))
	for _, p := range portfolios {
		items = append(items, newPortfolioView(p))
	}
	c.JSON(http.StatusOK, items)
}

// GetPortfolio returns one portfolio with its full site content.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	p, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidPortfolioID):
			BadRequest(c, "invalid portfolio id")
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, "portfolio not found")
		default:
			Internal(c, "failed to query portfolio")
		}
		return
	}

	c.JSON(http.StatusOK, portfolioDetail{
		portfolioView: newPortfolioView(*p),
		HTML:          p.HTML,
		CSS:           p.CSS,
		JS:            p.JS,
	})
}

// GetPublishedPortfolio serves a published portfolio by slug and counts the view.
func (h *PortfolioHandler) GetPublishedPortfolio(c *gin.Context) {
	slugParam := c.Param("slug")
	ctx := c.Request.Context()

	var p database.Portfolio
	if err := h.db.WithContext(ctx).
		Where("slug = ? AND published = ?", slugParam, true).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "portfolio not found")
			return
		}
		Internal(c, "failed to query portfolio")
		return
	}

	if err := h.db.WithContext(ctx).Model(&database.Portfolio{}).
		Where("id = ?", p.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		// A lost view count must not block serving the page.
		middleware.LoggerFromContext(c).Warn("increment view count failed")
	}

	c.JSON(http.StatusOK, portfolioDetail{
		portfolioView: newPortfolioView(p),
		HTML:          p.HTML,
		CSS:           p.CSS,
		JS:            p.JS,
	})
}

// PublishPortfolio enqueues the publish task and returns 202 immediately.
func (h *PortfolioHandler) PublishPortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	p, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidPortfolioID):
			BadRequest(c, "invalid portfolio id")
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, "portfolio not found")
		default:
			Internal(c, "failed to query portfolio")
		}
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewPortfolioPublishTask(p.ID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue publish")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "publish request accepted",
		"task_id": info.ID,
	})
}

func (h *PortfolioHandler) getPortfolioForUser(ctx context.Context, idParam string, userID uint) (*database.Portfolio, error) {
	portfolioID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidPortfolioID
	}

	var p database.Portfolio
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(portfolioID), userID).
		First(&p).Error; err != nil {
		return nil, err
	}

	return &p, nil
}
