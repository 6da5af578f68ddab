package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/errcode"
	"folioforge/internal/storage"
	"folioforge/internal/tasks"
)

// PublishTaskHandler consumes portfolio publish tasks: it composes the
// standalone page, uploads it, captures a preview and notifies the owner.
type PublishTaskHandler struct {
	db              *gorm.DB
	storage         *storage.Client
	redisClient     redis.UniversalClient
	logger          *slog.Logger
	frontendBaseURL string
}

// NewPublishTaskHandler creates the task handler.
func NewPublishTaskHandler(
	db *gorm.DB,
	storageClient *storage.Client,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	frontendBaseURL string,
) *PublishTaskHandler {
	return &PublishTaskHandler{
		db:              db,
		storage:         storageClient,
		redisClient:     redisClient,
		logger:          logger,
		frontendBaseURL: strings.TrimRight(strings.TrimSpace(frontendBaseURL), "/"),
	}
}

// ProcessTask implements asynq.Handler.
func (h *PublishTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.PortfolioPublishPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("portfolio_id", int(payload.PortfolioID)),
	)
	log.Info("Starting portfolio publish task...")

	var p database.Portfolio
	if err := h.db.WithContext(ctx).First(&p, payload.PortfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("portfolio not found, skipping task")
			return nil
		}
		log.Error("query portfolio failed", slog.Any("error", err))
		return err
	}

	log = log.With(slog.Uint64("user_id", uint64(p.UserID)))

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}

		notify := PortfolioPublishNotifyMessage{
			Status:        "error",
			PortfolioID:   p.ID,
			Slug:          p.Slug,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishNotify(ctx, p.UserID, notify); err != nil {
			log.Error("publish error notification failed", slog.Any("error", err))
		}
	}()

	doc := ComposeStandaloneHTML(p.Title, p.HTML, p.CSS, p.JS)
	objectKey := fmt.Sprintf("published/%d/%s/index.html", p.UserID, p.Slug)
	reader := bytes.NewReader([]byte(doc))
	if _, err := h.storage.UploadFile(ctx, objectKey, reader, int64(len(doc)), "text/html; charset=utf-8"); err != nil {
		log.Error("upload published page failed", slog.Any("error", err))
		return err
	}

	update := map[string]any{
		"published":            true,
		"published_object_key": objectKey,
	}
	if err := h.db.WithContext(ctx).Model(&p).Updates(update).Error; err != nil {
		log.Error("update portfolio failed", slog.Any("error", err))
		return err
	}

	publicURL := fmt.Sprintf("%s/p/%s", h.frontendBaseURL, p.Slug)
	notify := PortfolioPublishNotifyMessage{
		Status:        "completed",
		PortfolioID:   p.ID,
		Slug:          p.Slug,
		PublicURL:     publicURL,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := h.publishNotify(ctx, p.UserID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	if err := h.generatePreviewImage(ctx, &p, publicURL); err != nil {
		log.Warn("generate portfolio preview failed", slog.Any("error", err))
	}

	log.Info("Portfolio publish task completed successfully.")
	return nil
}

func (h *PublishTaskHandler) publishNotify(ctx context.Context, userID uint, notify PortfolioPublishNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func (h *PublishTaskHandler) generatePreviewImage(ctx context.Context, p *database.Portfolio, publicURL string) error {
	const (
		previewQuality = 80
		presignTTL     = 7 * 24 * time.Hour
	)

	page, cleanup, err := renderPublishedPage(h.logger, publicURL)
	if err != nil {
		return fmt.Errorf("render published page: %w", err)
	}
	defer cleanup()

	previewBytes, err := capturePreviewScreenshot(page, previewQuality)
	if err != nil {
		return fmt.Errorf("capture preview screenshot: %w", err)
	}

	objectName := fmt.Sprintf("thumbnails/portfolio/%d/preview.jpg", p.ID)
	reader := bytes.NewReader(previewBytes)
	if _, err := h.storage.UploadFile(ctx, objectName, reader, int64(len(previewBytes)), "image/jpeg"); err != nil {
		return fmt.Errorf("upload preview image: %w", err)
	}

	presignedURL, err := h.storage.GeneratePresignedURL(ctx, objectName, presignTTL)
	if err != nil {
		return fmt.Errorf("generate preview presigned url: %w", err)
	}

	if err := h.db.WithContext(ctx).Model(p).UpdateColumn("preview_image_url", presignedURL).Error; err != nil {
		return fmt.Errorf("update portfolio preview url: %w", err)
	}

	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
