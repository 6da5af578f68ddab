package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"folioforge/internal/database"
)

// resumeStorage is the slice of the storage client this handler needs.
type resumeStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
}

// ResumeHandler handles resume file uploads and download links.
type ResumeHandler struct {
	db        *gorm.DB
	storage   resumeStorage
	logger    *slog.Logger
	clamdAddr string
	maxBytes  int64
}

// NewResumeHandler builds the handler. An empty clamdAddr disables scanning.
func NewResumeHandler(db *gorm.DB, storage resumeStorage, logger *slog.Logger, clamdAddr string, maxBytes int64) *ResumeHandler {
	return &ResumeHandler{
		db:        db,
		storage:   storage,
		logger:    logger,
		clamdAddr: clamdAddr,
		maxBytes:  maxBytes,
	}
}

var allowedResumeTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/plain":       ".txt",
	"application/json": ".json",
}

var errMaliciousFile = errors.New("malicious file detected")

// UploadResume accepts a multipart resume file, scans it when clamd is
// configured, stores it, and records the Resume row.
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		BadRequest(c, "file too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	ext, allowed := allowedResumeTypes[contentType]
	if !allowed {
		BadRequest(c, "unsupported file type")
		return
	}

	if h.clamdAddr != "" {
		if err := h.scanFile(file); err != nil {
			if errors.Is(err, errMaliciousFile) {
				BadRequest(c, "malicious file detected")
				return
			}
			h.logger.Error("scan resume failed", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer reader.Close()

	objectKey := fmt.Sprintf("resumes/%d/%s%s", userID, uuid.NewString(), ext)
	if _, err := h.storage.UploadFile(c.Request.Context(), objectKey, reader, file.Size, contentType); err != nil {
		h.logger.Error("upload resume failed", slog.Any("error", err))
		Internal(c, "failed to upload file")
		return
	}

	title := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	if title == "" {
		title = "Resume"
	}

	resume := database.Resume{
		UserID:        userID,
		Title:         title,
		FileObjectKey: objectKey,
		FileSize:      file.Size,
		ContentType:   contentType,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&resume).Error; err != nil {
		h.logger.Error("create resume row failed", slog.Any("error", err))
		Internal(c, "failed to record resume")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        resume.ID,
		"objectKey": objectKey,
		"title":     resume.Title,
	})
}

func (h *ResumeHandler) scanFile(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open file for scan: %w", err)
	}
	defer reader.Close()

	clamdClient := clamd.NewClamd(h.clamdAddr)
	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return errMaliciousFile
		}
	}
	return nil
}

// GetDownloadLink generates a presigned URL for the stored resume file.
func (h *ResumeHandler) GetDownloadLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}

	var resume database.Resume
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", uint(resumeID), userID).
		First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to query resume")
		return
	}

	if resume.FileObjectKey == "" {
		Conflict(c, "resume file not available")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), resume.FileObjectKey, 5*time.Minute)
	if err != nil {
		h.logger.Error("generate download link failed", slog.Any("error", err))
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
