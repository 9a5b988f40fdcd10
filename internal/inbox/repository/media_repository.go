package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"chat_admin_service/pkg/database"
	"chat_admin_service/pkg/logger"

	"go.uber.org/zap"
)

// presignExpiry 代理連結有效時間
const presignExpiry = 15 * time.Minute

// MediaRepository definition chat media archive.
// LINE 的媒體連結會過期，第一次存取時先搬進 minio 長期保存。
type MediaRepository interface {
	// ArchiveURL 回傳 messageID 媒體的 presigned URL，
	// minio 沒有時先從 LINE content API 抓下來歸檔。
	ArchiveURL(ctx context.Context, messageID string) (string, error)
	// Open 回傳媒體內容 stream 與 content type，供代理端直接輸出
	Open(ctx context.Context, messageID string) (io.ReadCloser, string, error)
}

type mediaRepository struct {
	minio       *database.MinIOClient
	httpClient  *http.Client
	accessToken string
}

// NewMediaRepository create a MediaRepository
func NewMediaRepository(mc *database.MinIOClient, channelAccessToken string) MediaRepository {
	return &mediaRepository{
		minio:       mc,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		accessToken: channelAccessToken,
	}
}

func mediaObjectName(messageID string) string {
	return "media/" + messageID
}

func (r *mediaRepository) ArchiveURL(ctx context.Context, messageID string) (string, error) {
	if err := r.ensureArchived(ctx, messageID); err != nil {
		return "", err
	}
	return r.minio.PresignGetURL(ctx, mediaObjectName(messageID), presignExpiry)
}

func (r *mediaRepository) Open(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	if err := r.ensureArchived(ctx, messageID); err != nil {
		return nil, "", err
	}

	exists, contentType, err := r.minio.StatObject(ctx, mediaObjectName(messageID))
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", fmt.Errorf("media %s not found after archive", messageID)
	}

	reader, err := r.minio.GetObject(ctx, mediaObjectName(messageID))
	if err != nil {
		return nil, "", err
	}
	return reader, contentType, nil
}

// ensureArchived 確保媒體已在 minio，沒有就從 LINE 抓
func (r *mediaRepository) ensureArchived(ctx context.Context, messageID string) error {
	exists, _, err := r.minio.StatObject(ctx, mediaObjectName(messageID))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	body, contentType, size, err := r.fetchFromLine(ctx, messageID)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := r.minio.UploadStream(ctx, mediaObjectName(messageID), body, size, contentType); err != nil {
		logger.Log.Error("media archive err :", zap.String("err", err.Error()))
		return err
	}
	return nil
}

func (r *mediaRepository) fetchFromLine(ctx context.Context, messageID string) (io.ReadCloser, string, int64, error) {
	url := fmt.Sprintf("https://api-data.line.me/v2/bot/message/%s/content", messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+r.accessToken)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", 0, fmt.Errorf("fetch line media %s: %w", messageID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", 0, fmt.Errorf("fetch line media %s: status %d", messageID, resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}
