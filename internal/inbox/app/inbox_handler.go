package app

import (
	"time"

	"chat_admin_service/internal/inbox/repository"
	"chat_admin_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InboxHandler 处理 inbox 相关的 HTTP 请求
type InboxHandler struct {
	messageUC *MessageUseCase
	mediaRepo repository.MediaRepository
}

// NewInboxHandler 创建新的 InboxHandler
func NewInboxHandler(messageUC *MessageUseCase, mediaRepo repository.MediaRepository) *InboxHandler {
	return &InboxHandler{
		messageUC: messageUC,
		mediaRepo: mediaRepo,
	}
}

// ListRooms 对话列表
// @Summary 对话列表
// @Description 依最后活动时间列出所有对话
// @Tags Rooms
// @Produce json
// @Success 200 {object} string "rooms"
// @Failure 500 {object} string "服务器错误"
// @Router /rooms [get]
func (h *InboxHandler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.messageUC.ListRooms(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// GetRoom 取单一对话
// @Summary 取单一对话
// @Tags Rooms
// @Produce json
// @Param id path string true "room id"
// @Success 200 {object} string "room"
// @Failure 404 {object} string "room not found"
// @Router /rooms/{id} [get]
func (h *InboxHandler) GetRoom(c *fiber.Ctx) error {
	room, err := h.messageUC.GetRoom(c.Context(), c.Params("id"))
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"room": room})
}

// AIStatus 房间 AI 状态
// @Summary 房间 AI 状态
// @Description 是否开启、是否暂停中、暂停剩余秒数
// @Tags AI
// @Produce json
// @Param id path string true "room id"
// @Success 200 {object} string "status"
// @Router /rooms/{id}/ai [get]
func (h *InboxHandler) AIStatus(c *fiber.Ctx) error {
	enabled, paused, remaining, err := h.messageUC.AIStatus(c.Context(), c.Params("id"))
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"ai_enabled":        enabled,
		"paused":            paused,
		"remaining_seconds": remaining,
	})
}

// SetAI 开关房间 AI 自动回复
// @Summary 开关房间 AI 自动回复
// @Tags AI
// @Accept json
// @Produce json
// @Param id path string true "room id"
// @Success 200 {object} string "ok"
// @Router /rooms/{id}/ai [put]
func (h *InboxHandler) SetAI(c *fiber.Ctx) error {
	type request struct {
		Enabled bool `json:"enabled"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.messageUC.SetAIEnabled(c.Context(), c.Params("id"), req.Enabled); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"ai_enabled": req.Enabled})
}

// PauseAI 暂停房间 AI
// @Summary 暂停房间 AI
// @Tags AI
// @Accept json
// @Produce json
// @Param id path string true "room id"
// @Success 200 {object} string "ok"
// @Router /rooms/{id}/ai/pause [post]
func (h *InboxHandler) PauseAI(c *fiber.Ctx) error {
	type request struct {
		Seconds int `json:"seconds"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.messageUC.PauseAI(c.Context(), c.Params("id"), time.Duration(req.Seconds)*time.Second); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"paused": true})
}

// ResumeAI 恢复房间 AI
// @Summary 恢复房间 AI
// @Tags AI
// @Produce json
// @Param id path string true "room id"
// @Success 200 {object} string "ok"
// @Router /rooms/{id}/ai/resume [post]
func (h *InboxHandler) ResumeAI(c *fiber.Ctx) error {
	if err := h.messageUC.ResumeAI(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"paused": false})
}

// ActiveTypers 房间内打字中的人
// @Summary 房间内打字中的人
// @Tags Rooms
// @Produce json
// @Param id path string true "room id"
// @Success 200 {object} string "typers"
// @Router /rooms/{id}/typing [get]
func (h *InboxHandler) ActiveTypers(c *fiber.Ctx) error {
	typers, err := h.messageUC.ActiveTypers(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"typers": typers})
}

// MediaContent 代理媒体内容
// @Summary 代理媒体内容
// @Description LINE 的媒体链接会过期，首次存取时归档到物件储存再回传
// @Tags Media
// @Produce octet-stream
// @Param message_id path string true "message id"
// @Success 200 {file} binary "media content"
// @Failure 500 {object} string "服务器错误"
// @Router /media/{message_id} [get]
func (h *InboxHandler) MediaContent(c *fiber.Ctx) error {
	messageID := c.Params("message_id")
	reader, contentType, err := h.mediaRepo.Open(c.Context(), messageID)
	if err != nil {
		logger.Log.Error("media open err :", zap.String("message_id", messageID), zap.String("err", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// 歸檔後內容不會變，讓瀏覽器長期快取
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendStream(reader)
}

// MediaURL 取媒体的 presigned URL
// @Summary 取媒体的 presigned URL
// @Tags Media
// @Produce json
// @Param message_id path string true "message id"
// @Success 200 {object} string "url"
// @Router /media/{message_id}/url [get]
func (h *InboxHandler) MediaURL(c *fiber.Ctx) error {
	url, err := h.mediaRepo.ArchiveURL(c.Context(), c.Params("message_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"url": url})
}
