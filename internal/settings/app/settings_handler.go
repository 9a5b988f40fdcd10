package app

import (
	"strconv"
	"time"

	"chat_admin_service/internal/settings/repository"
	"chat_admin_service/pkg/logger"
	"chat_admin_service/pkg/middlewares"
	"chat_admin_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SettingsHandler 处理设定相关的 HTTP 请求
type SettingsHandler struct {
	settingsUC *SettingsUseCase
}

// NewSettingsHandler 创建新的 SettingsHandler
func NewSettingsHandler(settingsUC *SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{settingsUC: settingsUC}
}

// Register 注册后台帐号
// @Summary 注册后台帐号
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} string "注册成功"
// @Failure 400 {object} string "请求错误"
// @Router /admin/register [post]
func (h *SettingsHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	role := token.RoleType(req.Role)
	if role == "" {
		role = token.RoleAgent
	}

	if err := h.settingsUC.Register(c.Context(), req.Username, req.Password, role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "register success"})
}

// Login 后台登录
// @Summary 后台登录
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} string "token"
// @Failure 401 {object} string "登录失败"
// @Router /admin/login [post]
func (h *SettingsHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login", zap.String("username", req.Username))

	t, err := h.settingsUC.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"token": t})
}

// GetAIConfig 取生效中的 AI 设定
// @Summary 取生效中的 AI 设定
// @Tags AIConfig
// @Produce json
// @Success 200 {object} string "config"
// @Router /ai-config [get]
func (h *SettingsHandler) GetAIConfig(c *fiber.Ctx) error {
	cfg, err := h.settingsUC.GetAIConfig(c.Context())
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cfg)
}

// ListAIConfigs 列出所有 AI 设定
// @Summary 列出所有 AI 设定
// @Tags AIConfig
// @Produce json
// @Success 200 {object} string "configs"
// @Router /ai-config/all [get]
func (h *SettingsHandler) ListAIConfigs(c *fiber.Ctx) error {
	configs, err := h.settingsUC.ListAIConfigs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"configs": configs})
}

// SaveAIConfig 新增或更新 AI 设定
// @Summary 新增或更新 AI 设定
// @Tags AIConfig
// @Accept json
// @Produce json
// @Success 200 {object} string "config"
// @Router /ai-config [put]
func (h *SettingsHandler) SaveAIConfig(c *fiber.Ctx) error {
	var in AIConfigInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	cfg, err := h.settingsUC.SaveAIConfig(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cfg)
}

// DeleteAIConfig 删除 AI 设定
// @Summary 删除 AI 设定
// @Tags AIConfig
// @Produce json
// @Param id path int true "config id"
// @Success 200 {object} string "ok"
// @Router /ai-config/{id} [delete]
func (h *SettingsHandler) DeleteAIConfig(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := h.settingsUC.DeleteAIConfig(c.Context(), uint(id)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// GetOperatingHours 取营业时间
// @Summary 取营业时间
// @Tags Hours
// @Produce json
// @Success 200 {object} string "hours"
// @Router /hours [get]
func (h *SettingsHandler) GetOperatingHours(c *fiber.Ctx) error {
	hours, schedule, err := h.settingsUC.GetOperatingHours(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"enabled":         hours.Enabled,
		"timezone":        hours.Timezone,
		"schedule":        schedule,
		"offline_message": hours.OfflineMessage,
		"note":            hours.Note,
		"updated_by":      hours.UpdatedBy,
	})
}

// SaveOperatingHours 写入营业时间
// @Summary 写入营业时间
// @Tags Hours
// @Accept json
// @Produce json
// @Success 200 {object} string "ok"
// @Router /hours [put]
func (h *SettingsHandler) SaveOperatingHours(c *fiber.Ctx) error {
	var req HoursInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Timezone == "" {
		req.Timezone = "Asia/Bangkok"
	}
	if adminID, ok := c.Locals(middlewares.TokenAdminID).(string); ok {
		req.UpdatedBy = adminID
	}

	if err := h.settingsUC.SaveOperatingHours(c.Context(), req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "saved"})
}

// Status 目前是否营业中
// @Summary 目前是否营业中
// @Tags Hours
// @Produce json
// @Success 200 {object} string "status"
// @Router /hours/status [get]
func (h *SettingsHandler) Status(c *fiber.Ctx) error {
	open, err := h.settingsUC.IsOpenNow(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	resp := fiber.Map{"open": open}
	// 打烊時附上離線自動回覆文案
	if !open {
		if hours, _, err := h.settingsUC.GetOperatingHours(c.Context()); err == nil {
			resp["offline_message"] = hours.OfflineMessage
		}
	}
	return c.JSON(resp)
}
