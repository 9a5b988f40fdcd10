package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// defaultReportDays 未带区间时回看的天数
const defaultReportDays = 7

// AnalyticsHandler 处理分析相关的 HTTP 请求
type AnalyticsHandler struct {
	analyticsUC *AnalyticsUseCase
	insightsUC  *InsightsUseCase
}

// NewAnalyticsHandler 创建新的 AnalyticsHandler
func NewAnalyticsHandler(analyticsUC *AnalyticsUseCase, insightsUC *InsightsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUC: analyticsUC,
		insightsUC:  insightsUC,
	}
}

// parseRange 解析 ?from=YYYY-MM-DD&to=YYYY-MM-DD，缺省回看七天
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -defaultReportDays)
	to := now

	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, err
		}
		// to 含当天
		to = t.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// Report 期间报表
// @Summary 期间报表
// @Description 讯息量、热门关键字、情绪与意图分布
// @Tags Analytics
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} string "report"
// @Failure 500 {object} string "服务器错误"
// @Router /report [get]
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date range"})
	}

	report, err := h.analyticsUC.Report(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// Sales 付款单汇整
// @Summary 付款单汇整
// @Description 已验证付款单的营收、每日趋势与银行分布
// @Tags Analytics
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} string "sales"
// @Failure 500 {object} string "服务器错误"
// @Router /sales [get]
func (h *AnalyticsHandler) Sales(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date range"})
	}

	sales, err := h.analyticsUC.Sales(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sales)
}

// Customers 新旧客分布
// @Summary 新旧客分布
// @Description 期间内发话客户的新旧分布与最活跃客户
// @Tags Analytics
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} string "customers"
// @Failure 500 {object} string "服务器错误"
// @Router /customers [get]
func (h *AnalyticsHandler) Customers(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date range"})
	}

	segments, err := h.analyticsUC.Customers(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(segments)
}

// Insights AI 文字洞察
// @Summary AI 文字洞察
// @Description 把期间统计丢给模型产生摘要
// @Tags Analytics
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} string "insights"
// @Failure 500 {object} string "服务器错误"
// @Router /insights [get]
func (h *AnalyticsHandler) Insights(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date range"})
	}

	summary, err := h.insightsUC.Summarize(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"insights": summary})
}
