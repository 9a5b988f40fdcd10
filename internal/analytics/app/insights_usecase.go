package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// insightsModel 洞察摘要用的模型
const insightsModel = "gpt-4o-mini"

// chatCompleter 抽出 openai client 需要的方法，方便測試替換
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// InsightsUseCase 把統計數字丟給模型產生給老闆看的摘要
type InsightsUseCase struct {
	ai        chatCompleter
	analytics *AnalyticsUseCase
}

// NewInsightsUseCase 建立一個新的 InsightsUseCase
func NewInsightsUseCase(ai chatCompleter, analytics *AnalyticsUseCase) *InsightsUseCase {
	return &InsightsUseCase{ai: ai, analytics: analytics}
}

// Summarize 產生期間報表的文字洞察
func (uc *InsightsUseCase) Summarize(ctx context.Context, from, to time.Time) (string, error) {
	report, err := uc.analytics.Report(ctx, from, to)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return "", err
	}

	resp, err := uc.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: insightsModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You analyze chat-commerce support statistics for a shop owner. " +
					"Write a short summary in Thai: notable trends, top customer concerns, " +
					"and one concrete recommendation. No preamble.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Stats for %s to %s:\n%s", from.Format("2006-01-02"), to.Format("2006-01-02"), data),
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
