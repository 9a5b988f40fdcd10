package app

import (
	"context"
	"strings"
	"time"

	inboxdomain "chat_admin_service/internal/inbox/domain"
	inboxrepo "chat_admin_service/internal/inbox/repository"
	"chat_admin_service/internal/suggestion/domain"
	"chat_admin_service/internal/suggestion/repository"
	"chat_admin_service/pkg"
	"chat_admin_service/pkg/logger"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// historyDepth 帶給模型的對話歷史筆數
const historyDepth = 10

// chatCompleter 抽出 openai client 需要的方法，方便測試替換
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// SuggestUseCase 將客戶訊息轉成 AI 回覆並送回房間
type SuggestUseCase struct {
	ai             chatCompleter
	configRepo     repository.AIConfigRepository
	suggestionRepo repository.SuggestionRepository
	msgRepo        inboxrepo.MessageRepository
	roomRepo       inboxrepo.RoomRepository
	pauseRepo      inboxrepo.PauseRepository
	push           inboxrepo.PushChannel
}

// NewSuggestUseCase 建立一個新的 SuggestUseCase
func NewSuggestUseCase(
	ai chatCompleter,
	configRepo repository.AIConfigRepository,
	suggestionRepo repository.SuggestionRepository,
	msgRepo inboxrepo.MessageRepository,
	roomRepo inboxrepo.RoomRepository,
	pauseRepo inboxrepo.PauseRepository,
	push inboxrepo.PushChannel,
) *SuggestUseCase {
	return &SuggestUseCase{
		ai:             ai,
		configRepo:     configRepo,
		suggestionRepo: suggestionRepo,
		msgRepo:        msgRepo,
		roomRepo:       roomRepo,
		pauseRepo:      pauseRepo,
		push:           push,
	}
}

// Execute 處理一筆建議工作。
// 房間關閉 AI 或已被真人接手時跳過，回傳 (nil, nil)。
func (uc *SuggestUseCase) Execute(ctx context.Context, job domain.SuggestionJob) (*domain.Suggestion, error) {
	room, err := uc.roomRepo.FindByID(ctx, job.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.AIEnabled {
		return nil, nil
	}

	// job 在 queue 裡排隊的期間可能有真人接手
	paused, _, err := uc.pauseRepo.IsPaused(ctx, job.RoomID)
	if err != nil {
		return nil, err
	}
	if paused {
		return nil, nil
	}

	cfg, err := uc.configRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	reply, fallback, latency := uc.complete(ctx, cfg, job)
	if reply == "" {
		return nil, nil
	}

	suggestion := &domain.Suggestion{
		ID:           uuid.New().String(),
		RoomID:       job.RoomID,
		MessageID:    job.MessageID,
		CustomerText: job.CustomerText,
		Reply:        reply,
		Model:        cfg.Model,
		Fallback:     fallback,
		LatencyMs:    latency,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.suggestionRepo.Save(ctx, suggestion); err != nil {
		logger.Log.Error("suggestion save err :", zap.String("room", job.RoomID), zap.String("err", err.Error()))
	}

	if err := uc.deliver(ctx, job.RoomID, reply); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// complete 呼叫模型，失敗時退回設定裡的 fallback 回覆
func (uc *SuggestUseCase) complete(ctx context.Context, cfg *domain.AIConfig, job domain.SuggestionJob) (string, bool, int64) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(cfg)},
	}
	depth := cfg.ContextLimit
	if depth <= 0 {
		depth = historyDepth
	}
	messages = append(messages, uc.historyMessages(ctx, job, depth)...)

	start := time.Now()
	resp, err := uc.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	latency := time.Since(start).Milliseconds()

	if err != nil || len(resp.Choices) == 0 {
		if err != nil {
			logger.Log.Error("openai completion err :", zap.String("room", job.RoomID), zap.String("err", err.Error()))
		}
		return cfg.FallbackReply, true, latency
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), false, latency
}

// historyMessages 把最近的對話轉成模型輸入，缺歷史時至少帶當前這句
func (uc *SuggestUseCase) historyMessages(ctx context.Context, job domain.SuggestionJob, depth int) []openai.ChatCompletionMessage {
	page, err := uc.msgRepo.FetchPage(ctx, job.RoomID, nil, depth)
	if err != nil {
		logger.Log.Error("history fetch err :", zap.String("room", job.RoomID), zap.String("err", err.Error()))
		return []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: job.CustomerText},
		}
	}
	pkg.ReverseInPlace(page)

	var messages []openai.ChatCompletionMessage
	for _, m := range page {
		if m.MessageType != inboxdomain.MessageText || m.Content == "" {
			continue
		}
		role := openai.ChatMessageRoleAssistant
		if m.SenderRole == inboxdomain.SenderCustomer {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if len(messages) == 0 || messages[len(messages)-1].Role != openai.ChatMessageRoleUser {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser, Content: job.CustomerText,
		})
	}
	return messages
}

// deliver 以 AI 身分把回覆寫進房間並推播
func (uc *SuggestUseCase) deliver(ctx context.Context, roomID, reply string) error {
	msg := inboxdomain.Message{
		ID:          uuid.New().String(),
		RoomID:      roomID,
		SenderID:    "ai",
		SenderRole:  inboxdomain.SenderAI,
		MessageType: inboxdomain.MessageText,
		Content:     reply,
		Status:      inboxdomain.StatusSent,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.msgRepo.Insert(ctx, &msg); err != nil {
		return err
	}
	if err := uc.roomRepo.Touch(ctx, roomID, msg.CreatedAt, false); err != nil {
		logger.Log.Error("room touch err :", zap.String("room", roomID), zap.String("err", err.Error()))
	}
	return uc.push.Publish(ctx, roomID, inboxdomain.PushEvent{
		Type:    inboxdomain.PushInsert,
		Message: msg,
	})
}

func systemPrompt(cfg *domain.AIConfig) string {
	var b strings.Builder
	b.WriteString("You are " + cfg.BotName + ", a " + cfg.Personality + " replying to customers in a chat-commerce shop.")
	b.WriteString(" Reply in the customer's language. Keep replies short and concrete.")
	if len(cfg.Guidelines) > 0 {
		b.WriteString("\nGuidelines:")
		for _, g := range cfg.Guidelines {
			b.WriteString("\n- " + g)
		}
	}
	return b.String()
}
