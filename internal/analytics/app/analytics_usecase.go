package app

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"chat_admin_service/internal/analytics/domain"
	"chat_admin_service/internal/analytics/repository"
)

// textSampleLimit 關鍵字與情緒分析取樣上限
const textSampleLimit = 2000

// topKeywords 回報的關鍵字數量
const topKeywords = 20

// topCustomers 回報的活躍客戶數量
const topCustomers = 10

// stopwords 混雜泰文與英文的常見虛詞，統計時略過
var stopwords = map[string]bool{
	"ครับ": true, "ค่ะ": true, "คะ": true, "นะ": true, "จ้า": true,
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"i": true, "you": true, "it": true, "to": true, "of": true,
	"and": true, "or": true, "in": true, "on": true, "for": true,
	"this": true, "that": true, "my": true, "me": true, "do": true,
}

// intentKeywords 子字串規則，順序即優先序
var intentKeywords = []struct {
	intent domain.Intent
	words  []string
}{
	{domain.IntentComplaint, []string{"เสีย", "พัง", "ไม่ได้รับ", "ช้ามาก", "คืนเงิน", "broken", "refund", "not working", "complain"}},
	{domain.IntentPrice, []string{"ราคา", "เท่าไหร่", "เท่าไร", "กี่บาท", "ลดไหม", "price", "cost", "how much", "discount"}},
	{domain.IntentStock, []string{"มีของ", "สต็อก", "พร้อมส่ง", "มีไหม", "มีสี", "เหลือ", "stock", "available", "in stock"}},
	{domain.IntentShipping, []string{"ส่งของ", "จัดส่ง", "ค่าส่ง", "กี่วัน", "เลขพัสดุ", "shipping", "delivery", "tracking"}},
	{domain.IntentGreeting, []string{"สวัสดี", "หวัดดี", "ขอบคุณ", "hello", "hi", "thank"}},
}

var positiveWords = []string{"ขอบคุณ", "ดีมาก", "ชอบ", "สวย", "เยี่ยม", "ถูกใจ", "great", "love", "good", "thanks", "perfect"}
var negativeWords = []string{"แย่", "เสีย", "พัง", "ช้า", "ไม่พอใจ", "คืนเงิน", "โกง", "bad", "terrible", "broken", "refund", "angry"}

// AnalyticsUseCase 聚合儀表板需要的統計
type AnalyticsUseCase struct {
	statsRepo repository.StatsRepository
}

// NewAnalyticsUseCase 建立一個新的 AnalyticsUseCase
func NewAnalyticsUseCase(statsRepo repository.StatsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{statsRepo: statsRepo}
}

// Report 一次取齊期間內的所有統計
func (uc *AnalyticsUseCase) Report(ctx context.Context, from, to time.Time) (*domain.Report, error) {
	summary, err := uc.statsRepo.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := uc.statsRepo.DailyVolume(ctx, from, to)
	if err != nil {
		return nil, err
	}
	texts, err := uc.statsRepo.CustomerTexts(ctx, from, to, textSampleLimit)
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		Summary:   *summary,
		Daily:     daily,
		Keywords:  Keywords(texts),
		Sentiment: SentimentOf(texts),
		Intents:   IntentsOf(texts),
	}, nil
}

// Sales 期間內付款單彙整
func (uc *AnalyticsUseCase) Sales(ctx context.Context, from, to time.Time) (*domain.SalesOverview, error) {
	return uc.statsRepo.SalesOverview(ctx, from, to)
}

// Customers 期間內新舊客分布與活躍客戶
func (uc *AnalyticsUseCase) Customers(ctx context.Context, from, to time.Time) (*domain.CustomerSegments, error) {
	return uc.statsRepo.CustomerSegments(ctx, from, to, topCustomers)
}

// Keywords 統計出現頻率最高的詞
func Keywords(texts []string) []domain.KeywordCount {
	counts := map[string]int{}
	for _, text := range texts {
		for _, token := range tokenize(text) {
			if stopwords[token] || len([]rune(token)) < 2 {
				continue
			}
			counts[token]++
		}
	}

	keywords := make([]domain.KeywordCount, 0, len(counts))
	for k, c := range counts {
		keywords = append(keywords, domain.KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Keyword < keywords[j].Keyword
	})
	if len(keywords) > topKeywords {
		keywords = keywords[:topKeywords]
	}
	return keywords
}

// SentimentOf 規則式情緒分布，無命中歸 neutral
func SentimentOf(texts []string) domain.SentimentBreakdown {
	var breakdown domain.SentimentBreakdown
	for _, text := range texts {
		switch classifySentiment(text) {
		case domain.SentimentPositive:
			breakdown.Positive++
		case domain.SentimentNegative:
			breakdown.Negative++
		default:
			breakdown.Neutral++
		}
	}
	return breakdown
}

func classifySentiment(text string) domain.Sentiment {
	lower := strings.ToLower(text)
	// 負面優先，抱怨常夾帶客套話
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			return domain.SentimentNegative
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			return domain.SentimentPositive
		}
	}
	return domain.SentimentNeutral
}

// IntentsOf 規則式意圖分布，由多到少排序
func IntentsOf(texts []string) []domain.IntentCount {
	counts := map[domain.Intent]int{}
	for _, text := range texts {
		counts[ClassifyIntent(text)]++
	}

	intents := make([]domain.IntentCount, 0, len(counts))
	for intent, c := range counts {
		intents = append(intents, domain.IntentCount{Intent: intent, Count: c})
	}
	sort.Slice(intents, func(i, j int) bool {
		if intents[i].Count != intents[j].Count {
			return intents[i].Count > intents[j].Count
		}
		return intents[i].Intent < intents[j].Intent
	})
	return intents
}

// ClassifyIntent 依關鍵字規則分類單一訊息
func ClassifyIntent(text string) domain.Intent {
	lower := strings.ToLower(text)
	for _, rule := range intentKeywords {
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				return rule.intent
			}
		}
	}
	return domain.IntentOther
}

// tokenize 以空白與標點切詞。泰文句子沒有空白，
// 切出來會是片語層級，對熱門字詞統計已經夠用。
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
