package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"github.com/quantatsu/equiscope/internal/models"
)

const systemPrompt = `You are an equity research assistant. Summarize the provided financial metrics and recent headlines for a stock in 2-3 sentences. Be factual and concise. Do not give investment advice.`

// Summarizer produces a short natural-language digest of a research record
// through an OpenAI-compatible chat endpoint.
type Summarizer struct {
	model *openai.ChatModel
}

// Config holds the chat backend settings. BaseURL may be empty for the
// default OpenAI endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewSummarizer builds the chat model client. It fails when no API key is
// configured; callers should treat the summarizer as optional.
func NewSummarizer(ctx context.Context, cfg Config) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: summarization api key not configured", models.ErrServiceUnavailable)
	}

	maxTokens := 512
	model, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create chat model: %v", models.ErrServiceUnavailable, err)
	}

	return &Summarizer{model: model}, nil
}

// Summarize condenses the ticker's metrics and headlines into a few
// sentences. Backend failures map to ErrServiceUnavailable.
func (s *Summarizer) Summarize(ctx context.Context, ticker string, metrics models.RawMetrics, news []models.NewsItem) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: buildPrompt(ticker, metrics, news)},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: generate summary: %v", models.ErrServiceUnavailable, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty summary response", models.ErrServiceUnavailable)
	}

	return strings.TrimSpace(resp.Content), nil
}

func buildPrompt(ticker string, metrics models.RawMetrics, news []models.NewsItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock: %s\n\nFinancial metrics:\n", ticker)
	fmt.Fprintf(&b, "- P/E ratio: %s\n", orNA(metrics.PERatio))
	fmt.Fprintf(&b, "- Market cap: %s\n", orNA(metrics.MarketCap))
	fmt.Fprintf(&b, "- Revenue: %s\n", orNA(metrics.Revenue))
	fmt.Fprintf(&b, "- Profit margin: %s\n", orNA(metrics.ProfitMargin))
	fmt.Fprintf(&b, "- Revenue growth: %s\n", orNA(metrics.RevenueGrowth))

	if len(news) > 0 {
		b.WriteString("\nRecent headlines:\n")
		for i, item := range news {
			if i == 10 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", item.Title)
		}
	}

	return b.String()
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
