package news

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SilverPulse/internal/domain/models"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const analyzerSystemPrompt = "You are a financial analyst specializing in precious metals. " +
	"Analyze news credibility and market impact objectively. Respond only with valid JSON."

const analyzerPromptTemplate = `Analyze this silver market news article:

Title: %s
Summary: %s
Source: %s

Provide:
1. Confidence level (high/medium/low) - Is this verified fact, credible report, or rumor/speculation?
2. Market impact (bullish/bearish/neutral) - How does this affect silver prices?
3. Brief analysis (1-2 sentences explaining why)

Respond ONLY with valid JSON in this exact format:
{"confidence": "high", "impact": "bullish", "analysis": "explanation here"}`

// AnalyzerConfig holds the model settings for news classification.
type AnalyzerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Analyzer classifies news items with an OpenAI chat model.
type Analyzer struct {
	client openai.Client
	model  string
}

// NewAnalyzer creates an OpenAI-backed news analyzer.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4.1-mini"
	}

	return &Analyzer{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Analyze classifies one news item.
func (a *Analyzer) Analyze(ctx context.Context, item models.NewsItem) (models.Classification, error) {
	prompt := fmt.Sprintf(analyzerPromptTemplate, item.Title, item.Summary, item.Source)

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analyzerSystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(0.3),
		MaxCompletionTokens: openai.Int(150),
	})
	if err != nil {
		return models.Classification{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return models.Classification{}, fmt.Errorf("empty completion")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	var c models.Classification
	if err := json.Unmarshal([]byte(content), &c); err != nil {
		return models.Classification{}, fmt.Errorf("parse classification: %w", err)
	}

	if !validConfidence(c.Confidence) || !validImpact(c.Impact) {
		return models.Classification{}, fmt.Errorf("unexpected labels %q/%q", c.Confidence, c.Impact)
	}
	return c, nil
}

func validConfidence(c models.Confidence) bool {
	switch c {
	case models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow:
		return true
	}
	return false
}

func validImpact(i models.Impact) bool {
	switch i {
	case models.ImpactBullish, models.ImpactBearish, models.ImpactNeutral:
		return true
	}
	return false
}
