package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "newsgraph/backend/pkg/errors"
	"newsgraph/backend/pkg/logger"
)

const systemPrompt = `You rate the tone of news articles.
Reply with a JSON object {"polarity": <number from -1 to 1>, "subjectivity": <number from 0 to 1>}.
polarity: -1 very negative, 0 neutral, 1 very positive.
subjectivity: 0 purely factual reporting, 1 pure opinion.`

// maxPromptChars bounds the article text sent to the model
const maxPromptChars = 12000

// LLMAnalyzer asks an OpenAI-compatible endpoint (LiteLLM, OpenAI,
// OpenRouter) for polarity and subjectivity
type LLMAnalyzer struct {
	client     *openai.Client
	model      string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewLLMAnalyzer creates an analyzer. baseURL is the server root; /v1 is
// appended.
func NewLLMAnalyzer(baseURL, apiKey, model string) *LLMAnalyzer {
	// LiteLLM accepts any key
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"

	return &LLMAnalyzer{
		client:     openai.NewClientWithConfig(config),
		model:      model,
		maxRetries: 3,
		backoff:    time.Second,
		logger:     logger.Named("sentiment"),
	}
}

type llmScore struct {
	Polarity     *float64 `json:"polarity"`
	Subjectivity *float64 `json:"subjectivity"`
}

// Analyze implements the crawler's Analyzer
func (a *LLMAnalyzer) Analyze(ctx context.Context, text string) (float64, float64, error) {
	text = truncate(text, maxPromptChars)

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < a.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * a.backoff
			a.logger.Warn("Retrying sentiment request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return 0, 0, apperrors.NewAnalysisFailed("llm", ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		a.logger.Error("Sentiment request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", a.model),
		)
	}
	if err != nil {
		return 0, 0, apperrors.NewAnalysisFailed("llm", fmt.Errorf("after %d attempts: %w", a.maxRetries, err))
	}

	if len(resp.Choices) == 0 {
		return 0, 0, apperrors.NewAnalysisFailed("llm", fmt.Errorf("no choices in response"))
	}

	var score llmScore
	content := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &score); err != nil {
		return 0, 0, apperrors.NewAnalysisFailed("llm", fmt.Errorf("invalid score %q: %w", content, err))
	}
	if score.Polarity == nil || score.Subjectivity == nil {
		return 0, 0, apperrors.NewAnalysisFailed("llm", fmt.Errorf("incomplete score %q", content))
	}

	return clamp(*score.Polarity, -1, 1), clamp(*score.Subjectivity, 0, 1), nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// stripCodeFence removes a ```json fence some models add despite JSON mode
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
