package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"smartchat/internal/domain/entity"
)

const (
	DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

	openAIUserError = "Error contacting OpenAI API."

	// Fallback reply when the API answers 2xx but carries no content.
	ReplyNoAnswerGenerated = "No answer generated."

	completionModel       = "gpt-4o-mini"
	completionTemperature = 0.7
	completionMaxTokens   = 500
)

// OpenAIClient issues chat-completion requests embedding the retrieved
// context into a single prompt.
type OpenAIClient struct {
	http    *resty.Client
	baseURL string
}

// NewOpenAIClient builds a client for the given completions endpoint; an
// empty baseURL means the public OpenAI API.
func NewOpenAIClient(baseURL string) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	return &OpenAIClient{
		http:    resty.New().SetTimeout(30 * time.Second),
		baseURL: baseURL,
	}
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Generate(ctx context.Context, contextText, message string, creds entity.Credentials) (string, error) {
	prompt := fmt.Sprintf(
		"You are a helpful assistant. Use the following context to answer the question.\n\nContext:\n%s\n\nQuestion: %s\nAnswer:",
		contextText, message,
	)

	var out completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+creds.OpenAIKey).
		SetBody(map[string]any{
			"model": completionModel,
			"messages": []map[string]string{
				{"role": "system", "content": "You are a helpful assistant."},
				{"role": "user", "content": prompt},
			},
			"temperature": completionTemperature,
			"max_tokens":  completionMaxTokens,
		}).
		SetResult(&out).
		Post(c.baseURL)
	if err != nil {
		return "", &entity.UpstreamError{Service: "openai", UserMessage: openAIUserError, Err: err}
	}
	if resp.IsError() {
		return "", &entity.UpstreamError{
			Service:     "openai",
			UserMessage: openAIUserError,
			Err:         fmt.Errorf("chat completion: %s; body: %s", resp.Status(), resp.String()),
		}
	}

	if len(out.Choices) == 0 {
		return ReplyNoAnswerGenerated, nil
	}
	answer := strings.TrimSpace(out.Choices[0].Message.Content)
	if answer == "" {
		return ReplyNoAnswerGenerated, nil
	}
	return answer, nil
}
