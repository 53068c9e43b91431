package client

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"smartchat/internal/domain/entity"
)

const searchUserError = "Error contacting Smart Search service."

// similarityQuery asks Smart Search for the documents nearest to the message
// within the post_content field.
const similarityQuery = `query GetContext($message: String!, $field: String!) {
  similarity(input: {nearest: {text: $message, field: $field}}) {
    total
    docs {
      id
      data
      score
    }
  }
}`

// SmartSearchClient speaks GraphQL to the hosted Smart Search vector
// service with bearer-token auth.
type SmartSearchClient struct {
	http *resty.Client
}

func NewSmartSearchClient() *SmartSearchClient {
	return &SmartSearchClient{http: resty.New().SetTimeout(30 * time.Second)}
}

type searchResponse struct {
	Data struct {
		Similarity struct {
			Total int `json:"total"`
			Docs  []struct {
				ID    string         `json:"id"`
				Score float64        `json:"score"`
				Data  map[string]any `json:"data"`
			} `json:"docs"`
		} `json:"similarity"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Retrieve returns the similarity matches for the message, best first. An
// empty slice is a valid result meaning no relevant context exists.
func (c *SmartSearchClient) Retrieve(ctx context.Context, message string, creds entity.Credentials) ([]entity.Document, error) {
	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+creds.SearchToken).
		SetBody(map[string]any{
			"query": similarityQuery,
			"variables": map[string]string{
				"message": message,
				"field":   "post_content",
			},
		}).
		SetResult(&out).
		Post(creds.SearchURL)
	if err != nil {
		return nil, &entity.UpstreamError{Service: "smart-search", UserMessage: searchUserError, Err: err}
	}
	if resp.IsError() {
		return nil, &entity.UpstreamError{
			Service:     "smart-search",
			UserMessage: searchUserError,
			Err:         fmt.Errorf("similarity query: %s; body: %s", resp.Status(), resp.String()),
		}
	}
	if len(out.Errors) > 0 {
		log.Printf("[SEARCH] graphql errors: %v", out.Errors)
	}

	docs := make([]entity.Document, 0, len(out.Data.Similarity.Docs))
	for _, d := range out.Data.Similarity.Docs {
		docs = append(docs, entity.Document{
			ID:      d.ID,
			Score:   d.Score,
			Title:   stringField(d.Data, "post_title"),
			Content: stringField(d.Data, "post_content"),
		})
	}
	return docs, nil
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
