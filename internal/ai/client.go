package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sisyflow/sisyflow/internal/config"
	"github.com/sisyflow/sisyflow/internal/domain"
)

// Analyzer produces suggestions for a ticket draft.
type Analyzer interface {
	Analyze(ctx context.Context, title, description string) ([]domain.Suggestion, error)
}

// AnalyzerError carries the upstream response for the AI error log.
type AnalyzerError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *AnalyzerError) Error() string {
	return fmt.Sprintf("analyzer returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the external analysis API over HTTP.
type Client struct {
	cfg  config.AIConfig
	http *http.Client
}

// NewClient builds an analyzer client from configuration.
func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout()},
	}
}

type analyzeRequest struct {
	Model       string `json:"model,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type analyzeResponse struct {
	Suggestions []struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	} `json:"suggestions"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the draft to the external API and returns its suggestions.
func (c *Client) Analyze(ctx context.Context, title, description string) ([]domain.Suggestion, error) {
	payload, err := json.Marshal(analyzeRequest{
		Model:       c.cfg.Model,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed analyzeResponse
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil && resp.StatusCode < 300 {
		return nil, &AnalyzerError{
			StatusCode: resp.StatusCode,
			Message:    "malformed analyzer response",
			Body:       rawBody(body),
		}
	}

	if resp.StatusCode >= 300 {
		message := http.StatusText(resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		return nil, &AnalyzerError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Body:       rawBody(body),
		}
	}

	suggestions := make([]domain.Suggestion, 0, len(parsed.Suggestions))
	for _, item := range parsed.Suggestions {
		suggestionType := domain.SuggestionType(item.Type)
		if !domain.ValidSuggestionType(suggestionType) {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			Type:    suggestionType,
			Content: item.Content,
		})
	}
	return suggestions, nil
}

// rawBody wraps non-JSON bodies so they can still be stored as a JSONB detail.
func rawBody(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	wrapped, err := json.Marshal(map[string]string{"raw": string(body)})
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(wrapped)
}
