// Package openai provides the Tagger and SpeechEngine implementations using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

const taggingPrompt = `You label entries in a personal life journal. Given one entry, suggest
short tags and a single category in the same language as the entry.

Rules:
- tags: 1 to 5 short keywords (people, places, themes); no duplicates
- category: one broad label such as 学习, 工作, 家庭, 旅行, 健康, 兴趣
- keep existing tags when they still fit

Return ONLY a valid JSON object, no other text.

Example:
Input: {"title": "第一次跑完半马", "type": "achievement", "description": "21公里，用时2小时05分"}
Output: {"tags": ["跑步", "半程马拉松"], "category": "健康"}`

// Client implements ports.Tagger using OpenAI chat completions.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI LLM client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: newOpenAIClient(cfg.APIKey, cfg.BaseURL),
		model:  model,
	}, nil
}

func newOpenAIClient(apiKey, baseURL string) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// taggingInput is the event view sent to the model.
type taggingInput struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Description  string   `json:"description,omitempty"`
	Emotions     []string `json:"emotions,omitempty"`
	Location     string   `json:"location,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// SuggestTags asks the model for tags and a category.
func (c *Client) SuggestTags(ctx context.Context, event *entities.LifeEvent) (*ports.TagSuggestion, error) {
	input := taggingInput{
		Title:        event.Title,
		Type:         string(event.Type),
		Description:  event.Description,
		Participants: event.Participants,
		Tags:         event.Tags,
	}
	for _, e := range event.Emotions {
		input.Emotions = append(input.Emotions, e.Label())
	}
	if event.Location != nil {
		input.Location = event.Location.Name
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: taggingPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: string(payload),
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var suggestion ports.TagSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, fmt.Errorf("parsing tags JSON: %w (response: %s)", err, content)
	}

	return &suggestion, nil
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
