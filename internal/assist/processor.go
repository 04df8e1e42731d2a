package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"nbedit/internal/logger"
	"nbedit/internal/schema"
)

const (
	// DefaultModel is used when no model is configured
	DefaultModel = string(anthropic.ModelClaude4Sonnet20250514)
	// DefaultMaxTokens bounds each response
	DefaultMaxTokens = 1024

	submitToolName = "submit_result"
)

var (
	// ErrMissingPrompt is returned for a request without an instruction
	ErrMissingPrompt = errors.New("assist: prompt is required")
	// ErrEmptyResult is returned when the model answers with nothing usable
	ErrEmptyResult = errors.New("assist: model returned an empty result")
	// ErrNoCredentials is returned when no API key is available
	ErrNoCredentials = errors.New("assist: no API key, set ANTHROPIC_API_KEY")
)

// Processor turns a request into replacement or generated text
type Processor interface {
	Process(ctx context.Context, req Request) (string, error)
}

// Submission is the structured answer the model is asked to return
type Submission struct {
	Text string `json:"text" jsonschema_description:"The generated or modified text, exactly as it should appear in the document, with no commentary"`
}

// messageCreator is the part of the Anthropic client the processor uses
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Claude processes requests with the Anthropic Messages API
type Claude struct {
	messages     messageCreator
	model        string
	maxTokens    int64
	systemPrompt string
	tool         anthropic.ToolUnionParam
}

// ClaudeOption configures a Claude processor
type ClaudeOption func(*Claude)

// WithModel selects the model
func WithModel(model string) ClaudeOption {
	return func(c *Claude) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens bounds each response
func WithMaxTokens(n int64) ClaudeOption {
	return func(c *Claude) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithSystemPrompt sets the house style prepended to every prompt
func WithSystemPrompt(prompt string) ClaudeOption {
	return func(c *Claude) {
		c.systemPrompt = strings.TrimSpace(prompt)
	}
}

// NewClient creates an Anthropic client. An empty key falls back to the
// ANTHROPIC_API_KEY environment variable the SDK reads itself.
func NewClient(apiKey string) (anthropic.Client, error) {
	if apiKey != "" {
		return anthropic.NewClient(option.WithAPIKey(apiKey)), nil
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return anthropic.NewClient(), nil
	}
	return anthropic.Client{}, ErrNoCredentials
}

// NewClaude creates a processor using client
func NewClaude(client *anthropic.Client, opts ...ClaudeOption) *Claude {
	return newClaude(&client.Messages, opts...)
}

func newClaude(messages messageCreator, opts ...ClaudeOption) *Claude {
	c := &Claude{
		messages:  messages,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		tool: anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        submitToolName,
				Description: anthropic.String("Submit the final text. Call this exactly once with the text to place in the document."),
				InputSchema: schema.GenerateSchema[Submission](),
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name
func (c *Claude) Model() string {
	return c.model
}

// Process sends the prompt and returns the trimmed result
func (c *Claude) Process(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrMissingPrompt
	}

	prompt := BuildPrompt(req, c.systemPrompt)
	logger.Info("Processing request - Prompt: '%s', Text length: %d, attempt %d", truncate(req.Prompt, 50), len(req.Text), req.Attempt)
	logger.Exchange("REQUEST", map[string]interface{}{
		"model":   c.model,
		"mode":    req.Mode().String(),
		"attempt": req.Attempt,
		"prompt":  prompt,
	})

	message, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{c.tool},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: submitToolName},
		},
	})
	if err != nil {
		logger.Exchange("ERROR", map[string]interface{}{
			"error": err.Error(),
		})
		logger.Error("API request failed: %v", err)
		return "", fmt.Errorf("failed to process text: %w", err)
	}
	logger.Exchange("RESPONSE", message)

	result, err := extractResult(message)
	if err != nil {
		logger.Error("Unusable response: %v", err)
		return "", err
	}
	return result, nil
}

// extractResult prefers the submit_result tool input and falls back to the
// text blocks when the model answered in prose.
func extractResult(message *anthropic.Message) (string, error) {
	var text strings.Builder
	for _, content := range message.Content {
		switch content.Type {
		case "tool_use":
			if content.Name != submitToolName {
				continue
			}
			var sub Submission
			if err := json.Unmarshal(content.Input, &sub); err != nil {
				return "", fmt.Errorf("failed to parse %s input: %w", submitToolName, err)
			}
			if result := strings.TrimSpace(sub.Text); result != "" {
				return result, nil
			}
		case "text":
			text.WriteString(content.Text)
		}
	}

	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", ErrEmptyResult
	}
	return result, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
