// Package openai adapts a chat-completion endpoint to the distractor
// Generator contract.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds the generator endpoint configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
}

// Generator calls a chat model to propose distractors. It satisfies
// distractor.Generator; the pipeline absorbs every error it returns.
type Generator struct {
	client *openai.Client
	config *Config
}

// NewGenerator builds a generator from config, applying defaults for unset
// values.
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

const systemPrompt = "You are an English vocabulary tutor who writes high-quality wrong options for multiple-choice definition quizzes."

// Generate asks the model for three plausible wrong definitions.
func (g *Generator) Generate(ctx context.Context, word, correctDefinition, gloss string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(word, correctDefinition, gloss)},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}
	return parseOptions(resp.Choices[0].Message.Content), nil
}

func buildPrompt(word, correctDefinition, gloss string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write 3 wrong answer options for a definition quiz.\n\n")
	fmt.Fprintf(&b, "Word: %s\n", word)
	fmt.Fprintf(&b, "Correct answer: %s\n", correctDefinition)
	if gloss != "" {
		fmt.Fprintf(&b, "Additional sense: %s\n", gloss)
	}
	b.WriteString(`
Rules:
1. Each option must be a plausible but wrong definition.
2. Options should resemble the correct answer in register and length.
3. No synonyms of the correct answer.
4. Keep each option under 15 words.
5. One option per line, no numbering.

Output the 3 options only:`)
	return b.String()
}

// parseOptions splits the completion into candidate lines, stripping any
// numbering the model added anyway.
func parseOptions(content string) []string {
	var options []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.)- ")
		line = strings.Trim(line, `"'`)
		if line == "" || len(line) > 120 {
			continue
		}
		options = append(options, line)
		if len(options) == 3 {
			break
		}
	}
	return options
}
