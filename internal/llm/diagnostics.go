// Package llm provides optional diagnostics over the extraction remainder.
// It surfaces numeric phrases the category patterns missed, for an operator
// deciding whether the patterns need updating. It never feeds back into
// extraction or the store.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Diagnostics reviews extraction remainders with a chat model.
type Diagnostics struct {
	client *openai.Client
	model  string
}

// New creates a Diagnostics client. baseURL may be empty for the default
// OpenAI endpoint.
func New(apiKey, baseURL, model string) (*Diagnostics, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Diagnostics{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// ReviewRemainder asks the model to list numeric loss phrases left in the
// remainder after extraction, one per line, or NONE.
func (d *Diagnostics) ReviewRemainder(ctx context.Context, date, remainder string) (string, error) {
	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You review leftover text from a military loss report after known category figures were already extracted. List any phrases that still pair a loss category with a number, one per line, verbatim. If there are none, answer NONE.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(date, remainder),
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("review remainder: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("review remainder: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(date, remainder string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report date: %s\n\n", date)
	b.WriteString("Leftover text:\n")
	b.WriteString(remainder)
	return b.String()
}
