package ai

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient implements both flows over the chat-completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

func NewOpenAIClient(apiKey, model string, log *zap.Logger) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log,
	}
}

// Extract sends the caption and photo as one multimodal user message. The
// prompt demands bare JSON; anything that fails to parse or comes back with
// empty fields is the could-not-extract signal, not an error.
func (c *OpenAIClient) Extract(ctx context.Context, message, photoDataURI string) (*ProductDetails, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: ExtractorPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Message: " + message,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: photoDataURI,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		c.log.Warn("extractor returned no choices")
		return nil, nil
	}

	raw := resp.Choices[0].Message.Content
	details, ok := parseDetails(raw)
	if !ok {
		c.log.Warn("extractor output unusable", zap.String("raw", short(raw)))
		return nil, nil
	}
	return details, nil
}

// Reply answers a buyer message. Product context, when present, is folded
// into the system prompt so the model can only talk about that product.
func (c *OpenAIClient) Reply(ctx context.Context, message string, product *ProductContext) (string, error) {
	system := AutoReplyPrompt
	if product != nil {
		system += "\nThe customer is asking about the following product: " + product.Name +
			"\nThe price of the product is: " + product.Price + "\n"
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		c.log.Warn("auto-reply returned no choices")
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// parseDetails tolerates code fences around the JSON but nothing else.
func parseDetails(raw string) (*ProductDetails, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var d ProductDetails
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &d); err != nil {
		return nil, false
	}
	if d.Price == "" || d.Description == "" {
		return nil, false
	}
	return &d, true
}

func short(s string) string {
	if len(s) > 180 {
		return s[:180] + "..."
	}
	return s
}

// Disabled is the stand-in when OPENAI_API_KEY is missing: the extractor
// always signals could-not-extract and the replier produces no output, so
// callers fall back to their fixed messages instead of crashing.
type Disabled struct {
	log *zap.Logger
}

func NewDisabled(log *zap.Logger) *Disabled {
	log.Warn("openai api key not configured, AI flows are inert (set OPENAI_API_KEY)")
	return &Disabled{log: log}
}

func (d *Disabled) Extract(context.Context, string, string) (*ProductDetails, error) {
	return nil, nil
}

func (d *Disabled) Reply(context.Context, string, *ProductContext) (string, error) {
	return "", nil
}
