package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const openAIDefaultModel = "gpt-4o-mini"

// OpenAIClient wraps the official OpenAI SDK client for vision calls.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	sdk     openai.Client
}

// OpenAIOption configures the OpenAI client.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIModel sets the chat model used for image analysis.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAIBaseURL sets the API base URL (empty uses the default endpoint).
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.baseURL = baseURL
	}
}

// NewOpenAI constructs a new OpenAI vision client. The apiKey is required.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	client := &OpenAIClient{
		apiKey: apiKey,
		model:  openAIDefaultModel,
	}
	for _, opt := range opts {
		opt(client)
	}
	sdkOpts := []option.RequestOption{option.WithAPIKey(client.apiKey)}
	if client.baseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(client.baseURL))
	}
	client.sdk = openai.NewClient(sdkOpts...)
	return client, nil
}

func (c *OpenAIClient) APIKey() string { return c.apiKey }
func (c *OpenAIClient) Model() string  { return c.model }

// Describe sends the image as a data URI alongside the prompt and
// returns the assistant's text.
func (c *OpenAIClient) Describe(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image data is required")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}),
			}),
		},
	}
	res, err := c.sdk.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("openai response contained no choices")
	}
	return res.Choices[0].Message.Content, nil
}
