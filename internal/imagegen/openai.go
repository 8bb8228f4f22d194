package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIImageClient implements the Client interface using DALL-E. Used as
// a fallback when the diffusion provider is unavailable. Requesting the
// base64 response format keeps this a single call — no follow-up download.
type OpenAIImageClient struct {
	client *openai.Client
}

// NewOpenAIImageClient creates a DALL-E-backed image generator.
func NewOpenAIImageClient(apiKey string) *OpenAIImageClient {
	return &OpenAIImageClient{
		client: openai.NewClient(apiKey),
	}
}

func (o *OpenAIImageClient) ProviderName() string { return "openai" }

func (o *OpenAIImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         EnhancePrompt(prompt),
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image API call: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no images")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decoding image data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("openai returned an empty image")
	}

	return data, nil
}
