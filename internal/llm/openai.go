package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nexora/brand-mixer/internal/brandinfo"
	"github.com/nexora/brand-mixer/internal/model"
)

// OpenAIClient implements the Client interface using OpenAI's API as a
// fallback. Uses function calling to get structured fusion results.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI-powered fusion generator.
func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAIClient) ProviderName() string { return "openai" }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) GenerateFusion(ctx context.Context, req model.FusionRequest, info1, info2 brandinfo.Info) (*model.FusionResult, error) {
	prompt := buildPrompt(req, info1, info2)

	tools := []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "submit_brand_fusion",
				Description: "Submit the completed brand fusion concept. Call this exactly once with every field filled in.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": fusionToolProperties,
					"required":   []string{"name", "slogan", "description", "compatibility_score"},
				},
			},
		},
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: `You are a creative brand strategist. Produce an innovative brand fusion concept and
return it via the submit_brand_fusion function. Be creative, marketable, and exciting.`,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		},
	}

	for i := 0; i < 3; i++ {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    o.model,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return nil, fmt.Errorf("openai API call: %w", err)
		}

		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("openai returned no choices")
		}

		choice := resp.Choices[0]

		if len(choice.Message.ToolCalls) > 0 {
			messages = append(messages, choice.Message)

			for _, toolCall := range choice.Message.ToolCalls {
				if toolCall.Function.Name == "submit_brand_fusion" {
					var payload fusionPayload
					if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &payload); err != nil {
						return nil, fmt.Errorf("parsing tool arguments: %w", err)
					}
					return payload.toResult(req), nil
				}

				// For other tool calls, send a generic result back
				messages = append(messages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    "Received. Please call submit_brand_fusion with the full concept.",
					ToolCallID: toolCall.ID,
				})
			}
			continue
		}

		if choice.FinishReason == "stop" {
			return nil, fmt.Errorf("openai ended without submitting a fusion for %s + %s", req.Product1, req.Product2)
		}
	}

	return nil, fmt.Errorf("exceeded max turns without a fusion for %s + %s", req.Product1, req.Product2)
}
