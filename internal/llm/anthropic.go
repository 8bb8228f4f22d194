package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/nexora/brand-mixer/internal/brandinfo"
	"github.com/nexora/brand-mixer/internal/model"
)

// AnthropicClient implements the Client interface using Claude.
// A custom tool gives us structured output: Claude calls submit_brand_fusion
// to "submit" its concept, so we get clean JSON instead of parsing prose.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Claude-powered fusion generator.
func NewAnthropicClient(apiKey string, model string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }
func (a *AnthropicClient) ModelName() string    { return a.model }

func (a *AnthropicClient) GenerateFusion(ctx context.Context, req model.FusionRequest, info1, info2 brandinfo.Info) (*model.FusionResult, error) {
	prompt := buildPrompt(req, info1, info2)

	submitTool := anthropic.ToolParam{
		Name:        "submit_brand_fusion",
		Description: param.NewOpt("Submit the completed brand fusion concept. Call this tool exactly once with every field filled in."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: fusionToolProperties,
		},
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}
	tools := []anthropic.ToolUnionParam{
		{OfTool: &submitTool},
	}

	// Claude usually submits on the first turn, but give it a couple of
	// chances before giving up.
	for i := 0; i < 3; i++ {
		message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(a.model),
			MaxTokens: 1024,
			Messages:  messages,
			Tools:     tools,
		})
		if err != nil {
			return nil, fmt.Errorf("anthropic API call: %w", err)
		}

		for _, block := range message.Content {
			toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
			if !ok || toolUse.Name != "submit_brand_fusion" {
				continue
			}

			inputBytes, err := json.Marshal(toolUse.Input)
			if err != nil {
				return nil, fmt.Errorf("marshaling tool input: %w", err)
			}

			var payload fusionPayload
			if err := json.Unmarshal(inputBytes, &payload); err != nil {
				return nil, fmt.Errorf("parsing tool input: %w", err)
			}

			return payload.toResult(req), nil
		}

		if message.StopReason == "end_turn" {
			return nil, fmt.Errorf("claude ended without submitting a fusion for %s + %s", req.Product1, req.Product2)
		}

		// Claude called something unexpected — nudge it toward the submit tool.
		messages = append(messages, message.ToParam())
		toolResults := []anthropic.ContentBlockParamUnion{}
		for _, block := range message.Content {
			toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
			if !ok {
				continue
			}
			toolResults = append(toolResults,
				anthropic.NewToolResultBlock(toolUse.ID, "Received, please call submit_brand_fusion with the full concept.", false))
		}
		if len(toolResults) > 0 {
			messages = append(messages, anthropic.NewUserMessage(toolResults...))
		}
	}

	return nil, fmt.Errorf("exceeded max turns without a fusion for %s + %s", req.Product1, req.Product2)
}
