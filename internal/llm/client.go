// Package llm provides a provider-agnostic interface for generating brand
// fusion concepts with an LLM. The model is asked for a structured concept
// (name, slogan, compatibility score, ...) via tool calling, so responses
// arrive as clean JSON instead of free-form text.
package llm

import (
	"context"
	"fmt"

	"github.com/nexora/brand-mixer/internal/brandinfo"
	"github.com/nexora/brand-mixer/internal/model"
)

// Client is the interface for text-generation providers. Both Anthropic
// (Claude) and OpenAI implement it, allowing the service to fall back from
// one to the other. Keep interfaces small — one working method is ideal.
type Client interface {
	GenerateFusion(ctx context.Context, req model.FusionRequest, info1, info2 brandinfo.Info) (*model.FusionResult, error)
	ProviderName() string
	ModelName() string
}

// fusionPayload is the schema for the tool the model calls to return its
// concept. Shared by both providers.
type fusionPayload struct {
	Name               string   `json:"name"`
	Slogan             string   `json:"slogan"`
	Description        string   `json:"description"`
	HostReaction       string   `json:"host_reaction"`
	CompatibilityScore int      `json:"compatibility_score"`
	UniqueFeatures     []string `json:"unique_features"`
	TargetAudience     string   `json:"target_audience"`
	ImagePrompt        string   `json:"image_prompt"`
}

// toResult converts a raw payload into a FusionResult, filling documented
// defaults for anything the model omitted. Missing fields never cause
// failure — a generation call that returned at all always yields a result.
func (p fusionPayload) toResult(req model.FusionRequest) *model.FusionResult {
	r := &model.FusionResult{
		Name:               p.Name,
		Slogan:             p.Slogan,
		Description:        p.Description,
		HostReaction:       p.HostReaction,
		CompatibilityScore: p.CompatibilityScore,
		UniqueFeatures:     p.UniqueFeatures,
		TargetAudience:     p.TargetAudience,
		ImagePrompt:        p.ImagePrompt,
		Components:         model.Components{A: req.Product1, B: req.Product2},
	}

	if r.Name == "" {
		r.Name = fmt.Sprintf("%s × %s", req.Product1, req.Product2)
	}
	if r.Slogan == "" {
		r.Slogan = fmt.Sprintf("Where %s meets %s", req.Product1, req.Product2)
	}
	if r.Description == "" {
		r.Description = fmt.Sprintf("An innovative fusion of %s and %s", req.Product1, req.Product2)
	}
	if r.HostReaction == "" {
		r.HostReaction = fmt.Sprintf("Brand Mixologist: 'This %s and %s combination is absolutely brilliant!'", req.Product1, req.Product2)
	}
	if r.CompatibilityScore < 0 {
		r.CompatibilityScore = 0
	}
	if r.CompatibilityScore > 100 {
		r.CompatibilityScore = 100
	}
	if r.UniqueFeatures == nil {
		r.UniqueFeatures = []string{}
	}
	if r.TargetAudience == "" {
		r.TargetAudience = "General consumers"
	}
	if r.ImagePrompt == "" {
		r.ImagePrompt = fmt.Sprintf("A creative fusion of %s and %s products in a modern, appealing style", req.Product1, req.Product2)
	}

	return r
}

var modeDescriptions = map[model.Mode]string{
	model.ModeCompetitive:   "Create a competitive scenario where both brands battle for supremacy, highlighting their strengths in opposition",
	model.ModeCollaborative: "Design a strategic partnership where both brands work together, combining their unique strengths",
	model.ModeFusion:        "Imagine a complete merger where both brands become one new entity, blending their characteristics",
}

// buildPrompt creates the user prompt shared by all providers.
func buildPrompt(req model.FusionRequest, info1, info2 brandinfo.Info) string {
	return fmt.Sprintf(`You are a creative brand strategist and marketing genius. Your task is to create an innovative brand fusion concept.

BRAND 1: %s
Background: %s

BRAND 2: %s
Background: %s

FUSION MODE: %s
Approach: %s

Create a detailed brand fusion concept and submit it via the submit_brand_fusion tool:
- name: creative fusion name (2-4 words)
- slogan: catchy marketing slogan (under 15 words)
- description: detailed description of the fusion concept (2-3 sentences)
- host_reaction: enthusiastic reaction from a brand expert host (1-2 sentences, start with 'Brand Mixologist:')
- compatibility_score: score from 75-98 representing how well these brands work together
- unique_features: 3-5 unique features of this fusion
- target_audience: primary target demographic
- image_prompt: detailed visual description for image generation (focus on products, colors, style, atmosphere)

Make it creative, marketable, and exciting! Focus on what makes this combination special and innovative.`,
		req.Product1, info1.Background,
		req.Product2, info2.Background,
		req.Mode, modeDescriptions[req.Mode])
}

// fusionToolProperties is the JSON schema shared by both providers
// (Anthropic takes the properties map, OpenAI wraps it in an object).
var fusionToolProperties = map[string]interface{}{
	"name": map[string]interface{}{
		"type":        "string",
		"description": "Creative fusion name (2-4 words).",
	},
	"slogan": map[string]interface{}{
		"type":        "string",
		"description": "Catchy marketing slogan (under 15 words).",
	},
	"description": map[string]interface{}{
		"type":        "string",
		"description": "Detailed description of the fusion concept (2-3 sentences).",
	},
	"host_reaction": map[string]interface{}{
		"type":        "string",
		"description": "Enthusiastic host reaction, starting with 'Brand Mixologist:'.",
	},
	"compatibility_score": map[string]interface{}{
		"type":        "integer",
		"description": "How well the brands work together, 0-100.",
	},
	"unique_features": map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "3-5 unique features of this fusion.",
	},
	"target_audience": map[string]interface{}{
		"type":        "string",
		"description": "Primary target demographic.",
	},
	"image_prompt": map[string]interface{}{
		"type":        "string",
		"description": "Visual description for image generation.",
	},
}
