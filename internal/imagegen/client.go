// Package imagegen provides clients for external image-generation
// providers. Image generation is a soft dependency of the orchestration:
// every failure path ends in a placeholder URL, never an error surfaced to
// the user.
package imagegen

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Client is the interface for image-generation providers. Implementations
// return raw image bytes; saving and serving them is the caller's job.
type Client interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	ProviderName() string
}

// PlaceholderURL returns the well-known substitute image reference used
// when no provider could produce an image for the pair.
func PlaceholderURL(product1, product2 string) string {
	text := url.QueryEscape(product1 + " x " + product2)
	return "https://via.placeholder.com/1024x1024/4A90E2/FFFFFF?text=" + text
}

// EnhancePrompt appends quality and style modifiers to the model-supplied
// visual description. Generation models respond much better to prompts
// carrying explicit photography vocabulary.
func EnhancePrompt(prompt string) string {
	quality := []string{"high quality", "professional photography", "studio lighting"}
	style := []string{"modern design", "clean composition"}
	return fmt.Sprintf("%s, %s, %s", prompt, strings.Join(quality, ", "), strings.Join(style, ", "))
}

// NegativePrompt lists artifacts the generation model should avoid.
const NegativePrompt = "blurry, low quality, distorted, ugly, bad anatomy, text, watermark, signature, logo overlay"
