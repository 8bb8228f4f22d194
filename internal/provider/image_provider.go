package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nexora/brand-mixer/internal/imagegen"
)

// ImageProvider produces combo art bytes using an ordered list of image
// clients. Image generation is a soft dependency: the orchestrator maps
// any error here to the placeholder URL instead of failing the request.
type ImageProvider struct {
	clients []imagegen.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewImageProvider creates a provider with an ordered client list from
// config (image.provider_order).
func NewImageProvider(clients []imagegen.Client, timeout time.Duration, logger *zap.Logger) *ImageProvider {
	return &ImageProvider{
		clients: clients,
		timeout: timeout,
		logger:  logger,
	}
}

// Configured reports whether at least one image client is wired up.
func (p *ImageProvider) Configured() bool {
	return len(p.clients) > 0
}

// GenerateImage tries each client in order and returns the first
// successful image bytes along with the provider that produced them.
func (p *ImageProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if len(p.clients) == 0 {
		return nil, "", fmt.Errorf("no image providers configured")
	}

	var lastErr error

	for i, client := range p.clients {
		data, err := p.tryClient(ctx, client, prompt)
		if err == nil {
			return data, client.ProviderName(), nil
		}

		lastErr = err

		if i < len(p.clients)-1 {
			p.logger.Warn("image provider failed, trying next",
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, "", fmt.Errorf("all image providers failed: %w", lastErr)
}

func (p *ImageProvider) tryClient(ctx context.Context, client imagegen.Client, prompt string) ([]byte, error) {
	if client == nil {
		return nil, fmt.Errorf("image client not configured")
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return client.GenerateImage(callCtx, prompt)
}
