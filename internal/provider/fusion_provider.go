// Package provider layers provider selection, rate limiting, and call
// accounting on top of the raw generation clients. Handlers and services
// talk to providers, never to individual clients.
package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nexora/brand-mixer/internal/brandinfo"
	"github.com/nexora/brand-mixer/internal/llm"
	"github.com/nexora/brand-mixer/internal/model"
	"github.com/nexora/brand-mixer/internal/storage"
)

// FusionProvider generates fusion concepts using an ordered list of LLM
// clients — first is primary, rest are fallbacks. Every attempt is rate
// limited (to bound API cost) and recorded in generation_calls. It returns
// an error only when every client has failed; the orchestrator then
// substitutes the deterministic llm.Fallback result.
type FusionProvider struct {
	clients  []llm.Client
	limiter  *rate.Limiter
	callRepo storage.GenerationCallRepository
	timeout  time.Duration
	logger   *zap.Logger
}

// NewFusionProvider creates a provider with an ordered list of LLM clients.
// The order comes from config (generation.provider_order), so swapping
// provider priority is a config change, not a code change.
func NewFusionProvider(
	clients []llm.Client,
	ratePerMinute int,
	timeout time.Duration,
	callRepo storage.GenerationCallRepository,
	logger *zap.Logger,
) *FusionProvider {
	if ratePerMinute <= 0 {
		ratePerMinute = 1
	}
	rps := rate.Every(time.Minute / time.Duration(ratePerMinute))

	return &FusionProvider{
		clients:  clients,
		limiter:  rate.NewLimiter(rps, 1), // burst of 1 — strict rate limiting
		callRepo: callRepo,
		timeout:  timeout,
		logger:   logger,
	}
}

// Configured reports whether at least one generation client is wired up.
// Used by the health snapshot.
func (p *FusionProvider) Configured() bool {
	return len(p.clients) > 0
}

// GenerateFusion asks the clients, in configured order, for a fusion
// concept. The first success wins; failures fall through to the next
// client.
func (p *FusionProvider) GenerateFusion(ctx context.Context, req model.FusionRequest, info1, info2 brandinfo.Info) (*model.FusionResult, error) {
	if len(p.clients) == 0 {
		return nil, fmt.Errorf("no generation providers configured")
	}

	var lastErr error

	for i, client := range p.clients {
		// Rate limit — blocks until a token is available or context is cancelled.
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		result, err := p.tryClient(ctx, client, req, info1, info2)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if i < len(p.clients)-1 {
			p.logger.Warn("generation provider failed, trying next",
				zap.String("product1", req.Product1),
				zap.String("product2", req.Product2),
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, fmt.Errorf("all generation providers failed for %s + %s: %w", req.Product1, req.Product2, lastErr)
}

func (p *FusionProvider) tryClient(ctx context.Context, client llm.Client, req model.FusionRequest, info1, info2 brandinfo.Info) (*model.FusionResult, error) {
	if client == nil {
		return nil, fmt.Errorf("generation client not configured")
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := client.GenerateFusion(callCtx, req, info1, info2)
	duration := time.Since(start).Milliseconds()

	p.recordCall(ctx, client, req, err, duration)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *FusionProvider) recordCall(ctx context.Context, client llm.Client, req model.FusionRequest, callErr error, durationMs int64) {
	call := &model.GenerationCall{
		Product1: req.Product1,
		Product2: req.Product2,
		Mode:     req.Mode,
		Provider: client.ProviderName(),
		Model:    client.ModelName(),
		Success:  callErr == nil,
	}
	call.DurationMs = &durationMs

	if err := p.callRepo.Create(ctx, call); err != nil {
		p.logger.Error("recording generation call", zap.Error(err))
	}
}
