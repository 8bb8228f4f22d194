package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nexora/brand-mixer/internal/brandinfo"
	"github.com/nexora/brand-mixer/internal/imagegen"
	"github.com/nexora/brand-mixer/internal/llm"
	"github.com/nexora/brand-mixer/internal/model"
	"github.com/nexora/brand-mixer/internal/storage"
)

// maxBrandLength caps the accepted brand name length.
const maxBrandLength = 50

// ValidationError marks a request the user can fix: missing, oversized, or
// duplicate brand names. It is the only error GenerateCombo ever returns,
// and it short-circuits before any external call is made.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

// FusionGenerator produces a fusion concept or an error when every
// provider failed. The service absorbs that error into llm.Fallback.
type FusionGenerator interface {
	GenerateFusion(ctx context.Context, req model.FusionRequest, info1, info2 brandinfo.Info) (*model.FusionResult, error)
	Configured() bool
}

// ImageGenerator produces raw combo art bytes, reporting which provider
// delivered them.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
	Configured() bool
}

// ArtStore converts provider bytes into a stored, servable file.
type ArtStore interface {
	ProcessAndStore(product1, product2 string, imageData []byte) (string, error)
}

// StorePinger reports backing-store reachability for the health snapshot.
// *sqlx.DB satisfies it.
type StorePinger interface {
	PingContext(ctx context.Context) error
}

// HealthSnapshot is the per-dependency reachability report, computed on
// demand by probing each dependency — no cached mutable flags.
type HealthSnapshot struct {
	TextGeneration  bool `json:"text_generation"`
	ImageGeneration bool `json:"image_generation"`
	Store           bool `json:"store"`
	BrandCatalog    bool `json:"brand_catalog"`
}

// Degraded reports whether any dependency is down. The service still
// serves requests in that state — fallbacks cover each gap — but operators
// want to know.
func (h HealthSnapshot) Degraded() bool {
	return !(h.TextGeneration && h.ImageGeneration && h.Store && h.BrandCatalog)
}

// FusionService is the orchestrator: it turns two brand names and a mode
// into a persisted, votable combo. The pipeline is strictly sequential —
// the image prompt depends on the generation result and the store write
// depends on both — and each external step degrades independently:
//
//	generation fails  → deterministic fallback result
//	image fails       → placeholder URL
//	store write fails → result still returned, just not persisted
//
// Only validation errors ever reach the caller.
type FusionService struct {
	generator FusionGenerator
	images    ImageGenerator
	art       ArtStore
	combos    storage.ComboRepository
	catalog   *brandinfo.Catalog
	pinger    StorePinger
	baseURL   string

	defaultLimit int
	maxLimit     int

	logger *zap.Logger
}

// NewFusionService wires the orchestrator. baseURL prefixes served image
// paths; empty means relative URLs. defaultLimit/maxLimit bound the
// leaderboard query.
func NewFusionService(
	generator FusionGenerator,
	images ImageGenerator,
	art ArtStore,
	combos storage.ComboRepository,
	catalog *brandinfo.Catalog,
	pinger StorePinger,
	baseURL string,
	defaultLimit, maxLimit int,
	logger *zap.Logger,
) *FusionService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &FusionService{
		generator:    generator,
		images:       images,
		art:          art,
		combos:       combos,
		catalog:      catalog,
		pinger:       pinger,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// GenerateCombo runs the full pipeline for one user action. No retries
// anywhere — the user re-triggers manually.
func (s *FusionService) GenerateCombo(ctx context.Context, product1, product2, mode string) (*model.ComboView, error) {
	req, err := validateRequest(product1, product2, mode)
	if err != nil {
		return nil, err
	}

	info1 := s.catalog.Lookup(req.Product1)
	info2 := s.catalog.Lookup(req.Product2)

	// Step 2: generation. Never propagates — all-providers-down becomes
	// the deterministic fallback and the user still gets a result.
	result, err := s.generator.GenerateFusion(ctx, req, info1, info2)
	if err != nil {
		s.logger.Warn("generation degraded, using fallback",
			zap.String("product1", req.Product1),
			zap.String("product2", req.Product2),
			zap.Error(err),
		)
		result = llm.Fallback(req)
	}
	result.Categories = model.Categories{A: info1.Category, B: info2.Category}

	// Step 3: image. Soft dependency — failures end in the placeholder.
	imageURL := s.generateArt(ctx, req, result)

	// Step 4: persist. A failed write must not fail the generate action;
	// the combo just never reaches the leaderboard.
	combo := &model.Combo{
		Name:               result.Name,
		Slogan:             result.Slogan,
		Description:        result.Description,
		Product1:           req.Product1,
		Product2:           req.Product2,
		Mode:               req.Mode,
		HostReaction:       result.HostReaction,
		ImageURL:           imageURL,
		CompatibilityScore: result.CompatibilityScore,
	}

	view := &model.ComboView{
		Name:               result.Name,
		Slogan:             result.Slogan,
		Description:        result.Description,
		HostReaction:       result.HostReaction,
		CompatibilityScore: result.CompatibilityScore,
		UniqueFeatures:     result.UniqueFeatures,
		TargetAudience:     result.TargetAudience,
		Components:         result.Components,
		Categories:         result.Categories,
		Product1:           req.Product1,
		Product2:           req.Product2,
		Mode:               req.Mode,
		ImageURL:           imageURL,
	}

	if err := s.combos.Create(ctx, combo); err != nil {
		s.logger.Error("persisting combo failed, returning unpersisted result",
			zap.String("name", combo.Name),
			zap.Error(err),
		)
		return view, nil
	}

	view.ID = combo.ID
	view.Votes = combo.Votes
	view.Persisted = true
	view.CreatedAt = &combo.CreatedAt

	s.logger.Info("generated combo",
		zap.String("id", combo.ID),
		zap.String("name", combo.Name),
		zap.String("mode", string(combo.Mode)),
	)

	return view, nil
}

// generateArt runs image generation + processing and maps every failure to
// the placeholder URL.
func (s *FusionService) generateArt(ctx context.Context, req model.FusionRequest, result *model.FusionResult) string {
	data, providerName, err := s.images.GenerateImage(ctx, result.ImagePrompt)
	if err != nil {
		s.logger.Warn("image generation degraded, using placeholder",
			zap.String("product1", req.Product1),
			zap.String("product2", req.Product2),
			zap.Error(err),
		)
		return imagegen.PlaceholderURL(req.Product1, req.Product2)
	}

	filename, err := s.art.ProcessAndStore(req.Product1, req.Product2, data)
	if err != nil {
		s.logger.Warn("image processing failed, using placeholder",
			zap.String("provider", providerName),
			zap.Error(err),
		)
		return imagegen.PlaceholderURL(req.Product1, req.Product2)
	}

	return s.baseURL + "/images/" + filename
}

// Leaderboard returns combos ordered by votes descending, ties broken by
// newest first. A limit outside [1, maxLimit] is clamped, not rejected.
func (s *FusionService) Leaderboard(ctx context.Context, limit int) ([]model.Combo, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return s.combos.List(ctx, limit)
}

// Vote atomically increments the counter for one combo and returns the new
// count plus the combo name for the response payload.
func (s *FusionService) Vote(ctx context.Context, id string) (int, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, "", newValidationError("combo_id is required")
	}

	votes, err := s.combos.Vote(ctx, id)
	if err != nil {
		return 0, "", err
	}

	name := ""
	if combo, err := s.combos.GetByID(ctx, id); err == nil {
		name = combo.Name
	}

	s.logger.Info("vote registered",
		zap.String("id", id),
		zap.Int("votes", votes),
	)

	return votes, name, nil
}

// Stats returns the aggregate counters; an empty store yields zeros.
func (s *FusionService) Stats(ctx context.Context) (model.ComboStats, error) {
	return s.combos.Stats(ctx)
}

// Brands exposes the catalog for the brand picker endpoint.
func (s *FusionService) Brands(category string) ([]string, []string, error) {
	brands, ok := s.catalog.Brands(category)
	if !ok {
		return nil, nil, newValidationError(fmt.Sprintf("invalid category: %s", category))
	}
	return brands, s.catalog.Categories(), nil
}

// Health probes every dependency on demand.
func (s *FusionService) Health(ctx context.Context) HealthSnapshot {
	snap := HealthSnapshot{
		TextGeneration:  s.generator != nil && s.generator.Configured(),
		ImageGeneration: s.images != nil && s.images.Configured(),
		BrandCatalog:    s.catalog != nil,
	}
	if s.pinger != nil {
		snap.Store = s.pinger.PingContext(ctx) == nil
	}
	return snap
}

// validateRequest trims and checks the inputs. Duplicate detection folds
// case: "Nike" vs "NIKE" is the same brand.
func validateRequest(product1, product2, mode string) (model.FusionRequest, error) {
	p1 := strings.TrimSpace(product1)
	p2 := strings.TrimSpace(product2)

	if p1 == "" || p2 == "" {
		return model.FusionRequest{}, newValidationError("Both product1 and product2 are required")
	}
	if len(p1) > maxBrandLength || len(p2) > maxBrandLength {
		return model.FusionRequest{}, newValidationError("Brand names must be less than 50 characters")
	}
	if strings.EqualFold(p1, p2) {
		return model.FusionRequest{}, newValidationError("Please select two different brands")
	}

	return model.FusionRequest{
		Product1: p1,
		Product2: p2,
		Mode:     model.ParseMode(mode),
	}, nil
}

// IsNotFound reports whether err is the store's missing-row sentinel.
// Re-exported so handlers don't import storage just for the check.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
