// Package model defines the core data types for the brand mixer service.
// Struct tags (`json:"..."` and `db:"..."`) tell serialization libraries
// how to map fields.
package model

import (
	"strings"
	"time"
)

// Mode shapes the generated narrative: brands competing, partnering,
// or merging into one entity.
type Mode string

const (
	ModeCompetitive   Mode = "competitive"
	ModeCollaborative Mode = "collaborative"
	ModeFusion        Mode = "fusion"
)

// AllModes is the ordered list of valid modes.
var AllModes = []Mode{ModeCompetitive, ModeCollaborative, ModeFusion}

// ParseMode maps a raw string to a Mode. Empty or unrecognized input
// falls back to competitive — a missing mode is not an error.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCollaborative:
		return ModeCollaborative
	case ModeFusion:
		return ModeFusion
	default:
		return ModeCompetitive
	}
}

// FusionRequest carries the validated inputs for one generation call.
// It lives only for the duration of a single orchestration.
type FusionRequest struct {
	Product1 string `json:"product1"`
	Product2 string `json:"product2"`
	Mode     Mode   `json:"mode"`
}

// Components echoes the two input brand names back to every display
// surface as the authoritative record of what was combined.
type Components struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Categories classifies each input brand (e.g. "tech", "beverages").
type Categories struct {
	A string `json:"a"`
	B string `json:"b"`
}

// FusionResult is the structured output of the text-generation step.
// Fields the provider omits are filled with defaults rather than
// causing failure: score 0, empty feature list.
type FusionResult struct {
	Name               string     `json:"name"`
	Slogan             string     `json:"slogan"`
	Description        string     `json:"description"`
	HostReaction       string     `json:"host_reaction"`
	CompatibilityScore int        `json:"compatibility_score"`
	UniqueFeatures     []string   `json:"unique_features"`
	TargetAudience     string     `json:"target_audience"`
	ImagePrompt        string     `json:"image_prompt"`
	Components         Components `json:"components"`
	Categories         Categories `json:"categories"`
}

// Combo is the persisted entity — one row in brand_combos. Once created
// it is never edited except for Votes/UpdatedAt: an append-mostly ledger.
type Combo struct {
	ID                 string    `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Slogan             string    `db:"slogan" json:"slogan"`
	Description        string    `db:"description" json:"description"`
	Product1           string    `db:"product1" json:"product1"`
	Product2           string    `db:"product2" json:"product2"`
	Mode               Mode      `db:"mode" json:"mode"`
	Votes              int       `db:"votes" json:"votes"`
	HostReaction       string    `db:"host_reaction" json:"host_reaction"`
	ImageURL           string    `db:"image_url" json:"image_url"`
	CompatibilityScore int       `db:"compatibility_score" json:"compatibility_score"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// ComboStats are the aggregate counters for the whole store.
type ComboStats struct {
	TotalCombos int `db:"total_combos" json:"totalCombos"`
	TotalVotes  int `db:"total_votes" json:"totalVotes"`
}

// ComboView is what the generate endpoint returns: the fusion result plus
// the image reference, and — when the store write succeeded — the persisted
// identity. Persisted=false means the user still gets their result but it
// cannot be voted on and will not appear on the leaderboard.
type ComboView struct {
	ID                 string     `json:"id,omitempty"`
	Name               string     `json:"name"`
	Slogan             string     `json:"slogan"`
	Description        string     `json:"description"`
	HostReaction       string     `json:"host_reaction"`
	CompatibilityScore int        `json:"compatibility_score"`
	UniqueFeatures     []string   `json:"unique_features"`
	TargetAudience     string     `json:"target_audience"`
	Components         Components `json:"components"`
	Categories         Categories `json:"categories"`
	Product1           string     `json:"product1"`
	Product2           string     `json:"product2"`
	Mode               Mode       `json:"mode"`
	ImageURL           string     `json:"image_url"`
	Votes              int        `json:"votes"`
	Persisted          bool       `json:"persisted"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
}

// GenerationCall tracks each call to a text-generation provider for cost
// monitoring.
type GenerationCall struct {
	ID         int64     `db:"id" json:"id"`
	Product1   string    `db:"product1" json:"product1"`
	Product2   string    `db:"product2" json:"product2"`
	Mode       Mode      `db:"mode" json:"mode"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
