package llm

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/nexora/brand-mixer/internal/model"
)

// fallbackTemplate holds the canned naming material for one fusion mode.
type fallbackTemplate struct {
	names   []string
	slogans []string // fmt patterns taking (product1, product2)
}

var fallbackTemplates = map[model.Mode]fallbackTemplate{
	model.ModeCompetitive: {
		names: []string{"Ultimate Showdown", "Epic Battle", "Supreme Clash", "Champion Duel"},
		slogans: []string{
			"Where %s meets its match with %s",
			"The ultimate showdown: %s vs %s",
			"When %s challenges %s to greatness",
		},
	},
	model.ModeCollaborative: {
		names: []string{"Perfect Alliance", "United Force", "Harmony Blend", "Strategic Union"},
		slogans: []string{
			"Where %s and %s unite for greatness",
			"The perfect partnership of %s and %s",
			"When %s joins forces with %s",
		},
	},
	model.ModeFusion: {
		names: []string{"Complete Fusion", "Revolutionary Blend", "Next Evolution", "Ultimate Synthesis"},
		slogans: []string{
			"The revolutionary fusion of %s and %s",
			"Where %s and %s become one",
			"The next evolution: %s meets %s",
		},
	},
}

// Fallback synthesizes a FusionResult purely from the request inputs, for
// when every generation provider is unavailable. The same inputs always
// produce the same result: the template is selected by hashing the folded
// input pair, not by randomness. Creative fields look generic and the
// compatibility score stays at its zero default — that is the only way a
// caller can tell a fallback from a real result.
func Fallback(req model.FusionRequest) *model.FusionResult {
	tpl, ok := fallbackTemplates[req.Mode]
	if !ok {
		tpl = fallbackTemplates[model.ModeCompetitive]
	}

	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s",
		strings.ToLower(req.Product1),
		strings.ToLower(req.Product2),
		req.Mode)
	seed := int(h.Sum32())

	name := tpl.names[seed%len(tpl.names)]
	slogan := fmt.Sprintf(tpl.slogans[seed%len(tpl.slogans)], req.Product1, req.Product2)

	return &model.FusionResult{
		Name:               name,
		Slogan:             slogan,
		Description:        fmt.Sprintf("An innovative %s concept bringing together the best of %s and %s in an unprecedented way.", req.Mode, req.Product1, req.Product2),
		HostReaction:       fmt.Sprintf("Brand Mixologist: 'This %s and %s %s is absolutely revolutionary! The synergy is incredible!'", req.Product1, req.Product2, req.Mode),
		CompatibilityScore: 0,
		UniqueFeatures:     []string{},
		TargetAudience:     "Innovation-seeking consumers",
		ImagePrompt:        fmt.Sprintf("A creative fusion showing %s and %s products combined in a modern, sleek design with vibrant colors and professional lighting", req.Product1, req.Product2),
		Components:         model.Components{A: req.Product1, B: req.Product2},
	}
}
