package llm

import (
	"reflect"
	"testing"

	"github.com/nexora/brand-mixer/internal/model"
)

func TestFallback_Deterministic(t *testing.T) {
	req := model.FusionRequest{Product1: "Nike", Product2: "Adidas", Mode: model.ModeCompetitive}

	first := Fallback(req)
	second := Fallback(req)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results for identical inputs:\n%+v\n%+v", first, second)
	}
}

func TestFallback_MarkersAndComponents(t *testing.T) {
	req := model.FusionRequest{Product1: "Coca-Cola", Product2: "Pepsi", Mode: model.ModeFusion}

	result := Fallback(req)

	if result.CompatibilityScore != 0 {
		t.Errorf("expected fallback score 0, got %d", result.CompatibilityScore)
	}
	if result.UniqueFeatures == nil || len(result.UniqueFeatures) != 0 {
		t.Errorf("expected empty (non-nil) unique features, got %v", result.UniqueFeatures)
	}
	if result.Components.A != "Coca-Cola" || result.Components.B != "Pepsi" {
		t.Errorf("expected components to echo inputs, got %+v", result.Components)
	}
	if result.Name == "" || result.Slogan == "" || result.Description == "" {
		t.Error("expected all creative fields to be populated")
	}
}

func TestFallback_ModeSelectsTemplate(t *testing.T) {
	for _, mode := range model.AllModes {
		req := model.FusionRequest{Product1: "Apple", Product2: "Samsung", Mode: mode}
		result := Fallback(req)

		tpl := fallbackTemplates[mode]
		found := false
		for _, name := range tpl.names {
			if result.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("mode %s: name %q not drawn from its template set", mode, result.Name)
		}
	}
}

func TestFallback_CaseInsensitiveSelection(t *testing.T) {
	lower := Fallback(model.FusionRequest{Product1: "nike", Product2: "adidas", Mode: model.ModeCompetitive})
	upper := Fallback(model.FusionRequest{Product1: "NIKE", Product2: "ADIDAS", Mode: model.ModeCompetitive})

	if lower.Name != upper.Name {
		t.Errorf("expected same template regardless of input case, got %q vs %q", lower.Name, upper.Name)
	}
}
