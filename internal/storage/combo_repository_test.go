package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nexora/brand-mixer/internal/model"
)

// setupTestDB creates a temporary SQLite database for testing. t.TempDir
// is cleaned up automatically after the test — no manual teardown needed.
func setupTestDB(t *testing.T) *testDeps {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return &testDeps{
		comboRepo: NewComboRepository(db),
		callRepo:  NewGenerationCallRepository(db),
	}
}

type testDeps struct {
	comboRepo ComboRepository
	callRepo  GenerationCallRepository
}

func sampleCombo(product1, product2 string) *model.Combo {
	return &model.Combo{
		Name:               "Ultimate Showdown",
		Slogan:             "The ultimate showdown: " + product1 + " vs " + product2,
		Description:        "A test combo.",
		Product1:           product1,
		Product2:           product2,
		Mode:               model.ModeCompetitive,
		HostReaction:       "Brand Mixologist: 'Incredible!'",
		ImageURL:           "https://example.com/art.png",
		CompatibilityScore: 88,
	}
}

func TestComboRepository_CreateAndGet(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	combo := sampleCombo("Nike", "Adidas")
	if err := deps.comboRepo.Create(ctx, combo); err != nil {
		t.Fatalf("creating combo: %v", err)
	}

	if combo.ID == "" {
		t.Error("expected combo ID to be set after create")
	}
	if combo.Votes != 0 {
		t.Errorf("expected votes initialized to 0, got %d", combo.Votes)
	}
	if combo.CreatedAt.IsZero() || combo.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set after create")
	}

	got, err := deps.comboRepo.GetByID(ctx, combo.ID)
	if err != nil {
		t.Fatalf("getting combo: %v", err)
	}
	if got.Product1 != "Nike" || got.Product2 != "Adidas" {
		t.Errorf("expected products Nike/Adidas, got %s/%s", got.Product1, got.Product2)
	}
	if got.Mode != model.ModeCompetitive {
		t.Errorf("expected mode competitive, got %s", got.Mode)
	}
	if got.CompatibilityScore != 88 {
		t.Errorf("expected score 88, got %d", got.CompatibilityScore)
	}
}

func TestComboRepository_GetByID_NotFound(t *testing.T) {
	deps := setupTestDB(t)

	_, err := deps.comboRepo.GetByID(context.Background(), "does-not-exist")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComboRepository_Vote(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	combo := sampleCombo("Apple", "Samsung")
	if err := deps.comboRepo.Create(ctx, combo); err != nil {
		t.Fatalf("creating combo: %v", err)
	}

	votes, err := deps.comboRepo.Vote(ctx, combo.ID)
	if err != nil {
		t.Fatalf("voting: %v", err)
	}
	if votes != 1 {
		t.Errorf("expected 1 vote, got %d", votes)
	}

	votes, err = deps.comboRepo.Vote(ctx, combo.ID)
	if err != nil {
		t.Fatalf("voting again: %v", err)
	}
	if votes != 2 {
		t.Errorf("expected 2 votes, got %d", votes)
	}

	got, err := deps.comboRepo.GetByID(ctx, combo.ID)
	if err != nil {
		t.Fatalf("getting combo: %v", err)
	}
	if got.Votes != 2 {
		t.Errorf("expected persisted votes 2, got %d", got.Votes)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("expected updated_at to advance with the vote")
	}
}

func TestComboRepository_Vote_NotFound(t *testing.T) {
	deps := setupTestDB(t)

	_, err := deps.comboRepo.Vote(context.Background(), "does-not-exist")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// No lost updates: N concurrent votes on one row must land as exactly N.
func TestComboRepository_Vote_Concurrent(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	combo := sampleCombo("Tesla", "BMW")
	if err := deps.comboRepo.Create(ctx, combo); err != nil {
		t.Fatalf("creating combo: %v", err)
	}

	const voters = 25
	var wg sync.WaitGroup
	errCh := make(chan error, voters)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := deps.comboRepo.Vote(ctx, combo.ID); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent vote failed: %v", err)
	}

	got, err := deps.comboRepo.GetByID(ctx, combo.ID)
	if err != nil {
		t.Fatalf("getting combo: %v", err)
	}
	if got.Votes != voters {
		t.Errorf("expected exactly %d votes, got %d", voters, got.Votes)
	}
}

func TestComboRepository_List_OrderAndLimit(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	// Four combos with votes 5, 1, 9, 3 — votes only move through the
	// atomic increment, same as production.
	voteCounts := []int{5, 1, 9, 3}
	for i, count := range voteCounts {
		combo := sampleCombo("Brand", "Rival")
		combo.Name = "Combo"
		if err := deps.comboRepo.Create(ctx, combo); err != nil {
			t.Fatalf("creating combo %d: %v", i, err)
		}
		for v := 0; v < count; v++ {
			if _, err := deps.comboRepo.Vote(ctx, combo.ID); err != nil {
				t.Fatalf("voting for combo %d: %v", i, err)
			}
		}
	}

	combos, err := deps.comboRepo.List(ctx, 3)
	if err != nil {
		t.Fatalf("listing combos: %v", err)
	}

	if len(combos) != 3 {
		t.Fatalf("expected 3 combos, got %d", len(combos))
	}
	want := []int{9, 5, 3}
	for i, combo := range combos {
		if combo.Votes != want[i] {
			t.Errorf("position %d: expected %d votes, got %d", i, want[i], combo.Votes)
		}
	}
}

func TestComboRepository_Stats_Empty(t *testing.T) {
	deps := setupTestDB(t)

	stats, err := deps.comboRepo.Stats(context.Background())
	if err != nil {
		t.Fatalf("getting stats on empty store: %v", err)
	}
	if stats.TotalCombos != 0 || stats.TotalVotes != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestComboRepository_Stats(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	first := sampleCombo("KFC", "Subway")
	second := sampleCombo("Gucci", "Zara")
	for _, combo := range []*model.Combo{first, second} {
		if err := deps.comboRepo.Create(ctx, combo); err != nil {
			t.Fatalf("creating combo: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := deps.comboRepo.Vote(ctx, first.ID); err != nil {
			t.Fatalf("voting: %v", err)
		}
	}

	stats, err := deps.comboRepo.Stats(ctx)
	if err != nil {
		t.Fatalf("getting stats: %v", err)
	}
	if stats.TotalCombos != 2 {
		t.Errorf("expected 2 combos, got %d", stats.TotalCombos)
	}
	if stats.TotalVotes != 3 {
		t.Errorf("expected 3 total votes, got %d", stats.TotalVotes)
	}
}

func TestGenerationCallRepository_CreateAndCount(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	duration := int64(1500)
	call := &model.GenerationCall{
		Product1:   "Nike",
		Product2:   "Adidas",
		Mode:       model.ModeFusion,
		Provider:   "anthropic",
		Model:      "claude-3-5-sonnet-20241022",
		Success:    true,
		DurationMs: &duration,
	}

	if err := deps.callRepo.Create(ctx, call); err != nil {
		t.Fatalf("creating generation call: %v", err)
	}
	if call.ID == 0 {
		t.Error("expected generation call ID to be set after create")
	}

	count, err := deps.callRepo.CountByProvider(ctx, "anthropic")
	if err != nil {
		t.Fatalf("counting calls: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 call, got %d", count)
	}
}
