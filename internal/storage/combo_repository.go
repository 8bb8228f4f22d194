package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nexora/brand-mixer/internal/model"
)

// ErrNotFound is returned when a combo doesn't exist in the database.
// Callers check with errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("combo not found")

// ComboRepository defines the interface for combo persistence. Only the
// interface is public; the SQLite implementation stays unexported so tests
// can stub persistence without touching a real database.
type ComboRepository interface {
	Create(ctx context.Context, combo *model.Combo) error
	GetByID(ctx context.Context, id string) (*model.Combo, error)
	List(ctx context.Context, limit int) ([]model.Combo, error)
	Vote(ctx context.Context, id string) (int, error)
	Stats(ctx context.Context) (model.ComboStats, error)
}

type sqliteComboRepository struct {
	db *sqlx.DB
}

// NewComboRepository creates a new SQLite-backed ComboRepository.
func NewComboRepository(db *sqlx.DB) ComboRepository {
	return &sqliteComboRepository{db: db}
}

// Create inserts one row. The server assigns id, timestamps, and votes=0;
// the combo struct is updated in place so the caller gets the persisted
// identity back.
func (r *sqliteComboRepository) Create(ctx context.Context, combo *model.Combo) error {
	if combo.ID == "" {
		combo.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	combo.CreatedAt = now
	combo.UpdatedAt = now
	combo.Votes = 0

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO brand_combos (id, name, slogan, description, product1, product2, mode,
			votes, host_reaction, image_url, compatibility_score, created_at, updated_at)
		VALUES (:id, :name, :slogan, :description, :product1, :product2, :mode,
			:votes, :host_reaction, :image_url, :compatibility_score, :created_at, :updated_at)
	`, combo)
	if err != nil {
		return fmt.Errorf("creating combo: %w", err)
	}
	return nil
}

func (r *sqliteComboRepository) GetByID(ctx context.Context, id string) (*model.Combo, error) {
	var combo model.Combo
	err := r.db.GetContext(ctx, &combo, "SELECT * FROM brand_combos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting combo %s: %w", id, err)
	}
	return &combo, nil
}

// List returns up to limit combos ordered by votes descending. Ties break
// on created_at descending so the ordering is stable across calls.
func (r *sqliteComboRepository) List(ctx context.Context, limit int) ([]model.Combo, error) {
	combos := []model.Combo{}
	err := r.db.SelectContext(ctx, &combos,
		"SELECT * FROM brand_combos ORDER BY votes DESC, created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing combos: %w", err)
	}
	return combos, nil
}

// Vote increments the vote counter by exactly one and refreshes updated_at,
// in a single server-side statement. A read-modify-write from the caller
// would lose updates under concurrent votes on the same row; the RETURNING
// clause gives us the post-increment count without a second query.
func (r *sqliteComboRepository) Vote(ctx context.Context, id string) (int, error) {
	var votes int
	err := r.db.GetContext(ctx, &votes, `
		UPDATE brand_combos
		SET votes = votes + 1, updated_at = ?
		WHERE id = ?
		RETURNING votes
	`, time.Now().UTC(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("voting for combo %s: %w", id, err)
	}
	return votes, nil
}

// Stats returns the aggregate counters. COALESCE makes the empty store
// come back as zeros instead of a NULL scan error.
func (r *sqliteComboRepository) Stats(ctx context.Context) (model.ComboStats, error) {
	var stats model.ComboStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total_combos, COALESCE(SUM(votes), 0) AS total_votes
		FROM brand_combos
	`)
	if err != nil {
		return model.ComboStats{}, fmt.Errorf("getting combo stats: %w", err)
	}
	return stats, nil
}

// GenerationCallRepository handles persistence of generation call tracking.
type GenerationCallRepository interface {
	Create(ctx context.Context, call *model.GenerationCall) error
	CountByProvider(ctx context.Context, provider string) (int64, error)
}

type sqliteGenerationCallRepository struct {
	db *sqlx.DB
}

// NewGenerationCallRepository creates a new SQLite-backed GenerationCallRepository.
func NewGenerationCallRepository(db *sqlx.DB) GenerationCallRepository {
	return &sqliteGenerationCallRepository{db: db}
}

func (r *sqliteGenerationCallRepository) Create(ctx context.Context, call *model.GenerationCall) error {
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now().UTC()
	}
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO generation_calls (product1, product2, mode, provider, model, success, duration_ms, created_at)
		VALUES (:product1, :product2, :mode, :provider, :model, :success, :duration_ms, :created_at)
	`, call)
	if err != nil {
		return fmt.Errorf("creating generation call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteGenerationCallRepository) CountByProvider(ctx context.Context, provider string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM generation_calls WHERE provider = ?", provider)
	return count, err
}
