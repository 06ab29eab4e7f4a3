package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// GameRecord is one persisted game: the serialized snapshot plus the
// metadata needed to list and verify it without decoding.
type GameRecord struct {
	ID        string
	Phase     string
	Checksum  string
	Snapshot  []byte
	UpdatedAt time.Time
}

// GameSummary is a listing row without the snapshot blob.
type GameSummary struct {
	ID        string
	Phase     string
	Checksum  string
	UpdatedAt time.Time
}

// GameRepository stores serialized game states.
type GameRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGameRepository creates a game repository.
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db, logger: db.logger}
}

// Save upserts the snapshot for a game.
func (r *GameRepository) Save(ctx context.Context, rec *GameRecord) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO games (id, phase, checksum, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			phase = EXCLUDED.phase,
			checksum = EXCLUDED.checksum,
			snapshot = EXCLUDED.snapshot,
			updated_at = now()
	`, rec.ID, rec.Phase, rec.Checksum, rec.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", rec.ID, err)
	}

	r.logger.Debug("game saved",
		zap.String("game_id", rec.ID),
		zap.String("phase", rec.Phase),
		zap.Int("snapshot_bytes", len(rec.Snapshot)),
	)
	return nil
}

// Load retrieves a game by id. Returns ErrNotFound when absent.
func (r *GameRepository) Load(ctx context.Context, gameID string) (*GameRecord, error) {
	rec := &GameRecord{}
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, phase, checksum, snapshot, updated_at
		FROM games WHERE id = $1
	`, gameID).Scan(&rec.ID, &rec.Phase, &rec.Checksum, &rec.Snapshot, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	return rec, nil
}

// Delete removes a game. Deleting an absent game is not an error.
func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	return nil
}

// ListRecent returns the most recently updated games, newest first.
func (r *GameRepository) ListRecent(ctx context.Context, limit int) ([]GameSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.pool.Query(ctx, `
		SELECT id, phase, checksum, updated_at
		FROM games ORDER BY updated_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var s GameSummary
		if err := rows.Scan(&s.ID, &s.Phase, &s.Checksum, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game rows: %w", err)
	}
	return out, nil
}
