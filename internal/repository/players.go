package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PlayerRecord is one persisted player profile with lifetime results.
type PlayerRecord struct {
	Name        string
	GamesPlayed int
	GamesWon    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlayerRepository stores player profiles.
type PlayerRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPlayerRepository creates a player repository.
func NewPlayerRepository(db *DB) *PlayerRepository {
	return &PlayerRepository{db: db, logger: db.logger}
}

// Ensure creates the player row if it does not exist.
func (r *PlayerRepository) Ensure(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("player name must not be empty")
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO players (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`, name)
	if err != nil {
		return fmt.Errorf("failed to ensure player %s: %w", name, err)
	}
	return nil
}

// Get retrieves a player by name. Returns ErrNotFound when absent.
func (r *PlayerRepository) Get(ctx context.Context, name string) (*PlayerRecord, error) {
	rec := &PlayerRecord{}
	err := r.db.pool.QueryRow(ctx, `
		SELECT name, games_played, games_won, created_at, updated_at
		FROM players WHERE name = $1
	`, name).Scan(&rec.Name, &rec.GamesPlayed, &rec.GamesWon, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("player %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load player %s: %w", name, err)
	}
	return rec, nil
}

// RecordResult increments a player's game count, and win count when won
// is true. The player row is created if missing.
func (r *PlayerRepository) RecordResult(ctx context.Context, name string, won bool) error {
	if err := r.Ensure(ctx, name); err != nil {
		return err
	}

	winIncrement := 0
	if won {
		winIncrement = 1
	}

	_, err := r.db.pool.Exec(ctx, `
		UPDATE players SET
			games_played = games_played + 1,
			games_won = games_won + $2,
			updated_at = now()
		WHERE name = $1
	`, name, winIncrement)
	if err != nil {
		return fmt.Errorf("failed to record result for %s: %w", name, err)
	}

	r.logger.Debug("player result recorded",
		zap.String("player", name),
		zap.Bool("won", won),
	)
	return nil
}
