package service

import (
	"context"
	"database/sql"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// HistoryRepository records every catch attempt and serves the per-room
// leaderboard from the catches table.
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewHistoryRepository(postgres *PostgresService, logger *zap.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *HistoryRepository) RecordAttempt(ctx context.Context, attempt domain.CatchAttempt) error {
	query := `
		INSERT INTO catches (room, sender, creature_id, creature_name, power_score, catch_chance, success, caught_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		attempt.Room, attempt.Sender, attempt.CreatureID, attempt.CreatureName,
		attempt.PowerScore, attempt.CatchChance, attempt.Success, attempt.CaughtAt,
	)
	if err != nil {
		return errors.NewDatabaseError("failed to record catch attempt", "insert", "catches", err)
	}

	return nil
}

// TopCollectors ranks users of a room by distinct creatures caught,
// attempts breaking ties in favor of fewer throws.
func (r *HistoryRepository) TopCollectors(ctx context.Context, room string, limit int) ([]domain.CollectorRank, error) {
	query := `
		SELECT sender,
		       COUNT(DISTINCT creature_id) FILTER (WHERE success) AS caught,
		       COUNT(*) AS attempts
		FROM catches
		WHERE room = $1
		GROUP BY sender
		HAVING COUNT(DISTINCT creature_id) FILTER (WHERE success) > 0
		ORDER BY caught DESC, attempts ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, room, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query leaderboard", "select", "catches", err)
	}
	defer rows.Close()

	var ranks []domain.CollectorRank
	for rows.Next() {
		var rank domain.CollectorRank
		if err := rows.Scan(&rank.Sender, &rank.Caught, &rank.Attempts); err != nil {
			r.logger.Warn("Failed to scan leaderboard row", zap.Error(err))
			continue
		}
		ranks = append(ranks, rank)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("failed to read leaderboard rows", "select", "catches", err)
	}

	return ranks, nil
}

// UserStats returns one user's attempt totals in a room, zero values when
// the user never threw anything.
func (r *HistoryRepository) UserStats(ctx context.Context, room, sender string) (domain.CollectorStats, error) {
	query := `
		SELECT COUNT(*) AS attempts,
		       COUNT(*) FILTER (WHERE success) AS successes
		FROM catches
		WHERE room = $1 AND sender = $2
	`

	var stats domain.CollectorStats
	err := r.db.QueryRowContext(ctx, query, room, sender).Scan(&stats.Attempts, &stats.Successes)
	if err == sql.ErrNoRows {
		return domain.CollectorStats{}, nil
	}
	if err != nil {
		return domain.CollectorStats{}, errors.NewDatabaseError("failed to query user stats", "select", "catches", err)
	}

	return stats, nil
}
