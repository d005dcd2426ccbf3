package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame archives a finished game. Saving the same game twice (after an
// undo and a different finish) overwrites the earlier result.
func (r *GameRepo) SaveGame(ctx context.Context, rec *domain.GameRecord) error {
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("marshal moves: %w", err)
	}

	query := `
	INSERT INTO games (game_id, difficulty, human_side, winner, reason, total_moves, duration_seconds, created_at, finished_at, moves)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		moves = EXCLUDED.moves;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.Difficulty, rec.HumanSide, nullString(rec.Winner), rec.Reason,
		rec.TotalMoves, rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt, movesJSON)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", rec.GameID, err)
	}
	return nil
}

// GetGameByID returns nil, nil when the game is not archived.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	query := `
	SELECT game_id, difficulty, human_side, winner, reason, total_moves, duration_seconds,
	       created_at, finished_at, moves
	FROM games
	WHERE game_id = $1;
	`

	rec, err := scanGame(r.DB.QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	return rec, nil
}

// ListRecentGames returns the latest finished games without their moves.
func (r *GameRepo) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	query := `
	SELECT game_id, difficulty, human_side, winner, reason, total_moves, duration_seconds,
	       created_at, finished_at, '[]'::jsonb
	FROM games
	ORDER BY finished_at DESC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := make([]domain.GameRecord, 0, limit)
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		rec.Moves = nil
		games = append(games, *rec)
	}
	return games, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var rec domain.GameRecord
	var winner sql.NullString
	var movesJSON []byte

	err := row.Scan(&rec.GameID, &rec.Difficulty, &rec.HumanSide, &winner, &rec.Reason,
		&rec.TotalMoves, &rec.DurationSeconds, &rec.CreatedAt, &rec.FinishedAt, &movesJSON)
	if err != nil {
		return nil, err
	}

	rec.Winner = winner.String
	if len(movesJSON) > 0 {
		if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
			return nil, fmt.Errorf("unmarshal moves: %w", err)
		}
	}
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
