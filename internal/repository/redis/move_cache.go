package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

const moveKeyPrefix = "gomoku:move:"

// MoveCache stores engine answers per position so repeated positions skip
// the search.
type MoveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMoveCache(client *redis.Client, ttl time.Duration) *MoveCache {
	return &MoveCache{client: client, ttl: ttl}
}

// GetBestMove returns ok=false on a cache miss.
func (c *MoveCache) GetBestMove(ctx context.Context, key string) (domain.Position, bool, error) {
	val, err := c.client.Get(ctx, moveKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Position{}, false, nil
	}
	if err != nil {
		return domain.Position{}, false, fmt.Errorf("get cached move: %w", err)
	}

	pos, err := decodePosition(val)
	if err != nil {
		return domain.Position{}, false, err
	}
	return pos, true, nil
}

func (c *MoveCache) SetBestMove(ctx context.Context, key string, pos domain.Position) error {
	if err := c.client.Set(ctx, moveKeyPrefix+key, encodePosition(pos), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache move: %w", err)
	}
	return nil
}

func encodePosition(p domain.Position) string {
	return strconv.Itoa(p.Row) + "," + strconv.Itoa(p.Col)
}

func decodePosition(s string) (domain.Position, error) {
	rowStr, colStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Position{}, fmt.Errorf("malformed cached move %q", s)
	}
	row, err := strconv.Atoi(rowStr)
	if err != nil {
		return domain.Position{}, fmt.Errorf("malformed cached move %q: %w", s, err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return domain.Position{}, fmt.Errorf("malformed cached move %q: %w", s, err)
	}
	if !domain.IsValidPosition(row, col) {
		return domain.Position{}, fmt.Errorf("cached move %q is off the board", s)
	}
	return domain.Position{Row: row, Col: col}, nil
}
