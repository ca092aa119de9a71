// Package redis streams battle log lines into capped per-character Redis lists.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/config"
)

// DefaultKeyPrefix is used when the config leaves log_key_prefix empty.
const DefaultKeyPrefix = "spellbook:log:"

// NewClient builds a client from cfg. Redis connects lazily, so no I/O happens here.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// Log reads and writes battle log lists.
type Log struct {
	client   redis.Cmdable
	prefix   string
	maxLines int64
}

// NewLog returns a Log over client.
//
// Precondition: maxLines >= 1.
func NewLog(client redis.Cmdable, prefix string, maxLines int64) *Log {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Log{client: client, prefix: prefix, maxLines: maxLines}
}

// Key returns the list key for characterID.
func (l *Log) Key(characterID string) string {
	return l.prefix + characterID
}

// Append pushes line and trims the list to the newest maxLines entries.
func (l *Log) Append(ctx context.Context, characterID, line string) error {
	key := l.Key(characterID)
	pipe := l.client.TxPipeline()
	pipe.RPush(ctx, key, line)
	pipe.LTrim(ctx, key, -l.maxLines, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("appending battle log for %q: %w", characterID, err)
	}
	return nil
}

// Recent returns up to n of the newest lines, oldest first.
//
// Precondition: n >= 1.
func (l *Log) Recent(ctx context.Context, characterID string, n int64) ([]string, error) {
	lines, err := l.client.LRange(ctx, l.Key(characterID), -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading battle log for %q: %w", characterID, err)
	}
	return lines, nil
}

// Clear drops characterID's list.
func (l *Log) Clear(ctx context.Context, characterID string) error {
	if err := l.client.Del(ctx, l.Key(characterID)).Err(); err != nil {
		return fmt.Errorf("clearing battle log for %q: %w", characterID, err)
	}
	return nil
}

// Sink adapts Log to battlelog.Sink for one character. Write failures are
// logged and dropped so a Redis outage never fails a game operation.
type Sink struct {
	log         *Log
	characterID string
	timeout     time.Duration
	logger      *zap.Logger
}

// NewSink returns a Sink appending to characterID's list.
func NewSink(log *Log, characterID string, logger *zap.Logger) *Sink {
	return &Sink{log: log, characterID: characterID, timeout: 2 * time.Second, logger: logger}
}

// Append implements battlelog.Sink.
func (s *Sink) Append(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.log.Append(ctx, s.characterID, line); err != nil {
		s.logger.Warn("battle log write failed", zap.String("character", s.characterID), zap.Error(err))
	}
}
