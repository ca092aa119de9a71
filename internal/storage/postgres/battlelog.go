package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// LogEntry is one persisted battle log line.
type LogEntry struct {
	ID          uuid.UUID
	CharacterID string
	Line        string
	CreatedAt   time.Time
}

// BattleLogRepository stores battle log lines per character.
type BattleLogRepository struct {
	db *pgxpool.Pool
}

// NewBattleLogRepository creates a BattleLogRepository backed by the given pool.
func NewBattleLogRepository(db *pgxpool.Pool) *BattleLogRepository {
	return &BattleLogRepository{db: db}
}

// Append stores line for characterID.
//
// Postcondition: Returns the stored entry, or ErrCharacterNotFound when the
// character row does not exist.
func (r *BattleLogRepository) Append(ctx context.Context, characterID, line string) (LogEntry, error) {
	e := LogEntry{ID: uuid.New(), CharacterID: characterID, Line: line}
	err := r.db.QueryRow(ctx, `
		INSERT INTO battle_log (id, character_id, line)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		e.ID, characterID, line,
	).Scan(&e.CreatedAt)
	if err != nil {
		if isForeignKeyError(err) {
			return LogEntry{}, ErrCharacterNotFound
		}
		return LogEntry{}, fmt.Errorf("appending battle log: %w", err)
	}
	return e, nil
}

// Recent returns up to limit of the newest lines for characterID, oldest first.
//
// Precondition: limit > 0.
func (r *BattleLogRepository) Recent(ctx context.Context, characterID string, limit int) ([]LogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, character_id, line, created_at FROM (
			SELECT id, character_id, line, created_at
			FROM battle_log WHERE character_id = $1
			ORDER BY created_at DESC, id DESC LIMIT $2
		) recent ORDER BY created_at ASC, id ASC`,
		characterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying battle log: %w", err)
	}
	defer rows.Close()

	out := make([]LogEntry, 0, limit)
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.CharacterID, &e.Line, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning battle log row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Sink adapts the repository to battlelog.Sink for one character. Write
// failures are logged and dropped.
type Sink struct {
	repo        *BattleLogRepository
	characterID string
	timeout     time.Duration
	logger      *zap.Logger
}

// NewSink returns a Sink appending to characterID's log.
func NewSink(repo *BattleLogRepository, characterID string, logger *zap.Logger) *Sink {
	return &Sink{repo: repo, characterID: characterID, timeout: 5 * time.Second, logger: logger}
}

// Append implements battlelog.Sink.
func (s *Sink) Append(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.repo.Append(ctx, s.characterID, line); err != nil {
		s.logger.Warn("battle log write failed", zap.String("character", s.characterID), zap.Error(err))
	}
}

func isForeignKeyError(err error) bool {
	// SQLSTATE 23503 is foreign_key_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23503"
	}
	return false
}
