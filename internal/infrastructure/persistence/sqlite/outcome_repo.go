package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/domain/repository"
	"github.com/bnema/webbridge/internal/logging"
)

const (
	insertOutcome = `INSERT INTO outcomes (method, renderer_id, result, detail, latency_us, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`
	selectRecentOutcomes = `SELECT id, method, renderer_id, result, detail, latency_us, recorded_at
FROM outcomes ORDER BY recorded_at DESC, id DESC LIMIT ?`
	countOutcomesByResult = `SELECT result, COUNT(*) FROM outcomes GROUP BY result`
)

type outcomeRepo struct {
	db *sql.DB
}

// NewOutcomeRepository creates a SQLite-backed outcome repository.
func NewOutcomeRepository(db *sql.DB) repository.OutcomeRepository {
	return &outcomeRepo{db: db}
}

func (r *outcomeRepo) Save(ctx context.Context, outcome *entity.Outcome) error {
	if outcome == nil {
		return errors.New("cannot save nil outcome")
	}
	at := outcome.At
	if at.IsZero() {
		at = time.Now()
	}

	res, err := r.db.ExecContext(ctx, insertOutcome,
		string(outcome.Method),
		int64(outcome.RendererID),
		string(outcome.Result),
		outcome.Detail,
		outcome.Latency.Microseconds(),
		at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("outcome id: %w", err)
	}
	outcome.ID = id
	outcome.At = at

	logging.FromContext(ctx).Debug().
		Int64("id", id).
		Str("method", string(outcome.Method)).
		Str("result", string(outcome.Result)).
		Msg("outcome saved")
	return nil
}

func (r *outcomeRepo) Recent(ctx context.Context, limit int) ([]*entity.Outcome, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, selectRecentOutcomes, limit)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Outcome
	for rows.Next() {
		var (
			o          entity.Outcome
			method     string
			result     string
			rendererID int64
			latencyUS  int64
		)
		if err := rows.Scan(&o.ID, &method, &rendererID, &result, &o.Detail, &latencyUS, &o.At); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Method = entity.HostMethod(method)
		o.RendererID = entity.RendererID(rendererID)
		o.Result = entity.OutcomeResult(result)
		o.Latency = time.Duration(latencyUS) * time.Microsecond
		out = append(out, &o)
	}
	return out, rows.Err()
}

func (r *outcomeRepo) CountByResult(ctx context.Context) (map[entity.OutcomeResult]int64, error) {
	rows, err := r.db.QueryContext(ctx, countOutcomesByResult)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.OutcomeResult]int64)
	for rows.Next() {
		var (
			result string
			n      int64
		)
		if err := rows.Scan(&result, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[entity.OutcomeResult(result)] = n
	}
	return counts, rows.Err()
}
