// Package repository declares persistence contracts for domain entities.
package repository

import (
	"context"

	"github.com/bnema/webbridge/internal/domain/entity"
)

// OutcomeRepository persists the terminal outcome of host round trips.
type OutcomeRepository interface {
	// Save stores an outcome and assigns its ID.
	Save(ctx context.Context, outcome *entity.Outcome) error

	// Recent returns the newest outcomes first.
	Recent(ctx context.Context, limit int) ([]*entity.Outcome, error)

	// CountByResult returns how many outcomes ended on each path.
	CountByResult(ctx context.Context) (map[entity.OutcomeResult]int64, error)
}
