package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/domain/repository"
	"github.com/bnema/webbridge/internal/logging"
)

// DefaultOutcomeLimit is used when ListOutcomesInput.Limit is not positive.
const DefaultOutcomeLimit = 50

// ListOutcomesUseCase reads the outcome journal.
type ListOutcomesUseCase struct {
	repo repository.OutcomeRepository
}

// NewListOutcomesUseCase creates a new ListOutcomesUseCase.
func NewListOutcomesUseCase(repo repository.OutcomeRepository) *ListOutcomesUseCase {
	return &ListOutcomesUseCase{repo: repo}
}

// ListOutcomesInput selects how many outcomes to return.
type ListOutcomesInput struct {
	Limit int
}

// ResultCount is the number of outcomes that ended on one path.
type ResultCount struct {
	Result entity.OutcomeResult
	Count  int64
}

// ListOutcomesOutput holds the newest outcomes and per-path totals.
type ListOutcomesOutput struct {
	Outcomes []*entity.Outcome
	Counts   []ResultCount
	Total    int64
}

// Execute returns the newest outcomes first, with totals sorted by count.
func (uc *ListOutcomesUseCase) Execute(ctx context.Context, input ListOutcomesInput) (*ListOutcomesOutput, error) {
	if uc.repo == nil {
		return nil, errors.New("outcome journal not configured")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultOutcomeLimit
	}

	outcomes, err := uc.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	byResult, err := uc.repo.CountByResult(ctx)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}

	out := &ListOutcomesOutput{Outcomes: outcomes}
	for result, n := range byResult {
		out.Counts = append(out.Counts, ResultCount{Result: result, Count: n})
		out.Total += n
	}
	sort.Slice(out.Counts, func(i, j int) bool {
		if out.Counts[i].Count != out.Counts[j].Count {
			return out.Counts[i].Count > out.Counts[j].Count
		}
		return out.Counts[i].Result < out.Counts[j].Result
	})

	logging.FromContext(ctx).Debug().
		Int("returned", len(outcomes)).
		Int64("total", out.Total).
		Msg("outcomes listed")
	return out, nil
}
