package port

import (
	"context"

	"github.com/bnema/webbridge/internal/domain/entity"
)

// OutcomeRecorder observes how host round trips end.
type OutcomeRecorder interface {
	Record(ctx context.Context, outcome entity.Outcome)
}

// Recorders fans an outcome out to several recorders in order.
type Recorders []OutcomeRecorder

// Record implements OutcomeRecorder.
func (rs Recorders) Record(ctx context.Context, outcome entity.Outcome) {
	for _, r := range rs {
		if r != nil {
			r.Record(ctx, outcome)
		}
	}
}
