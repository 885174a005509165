package sqlite

import (
	"context"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/domain/repository"
	"github.com/bnema/webbridge/internal/logging"
)

// Journal is a port.OutcomeRecorder writing every outcome to the journal.
// Write failures are logged; recording never fails the round trip.
type Journal struct {
	provider port.DatabaseProvider
	repo     repository.OutcomeRepository
}

var _ port.OutcomeRecorder = (*Journal)(nil)

// NewJournal records into the database behind provider, opened on first use.
func NewJournal(provider port.DatabaseProvider) *Journal {
	return &Journal{provider: provider}
}

// Record implements port.OutcomeRecorder.
func (j *Journal) Record(ctx context.Context, outcome entity.Outcome) {
	log := logging.FromContext(ctx)

	repo, err := j.repository(ctx)
	if err != nil {
		log.Warn().Err(err).Str("method", string(outcome.Method)).Msg("outcome not journaled")
		return
	}
	if err := repo.Save(ctx, &outcome); err != nil {
		log.Warn().Err(err).Str("method", string(outcome.Method)).Msg("outcome not journaled")
	}
}

func (j *Journal) repository(ctx context.Context) (repository.OutcomeRepository, error) {
	if j.repo != nil {
		return j.repo, nil
	}
	db, err := j.provider.DB(ctx)
	if err != nil {
		return nil, err
	}
	j.repo = NewOutcomeRepository(db)
	return j.repo, nil
}
