package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	internalErrs "github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

// ErrMigrationFailure is returned when the destination partition could not
// be written. The source partition is guaranteed to be untouched in that
// case, so the rename that triggered the migration can be aborted.
var ErrMigrationFailure = fmt.Errorf("ownership migration failed: %w", internalErrs.Unavailable)

// Migrator relocates a patient partition from one owner identity to
// another. It must run to completion before the clinician directory
// persists the new email, otherwise patients would temporarily reference an
// owner that no longer resolves.
type Migrator interface {
	Migrate(ctx context.Context, oldOwner, newOwner string) error
}

type migrator struct {
	repo   patients.PartitionRepository
	logger *zap.SugaredLogger
}

var _ Migrator = &migrator{}

func NewMigrator(repo patients.PartitionRepository, logger *zap.SugaredLogger) (Migrator, error) {
	return &migrator{
		repo:   repo,
		logger: logger,
	}, nil
}

func (m *migrator) Migrate(ctx context.Context, oldOwner, newOwner string) error {
	exists, err := m.repo.HasPartition(ctx, oldOwner)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailure, err)
	}

	if !exists {
		// Nothing to relocate. Still guarantee the new owner ends up
		// with a partition so the operation is idempotent.
		if err := m.repo.EnsurePartition(ctx, newOwner); err != nil {
			return fmt.Errorf("%w: %v", ErrMigrationFailure, err)
		}
		return nil
	}

	source, err := m.repo.ListByOwner(ctx, oldOwner)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailure, err)
	}
	destination, err := m.repo.ListByOwner(ctx, newOwner)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailure, err)
	}

	merged := merge(source, destination, newOwner)

	if err := m.repo.WritePartition(ctx, newOwner, merged); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailure, err)
	}
	if err := m.repo.RemovePartition(ctx, oldOwner); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailure, err)
	}

	m.logger.Infow("migrated patient partition",
		"oldOwner", oldOwner, "newOwner", newOwner,
		"migrated", len(source), "merged", len(merged))
	return nil
}

// merge retargets the source records to the new owner and concatenates any
// records the destination already holds, deduplicated by id.
func merge(source, destination []*patients.Patient, newOwner string) []*patients.Patient {
	merged := make([]*patients.Patient, 0, len(source)+len(destination))
	seen := make(map[int]struct{}, len(source)+len(destination))

	for _, patient := range source {
		patient.Owner = newOwner
		merged = append(merged, patient)
		seen[patient.Id] = struct{}{}
	}
	for _, patient := range destination {
		if _, ok := seen[patient.Id]; ok {
			continue
		}
		merged = append(merged, patient)
		seen[patient.Id] = struct{}{}
	}

	return merged
}
