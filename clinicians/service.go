package clinicians

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/auth"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/migration"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

type service struct {
	repo       *Repository
	migrator   migration.Migrator
	partitions patients.PartitionRepository
	sessions   *auth.SessionManager
	logger     *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo *Repository, migrator migration.Migrator, partitions patients.PartitionRepository, sessions *auth.SessionManager, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:       repo,
		migrator:   migrator,
		partitions: partitions,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

func (s *service) Create(ctx context.Context, clinician Clinician) (*Clinician, error) {
	created, err := s.repo.Create(ctx, clinician)
	if err != nil {
		return nil, err
	}

	// New doctors start with an empty partition of their own
	if err := s.partitions.EnsurePartition(ctx, created.Email); err != nil {
		s.logger.Warnw("unable to provision patient partition", "email", created.Email, "error", err)
	}

	s.logger.Infow("created clinician", "id", created.Id, "email", created.Email)
	return created, nil
}

func (s *service) Update(ctx context.Context, id int, update ClinicianUpdate) (*Clinician, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if update.Email != nil && *update.Email != existing.Email {
		collision, err := s.repo.GetByEmail(ctx, *update.Email)
		if err != nil {
			return nil, err
		}
		if collision != nil && collision.Id != id {
			return nil, ErrDuplicateEmail
		}

		// The partition must be relocated before the new email is
		// persisted, otherwise patients would reference an owner that
		// no longer resolves.
		if err := s.migrator.Migrate(ctx, existing.Email, *update.Email); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, update)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id == AdminId {
		return ErrProtectedAccount
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// The partition is removed outright, records are not reassigned
	if err := s.partitions.RemovePartition(ctx, existing.Email); err != nil {
		s.logger.Warnw("unable to remove patient partition", "email", existing.Email, "error", err)
	}

	s.sessions.TerminateForClinician(id)

	s.logger.Infow("deleted clinician", "id", id, "email", existing.Email)
	return nil
}

func (s *service) Get(ctx context.Context, id int) (*Clinician, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*Clinician, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *service) List(ctx context.Context) ([]*Clinician, error) {
	return s.repo.List(ctx)
}
