package patients

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:   repo,
		logger: logger,
	}, nil
}

func (s *service) Create(ctx context.Context, owner string, patient Patient) (*Patient, error) {
	patient.Owner = owner
	created, err := s.repo.Create(ctx, patient)
	if err != nil {
		return nil, err
	}

	s.logger.Debugw("created patient", "id", created.Id, "owner", created.Owner)
	return created, nil
}

func (s *service) Update(ctx context.Context, id int, update PatientUpdate) (*Patient, error) {
	return s.repo.Update(ctx, id, update)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id int) (*Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Patient, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, patient := range list {
		if strings.EqualFold(patient.Name, name) {
			return patient, nil
		}
	}
	return nil, ErrNotFound
}

func (s *service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByOwner(ctx context.Context, owner string) ([]*Patient, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]*Patient, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []*Patient
	for _, patient := range list {
		if patient.HasStatus(status) {
			result = append(result, patient)
		}
	}
	return result, nil
}

func (s *service) ListCritical(ctx context.Context) ([]*Patient, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []*Patient
	for _, patient := range list {
		if patient.IsCritical() {
			result = append(result, patient)
		}
	}
	return result, nil
}

func (s *service) Count(ctx context.Context) (int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (s *service) CountByOwner(ctx context.Context, owner string) (int, error) {
	list, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}
