package clinicians

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/pointer"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/store"
)

func NewRepository(kv store.Store, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (*Repository, error) {
	repo := &Repository{
		kv:     kv,
		logger: logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

// Repository holds the clinician roster in memory and re-serializes the
// full list to the side-store synchronously after every mutation.
type Repository struct {
	kv     store.Store
	logger *zap.SugaredLogger

	mu     sync.RWMutex
	roster []*Clinician
}

// Initialize loads the roster from the side-store and seeds the reserved
// administrator on first run.
func (r *Repository) Initialize(ctx context.Context) error {
	data, err := r.kv.Get(ctx, store.CliniciansKey)
	if err == store.ErrNotFound {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.roster = []*Clinician{seedAdministrator()}
		if err := r.persist(ctx, r.roster); err != nil {
			return fmt.Errorf("unable to seed administrator account: %w", err)
		}
		r.logger.Infow("seeded clinician roster", "adminId", AdminId)
		return nil
	} else if err != nil {
		return fmt.Errorf("unable to load clinician roster: %w", err)
	}

	var roster []*Clinician
	if err := json.Unmarshal(data, &roster); err != nil {
		return fmt.Errorf("unable to decode clinician roster: %w", err)
	}

	r.mu.Lock()
	r.roster = roster
	r.mu.Unlock()

	r.logger.Infow("loaded clinician roster", "clinicians", len(roster))
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*Clinician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Clinician, 0, len(r.roster))
	for _, clinician := range r.roster {
		result = append(result, cloneClinician(clinician))
	}
	return result, nil
}

// Get returns nil when the id is unknown.
func (r *Repository) Get(ctx context.Context, id int) (*Clinician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, clinician := range r.roster {
		if clinician.Id == id {
			return cloneClinician(clinician), nil
		}
	}
	return nil, nil
}

// GetByEmail matches case-insensitively and returns nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Clinician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, clinician := range r.roster {
		if strings.EqualFold(clinician.Email, email) {
			return cloneClinician(clinician), nil
		}
	}
	return nil, nil
}

func (r *Repository) Create(ctx context.Context, clinician Clinician) (*Clinician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.roster {
		if strings.EqualFold(existing.Email, clinician.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	clinician.Id = r.nextId()
	clinician.Role = RoleDoctor
	if clinician.PasswordSecret == "" {
		clinician.PasswordSecret = defaultPasswordSecret
	}

	next := append(append([]*Clinician{}, r.roster...), &clinician)
	if err := r.persist(ctx, next); err != nil {
		return nil, err
	}

	r.roster = next
	return cloneClinician(&clinician), nil
}

func (r *Repository) Update(ctx context.Context, id int, update ClinicianUpdate) (*Clinician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated *Clinician
	next := make([]*Clinician, len(r.roster))
	for i, clinician := range r.roster {
		if clinician.Id == id {
			cpy := *clinician
			applyUpdate(&cpy, update)
			updated = &cpy
			next[i] = &cpy
		} else {
			next[i] = clinician
		}
	}

	// Unknown ids are a silent no-op
	if updated == nil {
		return nil, nil
	}

	if err := r.persist(ctx, next); err != nil {
		return nil, err
	}

	r.roster = next
	return cloneClinician(updated), nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	next := make([]*Clinician, 0, len(r.roster))
	for _, clinician := range r.roster {
		if clinician.Id == id {
			found = true
			continue
		}
		next = append(next, clinician)
	}

	if !found {
		return nil
	}

	if err := r.persist(ctx, next); err != nil {
		return err
	}

	r.roster = next
	return nil
}

func (r *Repository) persist(ctx context.Context, roster []*Clinician) error {
	data, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("unable to serialize clinician roster: %w", err)
	}
	return r.kv.Set(ctx, store.CliniciansKey, data)
}

// nextId must be called with the lock held. The reserved administrator id
// sits far outside the doctor id range and is excluded so that the first
// doctor created on a fresh roster is assigned id 1.
func (r *Repository) nextId() int {
	max := 0
	for _, clinician := range r.roster {
		if clinician.Id == AdminId {
			continue
		}
		if clinician.Id > max {
			max = clinician.Id
		}
	}
	return max + 1
}

func seedAdministrator() *Clinician {
	return &Clinician{
		Id:             AdminId,
		Email:          AdminEmail,
		Role:           RoleAdmin,
		PasswordSecret: "admin",
		Name:           pointer.To("Administrator"),
		Specialization: pointer.To("System Administrator"),
	}
}

func applyUpdate(clinician *Clinician, update ClinicianUpdate) {
	if update.Email != nil {
		clinician.Email = *update.Email
	}
	if update.PasswordSecret != nil && *update.PasswordSecret != "" {
		clinician.PasswordSecret = *update.PasswordSecret
	}
	if update.Name != nil {
		clinician.Name = update.Name
	}
	if update.Phone != nil {
		clinician.Phone = update.Phone
	}
	if update.Location != nil {
		clinician.Location = update.Location
	}
	if update.Bio != nil {
		clinician.Bio = update.Bio
	}
	if update.Specialization != nil {
		clinician.Specialization = update.Specialization
	}
	if update.LicenseNumber != nil {
		clinician.LicenseNumber = update.LicenseNumber
	}
	if update.YearsExperience != nil {
		clinician.YearsExperience = update.YearsExperience
	}
	if update.Department != nil {
		clinician.Department = update.Department
	}
	if update.Education != nil {
		clinician.Education = update.Education
	}
	if update.Availability != nil {
		clinician.Availability = update.Availability
	}
}

func cloneClinician(clinician *Clinician) *Clinician {
	cpy := *clinician
	return &cpy
}
