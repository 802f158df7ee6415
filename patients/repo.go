package patients

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/store"
)

func NewRepository(kv store.Store, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (PartitionRepository, error) {
	repo := &repository{
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

// repository keeps the authoritative record set in memory and persists it
// with a regroup-and-reconcile pass: the whole set is regrouped by owner,
// every partition is written to its own slot, and slots whose owner no
// longer appears in the regrouped set are removed. The in-memory snapshot
// is only swapped in after the persistence pass succeeds, so a failed write
// leaves the previous state in effect.
type repository struct {
	kv     store.Store
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	records []*Patient
	lastId  int
}

var _ PartitionRepository = &repository{}

func (r *repository) Initialize(ctx context.Context) error {
	keys, err := r.kv.Keys(ctx, store.PartitionKeyPrefix)
	if err != nil {
		return fmt.Errorf("unable to enumerate patient partitions: %w", err)
	}

	var records []*Patient
	for _, key := range keys {
		data, err := r.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("unable to read partition %q: %w", key, err)
		}

		var partition []*Patient
		if err := json.Unmarshal(data, &partition); err != nil {
			r.logger.Warnw("skipping unreadable patient partition", "key", key, "error", err)
			continue
		}

		for _, patient := range partition {
			if patient.CreatedAt.IsZero() {
				patient.CreatedAt = time.Now()
			}
			records = append(records, patient)
		}
	}

	r.mu.Lock()
	r.records = records
	for _, patient := range records {
		if patient.Id > r.lastId {
			r.lastId = patient.Id
		}
	}
	r.mu.Unlock()

	r.logger.Infow("loaded patient partitions", "partitions", len(keys), "patients", len(records))
	return nil
}

func (r *repository) Create(ctx context.Context, patient Patient) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	patient.Id = r.nextId()
	patient.CreatedAt = time.Now()

	next := make([]*Patient, 0, len(r.records)+1)
	next = append(next, &patient)
	next = append(next, r.records...)

	if err := r.persist(ctx, next); err != nil {
		return nil, err
	}

	r.records = next
	return clone(&patient), nil
}

func (r *repository) Update(ctx context.Context, id int, update PatientUpdate) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated *Patient
	next := make([]*Patient, len(r.records))
	for i, patient := range r.records {
		if patient.Id == id {
			cpy := *patient
			applyUpdate(&cpy, update)
			updated = &cpy
			next[i] = &cpy
		} else {
			next[i] = patient
		}
	}

	// Unknown ids are a silent no-op
	if updated == nil {
		return nil, nil
	}

	if err := r.persist(ctx, next); err != nil {
		return nil, err
	}

	r.records = next
	return clone(updated), nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	next := make([]*Patient, 0, len(r.records))
	for _, patient := range r.records {
		if patient.Id == id {
			found = true
			continue
		}
		next = append(next, patient)
	}

	if !found {
		return nil
	}

	if err := r.persist(ctx, next); err != nil {
		return err
	}

	r.records = next
	return nil
}

func (r *repository) Get(ctx context.Context, id int) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, patient := range r.records {
		if patient.Id == id {
			return clone(patient), nil
		}
	}

	return nil, ErrNotFound
}

func (r *repository) List(ctx context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Patient, 0, len(r.records))
	for _, patient := range r.records {
		result = append(result, clone(patient))
	}
	return result, nil
}

// ListByOwner matches the owner byte-exactly. Partition keys are derived
// from the literal owner string, so lookups must not case-fold.
func (r *repository) ListByOwner(ctx context.Context, owner string) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Patient
	for _, patient := range r.records {
		if patient.Owner == owner {
			result = append(result, clone(patient))
		}
	}
	return result, nil
}

func (r *repository) HasPartition(ctx context.Context, owner string) (bool, error) {
	_, err := r.kv.Get(ctx, store.PartitionKey(owner))
	if err == store.ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) EnsurePartition(ctx context.Context, owner string) error {
	exists, err := r.HasPartition(ctx, owner)
	if err != nil || exists {
		return err
	}
	return r.kv.Set(ctx, store.PartitionKey(owner), []byte("[]"))
}

// WritePartition replaces the partition of the given owner, both in the
// side-store and in the snapshot. A failed write leaves both untouched.
func (r *repository) WritePartition(ctx context.Context, owner string, records []*Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("unable to serialize partition for %q: %w", owner, err)
	}
	if err := r.kv.Set(ctx, store.PartitionKey(owner), data); err != nil {
		return err
	}

	next := make([]*Patient, 0, len(r.records)+len(records))
	for _, patient := range r.records {
		if patient.Owner != owner {
			next = append(next, patient)
		}
	}
	for _, patient := range records {
		next = append(next, clone(patient))
	}
	r.records = next

	return nil
}

func (r *repository) RemovePartition(ctx context.Context, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kv.Delete(ctx, store.PartitionKey(owner)); err != nil {
		return err
	}

	next := make([]*Patient, 0, len(r.records))
	for _, patient := range r.records {
		if patient.Owner != owner {
			next = append(next, patient)
		}
	}
	r.records = next

	return nil
}

// persist writes the regrouped record set and removes partition slots whose
// owner vanished from it. Callers must hold the write lock and swap in the
// new snapshot only when persist returns nil.
func (r *repository) persist(ctx context.Context, records []*Patient) error {
	groups := make(map[string][]*Patient)
	for _, patient := range records {
		groups[patient.Owner] = append(groups[patient.Owner], patient)
	}

	live := mapset.NewThreadUnsafeSet[string]()
	for owner, partition := range groups {
		key := store.PartitionKey(owner)
		live.Add(key)

		data, err := json.Marshal(partition)
		if err != nil {
			return fmt.Errorf("unable to serialize partition for %q: %w", owner, err)
		}
		if err := r.kv.Set(ctx, key, data); err != nil {
			return err
		}
	}

	existing, err := r.kv.Keys(ctx, store.PartitionKeyPrefix)
	if err != nil {
		return err
	}
	for _, key := range mapset.NewThreadUnsafeSet[string](existing...).Difference(live).ToSlice() {
		if err := r.kv.Delete(ctx, key); err != nil {
			return err
		}
	}

	return nil
}

// nextId must be called with the lock held. The high-water mark keeps ids
// from being reused when the record with the maximum id is deleted.
func (r *repository) nextId() int {
	max := r.lastId
	for _, patient := range r.records {
		if patient.Id > max {
			max = patient.Id
		}
	}
	r.lastId = max + 1
	return r.lastId
}

func applyUpdate(patient *Patient, update PatientUpdate) {
	if update.Name != nil {
		patient.Name = *update.Name
	}
	if update.Age != nil {
		patient.Age = *update.Age
	}
	if update.Email != nil {
		patient.Email = update.Email
	}
	if update.Phone != nil {
		patient.Phone = update.Phone
	}
	if update.Description != nil {
		patient.Description = update.Description
	}
	if update.HealthStatus != nil {
		patient.HealthStatus = *update.HealthStatus
	}
	if update.RiskScore != nil {
		patient.RiskScore = *update.RiskScore
	}
	if update.HeartRate != nil {
		patient.HeartRate = *update.HeartRate
	}
	if update.LastVisit != nil {
		patient.LastVisit = update.LastVisit
	}
	if update.EpilepsyType != nil {
		patient.EpilepsyType = update.EpilepsyType
	}
	if update.SeizureFrequency != nil {
		patient.SeizureFrequency = update.SeizureFrequency
	}
	if update.Medications != nil {
		patient.Medications = update.Medications
	}
	if update.Allergies != nil {
		patient.Allergies = update.Allergies
	}
}

func clone(patient *Patient) *Patient {
	cpy := *patient
	return &cpy
}
