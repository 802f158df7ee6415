package test

import (
	"context"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/store"
)

func GetTestStore() store.Store {
	return store.NewMemoryStore()
}

// NewFailingStore wraps a store so tests can reject writes to specific keys,
// e.g. to simulate a storage quota error while writing a destination
// partition during an ownership migration.
func NewFailingStore(delegate store.Store) *FailingStore {
	return &FailingStore{
		delegate:  delegate,
		setErrors: make(map[string]error),
	}
}

type FailingStore struct {
	delegate  store.Store
	setErrors map[string]error
}

var _ store.Store = &FailingStore{}

func (f *FailingStore) FailSet(key string, err error) {
	f.setErrors[key] = err
}

func (f *FailingStore) Restore(key string) {
	delete(f.setErrors, key)
}

func (f *FailingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return f.delegate.Get(ctx, key)
}

func (f *FailingStore) Set(ctx context.Context, key string, value []byte) error {
	if err, ok := f.setErrors[key]; ok {
		return err
	}
	return f.delegate.Set(ctx, key, value)
}

func (f *FailingStore) Delete(ctx context.Context, key string) error {
	return f.delegate.Delete(ctx, key)
}

func (f *FailingStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return f.delegate.Keys(ctx, prefix)
}
