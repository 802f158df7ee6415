package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ContextTimeout = time.Duration(20) * time.Second

	ErrNotFound = errors.New("key not found")
)

const (
	// CliniciansKey is the slot holding the serialized clinician roster.
	CliniciansKey = "clinicians"

	// PartitionKeyPrefix namespaces the per-owner patient partitions.
	PartitionKeyPrefix = "partition:"
)

// Store is the durable side-store all record collections persist into.
// Values are opaque JSON blobs addressed by key. Implementations must
// return ErrNotFound from Get when the key does not exist.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// PartitionKey is intentionally byte-exact - owner emails are not
// case-folded when used as partition keys.
func PartitionKey(owner string) string {
	return PartitionKeyPrefix + owner
}

func OwnerFromPartitionKey(key string) string {
	return strings.TrimPrefix(key, PartitionKeyPrefix)
}

func NewDbContext() context.Context {
	ctx, _ := context.WithTimeout(context.Background(), ContextTimeout)
	return ctx
}
