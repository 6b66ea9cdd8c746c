package cache

import (
	"fmt"
	"sync/atomic"

	"github.com/resound-fm/resound/internal/models"
)

// UID identifies one occurrence of an entity at a rendered position. Two UIDs
// with the same kind and id refer to the same cached record shown in different
// ordered views. A UID is never a store key.
type UID string

// Allocator hands out UIDs with a monotonically increasing sequence so the
// same entity can occupy multiple positions without collisions.
type Allocator struct {
	seq atomic.Int64
}

// NewAllocator creates an allocator starting at sequence 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate returns a fresh UID for the given entity. Safe for concurrent use.
func (a *Allocator) Allocate(kind models.Kind, id int64) UID {
	return UID(fmt.Sprintf("%s:%d:%d", kind, id, a.seq.Add(1)))
}
