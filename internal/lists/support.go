package lists

import (
	"sort"
	"sync"

	"github.com/resound-fm/resound/internal/models"
)

// SupportStore keeps per-pair supporter data (rank, contributed amount)
// alongside the user entities a supporters list references. Writes are
// idempotent: re-applying a page overwrites the same pairs with the same
// values. Safe for concurrent use.
type SupportStore struct {
	mu       sync.RWMutex
	received map[int64]map[int64]models.Support // receiver -> sender -> support
}

// NewSupportStore creates an empty support store.
func NewSupportStore() *SupportStore {
	return &SupportStore{received: map[int64]map[int64]models.Support{}}
}

// Put records one supporter pair. Invalid pairs are dropped.
func (s *SupportStore) Put(sup models.Support) {
	if sup.Validate() != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	senders, ok := s.received[sup.ReceiverID]
	if !ok {
		senders = map[int64]models.Support{}
		s.received[sup.ReceiverID] = senders
	}
	senders[sup.SenderID] = sup
}

// Get returns the support record for a (receiver, sender) pair.
func (s *SupportStore) Get(receiverID, senderID int64) (models.Support, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.received[receiverID][senderID]
	return sup, ok
}

// SupportersOf returns all known supporter records for a receiver, ordered
// by rank ascending.
func (s *SupportStore) SupportersOf(receiverID int64) []models.Support {
	s.mu.RLock()
	defer s.mu.RUnlock()

	senders := s.received[receiverID]
	out := make([]models.Support, 0, len(senders))
	for _, sup := range senders {
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
