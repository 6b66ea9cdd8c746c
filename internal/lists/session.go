package lists

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
)

// Snapshot is the read-only view of a list session exposed to callers.
// No UI types cross this boundary. UIDs is aligned with IDs; a uid is
// assigned when an id first appears in the session and stays stable until
// the session resets.
type Snapshot struct {
	Tag          string
	ParentID     int64
	IDs          []int64
	UIDs         []cache.UID
	Page         int
	PageSize     int
	Status       models.Status
	HasMore      bool
	ErrorMessage string
}

// session is the mutable per-tag state. Only the manager touches it.
type session struct {
	tag        string
	parentID   int64
	shown      []int64
	uids       map[int64]cache.UID
	page       int
	pageSize   int
	status     models.Status
	errMsg     string
	hasMore    bool
	generation string
}

func (s *session) snapshot() Snapshot {
	ids := make([]int64, len(s.shown))
	copy(ids, s.shown)
	uids := make([]cache.UID, len(s.shown))
	for i, id := range s.shown {
		uids[i] = s.uids[id]
	}
	return Snapshot{
		Tag:          s.tag,
		ParentID:     s.parentID,
		IDs:          ids,
		UIDs:         uids,
		Page:         s.page,
		PageSize:     s.pageSize,
		Status:       s.status,
		HasMore:      s.hasMore,
		ErrorMessage: s.errMsg,
	}
}

// Manager drives list sessions through Idle -> Loading -> {Success, Error}.
// At most one fetch is in flight per tag: a page request while Loading is a
// silent no-op returning the current snapshot. Sessions are independent
// across tags.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*session
	providers map[string]Provider

	agg             *Aggregator
	alloc           *cache.Allocator
	defaultPageSize int
	logger          *log.Logger
}

// NewManager creates a session manager. pageSize is the default page size
// used when a request passes 0.
func NewManager(agg *Aggregator, pageSize int, logger *log.Logger) *Manager {
	if pageSize <= 0 {
		pageSize = 15
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		sessions:        map[string]*session{},
		providers:       map[string]Provider{},
		agg:             agg,
		alloc:           cache.NewAllocator(),
		defaultPageSize: pageSize,
		logger:          shared.WithLogger(logger, "component", "lists"),
	}
}

// Register binds a tag to its provider configuration. Re-registering a tag
// replaces the provider and resets any existing session.
func (m *Manager) Register(tag string, p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[tag] = p
	delete(m.sessions, tag)
}

// Tags returns the registered list tags.
func (m *Manager) Tags() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := make([]string, 0, len(m.providers))
	for tag := range m.providers {
		tags = append(tags, tag)
	}
	return tags
}

// Snapshot returns the current state of a tag's session, if one exists.
func (m *Manager) Snapshot(tag string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[tag]
	if !ok {
		return Snapshot{}, false
	}
	return sess.snapshot(), true
}

// Reset returns the tag's session to Idle, clearing shown ids and cursor.
// Any in-flight fetch for the prior generation completes but its result is
// discarded. Allowed from any state.
func (m *Manager) Reset(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[tag]; ok {
		sess.shown = nil
		sess.uids = nil
		sess.page = 0
		sess.status = models.StatusIdle
		sess.errMsg = ""
		sess.hasMore = false
		sess.generation = shared.GenerateID()
	}
}

// RequestPage fetches the next page for a tag. pageSize 0 uses the default.
// A session's page size is locked in by its first successful fetch; a
// different size on later requests is ignored until Reset or a parent change.
// If the session is already Loading the call is a no-op returning the
// current snapshot. Requesting with a different parent than the current
// session resets the session first (navigating to another parent's list).
func (m *Manager) RequestPage(ctx context.Context, tag string, parentID int64, pageSize int, actorID int64) (Snapshot, error) {
	if pageSize <= 0 {
		pageSize = m.defaultPageSize
	}

	m.mu.Lock()
	provider, ok := m.providers[tag]
	if !ok {
		m.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %q", shared.ErrUnknownList, tag)
	}

	sess, ok := m.sessions[tag]
	if !ok {
		sess = &session{
			tag:        tag,
			parentID:   parentID,
			pageSize:   pageSize,
			status:     models.StatusIdle,
			generation: shared.GenerateID(),
		}
		m.sessions[tag] = sess
	} else if sess.parentID != parentID {
		sess.parentID = parentID
		sess.shown = nil
		sess.uids = nil
		sess.page = 0
		sess.errMsg = ""
		sess.hasMore = false
		sess.status = models.StatusIdle
		sess.generation = shared.GenerateID()
	}

	if sess.status == models.StatusLoading {
		snap := sess.snapshot()
		m.mu.Unlock()
		return snap, nil
	}

	// The page size is fixed once the first page lands so the page*size
	// offset math stays consistent; Reset or a parent change frees it.
	if sess.page == 0 {
		sess.pageSize = pageSize
	} else {
		pageSize = sess.pageSize
	}

	prevStatus := sess.status
	sess.status = models.StatusLoading
	generation := sess.generation
	page := sess.page
	previous := make([]int64, len(sess.shown))
	copy(previous, sess.shown)
	m.mu.Unlock()

	ids, hasMore, err := m.agg.FetchPage(ctx, provider, parentID, page, pageSize, actorID, previous)

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[tag]
	if !ok || current.generation != generation {
		// The session was reset while the fetch was in flight. Entities are
		// already cached; the page result itself is stale and discarded.
		m.logger.Debug("discarding stale page completion", "tag", tag, "page", page)
		if !ok {
			return Snapshot{}, nil
		}
		return current.snapshot(), nil
	}

	if err != nil {
		if errors.Is(err, shared.ErrParentNotFound) {
			// Surfaced to the caller with no session mutation.
			current.status = prevStatus
			return current.snapshot(), err
		}
		current.status = models.StatusError
		current.errMsg = err.Error()
		m.logger.Warn("page fetch failed", "tag", tag, "page", page, "err", err)
		return current.snapshot(), err
	}

	current.shown = ids
	if current.uids == nil {
		current.uids = map[int64]cache.UID{}
	}
	rowKind := provider.RowKind
	if rowKind == 0 {
		rowKind = models.KindUser
	}
	for _, id := range ids {
		if _, ok := current.uids[id]; !ok {
			current.uids[id] = m.alloc.Allocate(rowKind, id)
		}
	}
	current.page = page + 1
	current.hasMore = hasMore
	current.status = models.StatusSuccess
	current.errMsg = ""
	return current.snapshot(), nil
}
