package pipeline

import (
	"sync"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
)

type sessionEntry struct {
	mu   sync.Mutex
	sess *entities.CallSession
}

// SessionRegistry holds the in-flight call sessions, keyed by CallSid. All
// reads hand out copies; all writes go through Update, which serializes
// mutations per call so concurrent webhooks for the same call cannot
// interleave their state transitions.
type SessionRegistry struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{entries: make(map[string]*sessionEntry)}
}

// Create inserts a session if no session exists for its CallSid. Returns a
// snapshot of the stored session and whether the insert happened; when it
// did not, the snapshot is the session that was already there.
func (r *SessionRegistry) Create(sess *entities.CallSession) (*entities.CallSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[sess.CallSID]; ok {
		existing.mu.Lock()
		snap := *existing.sess
		existing.mu.Unlock()
		return &snap, false
	}

	r.entries[sess.CallSID] = &sessionEntry{sess: sess}
	snap := *sess
	return &snap, true
}

// Get returns a snapshot of the session for a CallSid
func (r *SessionRegistry) Get(callSID string) (*entities.CallSession, bool) {
	r.mu.RLock()
	entry, ok := r.entries[callSID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	snap := *entry.sess
	entry.mu.Unlock()
	return &snap, true
}

// Update runs fn against the live session under the per-call lock. When fn
// returns an error the mutation is considered not to have happened and the
// error is passed through. Returns a snapshot taken after fn ran.
func (r *SessionRegistry) Update(callSID string, fn func(*entities.CallSession) error) (*entities.CallSession, error) {
	r.mu.RLock()
	entry, ok := r.entries[callSID]
	r.mu.RUnlock()
	if !ok {
		return nil, usecaseErrors.ErrUnknownSession
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.sess); err != nil {
		return nil, err
	}
	snap := *entry.sess
	return &snap, nil
}

// Evict removes a session. Evicting an unknown CallSid is a no-op.
func (r *SessionRegistry) Evict(callSID string) {
	r.mu.Lock()
	delete(r.entries, callSID)
	r.mu.Unlock()
}

// ActiveCount returns the number of sessions currently held
func (r *SessionRegistry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
