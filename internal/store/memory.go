// internal/store/memory.go
//
// In-memory store for live Akinator sessions.
// The remote service forgets idle sessions after a while, so entries here are
// ephemeral too: an entry idle longer than the configured timeout is evicted
// by the sweeper.
//
// Characteristics:
//   - Stores *Entry objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Errors are returned for missing IDs on Get()/Delete().

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/akinator-go/internal/akinator"
)

// ErrNotFound is returned for unknown or evicted IDs.
var ErrNotFound = errors.New("not found")

// Entry is one hosted game.
type Entry struct {
	ID        string
	Session   *akinator.Session
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
}

// NewEntry wraps s under a fresh random ID.
func NewEntry(s *akinator.Session, now time.Time) *Entry {
	return &Entry{ID: NewID(), Session: s, CreatedAt: now, lastUsed: now}
}

// LastUsed reports when the entry was last fetched.
func (e *Entry) LastUsed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastUsed = now
	e.mu.Unlock()
}

// Store defines the interface for hosted sessions.
type Store interface {
	// Save persists or replaces an entry.
	Save(ctx context.Context, e *Entry) error

	// Get retrieves an entry by ID and marks it as used.
	Get(ctx context.Context, id string) (*Entry, error)

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error

	// Sweep evicts entries idle for longer than idle and returns how many.
	Sweep(now time.Time, idle time.Duration) int

	// Len reports the number of live entries.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards entries map
	entries map[string]*Entry // keyed by Entry.ID
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{entries: make(map[string]*Entry), now: now}
}

// Save adds or updates the entry in the map.
func (m *memory) Save(ctx context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

// Get looks up an entry by ID.
func (m *memory) Get(ctx context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	e.touch(m.now())
	return e, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memory) Sweep(now time.Time, idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		if now.Sub(e.LastUsed()) > idle {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// RunSweeper evicts idle entries every interval until ctx is done.
func RunSweeper(ctx context.Context, st Store, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(now, idle); n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("swept idle sessions")
			}
		}
	}
}

// NewID returns a compact 16-hex-char identifier.
func NewID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
