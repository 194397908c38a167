// internal/session/registry.go
package session

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry provides thread-safe access to independent sessions
type Registry struct {
	sessions map[uuid.UUID]*Session
	opts     Options
	mu       sync.RWMutex
	logger   *zap.Logger

	// Statistics (accessed atomically)
	reads  uint64
	writes uint64
}

func NewRegistry(opts Options, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		opts:     opts,
		logger:   logger.Named("sessions"),
	}
}

// Create starts a new session with the registry options
func (r *Registry) Create() (*Session, error) {
	return r.CreateWithOptions(r.opts)
}

// CreateWithOptions starts a session with its own pool and fee options
func (r *Registry) CreateWithOptions(opts Options) (*Session, error) {
	s, err := New(opts, r.logger)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	atomic.AddUint64(&r.writes, 1)

	r.logger.Debug("Session created", zap.String("session_id", s.ID().String()))
	return s, nil
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	atomic.AddUint64(&r.reads, 1)
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionUnknown
	}
	return s, nil
}

func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[id]
	delete(r.sessions, id)
	atomic.AddUint64(&r.writes, 1)
	return ok
}

// List returns the sessions ordered by creation time
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	atomic.AddUint64(&r.reads, 1)
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out
}

// GetStats returns registry statistics
func (r *Registry) GetStats() (sessions, reads, writes uint64) {
	r.mu.RLock()
	sessions = uint64(len(r.sessions))
	r.mu.RUnlock()

	reads = atomic.LoadUint64(&r.reads)
	writes = atomic.LoadUint64(&r.writes)
	return sessions, reads, writes
}

// CleanupStale removes sessions not updated within maxAge
func (r *Registry) CleanupStale(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, s := range r.sessions {
		if s.UpdatedAt().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		atomic.AddUint64(&r.writes, 1)
		r.logger.Info("Cleaned up stale sessions",
			zap.Int("removed", removed),
			zap.Int("remaining", len(r.sessions)))
	}
	return removed
}
