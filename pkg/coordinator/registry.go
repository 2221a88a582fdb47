package coordinator

import (
	"SmartExpire/domain"
	"context"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type Factory func() *Coordinator

type registryEntry struct {
	coordinator *Coordinator
	ready       chan struct{}
	err         error
}

// Registry keeps one loaded Coordinator per signed-in user.
type Registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*registryEntry
	factory Factory
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		entries: make(map[uuid.UUID]*registryEntry),
		factory: factory,
	}
}

// ForUser returns the user's coordinator, creating and loading it on first
// use. Concurrent callers for the same user wait for that first load. A
// failed first load is not kept, so the next call retries.
func (r *Registry) ForUser(ctx context.Context, userID uuid.UUID) (*Coordinator, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNoActiveUser
	}

	r.mu.Lock()
	if e, ok := r.entries[userID]; ok {
		r.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err != nil {
			return nil, e.err
		}
		return e.coordinator, nil
	}
	e := &registryEntry{coordinator: r.factory(), ready: make(chan struct{})}
	r.entries[userID] = e
	r.mu.Unlock()

	e.err = e.coordinator.SetUser(ctx, userID)
	if e.err != nil {
		r.mu.Lock()
		if r.entries[userID] == e {
			delete(r.entries, userID)
		}
		r.mu.Unlock()
	}
	close(e.ready)

	if e.err != nil {
		return nil, e.err
	}
	return e.coordinator, nil
}

// Release clears the user's cache and forgets the coordinator.
func (r *Registry) Release(ctx context.Context, userID uuid.UUID) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()
	if !ok {
		return
	}

	<-e.ready
	if err := e.coordinator.SetUser(ctx, uuid.Nil); err != nil {
		log.Warnf("release coordinator for user %s: %v", userID, err)
	}
}

// Active reports how many users currently hold a coordinator.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// HandleSessionChange loads on sign-in and clears on sign-out. It has the
// shape of an auth session listener.
func (r *Registry) HandleSessionChange(ctx context.Context, change domain.SessionChange) {
	switch change.Event {
	case domain.SessionSignedIn:
		r.mu.Lock()
		e, existing := r.entries[change.UserID]
		r.mu.Unlock()

		if existing {
			<-e.ready
			if e.err == nil {
				if err := e.coordinator.Load(ctx); err != nil {
					log.Warnf("reload after sign-in for user %s: %v", change.UserID, err)
				}
				return
			}
		}
		if _, err := r.ForUser(ctx, change.UserID); err != nil {
			log.Warnf("load after sign-in for user %s: %v", change.UserID, err)
		}
	case domain.SessionSignedOut:
		r.Release(ctx, change.UserID)
	}
}
