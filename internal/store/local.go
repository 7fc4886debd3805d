package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/sample"
)

// LocalStore implements Store by keeping each collection as one JSON array
// under a fixed key in a KV backend. It is the single writer for those keys:
// mutations are serialized by mu and each one commits atomically in the KV.
type LocalStore struct {
	mu     sync.Mutex
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

// NewLocalStore creates a local adapter over kv. A nil kv means no durable
// storage is available: the store serves the sample data from memory and
// nothing outlives the process.
func NewLocalStore(kv KV, logger *slog.Logger) *LocalStore {
	if logger == nil {
		logger = slog.Default()
	}
	if kv == nil {
		logger.Warn("no durable storage configured, serving sample data from memory")
		kv = newMemoryKV()
	}
	return &LocalStore{
		kv:     kv,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Close closes the underlying KV backend.
func (s *LocalStore) Close() error {
	return s.kv.Close()
}

func newID() string {
	return ulid.Make().String()
}

// touch returns the new updatedAt for a record, never earlier than createdAt.
func (s *LocalStore) touch(createdAt time.Time) time.Time {
	now := s.now()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

func decodeCollection[T any](key string, data []byte) ([]*T, error) {
	var items []*T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func encodeCollection[T any](key string, items []*T) ([]byte, error) {
	if items == nil {
		items = []*T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return data, nil
}

// readCollection loads the collection stored under key, seeding it on first access.
func (s *LocalStore) readCollection(ctx context.Context, key string, seed func() []byte) ([]byte, error) {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return data, nil
	}

	err = s.kv.Update(ctx, key, func(cur []byte, ok bool) ([]byte, error) {
		if ok {
			data = cur
			return nil, nil
		}
		data = seed()
		s.logger.Info("seeded local collection", "key", key)
		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", key, err)
	}
	return data, nil
}

func loadAll[T any](ctx context.Context, s *LocalStore, key string, seed func() []*T) ([]*T, error) {
	data, err := s.readCollection(ctx, key, seedBytes(key, seed))
	if err != nil {
		return nil, err
	}
	return decodeCollection[T](key, data)
}

// mutate applies fn to the whole collection and writes the result back in one KV update.
func mutate[T any](ctx context.Context, s *LocalStore, key string, seed func() []*T, fn func([]*T) ([]*T, error)) error {
	return s.kv.Update(ctx, key, func(cur []byte, ok bool) ([]byte, error) {
		var items []*T
		if ok {
			var err error
			if items, err = decodeCollection[T](key, cur); err != nil {
				return nil, err
			}
		} else {
			items = seed()
		}
		items, err := fn(items)
		if err != nil {
			return nil, err
		}
		return encodeCollection(key, items)
	})
}

func seedBytes[T any](key string, seed func() []*T) func() []byte {
	return func() []byte {
		data, err := encodeCollection(key, seed())
		if err != nil {
			// Sample data is static and always encodable.
			panic(err)
		}
		return data
	}
}

// --- Projects ---

func (s *LocalStore) ListProjects(ctx context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := loadAll(ctx, s, ProjectsKey, sample.Projects)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *LocalStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

func (s *LocalStore) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := &models.Project{ID: newID(), CreatedAt: now, UpdatedAt: now}
	in.Apply(p)

	err := mutate(ctx, s, ProjectsKey, sample.Projects, func(items []*models.Project) ([]*models.Project, error) {
		return append(items, p), nil
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p.Clone(), nil
}

func (s *LocalStore) UpdateProject(ctx context.Context, id string, in models.ProjectInput) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *models.Project
	err := mutate(ctx, s, ProjectsKey, sample.Projects, func(items []*models.Project) ([]*models.Project, error) {
		for _, p := range items {
			if p.ID == id {
				in.Apply(p)
				p.UpdatedAt = s.touch(p.CreatedAt)
				updated = p.Clone()
				return items, nil
			}
		}
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

// DeleteProject removes the project and its tickets under one hold of mu, so
// no ticket can be written against the project in between.
func (s *LocalStore) DeleteProject(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := loadAll(ctx, s, ProjectsKey, sample.Projects)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	if !containsProject(projects, id) {
		return false, nil
	}

	dropped := 0
	err = mutate(ctx, s, TicketsKey, sample.Tickets, func(items []*models.Ticket) ([]*models.Ticket, error) {
		kept := make([]*models.Ticket, 0, len(items))
		for _, t := range items {
			if t.ProjectID == id {
				dropped++
				continue
			}
			kept = append(kept, t)
		}
		return kept, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete tickets of project %s: %w", id, err)
	}

	removed := false
	err = mutate(ctx, s, ProjectsKey, sample.Projects, func(items []*models.Project) ([]*models.Project, error) {
		kept := make([]*models.Project, 0, len(items))
		for _, p := range items {
			if p.ID == id {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		return kept, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	s.logger.Debug("project deleted", "id", id, "tickets", dropped)
	return removed, nil
}

func containsProject(projects []*models.Project, id string) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// requireProject fails with ErrUnknownProject unless id names a stored
// project. Callers must hold mu.
func (s *LocalStore) requireProject(ctx context.Context, id string) error {
	projects, err := loadAll(ctx, s, ProjectsKey, sample.Projects)
	if err != nil {
		return err
	}
	if !containsProject(projects, id) {
		return fmt.Errorf("%w: %s", ErrUnknownProject, id)
	}
	return nil
}

// --- Tickets ---

func (s *LocalStore) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := loadAll(ctx, s, TicketsKey, sample.Tickets)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *LocalStore) ListTicketsByProject(ctx context.Context, projectID string) ([]*models.Ticket, error) {
	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.Ticket
	for _, t := range tickets {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *LocalStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
}

func (s *LocalStore) CreateTicket(ctx context.Context, in models.TicketInput) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := &models.Ticket{ID: newID(), CreatedAt: now, UpdatedAt: now}
	in.Apply(t)
	if err := s.requireProject(ctx, t.ProjectID); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	err := mutate(ctx, s, TicketsKey, sample.Tickets, func(items []*models.Ticket) ([]*models.Ticket, error) {
		return append(items, t), nil
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return t.Clone(), nil
}

func (s *LocalStore) UpdateTicket(ctx context.Context, id string, in models.TicketInput) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ProjectID != nil {
		if err := s.requireProject(ctx, *in.ProjectID); err != nil {
			return nil, fmt.Errorf("update ticket: %w", err)
		}
	}

	var updated *models.Ticket
	err := mutate(ctx, s, TicketsKey, sample.Tickets, func(items []*models.Ticket) ([]*models.Ticket, error) {
		for _, t := range items {
			if t.ID == id {
				in.Apply(t)
				t.UpdatedAt = s.touch(t.CreatedAt)
				updated = t.Clone()
				return items, nil
			}
		}
		return nil, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	return updated, nil
}

func (s *LocalStore) DeleteTicket(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	err := mutate(ctx, s, TicketsKey, sample.Tickets, func(items []*models.Ticket) ([]*models.Ticket, error) {
		kept := make([]*models.Ticket, 0, len(items))
		for _, t := range items {
			if t.ID == id {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		return kept, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete ticket: %w", err)
	}
	return removed, nil
}
