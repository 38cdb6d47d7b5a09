package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for lead storage. The store is
// pipeline-agnostic: Move does not check that the stage belongs to any
// pipeline, that validation lives in the board controller.
type Store interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	Get(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, id string, req *UpdateLeadRequest) (*Lead, error)
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id, stageID string) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error)
}

// MemoryStore keeps leads in process memory. Insertion order is preserved
// so listings are deterministic for the stable board sort.
type MemoryStore struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	seq   map[string]int
	next  int
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leads: make(map[string]*Lead),
		seq:   make(map[string]int),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the request, assigns id and timestamps, and inserts.
func (s *MemoryStore) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	lead := &Lead{
		ID:           uuid.New().String(),
		PipelineID:   req.PipelineID,
		Stage:        req.Stage,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Position:     req.Position,
		Source:       req.Source,
		Value:        req.Value,
		Score:        req.Score,
		OwnerID:      req.OwnerID,
		Tags:         append([]string(nil), req.Tags...),
		CreatedAt:    now,
		UpdatedAt:    now,
		LastActivity: now,
	}
	if req.AI != nil {
		ai := *req.AI
		lead.AI = &ai
	}

	s.leads[lead.ID] = lead
	s.seq[lead.ID] = s.next
	s.next++

	return lead.Clone(), nil
}

// Get retrieves a lead by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return lead.Clone(), nil
}

// Update merges partial fields into an existing lead and refreshes
// updated_at. An empty update succeeds without touching timestamps.
func (s *MemoryStore) Update(ctx context.Context, id string, req *UpdateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	if req.Empty() {
		return lead.Clone(), nil
	}

	req.apply(lead, s.now())
	return lead.Clone(), nil
}

// Delete removes the lead. Deleting an unknown id reports ErrLeadNotFound
// and leaves the store untouched.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[id]; !ok {
		return ErrLeadNotFound
	}
	delete(s.leads, id)
	delete(s.seq, id)
	return nil
}

// Move reassigns the lead's stage. Equivalent to Update with only the
// stage field set.
func (s *MemoryStore) Move(ctx context.Context, id, stageID string) (*Lead, error) {
	return s.Update(ctx, id, &UpdateLeadRequest{Stage: &stageID})
}

// List returns all leads in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Lead, 0, len(s.leads))
	for _, lead := range s.leads {
		out = append(out, lead.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}
