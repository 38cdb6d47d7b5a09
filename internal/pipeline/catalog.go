package pipeline

import (
	"context"
	"sort"
	"sync"
)

// Catalog provides snapshot access to pipeline definitions.
type Catalog interface {
	Get(ctx context.Context, id string) (*Pipeline, error)
	List(ctx context.Context) ([]*Pipeline, error)
	Save(ctx context.Context, p *Pipeline) error
	Default(ctx context.Context) (*Pipeline, error)
}

// MemoryCatalog keeps pipeline definitions in process memory.
type MemoryCatalog struct {
	mu        sync.RWMutex
	pipelines map[string]*Pipeline
}

// NewMemoryCatalog creates a catalog pre-populated with the given
// pipelines. Panics on a corrupted definition.
func NewMemoryCatalog(pipelines ...*Pipeline) *MemoryCatalog {
	c := &MemoryCatalog{pipelines: make(map[string]*Pipeline, len(pipelines))}
	for _, p := range pipelines {
		p.MustValidate()
		c.pipelines[p.ID] = p.Clone()
	}
	return c
}

// Get returns the pipeline with the given id.
func (c *MemoryCatalog) Get(ctx context.Context, id string) (*Pipeline, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.pipelines[id]
	if !ok {
		return nil, ErrPipelineNotFound
	}
	return p.Clone(), nil
}

// List returns all pipelines sorted by id for deterministic output.
func (c *MemoryCatalog) List(ctx context.Context) ([]*Pipeline, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Pipeline, 0, len(c.pipelines))
	for _, p := range c.pipelines {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Save validates and upserts a pipeline definition.
func (c *MemoryCatalog) Save(ctx context.Context, p *Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipelines[p.ID] = p.Clone()
	return nil
}

// Default returns the pipeline flagged as default, or the only pipeline
// when exactly one exists.
func (c *MemoryCatalog) Default(ctx context.Context) (*Pipeline, error) {
	list, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return defaultOf(list)
}

func defaultOf(list []*Pipeline) (*Pipeline, error) {
	for _, p := range list {
		if p.IsDefault {
			return p, nil
		}
	}
	if len(list) == 1 {
		return list[0], nil
	}
	return nil, ErrNoDefault
}
