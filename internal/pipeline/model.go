// Package pipeline owns pipeline and stage definitions for the board.
package pipeline

import (
	"fmt"
	"sort"
)

// Stage is a named, ordered step in a pipeline.
type Stage struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	Order        int    `json:"order"`
	IsClosedWon  bool   `json:"is_closed_won"`
	IsClosedLost bool   `json:"is_closed_lost"`
}

// Terminal reports whether the stage represents a pipeline exit.
func (s Stage) Terminal() bool {
	return s.IsClosedWon || s.IsClosedLost
}

// Pipeline is an ordered collection of stages defining a sales process.
type Pipeline struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	IsDefault   bool    `json:"is_default"`
	Stages      []Stage `json:"stages"`
}

// Validate checks catalog invariants. A violation means the catalog data
// is corrupted, not a user mistake, so callers are expected to fail fast.
func (p *Pipeline) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pipeline: missing id")
	}
	if len(p.Stages) == 0 {
		return fmt.Errorf("pipeline %s: no stages", p.ID)
	}
	seen := make(map[string]struct{}, len(p.Stages))
	for _, st := range p.Stages {
		if st.ID == "" {
			return fmt.Errorf("pipeline %s: stage with empty id", p.ID)
		}
		if _, dup := seen[st.ID]; dup {
			return fmt.Errorf("pipeline %s: duplicate stage id %q", p.ID, st.ID)
		}
		seen[st.ID] = struct{}{}
		if st.IsClosedWon && st.IsClosedLost {
			return fmt.Errorf("pipeline %s: stage %q is both closed-won and closed-lost", p.ID, st.ID)
		}
	}
	return nil
}

// MustValidate panics on a corrupted pipeline definition.
func (p *Pipeline) MustValidate() {
	if err := p.Validate(); err != nil {
		panic(err)
	}
}

// OrderedStages returns the stages sorted by ascending display order,
// which defines left-to-right column rendering regardless of storage order.
func (p *Pipeline) OrderedStages() []Stage {
	out := append([]Stage(nil), p.Stages...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// StageByID looks up a stage by id.
func (p *Pipeline) StageByID(id string) (Stage, bool) {
	for _, st := range p.Stages {
		if st.ID == id {
			return st, true
		}
	}
	return Stage{}, false
}

// HasStage reports whether the stage id belongs to this pipeline.
func (p *Pipeline) HasStage(id string) bool {
	_, ok := p.StageByID(id)
	return ok
}

// FirstStage returns the entry stage (lowest order), the default target
// for newly added leads.
func (p *Pipeline) FirstStage() Stage {
	stages := p.OrderedStages()
	return stages[0]
}

// Clone returns a deep copy.
func (p *Pipeline) Clone() *Pipeline {
	cp := *p
	cp.Stages = append([]Stage(nil), p.Stages...)
	return &cp
}
