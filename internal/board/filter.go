// Package board implements the pipeline board engine: the filter/sort
// predicate pipeline, the per-stage aggregation, and the controller that
// composes them over a lead store and a pipeline catalog.
package board

import (
	"math"
	"strings"
	"time"

	"github.com/salesdeck/crm-backend/internal/leads"
)

// IntRange is an inclusive [Min, Max] bound.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FloatRange is an inclusive [Min, Max] bound.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DateField selects which lead timestamp a date range applies to.
type DateField string

const (
	DateFieldCreated  DateField = "created"
	DateFieldUpdated  DateField = "updated"
	DateFieldActivity DateField = "activity"
)

// DateRange bounds a lead timestamp. Either side may be nil (unbounded).
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Segment is a named filter preset. It expands into an equivalent
// FilterSpec before evaluation; there is no ad hoc dispatch on it.
type Segment string

const (
	SegmentNone      Segment = ""
	SegmentMyLeads   Segment = "my-leads"
	SegmentHotLeads  Segment = "hot-leads"
	SegmentHighValue Segment = "high-value"
)

// Valid reports whether s is a known segment.
func (s Segment) Valid() bool {
	switch s {
	case SegmentNone, SegmentMyLeads, SegmentHotLeads, SegmentHighValue:
		return true
	}
	return false
}

// FilterSpec is the set of predicates narrowing the visible lead
// collection. Dimensions combine with logical AND; within a single
// dimension an empty set means "no restriction", never "exclude all".
type FilterSpec struct {
	Search  string         `json:"search,omitempty"`
	Stages  []string       `json:"stages,omitempty"`
	Owners  []string       `json:"owners,omitempty"`
	Sources []leads.Source `json:"sources,omitempty"`
	Tags    []string       `json:"tags,omitempty"`

	ScoreRange *IntRange   `json:"score_range,omitempty"`
	ValueRange *FloatRange `json:"value_range,omitempty"`
	DateRange  *DateRange  `json:"date_range,omitempty"`
	DateField  DateField   `json:"date_field,omitempty"`

	Segment Segment `json:"segment,omitempty"`

	// ViewerID identifies the requesting user; the my-leads segment
	// expands to an owner restriction on it.
	ViewerID string `json:"viewer_id,omitempty"`
}

// IsZero reports whether the spec restricts nothing.
func (s FilterSpec) IsZero() bool {
	return s.Search == "" && len(s.Stages) == 0 && len(s.Owners) == 0 &&
		len(s.Sources) == 0 && len(s.Tags) == 0 &&
		s.ScoreRange == nil && s.ValueRange == nil && s.DateRange == nil &&
		s.Segment == SegmentNone
}

// expandSegment translates the named preset into concrete dimension
// constraints. Only dimensions the caller left unrestricted are filled,
// so an explicit filter always wins over the preset.
func (s FilterSpec) expandSegment() FilterSpec {
	switch s.Segment {
	case SegmentMyLeads:
		if len(s.Owners) == 0 && s.ViewerID != "" {
			s.Owners = []string{s.ViewerID}
		}
	case SegmentHotLeads:
		if s.ScoreRange == nil {
			s.ScoreRange = &IntRange{Min: 80, Max: 100}
		}
	case SegmentHighValue:
		if s.ValueRange == nil {
			s.ValueRange = &FloatRange{Min: 10000, Max: math.MaxFloat64}
		}
	}
	return s
}

// Apply returns the leads matching the spec, preserving input order.
// It is pure: the input slice is never mutated.
func Apply(in []*leads.Lead, spec FilterSpec) []*leads.Lead {
	spec = spec.expandSegment()
	out := make([]*leads.Lead, 0, len(in))
	for _, l := range in {
		if matches(l, spec) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l *leads.Lead, s FilterSpec) bool {
	if s.Search != "" && !matchesSearch(l, s.Search) {
		return false
	}
	if len(s.Stages) > 0 && !containsString(s.Stages, l.Stage) {
		return false
	}
	if len(s.Owners) > 0 && !containsString(s.Owners, l.OwnerID) {
		return false
	}
	if len(s.Sources) > 0 && !containsSource(s.Sources, l.Source) {
		return false
	}
	if len(s.Tags) > 0 && !anyTagOverlap(l, s.Tags) {
		return false
	}
	if s.ScoreRange != nil && (l.Score < s.ScoreRange.Min || l.Score > s.ScoreRange.Max) {
		return false
	}
	if s.ValueRange != nil && (l.Value < s.ValueRange.Min || l.Value > s.ValueRange.Max) {
		return false
	}
	if s.DateRange != nil && !inDateRange(dateFieldOf(l, s.DateField), s.DateRange) {
		return false
	}
	return true
}

func matchesSearch(l *leads.Lead, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(l.Name), q) ||
		strings.Contains(strings.ToLower(l.Email), q) ||
		strings.Contains(strings.ToLower(l.Phone), q)
}

// anyTagOverlap is a union match: one shared tag suffices, full
// containment is not required.
func anyTagOverlap(l *leads.Lead, want []string) bool {
	for _, t := range want {
		if l.HasTag(t) {
			return true
		}
	}
	return false
}

func dateFieldOf(l *leads.Lead, f DateField) time.Time {
	switch f {
	case DateFieldUpdated:
		return l.UpdatedAt
	case DateFieldActivity:
		return l.LastActivity
	default:
		return l.CreatedAt
	}
}

func inDateRange(t time.Time, r *DateRange) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsSource(set []leads.Source, v leads.Source) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
