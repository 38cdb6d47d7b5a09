package leads

import (
	"strings"
	"time"
)

// Source classifies where a lead came from.
type Source string

const (
	SourceWebsite     Source = "website"
	SourceAds         Source = "ads"
	SourceReferral    Source = "referral"
	SourceColdCall    Source = "cold_call"
	SourceSocialMedia Source = "social_media"
	SourceEvent       Source = "event"
	SourceOther       Source = "other"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceWebsite, SourceAds, SourceReferral, SourceColdCall,
		SourceSocialMedia, SourceEvent, SourceOther:
		return true
	}
	return false
}

// Priority is the advisory urgency attached by the AI insight.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// AIInsight is advisory annotation only; it never affects control flow.
type AIInsight struct {
	ConversionProbability int      `json:"conversion_probability"`
	Priority              Priority `json:"priority"`
	NextBestAction        string   `json:"next_best_action,omitempty"`
}

// Lead is a prospective customer tracked through a pipeline.
type Lead struct {
	ID         string `json:"id"`
	PipelineID string `json:"pipeline_id"`
	Stage      string `json:"stage"`

	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`

	Source  Source   `json:"source"`
	Value   float64  `json:"value"`
	Score   int      `json:"score"`
	OwnerID string   `json:"owner_id"`
	Tags    []string `json:"tags,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastActivity time.Time `json:"last_activity"`

	AI *AIInsight `json:"ai,omitempty"`
}

// HasTag reports whether the lead carries the exact tag.
func (l *Lead) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (l *Lead) Clone() *Lead {
	cp := *l
	if l.Tags != nil {
		cp.Tags = append([]string(nil), l.Tags...)
	}
	if l.AI != nil {
		ai := *l.AI
		cp.AI = &ai
	}
	return &cp
}

// CreateLeadRequest carries all caller-settable fields for a new lead.
// ID and timestamps are assigned by the store.
type CreateLeadRequest struct {
	PipelineID string     `json:"pipeline_id"`
	Stage      string     `json:"stage"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Company    string     `json:"company"`
	Position   string     `json:"position"`
	Source     Source     `json:"source"`
	Value      float64    `json:"value"`
	Score      int        `json:"score"`
	OwnerID    string     `json:"owner_id"`
	Tags       []string   `json:"tags"`
	AI         *AIInsight `json:"ai"`
}

// Validate rejects out-of-range fields instead of clamping them.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	if r.Score < 0 || r.Score > 100 {
		return ErrScoreOutOfRange
	}
	if r.Value < 0 {
		return ErrNegativeValue
	}
	if r.Source == "" {
		r.Source = SourceOther
	}
	if !r.Source.Valid() {
		return ErrUnknownSource
	}
	return nil
}

// UpdateLeadRequest carries a partial field merge. Nil pointers leave the
// existing value untouched.
type UpdateLeadRequest struct {
	Stage    *string    `json:"stage"`
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Phone    *string    `json:"phone"`
	Company  *string    `json:"company"`
	Position *string    `json:"position"`
	Source   *Source    `json:"source"`
	Value    *float64   `json:"value"`
	Score    *int       `json:"score"`
	OwnerID  *string    `json:"owner_id"`
	Tags     *[]string  `json:"tags"`
	AI       *AIInsight `json:"ai"`
}

// Validate checks only the fields the caller set.
func (r *UpdateLeadRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrInvalidName
	}
	if r.Score != nil && (*r.Score < 0 || *r.Score > 100) {
		return ErrScoreOutOfRange
	}
	if r.Value != nil && *r.Value < 0 {
		return ErrNegativeValue
	}
	if r.Source != nil && !r.Source.Valid() {
		return ErrUnknownSource
	}
	return nil
}

// Empty reports whether the update would change nothing.
func (r *UpdateLeadRequest) Empty() bool {
	return r.Stage == nil && r.Name == nil && r.Email == nil && r.Phone == nil &&
		r.Company == nil && r.Position == nil && r.Source == nil &&
		r.Value == nil && r.Score == nil && r.OwnerID == nil &&
		r.Tags == nil && r.AI == nil
}

// apply merges the set fields into the lead and refreshes timestamps.
func (r *UpdateLeadRequest) apply(l *Lead, now time.Time) {
	if r.Stage != nil {
		l.Stage = *r.Stage
	}
	if r.Name != nil {
		l.Name = *r.Name
	}
	if r.Email != nil {
		l.Email = *r.Email
	}
	if r.Phone != nil {
		l.Phone = *r.Phone
	}
	if r.Company != nil {
		l.Company = *r.Company
	}
	if r.Position != nil {
		l.Position = *r.Position
	}
	if r.Source != nil {
		l.Source = *r.Source
	}
	if r.Value != nil {
		l.Value = *r.Value
	}
	if r.Score != nil {
		l.Score = *r.Score
	}
	if r.OwnerID != nil {
		l.OwnerID = *r.OwnerID
	}
	if r.Tags != nil {
		l.Tags = append([]string(nil), (*r.Tags)...)
	}
	if r.AI != nil {
		ai := *r.AI
		l.AI = &ai
	}
	l.UpdatedAt = now
	l.LastActivity = now
}
