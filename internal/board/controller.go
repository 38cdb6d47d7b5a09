package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/salesdeck/crm-backend/internal/leads"
	"github.com/salesdeck/crm-backend/internal/observability/metrics"
	"github.com/salesdeck/crm-backend/internal/pipeline"
	"github.com/salesdeck/crm-backend/internal/users"
	"github.com/salesdeck/crm-backend/pkg/logging"
)

var tracer = otel.Tracer("crm.internal.board")

// ViewMode selects how the filtered collection is presented. Only board
// mode carries aggregation semantics; list and calendar are presentation
// variants over the same filtered collection.
type ViewMode string

const (
	ViewModeBoard    ViewMode = "board"
	ViewModeList     ViewMode = "list"
	ViewModeCalendar ViewMode = "calendar"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewModeBoard, ViewModeList, ViewModeCalendar:
		return true
	}
	return false
}

// View is the read model handed to the presentation layer.
type View struct {
	PipelineID   string                 `json:"pipeline_id"`
	PipelineName string                 `json:"pipeline_name"`
	ViewMode     ViewMode               `json:"view_mode"`
	SortKey      SortKey                `json:"sort_key"`
	Filters      FilterSpec             `json:"filters"`
	Stages       []StageView            `json:"stages"`
	TotalLeads   int                    `json:"total_leads"`
	Owners       map[string]*users.User `json:"owners,omitempty"`
}

// FilterPatch merges into the current filter specification. Nil fields
// leave the current value; a non-nil pointer to an empty slice clears
// that dimension back to "no restriction".
type FilterPatch struct {
	Search     *string         `json:"search"`
	Stages     *[]string       `json:"stages"`
	Owners     *[]string       `json:"owners"`
	Sources    *[]leads.Source `json:"sources"`
	Tags       *[]string       `json:"tags"`
	ScoreRange *IntRange       `json:"score_range"`
	ValueRange *FloatRange     `json:"value_range"`
	DateRange  *DateRange      `json:"date_range"`
	DateField  *DateField      `json:"date_field"`
	Segment    *Segment        `json:"segment"`
	ViewerID   *string         `json:"viewer_id"`
}

// Controller composes the lead store, the pipeline catalog and the owner
// directory into the board read/write surface. Mutations are serialized:
// the view observed after a mutation returns always reflects it.
type Controller struct {
	mu      sync.Mutex
	store   leads.Store
	catalog pipeline.Catalog
	users   users.Directory
	logger  *logging.Logger
	metrics *metrics.BoardMetrics

	active   *pipeline.Pipeline
	filters  FilterSpec
	sortKey  SortKey
	viewMode ViewMode
}

// NewController creates a controller with the catalog's default pipeline
// active, no filters, and score-descending ordering.
func NewController(ctx context.Context, store leads.Store, catalog pipeline.Catalog, dir users.Directory, logger *logging.Logger, m *metrics.BoardMetrics) (*Controller, error) {
	if logger == nil {
		logger = logging.Default()
	}
	active, err := catalog.Default(ctx)
	if err != nil {
		return nil, fmt.Errorf("board: resolve default pipeline: %w", err)
	}
	return &Controller{
		store:    store,
		catalog:  catalog,
		users:    dir,
		logger:   logger,
		metrics:  m,
		active:   active,
		sortKey:  SortByScore,
		viewMode: ViewModeBoard,
	}, nil
}

// ActivePipeline returns the currently selected pipeline.
func (c *Controller) ActivePipeline() *pipeline.Pipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active.Clone()
}

// SelectPipeline switches the active pipeline. Leads of other pipelines
// are not reassigned; they simply stop appearing on the board.
func (c *Controller) SelectPipeline(ctx context.Context, pipelineID string) error {
	p, err := c.catalog.Get(ctx, pipelineID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = p
	c.logger.Info("pipeline selected", "pipeline_id", p.ID, "stages", len(p.Stages))
	return nil
}

// AddLead creates a lead in the given stage of the active pipeline. An
// empty stageID targets the pipeline's first stage.
func (c *Controller) AddLead(ctx context.Context, stageID string, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	ctx, span := tracer.Start(ctx, "board.add_lead")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if stageID == "" {
		stageID = c.active.FirstStage().ID
	}
	if !c.active.HasStage(stageID) {
		c.metrics.ObserveMutation("add", "invalid_stage")
		return nil, ErrInvalidStage
	}

	// Work on a copy so the caller's request is left untouched.
	scoped := *req
	scoped.PipelineID = c.active.ID
	scoped.Stage = stageID
	lead, err := c.store.Create(ctx, &scoped)
	if err != nil {
		c.metrics.ObserveMutation("add", "error")
		return nil, err
	}

	span.SetAttributes(attribute.String("lead.id", lead.ID), attribute.String("stage.id", stageID))
	c.metrics.ObserveMutation("add", "ok")
	c.logger.Info("lead added", "lead_id", lead.ID, "stage", stageID, "pipeline_id", c.active.ID)
	return lead, nil
}

// UpdateLead merges partial fields into a lead. Stage changes through
// this path are validated against the active pipeline just like moves.
func (c *Controller) UpdateLead(ctx context.Context, leadID string, req *leads.UpdateLeadRequest) (*leads.Lead, error) {
	ctx, span := tracer.Start(ctx, "board.update_lead")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Stage != nil {
		if !c.active.HasStage(*req.Stage) {
			c.metrics.ObserveMutation("update", "invalid_stage")
			return nil, ErrInvalidStage
		}
		current, err := c.store.Get(ctx, leadID)
		if err != nil {
			c.metrics.ObserveMutation("update", "error")
			return nil, err
		}
		if !c.onBoard(current) {
			c.metrics.ObserveMutation("update", "invalid_stage")
			return nil, ErrInvalidStage
		}
	}

	lead, err := c.store.Update(ctx, leadID, req)
	if err != nil {
		c.metrics.ObserveMutation("update", "error")
		return nil, err
	}

	span.SetAttributes(attribute.String("lead.id", lead.ID))
	c.metrics.ObserveMutation("update", "ok")
	return lead, nil
}

// DeleteLead removes a lead from the store.
func (c *Controller) DeleteLead(ctx context.Context, leadID string) error {
	ctx, span := tracer.Start(ctx, "board.delete_lead")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, leadID); err != nil {
		c.metrics.ObserveMutation("delete", "error")
		return err
	}

	span.SetAttributes(attribute.String("lead.id", leadID))
	c.metrics.ObserveMutation("delete", "ok")
	c.logger.Info("lead deleted", "lead_id", leadID)
	return nil
}

// MoveLeadToStage applies the drag-and-drop gesture: it validates the
// target stage against the active pipeline and the lead's own pipeline,
// then delegates to the store. On any failure nothing is mutated, so the
// prior column assignment is simply retained.
func (c *Controller) MoveLeadToStage(ctx context.Context, leadID, targetStageID string) (*leads.Lead, error) {
	ctx, span := tracer.Start(ctx, "board.move_lead")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active.HasStage(targetStageID) {
		c.metrics.ObserveMoveRejection("unknown_stage")
		return nil, ErrInvalidStage
	}

	lead, err := c.store.Get(ctx, leadID)
	if err != nil {
		c.metrics.ObserveMoveRejection("unknown_lead")
		return nil, err
	}
	if !c.onBoard(lead) {
		c.metrics.ObserveMoveRejection("wrong_pipeline")
		return nil, ErrInvalidStage
	}

	moved, err := c.store.Move(ctx, leadID, targetStageID)
	if err != nil {
		c.metrics.ObserveMutation("move", "error")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("lead.id", leadID),
		attribute.String("stage.from", lead.Stage),
		attribute.String("stage.to", targetStageID),
	)
	c.metrics.ObserveMutation("move", "ok")
	c.logger.Info("lead moved", "lead_id", leadID, "from", lead.Stage, "to", targetStageID)
	return moved, nil
}

// SetFilters merges the patch into the current filter specification.
func (c *Controller) SetFilters(patch FilterPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if patch.Segment != nil && !patch.Segment.Valid() {
		return ErrUnknownSegment
	}
	if patch.DateField != nil {
		switch *patch.DateField {
		case DateFieldCreated, DateFieldUpdated, DateFieldActivity:
		default:
			return fmt.Errorf("board: unknown date field %q", *patch.DateField)
		}
	}

	if patch.Search != nil {
		c.filters.Search = *patch.Search
	}
	if patch.Stages != nil {
		c.filters.Stages = append([]string(nil), (*patch.Stages)...)
	}
	if patch.Owners != nil {
		c.filters.Owners = append([]string(nil), (*patch.Owners)...)
	}
	if patch.Sources != nil {
		c.filters.Sources = append([]leads.Source(nil), (*patch.Sources)...)
	}
	if patch.Tags != nil {
		c.filters.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.ScoreRange != nil {
		r := *patch.ScoreRange
		c.filters.ScoreRange = &r
	}
	if patch.ValueRange != nil {
		r := *patch.ValueRange
		c.filters.ValueRange = &r
	}
	if patch.DateRange != nil {
		r := *patch.DateRange
		c.filters.DateRange = &r
	}
	if patch.DateField != nil {
		c.filters.DateField = *patch.DateField
	}
	if patch.Segment != nil {
		c.filters.Segment = *patch.Segment
	}
	if patch.ViewerID != nil {
		c.filters.ViewerID = *patch.ViewerID
	}
	return nil
}

// ClearFilters resets the specification to the identity filter.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = FilterSpec{ViewerID: c.filters.ViewerID}
}

// Filters returns the current specification.
func (c *Controller) Filters() FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// SetSort changes the board ordering.
func (c *Controller) SetSort(key SortKey) error {
	if !key.Valid() {
		return ErrUnknownSortKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortKey = key
	return nil
}

// SetViewMode switches between board, list and calendar presentation.
func (c *Controller) SetViewMode(mode ViewMode) error {
	if !mode.Valid() {
		return ErrUnknownViewMode
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewMode = mode
	return nil
}

// BoardView recomputes the filtered, sorted, aggregated view. There is no
// caching: the cost is linear in lead count, which is fine at dashboard
// scale, and recomputing keeps the view trivially consistent with the
// store after every mutation.
func (c *Controller) BoardView(ctx context.Context) (*View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	all, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("board: list leads: %w", err)
	}

	visible := make([]*leads.Lead, 0, len(all))
	for _, l := range all {
		if c.onBoard(l) {
			visible = append(visible, l)
		}
	}

	filtered := Apply(visible, c.filters)
	ordered := SortLeads(filtered, c.sortKey)
	stages := Aggregate(ordered, c.active.OrderedStages())
	c.metrics.ObserveRecompute(time.Since(start).Seconds())

	view := &View{
		PipelineID:   c.active.ID,
		PipelineName: c.active.Name,
		ViewMode:     c.viewMode,
		SortKey:      c.sortKey,
		Filters:      c.filters,
		Stages:       stages,
		TotalLeads:   len(ordered),
		Owners:       c.resolveOwners(ctx, ordered),
	}
	return view, nil
}

// Stats recomputes pipeline-level aggregates over all leads of the
// active pipeline, ignoring the current filters.
func (c *Controller) Stats(ctx context.Context) (*Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("board: list leads: %w", err)
	}
	visible := make([]*leads.Lead, 0, len(all))
	for _, l := range all {
		if c.onBoard(l) {
			visible = append(visible, l)
		}
	}
	stats := computeStats(visible, c.active)
	return &stats, nil
}

// onBoard reports whether a lead belongs to the active pipeline. Leads
// created before pipeline scoping have an empty pipeline id and are
// matched by stage membership instead.
func (c *Controller) onBoard(l *leads.Lead) bool {
	if l.PipelineID != "" {
		return l.PipelineID == c.active.ID
	}
	return c.active.HasStage(l.Stage)
}

func (c *Controller) resolveOwners(ctx context.Context, visible []*leads.Lead) map[string]*users.User {
	if c.users == nil {
		return nil
	}
	out := make(map[string]*users.User)
	for _, l := range visible {
		if l.OwnerID == "" {
			continue
		}
		if _, done := out[l.OwnerID]; done {
			continue
		}
		u, err := c.users.Get(ctx, l.OwnerID)
		if err != nil {
			// Directory gaps only degrade display, never the board.
			continue
		}
		out[l.OwnerID] = u
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
