package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// leadsDB defines the database interface needed by PostgresStore.
type leadsDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps leads in the relational database.
type PostgresStore struct {
	db leadsDB
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db leadsDB) *PostgresStore {
	return &PostgresStore{db: db}
}

const leadColumns = `id, pipeline_id, stage, name, email, phone, company, position,
	source, value, score, owner_id, tags, created_at, updated_at, last_activity, ai`

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	var aiRaw []byte
	if err := row.Scan(
		&lead.ID,
		&lead.PipelineID,
		&lead.Stage,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Company,
		&lead.Position,
		&lead.Source,
		&lead.Value,
		&lead.Score,
		&lead.OwnerID,
		&lead.Tags,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lead.LastActivity,
		&aiRaw,
	); err != nil {
		return nil, err
	}
	if len(aiRaw) > 0 {
		var ai AIInsight
		if err := json.Unmarshal(aiRaw, &ai); err != nil {
			return nil, fmt.Errorf("leads: decode ai insight: %w", err)
		}
		lead.AI = &ai
	}
	return &lead, nil
}

// Create inserts a new row.
func (s *PostgresStore) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var aiRaw []byte
	if req.AI != nil {
		data, err := json.Marshal(req.AI)
		if err != nil {
			return nil, fmt.Errorf("leads: encode ai insight: %w", err)
		}
		aiRaw = data
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, pipeline_id, stage, name, email, phone, company, position,
			source, value, score, owner_id, tags, ai)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at, last_activity
	`
	var createdAt, updatedAt, lastActivity time.Time
	if err := s.db.QueryRow(ctx, query,
		id,
		req.PipelineID,
		req.Stage,
		req.Name,
		req.Email,
		req.Phone,
		req.Company,
		req.Position,
		req.Source,
		req.Value,
		req.Score,
		req.OwnerID,
		req.Tags,
		aiRaw,
	).Scan(&createdAt, &updatedAt, &lastActivity); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	lead := &Lead{
		ID:           id.String(),
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
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		LastActivity: lastActivity,
	}
	if req.AI != nil {
		ai := *req.AI
		lead.AI = &ai
	}
	return lead, nil
}

// Get fetches a single lead by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// Update merges the set fields into the row and refreshes updated_at and
// last_activity. An empty update reads the row back unchanged.
func (s *PostgresStore) Update(ctx context.Context, id string, req *UpdateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Empty() {
		return s.Get(ctx, id)
	}

	set := make([]string, 0, 12)
	args := []any{id}
	idx := 2
	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Stage != nil {
		add("stage", *req.Stage)
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Company != nil {
		add("company", *req.Company)
	}
	if req.Position != nil {
		add("position", *req.Position)
	}
	if req.Source != nil {
		add("source", *req.Source)
	}
	if req.Value != nil {
		add("value", *req.Value)
	}
	if req.Score != nil {
		add("score", *req.Score)
	}
	if req.OwnerID != nil {
		add("owner_id", *req.OwnerID)
	}
	if req.Tags != nil {
		add("tags", *req.Tags)
	}
	if req.AI != nil {
		data, err := json.Marshal(req.AI)
		if err != nil {
			return nil, fmt.Errorf("leads: encode ai insight: %w", err)
		}
		add("ai", data)
	}

	query := "UPDATE leads SET " + strings.Join(set, ", ") +
		", updated_at = now(), last_activity = now() WHERE id = $1 RETURNING " + leadColumns
	lead, err := scanLead(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: update failed: %w", err)
	}
	return lead, nil
}

// Delete removes the row; unknown ids report ErrLeadNotFound.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Move reassigns the lead's stage.
func (s *PostgresStore) Move(ctx context.Context, id, stageID string) (*Lead, error) {
	return s.Update(ctx, id, &UpdateLeadRequest{Stage: &stageID})
}

// List returns all leads ordered by creation time.
func (s *PostgresStore) List(ctx context.Context) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at, id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list rows: %w", err)
	}
	return out, nil
}
