package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

// Field names accepted by FieldUpdate. These mirror the JSON names of the
// Idea sub-documents, not the underlying column names.
const (
	FieldTitle              = "title"
	FieldDescription        = "description"
	FieldForgeSpec          = "forgeSpec"
	FieldMarketResearch     = "marketResearch"
	FieldScore              = "score"
	FieldViabilityBreakdown = "viabilityBreakdown"
	FieldPillarReasons      = "pillarReasons"
	FieldRisks              = "risks"
	FieldKillSwitch         = "killSwitch"
	FieldRealityCheck       = "realityCheck"
	FieldRoadmap            = "roadmap"
	FieldDeepDive           = "deepDive"
	FieldSmallerSparks      = "smallerSparks"
	FieldEvolutionHistory   = "evolutionHistory"
)

var fieldColumns = map[string]string{
	FieldTitle:              "title",
	FieldDescription:        "description",
	FieldForgeSpec:          "forge_spec",
	FieldMarketResearch:     "market_research",
	FieldScore:              "score",
	FieldViabilityBreakdown: "viability_breakdown",
	FieldPillarReasons:      "pillar_reasons",
	FieldRisks:              "risks",
	FieldKillSwitch:         "kill_switch",
	FieldRealityCheck:       "reality_check",
	FieldRoadmap:            "roadmap",
	FieldDeepDive:           "deep_dive",
	FieldSmallerSparks:      "smaller_sparks",
	FieldEvolutionHistory:   "evolution_history",
}

var jsonbFields = map[string]bool{
	FieldForgeSpec:          true,
	FieldMarketResearch:     true,
	FieldViabilityBreakdown: true,
	FieldPillarReasons:      true,
	FieldRisks:              true,
	FieldRoadmap:            true,
	FieldDeepDive:           true,
	FieldSmallerSparks:      true,
	FieldEvolutionHistory:   true,
}

// FieldUpdate describes a partial update to an idea document. Set overwrites
// fields, Unset clears them, Push appends a single element to an array field,
// Pull removes array elements whose "id" matches the given value. Every
// update also bumps updated_at inside the same statement.
type FieldUpdate struct {
	Set   map[string]any
	Unset []string
	Push  map[string]any
	Pull  map[string]string
}

type IdeaRepository struct {
	db *DB
}

func NewIdeaRepository(db *DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

// Create inserts a new idea, assigning its id and timestamps.
func (r *IdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	query := `
		INSERT INTO ideas (id, creator_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		idea.ID,
		idea.CreatorID,
		idea.Title,
		idea.Description,
		idea.CreatedAt,
		idea.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}

	return nil
}

const ideaColumns = `
	id, creator_id, title, description, forge_spec, market_research, score,
	viability_breakdown, pillar_reasons, risks,
	COALESCE(kill_switch, ''), COALESCE(reality_check, ''),
	roadmap, deep_dive, smaller_sparks, evolution_history, created_at, updated_at
`

// Get retrieves an idea scoped by creator. A missing row and a creator
// mismatch are indistinguishable: both report NotFound.
func (r *IdeaRepository) Get(ctx context.Context, id, creatorID string) (*models.Idea, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ideaerr.NewNotFound()
	}

	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1 AND creator_id = $2`

	idea, err := scanIdea(r.db.Pool.QueryRow(ctx, query, id, creatorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ideaerr.NewNotFound()
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	return idea, nil
}

// ListByCreator retrieves all of a creator's ideas, newest first.
func (r *IdeaRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE creator_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ideas: %w", err)
	}
	defer rows.Close()

	ideas := []*models.Idea{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}

	return ideas, rows.Err()
}

// UpdateFields applies a partial update as a single statement, scoped by
// creator. Returns the number of rows affected; zero means the idea does not
// exist or belongs to someone else, and nothing was written.
func (r *IdeaRepository) UpdateFields(ctx context.Context, id, creatorID string, upd FieldUpdate) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}

	query, args, err := buildUpdate(upd)
	if err != nil {
		return 0, err
	}
	args = append([]any{id, creatorID}, args...)

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update idea: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete hard-deletes an idea scoped by creator.
func (r *IdeaRepository) Delete(ctx context.Context, id, creatorID string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM ideas WHERE id = $1 AND creator_id = $2`, id, creatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete idea: %w", err)
	}

	return result.RowsAffected(), nil
}

// buildUpdate compiles a FieldUpdate into one UPDATE statement. Placeholders
// $1 and $2 are reserved for id and creator_id; value args start at $3.
// Assignments are emitted in sorted field order so the statement is stable.
func buildUpdate(upd FieldUpdate) (string, []any, error) {
	assignments := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	next := 3

	for _, field := range sortedKeys(upd.Set) {
		col, ok := fieldColumns[field]
		if !ok {
			return "", nil, fmt.Errorf("unknown field %q", field)
		}
		if jsonbFields[field] {
			data, err := json.Marshal(upd.Set[field])
			if err != nil {
				return "", nil, fmt.Errorf("failed to encode %s: %w", field, err)
			}
			assignments = append(assignments, fmt.Sprintf("%s = $%d::jsonb", col, next))
			args = append(args, string(data))
		} else {
			assignments = append(assignments, fmt.Sprintf("%s = $%d", col, next))
			args = append(args, upd.Set[field])
		}
		next++
	}

	unset := append([]string(nil), upd.Unset...)
	sort.Strings(unset)
	for _, field := range unset {
		col, ok := fieldColumns[field]
		if !ok {
			return "", nil, fmt.Errorf("unknown field %q", field)
		}
		assignments = append(assignments, fmt.Sprintf("%s = NULL", col))
	}

	for _, field := range sortedKeys(upd.Push) {
		col, ok := fieldColumns[field]
		if !ok || !jsonbFields[field] {
			return "", nil, fmt.Errorf("cannot push to field %q", field)
		}
		// Wrap the element in a one-item array: jsonb || only appends when
		// both sides are arrays.
		data, err := json.Marshal([]any{upd.Push[field]})
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode %s: %w", field, err)
		}
		assignments = append(assignments,
			fmt.Sprintf("%s = COALESCE(%s, '[]'::jsonb) || $%d::jsonb", col, col, next))
		args = append(args, string(data))
		next++
	}

	for _, field := range sortedKeysStr(upd.Pull) {
		col, ok := fieldColumns[field]
		if !ok || !jsonbFields[field] {
			return "", nil, fmt.Errorf("cannot pull from field %q", field)
		}
		assignments = append(assignments, fmt.Sprintf(
			"%s = COALESCE((SELECT jsonb_agg(e) FROM jsonb_array_elements(COALESCE(%s, '[]'::jsonb)) e WHERE e->>'id' <> $%d), '[]'::jsonb)",
			col, col, next))
		args = append(args, upd.Pull[field])
		next++
	}

	query := fmt.Sprintf("UPDATE ideas SET %s WHERE id = $1 AND creator_id = $2",
		strings.Join(assignments, ", "))
	return query, args, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysStr(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (*models.Idea, error) {
	idea := &models.Idea{}
	err := row.Scan(
		&idea.ID,
		&idea.CreatorID,
		&idea.Title,
		&idea.Description,
		&idea.ForgeSpec,
		&idea.MarketResearch,
		&idea.Score,
		&idea.ViabilityBreakdown,
		&idea.PillarReasons,
		&idea.Risks,
		&idea.KillSwitch,
		&idea.RealityCheck,
		&idea.Roadmap,
		&idea.DeepDive,
		&idea.SmallerSparks,
		&idea.EvolutionHistory,
		&idea.CreatedAt,
		&idea.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return idea, nil
}
