package engine

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shubh-37/ideaforge/internal/database"
	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

type ExpansionsUpdate struct {
	Expansions *models.Expansions `json:"expansions"`
}

// Refine applies a section-scoped update to the spec.
//
//   - "forgeSpec": instruction is a pre-serialized replacement spec, written
//     wholesale with no LLM call.
//   - "evolution": the LLM merges the instruction into the four expansion
//     fields; only forgeSpec.expansions changes.
//   - anything else: the LLM returns partial spec fields which are
//     shallow-merged into the existing forgeSpec.
//
// Returns the sub-object that changed.
func (e *Engine) Refine(ctx context.Context, creatorID, id, section, instruction string) (any, error) {
	if strings.TrimSpace(section) == "" || strings.TrimSpace(instruction) == "" {
		return nil, ideaerr.NewInvalidRequest("Section and instruction are required.")
	}

	idea, err := e.store.Get(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}

	switch section {
	case "forgeSpec":
		spec := &models.ForgeSpec{}
		if err := json.Unmarshal([]byte(instruction), spec); err != nil {
			return nil, ideaerr.NewInvalidRequest("Instruction must be a serialized forge spec.")
		}
		if err := e.writeSpec(ctx, id, creatorID, spec); err != nil {
			return nil, err
		}
		return spec, nil

	case "evolution":
		if idea.ForgeSpec == nil {
			return nil, ideaerr.NewPreconditionFailed("Idea needs to be forged before evolving.")
		}
		expansions, err := e.ai.UpdateExpansions(ctx, idea, instruction)
		if err != nil {
			return nil, err
		}
		spec := *idea.ForgeSpec
		spec.Expansions = expansions
		if err := e.writeSpec(ctx, id, creatorID, &spec); err != nil {
			return nil, err
		}
		return &ExpansionsUpdate{Expansions: expansions}, nil

	default:
		if idea.ForgeSpec == nil {
			return nil, ideaerr.NewPreconditionFailed("Idea needs to be forged before refining.")
		}
		updates, err := e.ai.ApplyRefinement(ctx, idea, section, instruction)
		if err != nil {
			return nil, err
		}
		merged := *idea.ForgeSpec
		if err := json.Unmarshal(updates, &merged); err != nil {
			return nil, ideaerr.NewAdapterFatal("failed to apply refinement", err)
		}
		if err := e.writeSpec(ctx, id, creatorID, &merged); err != nil {
			return nil, err
		}
		return updates, nil
	}
}

func (e *Engine) writeSpec(ctx context.Context, id, creatorID string, spec *models.ForgeSpec) error {
	rows, err := e.store.UpdateFields(ctx, id, creatorID, database.FieldUpdate{
		Set: map[string]any{database.FieldForgeSpec: spec},
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return ideaerr.NewNotFound()
	}
	return nil
}
