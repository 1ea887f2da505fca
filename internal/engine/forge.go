package engine

import (
	"context"

	"github.com/shubh-37/ideaforge/internal/database"
	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

// evaluationFields is the stress-test field group. It is all-or-nothing:
// populated together by a stress-test, cleared together by Forge(redo).
var evaluationFields = []string{
	database.FieldScore,
	database.FieldViabilityBreakdown,
	database.FieldPillarReasons,
	database.FieldRisks,
	database.FieldKillSwitch,
	database.FieldRealityCheck,
	database.FieldRoadmap,
	database.FieldDeepDive,
}

type ForgeResult struct {
	ForgeSpec      *models.ForgeSpec      `json:"forgeSpec"`
	MarketResearch *models.MarketResearch `json:"marketResearch"`
}

// Forge expands the raw idea into a full product specification. It reuses any
// cached research context (or a placeholder) but never triggers a search;
// only a stress-test does that. With redo, the entire evaluation field group
// is unset atomically with the spec write, resetting the idea to
// forged-but-unvalidated.
func (e *Engine) Forge(ctx context.Context, creatorID, id string, redo bool) (*ForgeResult, error) {
	idea, err := e.store.Get(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}

	research := idea.MarketResearch
	if research == nil {
		research = &models.MarketResearch{Context: placeholderResearchContext}
	}

	spec, err := e.ai.ForgeIdea(ctx, idea.Title, idea.Description, research.Context)
	if err != nil {
		return nil, err
	}

	upd := database.FieldUpdate{
		Set: map[string]any{
			database.FieldForgeSpec:      spec,
			database.FieldMarketResearch: research,
		},
	}
	if redo {
		upd.Unset = append([]string(nil), evaluationFields...)
	}

	rows, err := e.store.UpdateFields(ctx, id, creatorID, upd)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ideaerr.NewNotFound()
	}

	return &ForgeResult{ForgeSpec: spec, MarketResearch: research}, nil
}
