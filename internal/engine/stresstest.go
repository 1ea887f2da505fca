package engine

import (
	"context"
	"time"

	"github.com/shubh-37/ideaforge/internal/ai"
	"github.com/shubh-37/ideaforge/internal/database"
	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

type StressTestResult struct {
	*ai.StressTestAnalysis
	MarketResearch *models.MarketResearch `json:"marketResearch"`
}

// StressTest runs the adversarial viability analysis. It refreshes the market
// research cache when it is stale, absent, or a redo is requested, then makes
// a single LLM pass for the full evaluation payload. A degraded search result
// is used for the prompt but never cached, so lastResearched only moves when
// a live search actually succeeded. The entire result, including the history
// snapshot of any prior score, lands in one write.
func (e *Engine) StressTest(ctx context.Context, creatorID, id string, redo bool) (*StressTestResult, error) {
	idea, err := e.store.Get(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}
	if idea.ForgeSpec == nil {
		return nil, ideaerr.NewPreconditionFailed("Idea needs to be forged before stress-testing.")
	}

	research := idea.MarketResearch
	fresh := false
	if redo || research == nil || research.Stale(time.Now()) {
		result := e.searcher.ResearchMarket(ctx, idea.Title, idea.Description)
		if !result.Degraded {
			research = &models.MarketResearch{
				Competitors:    result.Competitors,
				Trends:         result.Trends,
				Context:        result.Context,
				LastResearched: time.Now().UTC(),
			}
			fresh = true
		} else if research == nil {
			research = &models.MarketResearch{Context: result.Context}
		}
	}

	analysis, err := e.ai.StressTestIdea(ctx, idea.Title, idea.ForgeSpec, research.Context, idea.SmallerSparks)
	if err != nil {
		return nil, err
	}

	set := map[string]any{
		database.FieldScore:              analysis.Score,
		database.FieldKillSwitch:         analysis.KillSwitch,
		database.FieldRealityCheck:       analysis.RealityCheck,
		database.FieldViabilityBreakdown: analysis.ViabilityBreakdown,
		database.FieldPillarReasons:      analysis.PillarReasons,
		database.FieldRisks:              analysis.Risks,
		database.FieldRoadmap:            analysis.Roadmap,
		database.FieldDeepDive:           analysis.DeepDive,
	}
	if fresh {
		set[database.FieldMarketResearch] = research
	}

	upd := database.FieldUpdate{Set: set}
	if idea.Score != nil {
		upd.Push = map[string]any{
			database.FieldEvolutionHistory: models.EvolutionSnapshot{
				Score:       *idea.Score,
				Date:        idea.UpdatedAt,
				Title:       idea.Title,
				Description: idea.Description,
			},
		}
	}

	rows, err := e.store.UpdateFields(ctx, id, creatorID, upd)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ideaerr.NewNotFound()
	}

	if e.notifier != nil {
		e.notifier.ScoreChanged(idea, analysis.Score)
	}

	return &StressTestResult{StressTestAnalysis: analysis, MarketResearch: research}, nil
}
