package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

// LLM is the raw generation surface the service drives.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Chat(ctx context.Context, history []Message, message string) (string, error)
}

// Service turns raw generations into the typed artifacts the enrichment
// state machine persists.
type Service struct {
	llm LLM
}

func NewService(llm LLM) *Service {
	return &Service{llm: llm}
}

// StressTestAnalysis is the full single-pass stress-test payload.
type StressTestAnalysis struct {
	Score              float64               `json:"score"`
	KillSwitch         string                `json:"killSwitch"`
	RealityCheck       string                `json:"realityCheck"`
	ViabilityBreakdown map[string]float64    `json:"viabilityBreakdown"`
	PillarReasons      map[string]string     `json:"pillarReasons"`
	Risks              []models.Risk         `json:"risks"`
	Roadmap            []models.RoadmapPhase `json:"roadmap"`
	DeepDive           *models.DeepDive      `json:"deepDive"`
}

// ForgeIdea expands a raw spark into a full product specification.
func (s *Service) ForgeIdea(ctx context.Context, title, description, researchContext string) (*models.ForgeSpec, error) {
	text, err := s.llm.Generate(ctx, forgePrompt(title, description, researchContext))
	if err != nil {
		return nil, fmt.Errorf("AI Forge failed: %w", err)
	}

	spec := &models.ForgeSpec{}
	if err := ExtractJSON(text, spec); err != nil {
		return nil, err
	}
	if spec.Problem == "" || spec.Solution == "" {
		return nil, ideaerr.NewAdapterFatal("forge response missing core fields", nil)
	}

	return spec, nil
}

// StressTestIdea performs the adversarial viability analysis in a single pass,
// including the deep-dive investor memo.
func (s *Service) StressTestIdea(ctx context.Context, title string, spec *models.ForgeSpec, researchContext string, sparks []models.Spark) (*StressTestAnalysis, error) {
	text, err := s.llm.Generate(ctx, stressTestPrompt(title, spec, researchContext, sparks))
	if err != nil {
		return nil, fmt.Errorf("AI Stress-Test failed: %w", err)
	}

	analysis := &StressTestAnalysis{}
	if err := ExtractJSON(text, analysis); err != nil {
		return nil, err
	}

	// The roadmap cardinality is a hard contract with the client.
	if len(analysis.Roadmap) != 10 {
		return nil, ideaerr.NewAdapterFatal(
			fmt.Sprintf("stress-test roadmap has %d phases, want 10", len(analysis.Roadmap)), nil)
	}
	if analysis.Score < 0 {
		analysis.Score = 0
	}
	if analysis.Score > 100 {
		analysis.Score = 100
	}

	return analysis, nil
}

// ConsultOnIdea answers a free-form query grounded in the idea's accumulated
// state. The answer is returned raw; nothing is persisted here.
func (s *Service) ConsultOnIdea(ctx context.Context, idea *models.Idea, query, section string, history []Message) (string, error) {
	answer, err := s.llm.Chat(ctx, history, consultPrompt(idea, query, section))
	if err != nil {
		return "", fmt.Errorf("AI Consult failed: %w", err)
	}
	return answer, nil
}

// UpdateExpansions merges a new insight into the existing expansion fields.
func (s *Service) UpdateExpansions(ctx context.Context, idea *models.Idea, insight string) (*models.Expansions, error) {
	text, err := s.llm.Generate(ctx, evolvePrompt(idea, insight))
	if err != nil {
		return nil, fmt.Errorf("AI Evolution failed: %w", err)
	}

	// The model sometimes wraps the result as {"expansions": {...}}.
	var wrapped struct {
		Expansions *models.Expansions `json:"expansions"`
	}
	if err := ExtractJSON(text, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Expansions != nil {
		return wrapped.Expansions, nil
	}

	exp := &models.Expansions{}
	if err := ExtractJSON(text, exp); err != nil {
		return nil, err
	}
	if exp.CreativeFlow == "" && exp.TechStack == "" && exp.GrowthLevers == "" && exp.UnitEconomics == "" {
		return nil, ideaerr.NewAdapterFatal("evolution response missing expansion fields", nil)
	}
	return exp, nil
}

// ApplyRefinement asks the model for partial spec fields matching the
// instruction and returns them as a raw object for shallow-merging.
func (s *Service) ApplyRefinement(ctx context.Context, idea *models.Idea, section, instruction string) (json.RawMessage, error) {
	text, err := s.llm.Generate(ctx, refinePrompt(idea, section, instruction))
	if err != nil {
		return nil, fmt.Errorf("AI Refinement failed: %w", err)
	}
	return ExtractRawJSON(text)
}
