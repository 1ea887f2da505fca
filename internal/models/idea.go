package models

import "time"

// ResearchCacheTTL is how long a market research snapshot stays fresh.
const ResearchCacheTTL = 7 * 24 * time.Hour

// Idea is the single persisted aggregate: a user-submitted spark plus every
// enrichment artifact layered onto it (spec, research cache, viability
// analysis, sparks, history).
type Idea struct {
	ID                 string              `json:"id"`
	CreatorID          string              `json:"creatorId"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	ForgeSpec          *ForgeSpec          `json:"forgeSpec,omitempty"`
	MarketResearch     *MarketResearch     `json:"marketResearch,omitempty"`
	Score              *float64            `json:"score,omitempty"`
	ViabilityBreakdown map[string]float64  `json:"viabilityBreakdown,omitempty"`
	PillarReasons      map[string]string   `json:"pillarReasons,omitempty"`
	Risks              []Risk              `json:"risks,omitempty"`
	KillSwitch         string              `json:"killSwitch,omitempty"`
	RealityCheck       string              `json:"realityCheck,omitempty"`
	Roadmap            []RoadmapPhase      `json:"roadmap,omitempty"`
	DeepDive           *DeepDive           `json:"deepDive,omitempty"`
	SmallerSparks      []Spark             `json:"smallerSparks,omitempty"`
	EvolutionHistory   []EvolutionSnapshot `json:"evolutionHistory,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// ForgeSpec is the structured product specification produced by Forge.
type ForgeSpec struct {
	Problem        string      `json:"problem"`
	Solution       string      `json:"solution"`
	TargetAudience string      `json:"targetAudience"`
	RevenueModel   string      `json:"revenueModel"`
	Description    string      `json:"description"`
	Expansions     *Expansions `json:"expansions,omitempty"`
}

// Expansions holds the deeper spec sections. Notes is a free-text override the
// user can populate; later transitions treat it as highest-priority context.
type Expansions struct {
	CreativeFlow  string `json:"creativeFlow"`
	TechStack     string `json:"techStack"`
	GrowthLevers  string `json:"growthLevers"`
	UnitEconomics string `json:"unitEconomics"`
	Notes         string `json:"notes,omitempty"`
}

// MarketResearch is a cached research snapshot with a 7-day freshness window.
type MarketResearch struct {
	Competitors    []string  `json:"competitors,omitempty"`
	Trends         []string  `json:"trends,omitempty"`
	Context        string    `json:"context"`
	LastResearched time.Time `json:"lastResearched,omitempty"`
}

// Stale reports whether the snapshot is older than the cache TTL. A snapshot
// that was never stamped (placeholder research) is always stale.
func (m *MarketResearch) Stale(now time.Time) bool {
	if m.LastResearched.IsZero() {
		return true
	}
	return now.Sub(m.LastResearched) > ResearchCacheTTL
}

type Risk struct {
	Risk   string `json:"risk"`
	Impact string `json:"impact,omitempty"`
}

// RoadmapPhase is one of exactly ten ordered phases in the evolutionary roadmap.
type RoadmapPhase struct {
	ID    string `json:"id"`
	Phase string `json:"phase"`
	Task  string `json:"task"`
	Depth string `json:"depth"`
}

// Spark is an auxiliary note attached to an idea. Sparks are append/remove
// only and are never mutated in place.
type Spark struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// EvolutionSnapshot records a prior viability state. History entries are
// immutable once appended.
type EvolutionSnapshot struct {
	Score       float64   `json:"score"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// DeepDive is the fixed 10-section investor memo produced by a stress-test.
type DeepDive struct {
	ExecutiveSummary     string               `json:"executiveSummary"`
	ProblemAnalysis      ProblemAnalysis      `json:"problemAnalysis"`
	SolutionArchitecture SolutionArchitecture `json:"solutionArchitecture"`
	MarketOpportunity    MarketOpportunity    `json:"marketOpportunity"`
	CompetitiveLandscape CompetitiveLandscape `json:"competitiveLandscape"`
	BusinessModel        BusinessModel        `json:"businessModel"`
	GoToMarket           GoToMarket           `json:"goToMarket"`
	FinancialProjections FinancialProjections `json:"financialProjections"`
	RiskAssessment       RiskAssessment       `json:"riskAssessment"`
	SuccessMetrics       SuccessMetrics       `json:"successMetrics"`
}

type ProblemAnalysis struct {
	Statement string `json:"statement"`
	Evidence  string `json:"evidence"`
	Urgency   string `json:"urgency"`
}

type SolutionArchitecture struct {
	ValueProposition  string   `json:"valueProposition"`
	KeyFeatures       []string `json:"keyFeatures"`
	TechnicalApproach string   `json:"technicalApproach"`
}

type MarketOpportunity struct {
	TAM    string `json:"tam"`
	SAM    string `json:"sam"`
	SOM    string `json:"som"`
	Trends string `json:"trends"`
}

type CompetitiveLandscape struct {
	DirectCompetitors []string `json:"directCompetitors"`
	Advantage         string   `json:"advantage"`
	Moat              string   `json:"moat"`
}

type BusinessModel struct {
	RevenueStreams string `json:"revenueStreams"`
	Pricing        string `json:"pricing"`
	UnitEconomics  string `json:"unitEconomics"`
}

type GoToMarket struct {
	Segments string `json:"segments"`
	Channels string `json:"channels"`
	Strategy string `json:"strategy"`
}

type FinancialProjections struct {
	Year1     string `json:"year1"`
	Year2     string `json:"year2"`
	Year3     string `json:"year3"`
	Breakeven string `json:"breakeven"`
}

type RiskAssessment struct {
	Risks []MitigatedRisk `json:"risks"`
}

type MitigatedRisk struct {
	Risk       string `json:"risk"`
	Mitigation string `json:"mitigation"`
}

type SuccessMetrics struct {
	NorthStar string   `json:"northStar"`
	KPIs      []string `json:"kpis"`
}
