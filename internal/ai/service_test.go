package ai

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

type fakeLLM struct {
	response    string
	err         error
	lastPrompt  string
	lastHistory []Message
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) Chat(ctx context.Context, history []Message, message string) (string, error) {
	f.lastHistory = history
	f.lastPrompt = message
	return f.response, f.err
}

func roadmapJSON(n int) string {
	phases := make([]string, n)
	for i := range phases {
		phases[i] = `{"id": "phase-` + string(rune('1'+i)) + `", "phase": "Phase", "task": "Task", "depth": "Depth"}`
	}
	return "[" + strings.Join(phases, ",") + "]"
}

func TestForgeIdea(t *testing.T) {
	llm := &fakeLLM{response: "```json\n" + `{
		"problem": "Pet owners cannot find trusted sitters",
		"solution": "Vetted on-demand matching",
		"targetAudience": "Urban pet owners",
		"revenueModel": "Commission per booking",
		"description": "A marketplace.",
		"expansions": {"creativeFlow": "a", "techStack": "b", "growthLevers": "c", "unitEconomics": "d"}
	}` + "\n```"}

	spec, err := NewService(llm).ForgeIdea(context.Background(), "PetSit", "App matching pet sitters to owners", "context")
	if err != nil {
		t.Fatalf("ForgeIdea failed: %v", err)
	}
	if spec.Problem == "" || spec.Expansions == nil {
		t.Errorf("spec incomplete: %+v", spec)
	}
	if !strings.Contains(llm.lastPrompt, "PetSit") || !strings.Contains(llm.lastPrompt, "MARKET CONTEXT") {
		t.Error("prompt missing idea or research context")
	}
}

func TestForgeIdea_MissingCoreFields(t *testing.T) {
	llm := &fakeLLM{response: `{"problem": "", "solution": ""}`}

	_, err := NewService(llm).ForgeIdea(context.Background(), "t", "d", "")
	if !ideaerr.Is(err, ideaerr.CodeAdapterFatal) {
		t.Fatalf("err = %v, want ADAPTER_FATAL", err)
	}
}

func TestStressTestIdea_RoadmapCardinality(t *testing.T) {
	spec := &models.ForgeSpec{Problem: "p", Solution: "s"}

	llm := &fakeLLM{response: `{"score": 45, "killSwitch": "CAC > LTV", "realityCheck": "check",
		"viabilityBreakdown": {"Market Dynamics": 40}, "pillarReasons": {"Market Dynamics": "crowded"},
		"risks": [{"risk": "r", "impact": "High"}],
		"roadmap": ` + roadmapJSON(10) + `,
		"deepDive": {"executiveSummary": "summary"}}`}

	analysis, err := NewService(llm).StressTestIdea(context.Background(), "PetSit", spec, "ctx", nil)
	if err != nil {
		t.Fatalf("StressTestIdea failed: %v", err)
	}
	if len(analysis.Roadmap) != 10 {
		t.Errorf("roadmap length = %d, want 10", len(analysis.Roadmap))
	}
	if analysis.KillSwitch != "CAC > LTV" {
		t.Errorf("killSwitch = %q", analysis.KillSwitch)
	}

	// A short roadmap is a provider contract violation.
	llm.response = `{"score": 45, "roadmap": ` + roadmapJSON(3) + `}`
	if _, err := NewService(llm).StressTestIdea(context.Background(), "PetSit", spec, "ctx", nil); !ideaerr.Is(err, ideaerr.CodeAdapterFatal) {
		t.Fatalf("err = %v, want ADAPTER_FATAL", err)
	}
}

func TestStressTestIdea_ClampsScore(t *testing.T) {
	spec := &models.ForgeSpec{Problem: "p"}
	llm := &fakeLLM{response: `{"score": 130, "roadmap": ` + roadmapJSON(10) + `}`}

	analysis, err := NewService(llm).StressTestIdea(context.Background(), "t", spec, "", nil)
	if err != nil {
		t.Fatalf("StressTestIdea failed: %v", err)
	}
	if analysis.Score != 100 {
		t.Errorf("score = %v, want 100", analysis.Score)
	}
}

func TestUpdateExpansions_UnwrapsWrapper(t *testing.T) {
	idea := &models.Idea{
		Title: "PetSit",
		ForgeSpec: &models.ForgeSpec{
			Problem:    "p",
			Expansions: &models.Expansions{TechStack: "Go"},
		},
	}

	llm := &fakeLLM{response: `{"expansions": {"creativeFlow": "f", "techStack": "Go + Postgres", "growthLevers": "g", "unitEconomics": "u"}}`}
	exp, err := NewService(llm).UpdateExpansions(context.Background(), idea, "add a data moat")
	if err != nil {
		t.Fatalf("UpdateExpansions failed: %v", err)
	}
	if exp.TechStack != "Go + Postgres" {
		t.Errorf("TechStack = %q", exp.TechStack)
	}

	// Bare object form works too.
	llm.response = `{"creativeFlow": "f2", "techStack": "t2", "growthLevers": "g2", "unitEconomics": "u2"}`
	exp, err = NewService(llm).UpdateExpansions(context.Background(), idea, "insight")
	if err != nil {
		t.Fatalf("UpdateExpansions failed: %v", err)
	}
	if exp.CreativeFlow != "f2" {
		t.Errorf("CreativeFlow = %q", exp.CreativeFlow)
	}
}

func TestApplyRefinement_ReturnsRawUpdates(t *testing.T) {
	idea := &models.Idea{ForgeSpec: &models.ForgeSpec{Problem: "p"}}
	llm := &fakeLLM{response: "Sure, here you go:\n```json\n{\"solution\": \"sharper solution\"}\n```"}

	raw, err := NewService(llm).ApplyRefinement(context.Background(), idea, "solution", "make it sharper")
	if err != nil {
		t.Fatalf("ApplyRefinement failed: %v", err)
	}

	var updates map[string]string
	if err := json.Unmarshal(raw, &updates); err != nil {
		t.Fatalf("updates not an object: %v", err)
	}
	if updates["solution"] != "sharper solution" {
		t.Errorf("updates = %v", updates)
	}
}

func TestConsultOnIdea_PassesHistory(t *testing.T) {
	idea := &models.Idea{Title: "PetSit", Description: "d"}
	llm := &fakeLLM{response: "Focus on supply first."}

	history := []Message{{Role: "user", Text: "hi"}}
	answer, err := NewService(llm).ConsultOnIdea(context.Background(), idea, "where do I start?", "", history)
	if err != nil {
		t.Fatalf("ConsultOnIdea failed: %v", err)
	}
	if answer != "Focus on supply first." {
		t.Errorf("answer = %q", answer)
	}
	if len(llm.lastHistory) != 1 {
		t.Errorf("history length = %d, want 1", len(llm.lastHistory))
	}
	if !strings.Contains(llm.lastPrompt, "where do I start?") {
		t.Error("prompt missing user query")
	}
}
