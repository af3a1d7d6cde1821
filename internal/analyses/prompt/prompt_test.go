package prompt

import (
	"strings"
	"testing"
)

func sampleContext() RequestContext {
	return RequestContext{
		PostingContent:     "Backend study group",
		PostingPersonality: "Punctual, curious",
		PostingSkills:      []string{"Go", "PostgreSQL"},
		ResumeContent:      "I built payment services.",
		ApplicationReason:  "I want to learn distributed systems.",
		ResumePersonality:  "Calm",
		ResumeSkills:       []string{"Go", "Redis"},
	}
}

func TestEvaluationIncludesAllFields(t *testing.T) {
	out := Evaluation(sampleContext())
	for _, want := range []string{
		"Backend study group",
		"Punctual, curious",
		"[Go, PostgreSQL]",
		"I built payment services.",
		"I want to learn distributed systems.",
		"Calm",
		"[Go, Redis]",
		"at most 400 characters",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(out, "{{") {
		t.Fatalf("unreplaced placeholder in prompt:\n%s", out)
	}
}

func TestEvaluationIsDeterministic(t *testing.T) {
	a := Evaluation(sampleContext())
	b := Evaluation(sampleContext())
	if a != b {
		t.Fatalf("expected identical prompts")
	}
}

func TestEvaluationRendersMissingFieldsAsEmpty(t *testing.T) {
	out := Evaluation(RequestContext{})
	if !strings.Contains(out, "Required skills: []") {
		t.Fatalf("expected empty posting skill list")
	}
	if !strings.Contains(out, "- Skills: []") {
		t.Fatalf("expected empty resume skill list")
	}
	if strings.Contains(out, "{{") {
		t.Fatalf("unreplaced placeholder in prompt")
	}
}

func TestEvaluationDoesNotExpandPlaceholdersInValues(t *testing.T) {
	rc := sampleContext()
	rc.ResumeContent = "literal {{POSTING_CONTENT}}"
	out := Evaluation(rc)
	if !strings.Contains(out, "literal {{POSTING_CONTENT}}") {
		t.Fatalf("expected applicant text to be embedded verbatim")
	}
}

func TestSummary(t *testing.T) {
	out, ok := Summary("Led a team of five.")
	if !ok {
		t.Fatalf("expected ok for non-empty content")
	}
	if !strings.Contains(out, "Led a team of five.") || !strings.Contains(out, "200 characters") {
		t.Fatalf("unexpected summary prompt:\n%s", out)
	}

	for _, blank := range []string{"", "   ", "\n\t"} {
		if _, ok := Summary(blank); ok {
			t.Fatalf("expected ok=false for %q", blank)
		}
	}
}

func TestSynthesisEmbedsEvaluationsVerbatim(t *testing.T) {
	a := "content fit score: 80\nrationale: solid"
	b := "[evaluation-b unavailable: timeout]"
	out := Synthesis(a, b)
	if !strings.Contains(out, a) || !strings.Contains(out, b) {
		t.Fatalf("expected both evaluations verbatim")
	}
	if !strings.Contains(out, "recommendation score:") {
		t.Fatalf("expected fixed score label in synthesis prompt")
	}
	if strings.Index(out, a) > strings.Index(out, b) {
		t.Fatalf("expected evaluation A before evaluation B")
	}
}
