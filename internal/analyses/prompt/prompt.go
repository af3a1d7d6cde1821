// Package prompt renders the pipeline's inference prompts. Rendering is pure:
// the same input always yields byte-identical output.
package prompt

import (
	_ "embed"
	"strconv"
	"strings"
)

const (
	// NoResumeContent is stored as the summary when the resume has no content.
	NoResumeContent = "자기소개서 내용이 없습니다."

	// SummaryLimit bounds the resume summary in characters.
	SummaryLimit = 200
	// RationaleLimit bounds evaluation and synthesis rationales in characters.
	RationaleLimit = 400
)

var (
	//go:embed templates/evaluation.txt
	evaluationTemplate string
	//go:embed templates/summary.txt
	summaryTemplate string
	//go:embed templates/synthesis.txt
	synthesisTemplate string
)

// RequestContext is everything the prompts need about one application.
// Missing optional fields render as empty text or an empty list.
type RequestContext struct {
	PostingContent     string
	PostingPersonality string
	PostingSkills      []string
	ResumeContent      string
	ApplicationReason  string
	ResumePersonality  string
	ResumeSkills       []string
}

// Evaluation renders the prompt shared by both evaluation models.
func Evaluation(rc RequestContext) string {
	return strings.NewReplacer(
		"{{POSTING_CONTENT}}", rc.PostingContent,
		"{{POSTING_PERSONALITY}}", rc.PostingPersonality,
		"{{POSTING_SKILLS}}", skillList(rc.PostingSkills),
		"{{RESUME_CONTENT}}", rc.ResumeContent,
		"{{APPLICATION_REASON}}", rc.ApplicationReason,
		"{{RESUME_PERSONALITY}}", rc.ResumePersonality,
		"{{RESUME_SKILLS}}", skillList(rc.ResumeSkills),
		"{{RATIONALE_LIMIT}}", strconv.Itoa(RationaleLimit),
	).Replace(evaluationTemplate)
}

// Summary renders the resume summary prompt. ok is false when content is
// blank; callers use NoResumeContent instead of calling a model.
func Summary(content string) (string, bool) {
	if strings.TrimSpace(content) == "" {
		return "", false
	}
	return strings.NewReplacer(
		"{{SUMMARY_LIMIT}}", strconv.Itoa(SummaryLimit),
		"{{RESUME_CONTENT}}", content,
	).Replace(summaryTemplate), true
}

// Synthesis renders the final scoring prompt from both evaluations, verbatim.
func Synthesis(evaluationA, evaluationB string) string {
	return strings.NewReplacer(
		"{{EVALUATION_A}}", evaluationA,
		"{{EVALUATION_B}}", evaluationB,
		"{{RATIONALE_LIMIT}}", strconv.Itoa(RationaleLimit),
	).Replace(synthesisTemplate)
}

func skillList(skills []string) string {
	return "[" + strings.Join(skills, ", ") + "]"
}
