package applications

import "time"

// Status is the recruiter's decision on an application.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
)

// Posting is a recruiting post applicants apply to.
type Posting struct {
	ID                     int64      `json:"id"`
	Title                  string     `json:"title"`
	Content                string     `json:"content"`
	RequirementPersonality string     `json:"requirementPersonality"`
	HeadCount              int        `json:"headCount"`
	EndedAt                *time.Time `json:"endedAt,omitempty"`
	Done                   bool       `json:"done"`
	SkillNames             []string   `json:"skills"`
}

// Resume is the applicant's cover letter and profile.
type Resume struct {
	ID          int64    `json:"id"`
	UserID      string   `json:"userId"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Personality string   `json:"personality"`
	SkillNames  []string `json:"skills"`
}

// Application links a resume to a posting.
type Application struct {
	ID        int64     `json:"id"`
	PostingID int64     `json:"postingId"`
	ResumeID  int64     `json:"resumeId"`
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Detail is an application with its posting and resume resolved.
type Detail struct {
	Application Application `json:"application"`
	Posting     Posting     `json:"posting"`
	Resume      Resume      `json:"resume"`
}
