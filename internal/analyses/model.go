package analyses

import "time"

// Outcome is the stored result of an analysis run. There is at most one per
// application; reruns overwrite it in place.
type Outcome struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	Result        string    `json:"result"`
	Summary       string    `json:"summary"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RankedApplication is a posting's application with its score, if analyzed.
type RankedApplication struct {
	ApplicationID int64     `json:"applicationId"`
	ResumeID      int64     `json:"resumeId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	Score         *int      `json:"score"`
	Summary       string    `json:"summary,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// callResult is one inference call's outcome. Text is meaningful only when Err is nil.
type callResult struct {
	Text string
	Err  error
}
