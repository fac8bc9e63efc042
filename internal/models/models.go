package models

// Submission is the raw intake payload for one triage run. It is built once
// at request entry and never mutated afterwards.
type Submission struct {
	Title        string       `json:"title,omitempty" validate:"omitempty,max=300"`
	ReporterName string       `json:"reporter_name,omitempty" validate:"omitempty,max=200"`
	Details      string       `json:"details,omitempty" validate:"omitempty,max=20000"`
	Category     string       `json:"category,omitempty" validate:"omitempty,oneof=bug feature question task"`
	Severity     string       `json:"severity,omitempty" validate:"omitempty,oneof=critical high medium low"`
	Attachments  []Attachment `json:"-"`
}

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// IssueRef identifies an issue in the tracker. Identifier is the
// human-readable key (e.g. "CX-123"), ID the opaque tracker id.
type IssueRef struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
}

// ContextSnapshot is the point-in-time tracker state used for name
// resolution. Fetched fresh per request, read-only within the pipeline.
type ContextSnapshot struct {
	Teams        []Team     `json:"teams"`
	Projects     []Project  `json:"projects"`
	Users        []User     `json:"users"`
	RecentIssues []IssueRef `json:"recent_issues,omitempty"`
}

// RoutingDecision is the deterministic router's output. Produced by exactly
// one rule or a fallback, never merged across rules.
type RoutingDecision struct {
	TeamName     string `json:"team_name,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
}

// IssueDraft is the synthesizer's output. Title and Description are always
// populated; the routing fields are advisory only. Priority 0 means unset.
type IssueDraft struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TeamName      string `json:"team_name,omitempty"`
	ProjectName   string `json:"project_name,omitempty"`
	AssigneeEmail string `json:"assignee_email,omitempty"`
	Priority      int    `json:"priority,omitempty"`
}

// ResolvedRouting binds draft/decision names to tracker ids. TeamID is always
// populated; ProjectID and AssigneeID stay nil when unresolved.
type ResolvedRouting struct {
	TeamID     string  `json:"team_id"`
	ProjectID  *string `json:"project_id,omitempty"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// DispatchOutcome is the terminal artifact of one triage run.
type DispatchOutcome struct {
	Duplicate bool   `json:"duplicate"`
	IssueID   string `json:"issueId"`
	IssueURL  string `json:"issueUrl"`
}

type IssueCreate struct {
	Title       string
	Description string
	TeamID      string
	ProjectID   *string
	AssigneeID  *string
	Priority    int
}

type IssueUpdate struct {
	AssigneeID *string
	ProjectID  *string
	Priority   int
}
