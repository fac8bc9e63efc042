package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/linear-intake/backend/internal/directory"
	"github.com/linear-intake/backend/internal/models"
)

const synthesizerInstruction = `You are an assistant that converts mixed bug/request submissions (text, images, videos) into high-quality Linear issues.
Given: submission details, available Linear teams/projects/users, infer the best team, project, assignee, and priority.
Output a strict JSON object with fields: title (you must create it), description, teamName, projectName, assigneeEmail, priority (1-4), category (one of bug|feature|question|task), severity (one of critical|high|medium|low).`

// issueSchema is the strict output contract for the classifier. Every field is
// required at the schema level; absence is handled by the degrade path instead.
var issueSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"title":         map[string]any{"type": "string"},
		"description":   map[string]any{"type": "string"},
		"teamName":      map[string]any{"type": "string"},
		"projectName":   map[string]any{"type": "string"},
		"assigneeEmail": map[string]any{"type": "string"},
		"priority":      map[string]any{"type": "number"},
		"category":      map[string]any{"type": "string"},
		"severity":      map[string]any{"type": "string"},
	},
	"required": []string{
		"title", "description", "teamName", "projectName",
		"assigneeEmail", "priority", "category", "severity",
	},
}

// SynthesizeIssue asks the model for a structured issue draft. Any model or
// parse failure degrades to a draft built from the raw submission, so this
// never returns an error.
func SynthesizeIssue(ctx context.Context, model Generator, sub models.Submission, buckets AttachmentBuckets, transcript string, snapshot models.ContextSnapshot, log zerolog.Logger) models.IssueDraft {
	parts := buildPromptParts(sub, buckets, transcript, snapshot)

	raw, err := model.GenerateJSON(ctx, synthesizerInstruction, parts, "Issue", issueSchema)
	if err != nil {
		log.Warn().Err(err).Msg("issue synthesis degraded to raw submission")
		return fallbackDraft(sub)
	}

	var parsed struct {
		Title         string  `json:"title"`
		Description   string  `json:"description"`
		TeamName      string  `json:"teamName"`
		ProjectName   string  `json:"projectName"`
		AssigneeEmail string  `json:"assigneeEmail"`
		Priority      float64 `json:"priority"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Warn().Err(err).Msg("classifier output unparseable, degrading")
		return fallbackDraft(sub)
	}

	draft := models.IssueDraft{
		Title:         parsed.Title,
		Description:   parsed.Description,
		TeamName:      parsed.TeamName,
		ProjectName:   parsed.ProjectName,
		AssigneeEmail: parsed.AssigneeEmail,
		Priority:      clampPriority(parsed.Priority),
	}
	if draft.Title == "" {
		draft.Title = fallbackTitle(sub)
	}
	if draft.Description == "" {
		draft.Description = sub.Details
	}
	return draft
}

func buildPromptParts(sub models.Submission, buckets AttachmentBuckets, transcript string, snapshot models.ContextSnapshot) []string {
	var parts []string
	if sub.Title != "" {
		parts = append(parts, "Title: "+sub.Title)
	}
	if sub.Details != "" {
		parts = append(parts, "Details: "+sub.Details)
	}
	parts = append(parts,
		"Category: "+sub.Category,
		"Severity: "+sub.Severity,
	)
	if sub.ReporterName != "" {
		parts = append(parts, "Reporter: "+sub.ReporterName)
	}
	if len(buckets.ImageNames) > 0 {
		parts = append(parts, "Image uploads: "+strings.Join(buckets.ImageNames, ", "))
	}
	nonImages := append(attachmentNames(buckets.Media), buckets.OtherNames...)
	if len(nonImages) > 0 {
		parts = append(parts, "Non-image uploads: "+strings.Join(nonImages, ", "))
	}
	if strings.TrimSpace(transcript) != "" {
		parts = append(parts, "Transcript(s): "+transcript)
	}

	parts = append(parts,
		"Linear teams: "+mustJSON(snapshot.Teams),
		"Linear projects: "+mustJSON(snapshot.Projects),
		"Linear users: "+mustJSON(snapshot.Users),
	)
	if len(snapshot.RecentIssues) > 0 {
		parts = append(parts, "Recent issues: "+mustJSON(snapshot.RecentIssues))
	}
	parts = append(parts, "Org directory: "+mustJSON(directory.Employees))
	return parts
}

func fallbackDraft(sub models.Submission) models.IssueDraft {
	return models.IssueDraft{
		Title:       fallbackTitle(sub),
		Description: sub.Details,
	}
}

// clampPriority keeps only the tracker's 1..4 range; anything else counts as
// unset so it never reaches issueCreate.
func clampPriority(p float64) int {
	n := int(p)
	if n < 1 || n > 4 {
		return 0
	}
	return n
}

func fallbackTitle(sub models.Submission) string {
	if strings.TrimSpace(sub.Title) != "" {
		return sub.Title
	}
	return "New Issue"
}

func attachmentNames(files []models.Attachment) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	return names
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
