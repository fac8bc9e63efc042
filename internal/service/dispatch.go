package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/linear-intake/backend/internal/models"
)

// FindDuplicate searches the tracker for an existing issue whose title
// matches the drafted title exactly, ignoring case. The first such candidate
// in tracker search order is used; there is no fuzzy matching.
func FindDuplicate(ctx context.Context, tracker Tracker, title string) (models.IssueRef, bool, error) {
	candidates, err := tracker.SearchIssues(ctx, title)
	if err != nil {
		return models.IssueRef{}, false, err
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Title, title) {
			return c, true, nil
		}
	}
	return models.IssueRef{}, false, nil
}

// Dispatch merges into a duplicate issue or creates a new one. Uploads must
// be order-aligned with the submission's attachments so the rendered link
// list line order matches submission order.
func Dispatch(ctx context.Context, tracker Tracker, sub models.Submission, draft models.IssueDraft, routing models.ResolvedRouting, uploads []models.UploadResult) (models.DispatchOutcome, error) {
	links := renderAttachmentLinks(sub.Attachments, uploads)

	dup, found, err := FindDuplicate(ctx, tracker, draft.Title)
	if err != nil {
		return models.DispatchOutcome{}, err
	}

	if found {
		body := fmt.Sprintf("New submission merged into this issue.\n\nReporter: %s\n\nDetails:\n%s",
			orDefault(sub.ReporterName, "anonymous"), orDefault(sub.Details, "(none)")) + links
		if err := tracker.AddComment(ctx, dup.ID, body); err != nil {
			return models.DispatchOutcome{}, err
		}
		if routing.AssigneeID != nil {
			upd := models.IssueUpdate{
				AssigneeID: routing.AssigneeID,
				ProjectID:  routing.ProjectID,
				Priority:   draft.Priority,
			}
			if err := tracker.UpdateIssue(ctx, dup.ID, upd); err != nil {
				return models.DispatchOutcome{}, err
			}
		}
		return models.DispatchOutcome{Duplicate: true, IssueID: dup.Identifier, IssueURL: dup.URL}, nil
	}

	description := draft.Description + "\n\nSubmitted by: " + orDefault(sub.ReporterName, "anonymous") + links
	issue, err := tracker.CreateIssue(ctx, models.IssueCreate{
		Title:       draft.Title,
		Description: description,
		TeamID:      routing.TeamID,
		ProjectID:   routing.ProjectID,
		AssigneeID:  routing.AssigneeID,
		Priority:    draft.Priority,
	})
	if err != nil {
		return models.DispatchOutcome{}, err
	}
	return models.DispatchOutcome{Duplicate: false, IssueID: issue.Identifier, IssueURL: issue.URL}, nil
}

// renderAttachmentLinks produces the markdown list appended to both merge
// comments and new issue descriptions. Empty when there are no uploads.
func renderAttachmentLinks(files []models.Attachment, uploads []models.UploadResult) string {
	if len(uploads) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nAttachments:")
	for i, up := range uploads {
		name := up.Key
		if i < len(files) {
			name = files[i].Filename
		}
		b.WriteString(fmt.Sprintf("\n- [%s](%s)", name, up.URL))
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
