package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/linear-intake/backend/internal/models"
)

// Generator is the structured-classification side of the model client.
type Generator interface {
	GenerateJSON(ctx context.Context, system string, userParts []string, schemaName string, schema map[string]any) ([]byte, error)
}

// Transcriber is the speech-to-text side of the model client.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

// ModelClient combines the two model capabilities the pipeline uses.
type ModelClient interface {
	Generator
	Transcriber
}

// Tracker is the issue-tracker capability consumed by the pipeline.
type Tracker interface {
	FetchContext(ctx context.Context) (models.ContextSnapshot, error)
	SearchIssues(ctx context.Context, term string) ([]models.IssueRef, error)
	CreateIssue(ctx context.Context, in models.IssueCreate) (models.IssueRef, error)
	AddComment(ctx context.Context, issueID, body string) error
	UpdateIssue(ctx context.Context, issueID string, upd models.IssueUpdate) error
}

// Uploader stores attachment bytes and returns stable URLs, preserving input
// order in its results.
type Uploader interface {
	UploadMany(ctx context.Context, files []models.Attachment) ([]models.UploadResult, error)
}

// Pipeline wires the triage stages together. One instance serves all
// requests; each Run is a single pass with no retained state.
type Pipeline struct {
	Model   ModelClient
	Tracker Tracker
	Store   Uploader
	Logger  zerolog.Logger
}

// Run executes one full triage pass: classify attachments, transcribe media,
// snapshot the tracker, synthesize a draft, route deterministically, resolve
// names, upload attachments, then merge or create. Transcription and
// classification failures degrade; everything else is fatal to the run.
func (p *Pipeline) Run(ctx context.Context, sub models.Submission) (models.DispatchOutcome, error) {
	buckets := ClassifyAttachments(sub.Attachments)
	transcript := ExtractTranscripts(ctx, p.Model, buckets.Media, p.Logger)

	snapshot, err := p.Tracker.FetchContext(ctx)
	if err != nil {
		return models.DispatchOutcome{}, err
	}

	draft := SynthesizeIssue(ctx, p.Model, sub, buckets, transcript, snapshot, p.Logger)
	rule := DetermineRouting(sub)
	routing := ResolveRouting(rule, draft, snapshot)

	uploads, err := p.Store.UploadMany(ctx, sub.Attachments)
	if err != nil {
		return models.DispatchOutcome{}, err
	}

	outcome, err := Dispatch(ctx, p.Tracker, sub, draft, routing, uploads)
	if err != nil {
		return models.DispatchOutcome{}, err
	}

	p.Logger.Info().
		Bool("duplicate", outcome.Duplicate).
		Str("issue", outcome.IssueID).
		Str("team", rule.TeamName).
		Int("attachments", len(sub.Attachments)).
		Msg("submission triaged")
	return outcome, nil
}
