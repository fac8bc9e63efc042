package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/linear-intake/backend/internal/models"
)

type fakeModel struct {
	generateOutput string
	generateErr    error
	transcripts    map[string]string
}

func (f *fakeModel) GenerateJSON(_ context.Context, _ string, _ []string, _ string, _ map[string]any) ([]byte, error) {
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return []byte(f.generateOutput), nil
}

func (f *fakeModel) Transcribe(_ context.Context, _ []byte, filename, _ string) (string, error) {
	if t, ok := f.transcripts[filename]; ok {
		return t, nil
	}
	return "", errors.New("no transcript")
}

type createdIssue struct {
	input models.IssueCreate
	ref   models.IssueRef
}

type fakeTracker struct {
	snapshot    models.ContextSnapshot
	snapshotErr error
	existing    []models.IssueRef

	created  []createdIssue
	comments map[string][]string
	updates  map[string][]models.IssueUpdate
}

func newFakeTracker(snapshot models.ContextSnapshot) *fakeTracker {
	return &fakeTracker{
		snapshot: snapshot,
		comments: map[string][]string{},
		updates:  map[string][]models.IssueUpdate{},
	}
}

func (f *fakeTracker) FetchContext(context.Context) (models.ContextSnapshot, error) {
	if f.snapshotErr != nil {
		return models.ContextSnapshot{}, f.snapshotErr
	}
	return f.snapshot, nil
}

func (f *fakeTracker) SearchIssues(_ context.Context, term string) ([]models.IssueRef, error) {
	var out []models.IssueRef
	for _, iss := range f.existing {
		if strings.Contains(strings.ToLower(iss.Title), strings.ToLower(term)) {
			out = append(out, iss)
		}
	}
	return out, nil
}

func (f *fakeTracker) CreateIssue(_ context.Context, in models.IssueCreate) (models.IssueRef, error) {
	ref := models.IssueRef{
		ID:         fmt.Sprintf("id-%d", len(f.created)+1),
		Identifier: fmt.Sprintf("CX-%d", len(f.created)+1),
		Title:      in.Title,
		URL:        fmt.Sprintf("https://linear.app/issue/CX-%d", len(f.created)+1),
	}
	f.created = append(f.created, createdIssue{input: in, ref: ref})
	f.existing = append(f.existing, ref)
	return ref, nil
}

func (f *fakeTracker) AddComment(_ context.Context, issueID, body string) error {
	f.comments[issueID] = append(f.comments[issueID], body)
	return nil
}

func (f *fakeTracker) UpdateIssue(_ context.Context, issueID string, upd models.IssueUpdate) error {
	f.updates[issueID] = append(f.updates[issueID], upd)
	return nil
}

type fakeStore struct {
	err error
}

func (f *fakeStore) UploadMany(_ context.Context, files []models.Attachment) ([]models.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.UploadResult, len(files))
	for i, file := range files {
		out[i] = models.UploadResult{
			URL: "https://bucket.s3.us-west-2.amazonaws.com/uploads/" + file.Filename,
			Key: "uploads/" + file.Filename,
		}
	}
	return out, nil
}

func newPipeline(model *fakeModel, tracker *fakeTracker, store *fakeStore) *Pipeline {
	return &Pipeline{Model: model, Tracker: tracker, Store: store, Logger: zerolog.Nop()}
}

func TestRunCreatesIssueEndToEnd(t *testing.T) {
	model := &fakeModel{generateOutput: `{"title":"Cancellation request","description":"Customer wants out.","teamName":"Marketing","priority":3}`}
	tracker := newFakeTracker(testSnapshot)
	p := newPipeline(model, tracker, &fakeStore{})

	sub := models.Submission{
		ReporterName: "Pat",
		Details:      "Customer wants to cancel, please process churn",
	}
	out, err := p.Run(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Duplicate {
		t.Fatalf("expected a fresh issue, got %+v", out)
	}
	if len(tracker.created) != 1 {
		t.Fatalf("expected one created issue, got %d", len(tracker.created))
	}

	in := tracker.created[0].input
	// The cancel rule routes to CX regardless of the synthesizer's Marketing
	// suggestion, and Hamza resolves by name prefix.
	if in.TeamID != "team-cx" {
		t.Fatalf("router team must win, got %q", in.TeamID)
	}
	if in.AssigneeID == nil || *in.AssigneeID != "u-hamza" {
		t.Fatalf("expected Hamza assigned, got %v", in.AssigneeID)
	}
	if in.Priority != 3 {
		t.Fatalf("expected synthesizer priority, got %d", in.Priority)
	}
	if !strings.Contains(in.Description, "Submitted by: Pat") {
		t.Fatalf("description missing reporter line: %q", in.Description)
	}
}

func TestRunDedupMergesInsteadOfCreating(t *testing.T) {
	model := &fakeModel{generateOutput: `{"title":"Login broken","description":"Cannot log in."}`}
	tracker := newFakeTracker(testSnapshot)
	p := newPipeline(model, tracker, &fakeStore{})

	sub := models.Submission{ReporterName: "Pat", Details: "X"}
	first, err := p.Run(context.Background(), sub)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first run must create, got %+v", first)
	}

	second, err := p.Run(context.Background(), sub)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("second run must merge, got %+v", second)
	}
	if second.IssueID != first.IssueID {
		t.Fatalf("merge must target the original issue, got %q vs %q", second.IssueID, first.IssueID)
	}
	if len(tracker.created) != 1 {
		t.Fatalf("no new issue on merge, got %d created", len(tracker.created))
	}

	comments := tracker.comments[tracker.created[0].ref.ID]
	if len(comments) != 1 {
		t.Fatalf("expected one merge comment, got %d", len(comments))
	}
	if !strings.Contains(comments[0], "New submission merged into this issue.") ||
		!strings.Contains(comments[0], "Reporter: Pat") ||
		!strings.Contains(comments[0], "Details:\nX") {
		t.Fatalf("merge comment malformed: %q", comments[0])
	}
}

func TestRunDedupIsCaseInsensitiveOnTitle(t *testing.T) {
	model := &fakeModel{generateOutput: `{"title":"LOGIN BROKEN","description":"d"}`}
	tracker := newFakeTracker(testSnapshot)
	tracker.existing = []models.IssueRef{
		{ID: "id-old", Identifier: "CX-9", Title: "login broken", URL: "https://linear.app/issue/CX-9"},
	}
	p := newPipeline(model, tracker, &fakeStore{})

	out, err := p.Run(context.Background(), models.Submission{Details: "X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Duplicate || out.IssueID != "CX-9" {
		t.Fatalf("expected case-insensitive dedup hit, got %+v", out)
	}
}

func TestRunMergeUpdatesOnlyWhenAssigneeResolved(t *testing.T) {
	tracker := newFakeTracker(testSnapshot)
	tracker.existing = []models.IssueRef{
		{ID: "id-old", Identifier: "CX-9", Title: "Stale issue"},
	}

	// Default routing resolves no assignee: Nebuchadnezzar is not in the
	// snapshot's user list, so no update call is made.
	model := &fakeModel{generateOutput: `{"title":"Stale issue","description":"d","priority":2}`}
	p := newPipeline(model, tracker, &fakeStore{})
	if _, err := p.Run(context.Background(), models.Submission{Details: "nothing matches"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracker.updates["id-old"]) != 0 {
		t.Fatalf("no update expected without a resolved assignee, got %+v", tracker.updates["id-old"])
	}

	// A resolving rule match triggers the reassign.
	if _, err := p.Run(context.Background(), models.Submission{Details: "customer cancel"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upds := tracker.updates["id-old"]
	if len(upds) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(upds))
	}
	if upds[0].AssigneeID == nil || *upds[0].AssigneeID != "u-hamza" {
		t.Fatalf("expected Hamza reassignment, got %+v", upds[0])
	}
	if upds[0].Priority != 2 {
		t.Fatalf("expected synthesizer priority carried into update, got %d", upds[0].Priority)
	}
}

func TestRunAttachmentLinksInOrder(t *testing.T) {
	model := &fakeModel{generateOutput: `{"title":"With files","description":"d"}`}
	tracker := newFakeTracker(testSnapshot)
	p := newPipeline(model, tracker, &fakeStore{})

	sub := models.Submission{
		Details: "nothing matches",
		Attachments: []models.Attachment{
			{Filename: "one.png", ContentType: "image/png", Data: []byte("a")},
			{Filename: "two.log", ContentType: "text/plain", Data: []byte("b")},
			{Filename: "three.csv", ContentType: "text/csv", Data: []byte("c")},
		},
	}
	if _, err := p.Run(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	desc := tracker.created[0].input.Description
	if n := strings.Count(desc, "](https://"); n != 3 {
		t.Fatalf("expected 3 markdown links, got %d in %q", n, desc)
	}
	iOne := strings.Index(desc, "[one.png]")
	iTwo := strings.Index(desc, "[two.log]")
	iThree := strings.Index(desc, "[three.csv]")
	if iOne < 0 || iTwo < iOne || iThree < iTwo {
		t.Fatalf("links out of submission order: %q", desc)
	}
}

func TestRunContextFailureIsFatal(t *testing.T) {
	tracker := newFakeTracker(testSnapshot)
	tracker.snapshotErr = errors.New("tracker context unavailable")
	p := newPipeline(&fakeModel{generateOutput: `{}`}, tracker, &fakeStore{})

	if _, err := p.Run(context.Background(), models.Submission{Details: "X"}); err == nil {
		t.Fatal("expected fatal error when context snapshot fails")
	}
}

func TestRunUploadFailureIsFatal(t *testing.T) {
	model := &fakeModel{generateOutput: `{"title":"t","description":"d"}`}
	tracker := newFakeTracker(testSnapshot)
	p := newPipeline(model, tracker, &fakeStore{err: errors.New("s3 down")})

	sub := models.Submission{
		Details:     "X",
		Attachments: []models.Attachment{{Filename: "a.png", ContentType: "image/png", Data: []byte("a")}},
	}
	if _, err := p.Run(context.Background(), sub); err == nil {
		t.Fatal("expected fatal error when an upload fails")
	}
	if len(tracker.created) != 0 {
		t.Fatalf("no issue may be created after a failed upload, got %d", len(tracker.created))
	}
}

func TestRunClassifierFailureStillDispatches(t *testing.T) {
	model := &fakeModel{generateErr: errors.New("model down")}
	tracker := newFakeTracker(testSnapshot)
	p := newPipeline(model, tracker, &fakeStore{})

	out, err := p.Run(context.Background(), models.Submission{Details: "customer cancel"})
	if err != nil {
		t.Fatalf("classifier failure must not be fatal: %v", err)
	}
	if out.Duplicate {
		t.Fatalf("expected creation, got %+v", out)
	}
	if tracker.created[0].input.Title != "New Issue" {
		t.Fatalf("expected placeholder title, got %q", tracker.created[0].input.Title)
	}
}
