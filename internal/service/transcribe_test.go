package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/linear-intake/backend/internal/models"
)

type fakeTranscriber struct {
	byName map[string]string
	err    map[string]bool
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, filename, _ string) (string, error) {
	if f.err[filename] {
		return "", errors.New("quota exceeded")
	}
	return f.byName[filename], nil
}

func TestExtractTranscriptsOrderAndFormat(t *testing.T) {
	media := []models.Attachment{
		{Filename: "a.mp3", ContentType: "audio/mpeg"},
		{Filename: "b.mov", ContentType: "video/quicktime"},
	}
	tr := &fakeTranscriber{byName: map[string]string{"a.mp3": "first", "b.mov": "second"}}

	got := ExtractTranscripts(context.Background(), tr, media, zerolog.Nop())
	want := "\n[Transcript a.mp3]\nfirst\n[Transcript b.mov]\nsecond"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractTranscriptsFailureIsSkipped(t *testing.T) {
	media := []models.Attachment{
		{Filename: "bad.mp3", ContentType: "audio/mpeg"},
		{Filename: "good.mp3", ContentType: "audio/mpeg"},
	}
	tr := &fakeTranscriber{
		byName: map[string]string{"good.mp3": "hello"},
		err:    map[string]bool{"bad.mp3": true},
	}

	got := ExtractTranscripts(context.Background(), tr, media, zerolog.Nop())
	if strings.Contains(got, "bad.mp3") {
		t.Fatalf("failed transcription must be excluded, got %q", got)
	}
	if !strings.Contains(got, "[Transcript good.mp3]\nhello") {
		t.Fatalf("surviving transcription missing, got %q", got)
	}
}

func TestExtractTranscriptsHardCap(t *testing.T) {
	media := []models.Attachment{{Filename: "long.mp3", ContentType: "audio/mpeg"}}
	tr := &fakeTranscriber{byName: map[string]string{"long.mp3": strings.Repeat("x", 10000)}}

	got := ExtractTranscripts(context.Background(), tr, media, zerolog.Nop())
	if len(got) != maxTranscriptChars {
		t.Fatalf("expected hard cap at %d chars, got %d", maxTranscriptChars, len(got))
	}
}

func TestExtractTranscriptsCapKeepsRunesWhole(t *testing.T) {
	media := []models.Attachment{{Filename: "long.mp3", ContentType: "audio/mpeg"}}
	// Two-byte runes guarantee the byte cap lands mid-rune.
	tr := &fakeTranscriber{byName: map[string]string{"long.mp3": strings.Repeat("é", 3000)}}

	got := ExtractTranscripts(context.Background(), tr, media, zerolog.Nop())
	if len(got) > maxTranscriptChars {
		t.Fatalf("cap exceeded: %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
}

func TestExtractTranscriptsNoMedia(t *testing.T) {
	if got := ExtractTranscripts(context.Background(), &fakeTranscriber{}, nil, zerolog.Nop()); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}
