package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/linear-intake/backend/internal/models"
)

// maxTranscriptChars bounds the combined transcript handed to the model so a
// long recording cannot blow up the context window.
const maxTranscriptChars = 4000

// ExtractTranscripts transcribes every audio/video attachment concurrently
// and concatenates the results in submission order. A failed transcription is
// logged and skipped; it never fails the run.
func ExtractTranscripts(ctx context.Context, model Transcriber, media []models.Attachment, log zerolog.Logger) string {
	if len(media) == 0 {
		return ""
	}

	parts := make([]string, len(media))
	var wg sync.WaitGroup
	for i, att := range media {
		wg.Add(1)
		go func(i int, att models.Attachment) {
			defer wg.Done()
			text, err := model.Transcribe(ctx, att.Data, att.Filename, att.ContentType)
			if err != nil {
				log.Warn().Err(err).Str("filename", att.Filename).Msg("transcription skipped")
				return
			}
			if strings.TrimSpace(text) == "" {
				return
			}
			parts[i] = fmt.Sprintf("\n[Transcript %s]\n%s", att.Filename, text)
		}(i, att)
	}
	wg.Wait()

	var out strings.Builder
	for _, p := range parts {
		out.WriteString(p)
	}
	s := out.String()
	if len(s) > maxTranscriptChars {
		// Back up so the cut never splits a multi-byte rune.
		n := maxTranscriptChars
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	return s
}
