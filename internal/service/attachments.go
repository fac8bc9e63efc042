package service

import (
	"strings"

	"github.com/linear-intake/backend/internal/models"
)

// AttachmentBuckets is the media-kind partition of a submission's files.
// Image and Other carry filenames only; Media keeps the full attachments
// because they still need transcription.
type AttachmentBuckets struct {
	ImageNames []string
	Media      []models.Attachment
	OtherNames []string
}

// ClassifyAttachments partitions by declared content-type prefix. Unknown or
// empty content-types land in Other; nothing here touches the payload bytes.
func ClassifyAttachments(files []models.Attachment) AttachmentBuckets {
	var b AttachmentBuckets
	for _, f := range files {
		ct := strings.ToLower(strings.TrimSpace(f.ContentType))
		switch {
		case strings.HasPrefix(ct, "image/"):
			b.ImageNames = append(b.ImageNames, f.Filename)
		case strings.HasPrefix(ct, "audio/"), strings.HasPrefix(ct, "video/"):
			b.Media = append(b.Media, f)
		default:
			b.OtherNames = append(b.OtherNames, f.Filename)
		}
	}
	return b
}
