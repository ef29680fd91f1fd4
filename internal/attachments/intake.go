// Package attachments turns uploaded files into the text summaries sent
// along with a submission.
package attachments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"brainplan/internal/brainstorm"
	"brainplan/internal/shared/metrics"
	"brainplan/internal/shared/storage/object"
	"brainplan/internal/shared/telemetry"
	"brainplan/internal/shared/util"
)

// DefaultMaxUploadBytes caps the raw size read from one file.
const DefaultMaxUploadBytes = 10 << 20

const extractedSuffix = ".extracted.txt"

// Upload is one file handed to the intake.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FromPath builds an Upload reading a local file.
func FromPath(path string) Upload {
	return Upload{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// Intake archives uploads and produces one summary per file, in order.
type Intake struct {
	// Store archives originals and extracted text; nil skips archival.
	Store          object.Store
	Limits         brainstorm.Limits
	MaxUploadBytes int64
}

// Summarize returns a summary for every upload. Files that cannot be read or
// are of an unsupported type yield a marker summary instead of an error.
func (in *Intake) Summarize(ctx context.Context, namespace string, uploads []Upload) ([]string, error) {
	limits := in.Limits
	if limits.MaxAttachments <= 0 || limits.MaxAttachmentBytes <= 0 {
		limits = brainstorm.DefaultLimits()
	}
	if len(uploads) > limits.MaxAttachments {
		return nil, &brainstorm.ValidationError{
			Field:   "attachments",
			Message: fmt.Sprintf("At most %d attachments are allowed", limits.MaxAttachments),
		}
	}

	summaries := make([]string, 0, len(uploads))
	for _, up := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := displayName(up.Name)
		text, err := in.process(ctx, namespace, up)
		if err != nil {
			outcome := "failed"
			if errors.Is(err, ErrUnsupportedType) {
				outcome = "unsupported"
			}
			metrics.IncAttachment(outcome)
			telemetry.Warn("attachment.skipped", map[string]any{
				"file":    name,
				"outcome": outcome,
				"error":   err.Error(),
			})
			summaries = append(summaries, util.TruncateUTF8(Marker(name, err), limits.MaxAttachmentBytes))
			continue
		}
		metrics.IncAttachment("analyzed")
		summaries = append(summaries, Summary(name, text, limits.MaxAttachmentBytes))
	}
	return summaries, nil
}

// Summary formats analyzed text, truncated to max bytes.
func Summary(name, text string, max int) string {
	return util.TruncateUTF8(fmt.Sprintf("Content from %s:\n%s", name, strings.TrimSpace(text)), max)
}

// Marker formats the summary of a file that could not be analyzed.
func Marker(name string, cause error) string {
	return fmt.Sprintf("Content from %s could not be analyzed: %v", name, cause)
}

func (in *Intake) process(ctx context.Context, namespace string, up Upload) (string, error) {
	if !Allowed(up.Name) {
		return "", unsupported(up.Name)
	}
	if up.Open == nil {
		return "", errors.New("no content")
	}
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	max := in.MaxUploadBytes
	if max <= 0 {
		max = DefaultMaxUploadBytes
	}
	data, err := io.ReadAll(io.LimitReader(rc, max+1))
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > max {
		return "", fmt.Errorf("file exceeds %d bytes", max)
	}

	key := in.archive(ctx, namespace, up.Name, data)

	text, err := ExtractText(ctx, data, up.Name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text content found")
	}
	if key != "" {
		if _, err := in.Store.SaveWithKey(ctx, key+extractedSuffix, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
			telemetry.Warn("attachment.extracted_save_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
	return text, nil
}

// archive stores the original upload, returning its key or "" when archival
// is disabled or failed.
func (in *Intake) archive(ctx context.Context, namespace, name string, data []byte) string {
	if in.Store == nil {
		return ""
	}
	obj, err := in.Store.Save(ctx, namespace, name, bytes.NewReader(data))
	if err != nil {
		telemetry.Warn("attachment.archive_failed", map[string]any{"file": name, "error": err.Error()})
		return ""
	}
	return obj.Key
}

func displayName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "attachment"
	}
	return name
}
