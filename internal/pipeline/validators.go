package pipeline

import (
	"context"
	"strings"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// ContentPresenceValidator rejects a result whose Content is empty (after
// trimming) and which also produced no pages, tables, or images — an
// extraction that found nothing is almost always a parser bug rather than
// a legitimately blank document, and spec.md §5 gives validators veto
// power over the pipeline precisely for cases like this.
type ContentPresenceValidator struct{}

// NewContentPresenceValidator returns the built-in validator registered by
// NewDriver.
func NewContentPresenceValidator() *ContentPresenceValidator {
	return &ContentPresenceValidator{}
}

func (v *ContentPresenceValidator) Name() string      { return "content-presence" }
func (v *ContentPresenceValidator) Version() string   { return "1.0.0" }
func (v *ContentPresenceValidator) Initialize() error { return nil }
func (v *ContentPresenceValidator) Shutdown() error   { return nil }

func (v *ContentPresenceValidator) Validate(ctx context.Context, result *model.ExtractionResult, cfg registry.ExtractConfig) error {
	if strings.TrimSpace(result.Content) != "" {
		return nil
	}
	if len(result.Pages) > 0 || len(result.Tables) > 0 || len(result.Images) > 0 {
		return nil
	}
	return kerrors.NewValidationError("", "extraction produced no content, pages, tables, or images")
}
