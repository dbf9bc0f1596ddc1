package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/termrender"
)

// ---------------------------------------------------------------------------
// TestHintFor - Error hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint string // substring; empty means no hint
	}{
		{
			name:     "config not found",
			err:      fmt.Errorf("loading config: %w", &config.NotFoundError{Name: "work", Tried: []string{"work.yaml"}}),
			wantHint: "--config",
		},
		{
			name:     "page style not found",
			err:      fmt.Errorf("%w: %q", mdview.ErrStyleNotFound, "neon"),
			wantHint: "default",
		},
		{
			name:     "highlight style",
			err:      mdview.ErrUnknownHighlightStyle,
			wantHint: "abap",
		},
		{
			name:     "terminal style",
			err:      termrender.ErrUnknownStyle,
			wantHint: "dark",
		},
		{
			name:     "timeout",
			err:      &mdview.AcquisitionError{Err: fmt.Errorf("%w: %w", mdview.ErrFetch, context.DeadlineExceeded)},
			wantHint: "--timeout",
		},
		{
			name:     "address in use",
			err:      fmt.Errorf("listen: %w", syscall.EADDRINUSE),
			wantHint: "--addr",
		},
		{
			name:     "write output",
			err:      fmt.Errorf("%w: out/x.html", ErrWriteOutput),
			wantHint: "hint:",
		},
		{
			name:     "fetch status",
			err:      &mdview.AcquisitionError{StatusCode: 404, Status: "Not Found", Err: mdview.ErrFetch},
			wantHint: "moved",
		},
		{
			name:     "malformed data URL",
			err:      &mdview.AcquisitionError{URL: "data:;base64,@@@", Err: mdview.ErrNoContent},
			wantHint: "--verbose",
		},
		{
			name:     "empty document",
			err:      &mdview.AcquisitionError{URL: "https://example.com/empty.md", Err: mdview.ErrNoContent},
			wantHint: "empty",
		},
		{
			name:     "network",
			err:      &mdview.AcquisitionError{Err: fmt.Errorf("%w: dial tcp: refused", mdview.ErrFetch)},
			wantHint: "network",
		},
		{
			name: "unknown error",
			err:  errors.New("boom"),
		},
		{
			name: "unknown status",
			err:  &mdview.AcquisitionError{StatusCode: 302, Status: "Found", Err: mdview.ErrFetch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.wantHint == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want no hint", got)
				}
				return
			}
			if !strings.Contains(got, tt.wantHint) {
				t.Errorf("hintFor() = %q, want substring %q", got, tt.wantHint)
			}
		})
	}
}
