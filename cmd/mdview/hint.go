package main

import (
	"context"
	"errors"
	"syscall"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/dataurl"
	"github.com/alnah/go-mdview/internal/hints"
	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/termrender"
)

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error) string {
	var (
		notFound *config.NotFoundError
		acq      *mdview.AcquisitionError
	)

	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, mdview.ErrStyleNotFound):
		return hints.ForStyleNotFound(mdview.StyleNames())
	case errors.Is(err, mdview.ErrUnknownHighlightStyle):
		return hints.ForStyleNotFound(pipeline.HighlightStyles())
	case errors.Is(err, termrender.ErrUnknownStyle):
		return hints.ForStyleNotFound(termrender.StyleNames())
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, syscall.EADDRINUSE):
		return hints.ForAddrInUse()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.As(err, &acq):
		switch {
		case acq.StatusCode != 0:
			return hints.ForFetchStatus(acq.StatusCode)
		case errors.Is(err, mdview.ErrNoContent):
			return hints.ForNoContent(dataurl.IsDataURL(acq.URL))
		case errors.Is(err, mdview.ErrFetch):
			return hints.ForFetchNetwork()
		}
	}
	return ""
}
