package download

import (
	"context"

	"github.com/ytget/ytd/internal/model"
)

// Extractor defines the media extraction backend used by the service.
type Extractor interface {
	// Download fetches url according to params. onProgress may be nil.
	Download(ctx context.Context, url string, params Params, onProgress func(model.Progress)) error

	// Extract returns metadata for url without downloading media
	Extract(ctx context.Context, url string) (*model.VideoInfo, error)

	// Update upgrades the backend and returns its report
	Update(ctx context.Context) (string, error)
}

// ProgressSink receives progress reports for display.
type ProgressSink interface {
	Report(p model.Progress)
}

// ProgressSinkFunc adapts a function to ProgressSink
type ProgressSinkFunc func(model.Progress)

// Report calls f(p)
func (f ProgressSinkFunc) Report(p model.Progress) {
	f(p)
}
