package fetch

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"
)

// waybackSnapshot matches archive.org capture URLs by their 14-digit
// timestamp segment. Snapshots are frozen HTML; running their scripts
// would rebuild a live page instead of the archived one.
var waybackSnapshot = regexp.MustCompile(`/web/\d{14}`)

// Router picks a fetch path per URL and escalates between them.
type Router struct {
	static   Fetcher
	renderer Renderer
	detector Detector
	logger   *zap.Logger
}

// NewRouter wires the fetch paths together. The renderer may be nil when
// rendering is disabled; every fetch then stays on the static path.
func NewRouter(static Fetcher, renderer Renderer, detector Detector, logger *zap.Logger) *Router {
	return &Router{
		static:   static,
		renderer: renderer,
		detector: detector,
		logger:   logger,
	}
}

// Fetch retrieves the page, statically when possible and rendered when the
// static body is not parseable.
func (r *Router) Fetch(ctx context.Context, rawURL string) (Page, error) {
	if r.renderer == nil || IsWaybackSnapshot(rawURL) {
		return r.static.Fetch(ctx, rawURL)
	}

	page, err := r.static.Fetch(ctx, rawURL)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) || ctx.Err() != nil {
			return Page{}, err
		}
		r.logger.Debug("Static fetch failed; rendering instead",
			zap.String("url", rawURL), zap.Error(err))
		return r.renderer.Render(ctx, rawURL)
	}

	if r.detector == nil || !r.detector.ShouldPromote(page) {
		return page, nil
	}

	rendered, renderErr := r.renderer.Render(ctx, rawURL)
	if renderErr != nil {
		r.logger.Warn("Render failed; keeping static body",
			zap.String("url", rawURL), zap.Error(renderErr))
		return page, nil
	}
	return rendered, nil
}

// IsWaybackSnapshot reports whether the URL addresses an archived capture.
func IsWaybackSnapshot(rawURL string) bool {
	return waybackSnapshot.MatchString(rawURL)
}
