// Package pipeline implements the scrape execution loop. One run walks
// an ordered URL list and takes each page through fetch, parse, store,
// ledger, and notification.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/extract"
	"github.com/jbalsam/patchvault/internal/fetch"
	"github.com/jbalsam/patchvault/internal/history"
	"github.com/jbalsam/patchvault/internal/htmldoc"
	"github.com/jbalsam/patchvault/internal/metrics"
	"github.com/jbalsam/patchvault/internal/notify"
	"github.com/jbalsam/patchvault/internal/record"
	"github.com/jbalsam/patchvault/internal/store"
)

// Hasher digests page bodies for the scrape ledger.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// IDGenerator produces run identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// URLOutcome is the terminal state of one input URL.
type URLOutcome struct {
	URL      string `json:"url"`
	Version  string `json:"version,omitempty"`
	Status   string `json:"status"`
	Outcome  string `json:"outcome,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Summary aggregates one run. Total always equals the number of input
// URLs; canceled leftovers are counted as skipped.
type Summary struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Skipped    int          `json:"skipped"`
	Failed     int          `json:"failed"`
	Outcomes   []URLOutcome `json:"outcomes"`
}

func (s *Summary) add(out URLOutcome) {
	s.Total++
	switch out.Status {
	case history.StatusSucceeded:
		s.Succeeded++
	case history.StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, out)
}

// Pipeline executes scrape runs.
type Pipeline struct {
	fetcher   fetch.Fetcher
	extractor *extract.Extractor
	chain     *extract.Chain
	store     store.Store
	recorder  history.Recorder
	publisher notify.Publisher
	hasher    Hasher
	clock     extract.Clock
	ids       IDGenerator
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Pipeline. The recorder and publisher may be nil;
// those stages are then skipped.
func New(
	fetcher fetch.Fetcher,
	extractor *extract.Extractor,
	chain *extract.Chain,
	st store.Store,
	recorder history.Recorder,
	publisher notify.Publisher,
	hasher Hasher,
	clock extract.Clock,
	ids IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		chain:     chain,
		store:     st,
		recorder:  recorder,
		publisher: publisher,
		hasher:    hasher,
		clock:     clock,
		ids:       ids,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run scrapes every URL in order and returns the aggregated summary.
// A canceled context stops fetching; the remaining URLs are reported
// as skipped so the summary still covers the whole input.
func (p *Pipeline) Run(ctx context.Context, urls []string) Summary {
	runID := p.newRunID()
	summary := Summary{RunID: runID, StartedAt: p.clock.Now()}
	seen := make(map[string]struct{}, len(urls))

	p.logger.Info("run started", zap.String("run_id", runID), zap.Int("urls", len(urls)))

	for _, raw := range urls {
		if ctx.Err() != nil {
			summary.add(URLOutcome{URL: raw, Status: history.StatusSkipped, Error: ctx.Err().Error()})
			continue
		}
		summary.add(p.handleURL(ctx, runID, raw, seen))
	}

	summary.FinishedAt = p.clock.Now()
	p.logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary
}

func (p *Pipeline) handleURL(ctx context.Context, runID, raw string, seen map[string]struct{}) URLOutcome {
	started := p.clock.Now()

	norm, err := fetch.NormalizeURL(raw)
	if err != nil {
		p.logger.Error("url rejected", zap.String("url", raw), zap.Error(err))
		return p.finish(ctx, runID, started, URLOutcome{
			URL:    raw,
			Status: history.StatusFailed,
			Error:  err.Error(),
		}, "")
	}

	if _, dup := seen[norm]; dup {
		p.logger.Debug("duplicate url skipped", zap.String("url", norm))
		return p.finish(ctx, runID, started, URLOutcome{
			URL:    norm,
			Status: history.StatusSkipped,
			Error:  "duplicate url in run",
		}, "")
	}
	seen[norm] = struct{}{}

	page, err := p.fetcher.Fetch(ctx, norm)
	if err != nil {
		p.logger.Error("fetch failed", zap.String("url", norm), zap.Error(err))
		return p.finish(ctx, runID, started, URLOutcome{
			URL:    norm,
			Status: history.StatusFailed,
			Error:  err.Error(),
		}, "")
	}
	metrics.ObserveFetch(norm, fetchMode(page), p.clock.Now().Sub(started))
	p.logger.Debug("page fetched",
		zap.String("url", norm),
		zap.String("final_url", page.FinalURL),
		zap.Int("status", page.StatusCode),
		zap.Int("bytes", len(page.Body)),
		zap.Bool("rendered", page.Rendered),
	)

	bodyHash := p.hashBody(page.Body)

	doc, err := htmldoc.Parse(page.Body)
	if err != nil {
		p.logger.Error("parse failed", zap.String("url", norm), zap.Error(err))
		return p.finish(ctx, runID, started, URLOutcome{
			URL:    norm,
			Status: history.StatusFailed,
			Error:  err.Error(),
		}, bodyHash)
	}

	meta := p.extractor.Extract(doc, norm)

	secs, strategy, err := p.chain.Parse(doc)
	if err != nil {
		p.logger.Error("extract failed",
			zap.String("url", norm),
			zap.String("version", meta.Version.String()),
			zap.Error(err),
		)
		return p.finish(ctx, runID, started, URLOutcome{
			URL:     norm,
			Version: meta.Version.String(),
			Status:  history.StatusFailed,
			Error:   err.Error(),
		}, bodyHash)
	}
	metrics.ObserveStrategy(strategy)

	rec, err := extract.Normalize(meta, secs, norm)
	if err != nil {
		return p.finish(ctx, runID, started, URLOutcome{
			URL:      norm,
			Version:  meta.Version.String(),
			Status:   history.StatusFailed,
			Strategy: strategy,
			Error:    err.Error(),
		}, bodyHash)
	}

	putOutcome, err := p.store.Put(ctx, rec, p.cfg.Overwrite)
	if err != nil {
		p.logger.Error("store put failed",
			zap.String("url", norm),
			zap.String("version", rec.Version.String()),
			zap.Error(err),
		)
		return p.finish(ctx, runID, started, URLOutcome{
			URL:      norm,
			Version:  rec.Version.String(),
			Status:   history.StatusFailed,
			Strategy: strategy,
			Error:    err.Error(),
		}, bodyHash)
	}
	metrics.ObserveRecord(putOutcome.String())

	status := history.StatusSucceeded
	if putOutcome == store.OutcomeSkipped {
		status = history.StatusSkipped
	} else {
		p.publishEvent(ctx, runID, rec, putOutcome)
	}

	p.logger.Info("page archived",
		zap.String("url", norm),
		zap.String("version", rec.Version.String()),
		zap.String("outcome", putOutcome.String()),
		zap.String("strategy", strategy),
		zap.Int("sections", rec.Sections.Len()),
	)

	return p.finish(ctx, runID, started, URLOutcome{
		URL:      norm,
		Version:  rec.Version.String(),
		Status:   status,
		Outcome:  putOutcome.String(),
		Strategy: strategy,
	}, bodyHash)
}

// finish records the ledger row and page metric shared by every exit
// path, then hands the outcome back unchanged.
func (p *Pipeline) finish(ctx context.Context, runID string, started time.Time, out URLOutcome, bodyHash string) URLOutcome {
	metrics.ObservePage(out.URL, out.Status)

	if p.recorder == nil {
		return out
	}
	now := p.clock.Now()
	entry := history.Entry{
		RunID:     runID,
		URL:       out.URL,
		Version:   out.Version,
		Status:    out.Status,
		Strategy:  out.Strategy,
		BodyHash:  bodyHash,
		Duration:  now.Sub(started),
		ErrorText: out.Error,
		ScrapedAt: now,
	}
	if err := p.recorder.Record(ctx, entry); err != nil {
		p.logger.Warn("history record failed", zap.String("url", out.URL), zap.Error(err))
	}
	return out
}

func (p *Pipeline) publishEvent(ctx context.Context, runID string, rec record.PatchRecord, outcome store.PutOutcome) {
	if p.cfg.Topic == "" || p.publisher == nil {
		return
	}
	event := notify.Event{
		RunID:    runID,
		Version:  rec.Version.String(),
		URL:      rec.SourceURL,
		Sections: rec.Sections.Len(),
		Outcome:  outcome.String(),
	}
	if _, err := p.publisher.Publish(ctx, p.cfg.Topic, event); err != nil {
		p.logger.Warn("publish failed", zap.String("url", rec.SourceURL), zap.Error(err))
		return
	}
	p.logger.Debug("event published",
		zap.String("version", event.Version),
		zap.String("topic", p.cfg.Topic),
	)
}

func (p *Pipeline) newRunID() string {
	id, err := p.ids.NewID()
	if err != nil {
		p.logger.Warn("run id generation failed", zap.Error(err))
		return fmt.Sprintf("run-%d", p.clock.Now().Unix())
	}
	return id
}

func (p *Pipeline) hashBody(body []byte) string {
	if p.hasher == nil {
		return ""
	}
	hash, err := p.hasher.Hash(body)
	if err != nil {
		p.logger.Warn("hash body failed", zap.Error(err))
		return ""
	}
	return hash
}

func fetchMode(page fetch.Page) string {
	if page.Rendered {
		return "rendered"
	}
	return "static"
}
