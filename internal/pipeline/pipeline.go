// Package pipeline runs one scrape: fetch every keyword, deduplicate the
// results, store them, and report what happened per keyword.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
	"github.com/lexwatch/judgment-scraper/internal/logger"
	"github.com/lexwatch/judgment-scraper/internal/worker"
)

// Metric names recorded by Run.
const (
	MetricFetchSuccess = "fetch.success"
	MetricFetchFailure = "fetch.failure"
	MetricFetchTiming  = "fetch.keyword"
	MetricStored       = "store.inserted"
	MetricKeywords     = "run.keywords"
	MetricUnique       = "run.unique_records"
)

// ErrNoKeywords is returned by Run when the keyword list is empty.
var ErrNoKeywords = errors.New("no keywords given")

// Batcher fetches a list of keywords.
type Batcher interface {
	Run(ctx context.Context, keywords []string) []*worker.KeywordResult
}

// Store receives the deduplicated records of a run.
type Store interface {
	Upsert(ctx context.Context, records []*judgment.Record) (int, error)
}

// KeywordOutcome summarizes one keyword of a run.
type KeywordOutcome struct {
	Keyword  string        `json:"keyword"`
	Records  int           `json:"records"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Succeeded reports whether the keyword was fetched.
func (o KeywordOutcome) Succeeded() bool {
	return o.Error == ""
}

// Report describes a finished run. Fetched holds every successful keyword's
// records in keyword order; Records is Fetched deduplicated, as stored.
type Report struct {
	RunID      string                 `json:"run_id"`
	Keywords   []KeywordOutcome       `json:"keywords"`
	Fetched    []*judgment.Record     `json:"-"`
	Records    []*judgment.Record     `json:"records"`
	Inserted   int                    `json:"inserted"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Metrics    map[string]interface{} `json:"metrics,omitempty"`
}

// Failed reports whether at least one keyword failed.
func (r *Report) Failed() bool {
	return r.FailedCount() > 0
}

// FailedCount returns the number of failed keywords.
func (r *Report) FailedCount() int {
	n := 0
	for _, k := range r.Keywords {
		if !k.Succeeded() {
			n++
		}
	}
	return n
}

// Runner wires a batch fetcher to a store.
type Runner struct {
	batch   Batcher
	store   Store
	metrics *logger.Metrics
	now     func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithMetrics records run metrics on m instead of the default tracker.
func WithMetrics(m *logger.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithClock replaces the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a Runner. store may be nil to skip persistence.
func NewRunner(batch Batcher, store Store, opts ...Option) *Runner {
	r := &Runner{batch: batch, store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run fetches keywords, deduplicates the successful results and upserts them.
// Keyword failures are reported in the Report; only a storage failure makes
// Run return an error, together with the partial report.
func (r *Runner) Run(ctx context.Context, keywords []string) (*Report, error) {
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Keywords:  make([]KeywordOutcome, 0, len(keywords)),
		StartedAt: r.now(),
	}

	logger.Info("Starting scrape", logger.Fields{
		"run_id":   report.RunID,
		"keywords": len(keywords),
	})

	r.gauge(MetricKeywords, float64(len(keywords)))

	for _, res := range r.batch.Run(ctx, keywords) {
		outcome := KeywordOutcome{Keyword: res.Keyword, Duration: res.Duration}
		r.recordTiming(res.Duration)

		if res.Err != nil {
			outcome.Error = res.Err.Error()
			r.incr(MetricFetchFailure, 1)
			logger.Error("Keyword fetch failed", logger.Fields{
				"run_id":  report.RunID,
				"keyword": res.Keyword,
			}, res.Err)
		} else {
			outcome.Records = len(res.Records)
			report.Fetched = append(report.Fetched, res.Records...)
			r.incr(MetricFetchSuccess, 1)
			logger.Info("Keyword fetched", logger.Fields{
				"run_id":      report.RunID,
				"keyword":     res.Keyword,
				"records":     len(res.Records),
				"duration_ms": res.Duration.Milliseconds(),
			})
		}

		report.Keywords = append(report.Keywords, outcome)
	}

	report.Records = judgment.Dedupe(report.Fetched)
	r.gauge(MetricUnique, float64(len(report.Records)))

	if r.store != nil && len(report.Records) > 0 {
		inserted, err := r.store.Upsert(ctx, report.Records)
		if err != nil {
			report.FinishedAt = r.now()
			report.Metrics = r.snapshot()
			logger.Error("Storing records failed", logger.Fields{"run_id": report.RunID}, err)
			return report, err
		}
		report.Inserted = inserted
		r.incr(MetricStored, int64(inserted))
	}

	report.FinishedAt = r.now()
	report.Metrics = r.snapshot()

	logger.Info("Scrape finished", logger.Fields{
		"run_id":   report.RunID,
		"fetched":  len(report.Fetched),
		"records":  len(report.Records),
		"inserted": report.Inserted,
		"failed":   report.FailedCount(),
		"metrics":  report.Metrics,
	})

	return report, nil
}

func (r *Runner) incr(name string, delta int64) {
	if r.metrics != nil {
		r.metrics.AddCounter(name, delta)
		return
	}
	logger.AddCounter(name, delta)
}

func (r *Runner) recordTiming(d time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordTiming(MetricFetchTiming, d)
		return
	}
	logger.RecordTiming(MetricFetchTiming, d)
}

func (r *Runner) gauge(name string, value float64) {
	if r.metrics != nil {
		r.metrics.SetGauge(name, value)
		return
	}
	logger.SetGauge(name, value)
}

func (r *Runner) snapshot() map[string]interface{} {
	if r.metrics != nil {
		return r.metrics.GetSnapshot()
	}
	return logger.GetMetricsSnapshot()
}
