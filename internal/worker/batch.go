package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
	"github.com/lexwatch/judgment-scraper/internal/scraper"
)

// KeywordJob fetches one keyword.
type KeywordJob struct {
	Index    int
	Keyword  string
	MaxLinks int

	fetcher scraper.Fetcher
	limiter *Limiter
	host    string
	timeout time.Duration
}

// KeywordResult is the outcome of one KeywordJob.
type KeywordResult struct {
	Index    int
	Keyword  string
	Records  []*judgment.Record
	Err      error
	Duration time.Duration
}

// GetError implements Result.
func (r *KeywordResult) GetError() error {
	return r.Err
}

// Execute implements Job. A panic in the fetcher is converted to an error so
// it only fails this keyword.
func (j *KeywordJob) Execute(ctx context.Context) (res Result) {
	start := time.Now()
	out := &KeywordResult{Index: j.Index, Keyword: j.Keyword}

	defer func() {
		if p := recover(); p != nil {
			out.Records = nil
			out.Err = fmt.Errorf("fetch %q panicked: %v\n%s", j.Keyword, p, debug.Stack())
		}
		out.Duration = time.Since(start)
		res = out
	}()

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	if j.limiter != nil {
		if err := j.limiter.Wait(ctx, j.host); err != nil {
			out.Err = fmt.Errorf("rate limit wait: %w", err)
			return out
		}
	}

	out.Records, out.Err = j.fetcher.Fetch(ctx, j.Keyword, j.MaxLinks)
	return out
}

// BatchOptions configures a Batch.
type BatchOptions struct {
	Concurrency int
	MaxLinks    int
	Timeout     time.Duration // per keyword; zero means no limit
	Limiter     *Limiter      // optional
	Host        string        // rate limiting key, usually the search base URL
}

// Batch fetches a list of keywords on a worker pool.
type Batch struct {
	fetcher scraper.Fetcher
	opts    BatchOptions
}

// NewBatch creates a Batch.
func NewBatch(fetcher scraper.Fetcher, opts BatchOptions) *Batch {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Batch{fetcher: fetcher, opts: opts}
}

// Run fetches every keyword and returns one result per keyword in input
// order. Failures are recorded per keyword; Run itself never fails. Keywords
// not started before ctx ended get ctx's error.
func (b *Batch) Run(ctx context.Context, keywords []string) []*KeywordResult {
	results := make([]*KeywordResult, len(keywords))
	if len(keywords) == 0 {
		return results
	}

	pool := NewPool(ctx, b.opts.Concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, kw := range keywords {
			job := &KeywordJob{
				Index:    i,
				Keyword:  kw,
				MaxLinks: b.opts.MaxLinks,
				fetcher:  b.fetcher,
				limiter:  b.opts.Limiter,
				host:     b.opts.Host,
				timeout:  b.opts.Timeout,
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	for r := range pool.Results() {
		kr := r.(*KeywordResult)
		results[kr.Index] = kr
	}

	for i, r := range results {
		if r != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		results[i] = &KeywordResult{Index: i, Keyword: keywords[i], Err: err}
	}

	return results
}
