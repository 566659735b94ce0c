package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

// fakeFetcher fails keywords prefixed "fail", panics on "panic" and sleeps on
// "slow" until ctx ends.
type fakeFetcher struct {
	calls int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, keyword string, maxLinks int) ([]*judgment.Record, error) {
	atomic.AddInt32(&f.calls, 1)
	switch {
	case strings.HasPrefix(keyword, "fail"):
		return nil, errors.New("navigation failed")
	case keyword == "panic":
		panic("renderer crashed")
	case keyword == "slow":
		<-ctx.Done()
		return nil, ctx.Err()
	}
	records := make([]*judgment.Record, 0, maxLinks)
	for i := 0; i < maxLinks; i++ {
		records = append(records, &judgment.Record{Keyword: keyword, DocID: keyword})
	}
	return records, nil
}

func TestBatch_Run(t *testing.T) {
	fetcher := &fakeFetcher{}
	batch := NewBatch(fetcher, BatchOptions{Concurrency: 3, MaxLinks: 2})

	keywords := []string{"bail", "fail-1", "panic", "custody", "fail-2", "writ"}
	results := batch.Run(context.Background(), keywords)

	if len(results) != len(keywords) {
		t.Fatalf("got %d results, want %d", len(results), len(keywords))
	}

	for i, r := range results {
		if r.Keyword != keywords[i] || r.Index != i {
			t.Errorf("results[%d] = %q (index %d), want input order", i, r.Keyword, r.Index)
		}
	}

	wantErr := map[string]bool{"fail-1": true, "panic": true, "fail-2": true}
	for _, r := range results {
		if wantErr[r.Keyword] {
			if r.Err == nil {
				t.Errorf("%s: expected error", r.Keyword)
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", r.Keyword, r.Err)
		}
		if len(r.Records) != 2 {
			t.Errorf("%s: got %d records, want 2", r.Keyword, len(r.Records))
		}
	}

	if !strings.Contains(results[2].Err.Error(), "renderer crashed") {
		t.Errorf("panic error = %v", results[2].Err)
	}
}

func TestBatch_PerKeywordTimeout(t *testing.T) {
	batch := NewBatch(&fakeFetcher{}, BatchOptions{
		Concurrency: 2,
		MaxLinks:    1,
		Timeout:     50 * time.Millisecond,
	})

	results := batch.Run(context.Background(), []string{"slow", "bail"})

	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("slow keyword error = %v, want deadline exceeded", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("sibling keyword affected by timeout: %v", results[1].Err)
	}
}

func TestBatch_Empty(t *testing.T) {
	fetcher := &fakeFetcher{}
	results := NewBatch(fetcher, BatchOptions{}).Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if fetcher.calls != 0 {
		t.Error("fetcher should not be called")
	}
}

func TestBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatch(&fakeFetcher{}, BatchOptions{MaxLinks: 1}).Run(ctx, []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if r.Err == nil {
			t.Errorf("%s: expected error from canceled context", r.Keyword)
		}
	}
}

func TestBatch_RateLimited(t *testing.T) {
	batch := NewBatch(&fakeFetcher{}, BatchOptions{
		Concurrency: 3,
		MaxLinks:    1,
		Limiter:     NewLimiter(20, 1),
		Host:        "https://indiankanoon.org",
	})

	start := time.Now()
	results := batch.Run(context.Background(), []string{"a", "b", "c"})
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Keyword, r.Err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("limiter not applied, batch took %v", elapsed)
	}
}
