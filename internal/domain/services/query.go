package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ersonp/zasdict/internal/domain/collation"
	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/index"
	"github.com/ersonp/zasdict/internal/domain/textfold"
)

// QueryService evaluates search queries against an index snapshot.
type QueryService struct {
	collator *collation.Collator
}

// NewQueryService creates a new query service. A nil collator selects the
// default alphabet.
func NewQueryService(collator *collation.Collator) *QueryService {
	if collator == nil {
		collator = collation.Default()
	}
	return &QueryService{collator: collator}
}

// Search returns the entries of snap matching q, ordered by headword.
// A keyword made only of whitespace matches nothing.
func (s *QueryService) Search(snap *index.Snapshot, q entities.Query) ([]entities.Entry, error) {
	match, err := matcher(q.Mode, textfold.Lower(q.Keyword))
	if err != nil {
		return nil, err
	}
	if snap == nil || strings.TrimSpace(q.Keyword) == "" {
		return nil, nil
	}

	var hits *roaring.Bitmap
	switch q.Scope {
	case entities.ScopeHeadword:
		hits = snap.MatchHeadwords(match)
	case entities.ScopeFullText:
		hits = snap.Match(func(key string) bool { return match([]string{key}) })
	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidScope, q.Scope)
	}

	found := snap.Collect(hits)
	results := make([]entities.Entry, len(found))
	for i := range found {
		results[i] = found[i].Clone()
	}
	s.collator.SortEntries(results)
	return results, nil
}

// matcher returns the predicate deciding whether a list of lowercased
// candidate forms matches keyword under mode.
func matcher(mode entities.SearchMode, keyword string) (func(forms []string) bool, error) {
	switch mode {
	case entities.ModePartial:
		terms := strings.Fields(keyword)
		return func(forms []string) bool {
			text := strings.Join(forms, " ")
			for _, term := range terms {
				if !strings.Contains(text, term) {
					return false
				}
			}
			return true
		}, nil
	case entities.ModePrefix:
		return anyForm(func(f string) bool { return strings.HasPrefix(f, keyword) }), nil
	case entities.ModeSuffix:
		return anyForm(func(f string) bool { return strings.HasSuffix(f, keyword) }), nil
	case entities.ModeExact:
		return anyForm(func(f string) bool { return f == keyword }), nil
	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidMode, mode)
	}
}

func anyForm(pred func(string) bool) func([]string) bool {
	return func(forms []string) bool {
		return slices.ContainsFunc(forms, pred)
	}
}

// Result is the outcome of one query job.
type Result struct {
	JobID      uint64
	Query      entities.Query
	Entries    []entities.Entry
	Generation uint64
	Err        error
}

// CompletionFunc receives job results in processing order.
type CompletionFunc func(ctx context.Context, result Result)

type queryJob struct {
	id    uint64
	query entities.Query
}

// QueryEngine runs queries one at a time, in submission order, on a single
// worker goroutine. Each job reads the snapshot installed when it is
// dispatched; installing a new snapshot never affects a running job.
type QueryEngine struct {
	search     *QueryService
	onComplete CompletionFunc
	logger     *slog.Logger

	snapshot atomic.Pointer[index.Snapshot]

	mu    sync.Mutex
	queue []queryJob
	wake  chan struct{}
}

// NewQueryEngine creates a query engine that reports every finished job to
// onComplete. It starts with an empty snapshot.
func NewQueryEngine(search *QueryService, onComplete CompletionFunc, logger *slog.Logger) *QueryEngine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &QueryEngine{
		search:     search,
		onComplete: onComplete,
		logger:     logger,
		wake:       make(chan struct{}, 1),
	}
	e.snapshot.Store(index.Build(nil))
	return e
}

// Install replaces the snapshot used by jobs dispatched from now on.
func (e *QueryEngine) Install(snap *index.Snapshot) {
	if snap == nil {
		snap = index.Build(nil)
	}
	e.snapshot.Store(snap)
}

// Snapshot returns the currently installed snapshot.
func (e *QueryEngine) Snapshot() *index.Snapshot {
	return e.snapshot.Load()
}

// Submit queues a query. It never blocks.
func (e *QueryEngine) Submit(jobID uint64, q entities.Query) {
	e.mu.Lock()
	e.queue = append(e.queue, queryJob{id: jobID, query: q})
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued jobs not yet dispatched.
func (e *QueryEngine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Run processes jobs until ctx is done. A dispatched job always runs to
// completion; jobs still queued when ctx ends are dropped.
func (e *QueryEngine) Run(ctx context.Context) error {
	for {
		job, ok := e.next()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-e.wake:
				continue
			}
		}
		if ctx.Err() != nil {
			return nil
		}

		snap := e.snapshot.Load()
		entries, err := e.search.Search(snap, job.query)
		if err != nil {
			e.logger.Debug("query failed", "job_id", job.id, "error", err)
		}
		e.onComplete(ctx, Result{
			JobID:      job.id,
			Query:      job.query,
			Entries:    entries,
			Generation: snap.Generation(),
			Err:        err,
		})
	}
}

func (e *QueryEngine) next() (queryJob, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return queryJob{}, false
	}
	job := e.queue[0]
	e.queue = slices.Delete(e.queue, 0, 1)
	return job, true
}
