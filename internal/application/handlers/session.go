package handlers

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/index"
	"github.com/ersonp/zasdict/internal/domain/services"
)

// resultBuffer bounds the results waiting for the reader.
const resultBuffer = 16

// Session is one interactive search session. It numbers submitted queries,
// remembers the latest job id and drops every result that arrives for an
// older job.
type Session struct {
	id      string
	engine  *services.QueryEngine
	logger  *slog.Logger
	counter atomic.Uint64
	latest  atomic.Uint64
	results chan services.Result
}

// NewSession creates a session with its own query worker.
func NewSession(queryService *services.QueryService, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		id:      uuid.NewString(),
		results: make(chan services.Result, resultBuffer),
	}
	s.logger = logger.With("session", s.id)
	s.engine = services.NewQueryEngine(queryService, s.deliver, s.logger)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Run runs the query worker until ctx is done, then closes Results.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.results)
	return s.engine.Run(ctx)
}

// Install makes snap the index for queries dispatched from now on.
func (s *Session) Install(snap *index.Snapshot) {
	s.engine.Install(snap)
}

// Snapshot returns the installed index.
func (s *Session) Snapshot() *index.Snapshot {
	return s.engine.Snapshot()
}

// Submit queues a query and returns its job id. It never blocks.
func (s *Session) Submit(q entities.Query) uint64 {
	id := s.counter.Add(1)
	s.latest.Store(id)
	s.engine.Submit(id, q)
	return id
}

// IsLatest reports whether jobID is the most recently submitted job.
func (s *Session) IsLatest(jobID uint64) bool {
	return s.latest.Load() == jobID
}

// Results delivers the results of latest jobs. It is closed when Run
// returns.
func (s *Session) Results() <-chan services.Result {
	return s.results
}

// Query submits q and waits for its result. Run must be active.
func (s *Session) Query(ctx context.Context, q entities.Query) (services.Result, error) {
	id := s.Submit(q)
	for {
		select {
		case <-ctx.Done():
			return services.Result{}, ctx.Err()
		case r, ok := <-s.results:
			if !ok {
				return services.Result{}, context.Canceled
			}
			if r.JobID == id {
				return r, r.Err
			}
		}
	}
}

func (s *Session) deliver(ctx context.Context, r services.Result) {
	if !s.IsLatest(r.JobID) {
		s.logger.Debug("dropping stale result", "job_id", r.JobID, "latest", s.latest.Load())
		return
	}
	s.logger.Debug("query finished", "job_id", r.JobID, "results", len(r.Entries), "generation", r.Generation)
	select {
	case s.results <- r:
	case <-ctx.Done():
	}
}
