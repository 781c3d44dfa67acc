package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/arturoeanton/codeguard/internal/domain"
	"github.com/arturoeanton/codeguard/internal/port"
)

// DefaultWriteTimeout bounds a single sink write.
const DefaultWriteTimeout = 5 * time.Second

// ActivityService writes activity records to every configured sink.
// The first sink is the primary log and is written before LogActivity returns.
// The remaining sinks are mirrors written in the background.
// Sink failures are logged and never reach the caller.
type ActivityService struct {
	sinks        []port.ActivitySink
	reader       port.ActivityReader
	now          func() time.Time
	writeTimeout time.Duration
	wg           sync.WaitGroup
}

// NewActivityService creates a service writing to sinks. The first sink that
// also implements port.ActivityReader answers Count and Recent.
func NewActivityService(sinks ...port.ActivitySink) *ActivityService {
	s := &ActivityService{sinks: sinks, now: time.Now, writeTimeout: DefaultWriteTimeout}
	for _, sink := range sinks {
		if r, ok := sink.(port.ActivityReader); ok {
			s.reader = r
			break
		}
	}
	return s
}

// LogActivity records one finished transaction. It returns once the primary
// sink has been written or its write timeout has passed.
func (s *ActivityService) LogActivity(ctx context.Context, language string, status domain.AuditStatus, codeLength int, duration time.Duration) {
	if codeLength < 0 {
		codeLength = 0
	}
	if duration < 0 {
		duration = 0
	}
	rec := domain.ActivityRecord{
		Time:       s.now(),
		Language:   language,
		CodeLength: codeLength,
		Duration:   duration,
		Status:     status,
	}

	if len(s.sinks) == 0 {
		return
	}
	// Writes outlive the caller but never run unbounded.
	ctx = context.WithoutCancel(ctx)
	for _, mirror := range s.sinks[1:] {
		s.wg.Add(1)
		go func(sink port.ActivitySink) {
			defer s.wg.Done()
			s.write(ctx, sink, rec)
		}(mirror)
	}
	s.write(ctx, s.sinks[0], rec)
}

// Wait blocks until background mirror writes have finished.
func (s *ActivityService) Wait() {
	s.wg.Wait()
}

func (s *ActivityService) write(ctx context.Context, sink port.ActivitySink, rec domain.ActivityRecord) {
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()
	}
	if err := sink.Append(ctx, rec); err != nil {
		slog.Warn("activity log write failed",
			"sink", sink.Name(),
			"status", rec.Status,
			"error", err,
		)
	}
}

// Served returns how many transactions have been recorded.
func (s *ActivityService) Served(ctx context.Context) (int, error) {
	if s.reader == nil {
		return 0, nil
	}
	return s.reader.Count(ctx)
}

// Recent returns up to limit records, newest first.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	if s.reader == nil {
		return nil, nil
	}
	return s.reader.Recent(ctx, limit)
}
