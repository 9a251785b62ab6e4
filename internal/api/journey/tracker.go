package journey

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripweave/tripweave/app/observability/metrics"
	"github.com/tripweave/tripweave/internal/types"
)

// PathFlusher persists a batch of recorded points.
type PathFlusher interface {
	SaveJourneyPath(ctx context.Context, tripID uuid.UUID, userID string, path []types.PathPoint) (*types.JourneyPath, error)
}

const (
	defaultFlushEvery = 10
	// The final flush keeps only this many trailing points.
	finalFlushWindow = 100
)

// PathRecorder buffers GPS points for one tracking session, flushing to the
// trip record every flushEvery points and once more on Stop. Safe for
// concurrent use.
type PathRecorder struct {
	mu         sync.Mutex
	flusher    PathFlusher
	tripID     uuid.UUID
	userID     string
	flushEvery int
	path       []types.PathPoint
	startTime  time.Time
	active     bool
}

func NewPathRecorder(flusher PathFlusher, tripID uuid.UUID, userID string, flushEvery int) *PathRecorder {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	return &PathRecorder{
		flusher:    flusher,
		tripID:     tripID,
		userID:     userID,
		flushEvery: flushEvery,
		startTime:  time.Now(),
		active:     true,
	}
}

// AddPoint appends a timestamped point, flushing the accumulated path every
// flushEvery points.
func (r *PathRecorder) AddPoint(ctx context.Context, point types.PathPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return fmt.Errorf("journey tracking session is not active")
	}

	if point.Timestamp.IsZero() {
		point.Timestamp = time.Now().UTC()
	}
	r.path = append(r.path, point)

	if m := metrics.Get(); m != nil {
		m.JourneyPointsRecorded.Add(ctx, 1)
	}

	if len(r.path)%r.flushEvery == 0 {
		if _, err := r.flusher.SaveJourneyPath(ctx, r.tripID, r.userID, append([]types.PathPoint(nil), r.path...)); err != nil {
			return err
		}
	}
	return nil
}

// Stop flushes any remaining buffered points, truncated to the trailing
// window, and deactivates the session.
func (r *PathRecorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return nil
	}
	r.active = false

	if len(r.path) == 0 {
		return nil
	}

	final := r.path
	if len(final) > finalFlushWindow {
		final = final[len(final)-finalFlushWindow:]
	}
	_, err := r.flusher.SaveJourneyPath(ctx, r.tripID, r.userID, final)
	return err
}

// Active reports whether the session is still recording.
func (r *PathRecorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// PointCount returns how many points have been recorded this session.
func (r *PathRecorder) PointCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.path)
}
