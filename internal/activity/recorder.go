// Package activity appends document audit records off the request's critical
// path. Appends are fire-and-forget: callers never block on the sink and
// never see its failures; a supervising loop catches and logs them.
package activity

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
)

// Recorder accepts activity records for asynchronous persistence.
type Recorder interface {
	// Record enqueues an activity append. Never blocks and never fails the
	// caller; when the queue is full the record is dropped with a logged
	// warning.
	Record(documentID, userID, action string, details map[string]any)

	// Close stops intake and drains queued records, bounded by ctx.
	Close(ctx context.Context) error
}

// queueRecorder is a buffered-channel recorder with a single worker. mu
// serializes intake against Close so Record never sends on a closed channel.
type queueRecorder struct {
	repo    repository.ActivityRepository
	queue   chan *model.Activity
	done    chan struct{}
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewRecorder starts a recorder draining into repo. buffer bounds the number
// of in-flight records.
func NewRecorder(repo repository.ActivityRepository, buffer int) Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &queueRecorder{
		repo:    repo,
		queue:   make(chan *model.Activity, buffer),
		done:    make(chan struct{}),
		timeout: 5 * time.Second,
	}
	go r.run()
	return r
}

func (r *queueRecorder) Record(documentID, userID, action string, details map[string]any) {
	a := &model.Activity{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		UserID:     userID,
		Action:     action,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		logJSON(map[string]any{
			"component":   "activity",
			"level":       "warn",
			"msg":         "activity_recorder_closed",
			"document_id": documentID,
			"action":      action,
		})
		return
	}
	select {
	case r.queue <- a:
	default:
		logJSON(map[string]any{
			"component":   "activity",
			"level":       "warn",
			"msg":         "activity_queue_full",
			"document_id": documentID,
			"action":      action,
		})
	}
}

// run is the supervising worker: every append failure is caught here and
// logged, never propagated.
func (r *queueRecorder) run() {
	defer close(r.done)
	for a := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err := r.repo.Append(ctx, a)
		cancel()
		if err != nil {
			logJSON(map[string]any{
				"component":   "activity",
				"level":       "error",
				"msg":         "activity_append_failed",
				"document_id": a.DocumentID,
				"action":      a.Action,
				"error":       err.Error(),
			})
		}
	}
}

func (r *queueRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func logJSON(entry map[string]any) {
	entry["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal activity log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
