package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"giwa/sdk-probe/internal/domain"
)

type TaskRepository interface {
	FetchRuns(ctx context.Context) ([]domain.RunRequest, error)
	AckRun(ctx context.Context, runID string) error
	NackRun(runID string)
}

// EventReader is the slice of the kafka consumer the task repository needs.
type EventReader interface {
	ReadEvent(ctx context.Context, v any) (kafkago.Message, error)
	CommitMessage(ctx context.Context, msg kafkago.Message) error
}

const (
	fetchWindow   = 2 * time.Second
	maxFetchBatch = 16
	maxCommitTry  = 3
)

type KafkaTaskRepository struct {
	reader EventReader
	log    *slog.Logger

	mu       sync.Mutex
	messages map[string]kafkago.Message
}

func NewKafkaTaskRepository(reader EventReader, log *slog.Logger) *KafkaTaskRepository {
	return &KafkaTaskRepository{
		reader:   reader,
		log:      log,
		messages: make(map[string]kafkago.Message),
	}
}

// FetchRuns drains run requests for a short window. Malformed or anonymous
// requests are committed immediately and never returned.
func (r *KafkaTaskRepository) FetchRuns(ctx context.Context) ([]domain.RunRequest, error) {
	var runs []domain.RunRequest

	windowCtx, cancel := context.WithTimeout(ctx, fetchWindow)
	defer cancel()

	for len(runs) < maxFetchBatch {
		var req domain.RunRequest
		msg, err := r.reader.ReadEvent(windowCtx, &req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				break
			}
			if msg.Value == nil {
				return runs, fmt.Errorf("failed to read event: %w", err)
			}
			r.log.Warn("dropping malformed run request", slog.String("error", err.Error()))
			r.commit(ctx, msg)
			continue
		}

		if req.ID == "" {
			r.log.Warn("dropping run request without id", slog.Int64("offset", msg.Offset))
			r.commit(ctx, msg)
			continue
		}

		r.mu.Lock()
		r.messages[req.ID] = msg
		r.mu.Unlock()

		runs = append(runs, req)
	}

	return runs, nil
}

func (r *KafkaTaskRepository) AckRun(ctx context.Context, runID string) error {
	r.mu.Lock()
	msg, ok := r.messages[runID]
	r.mu.Unlock()

	if !ok {
		return nil
	}

	var lastErr error

	for attempt := 0; attempt < maxCommitTry; attempt++ {
		if err := r.reader.CommitMessage(ctx, msg); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}

		r.mu.Lock()
		delete(r.messages, runID)
		r.mu.Unlock()

		return nil
	}

	return fmt.Errorf("failed to commit run %s: %w", runID, lastErr)
}

// NackRun forgets the pending message so it is redelivered after a rebalance.
func (r *KafkaTaskRepository) NackRun(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, runID)
}

func (r *KafkaTaskRepository) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func (r *KafkaTaskRepository) commit(ctx context.Context, msg kafkago.Message) {
	if err := r.reader.CommitMessage(ctx, msg); err != nil {
		r.log.Error("failed to commit skipped message", slog.String("error", err.Error()))
	}
}
