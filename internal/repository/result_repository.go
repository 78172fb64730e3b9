package repository

import (
	"context"
	"fmt"
	"log/slog"

	"giwa/sdk-probe/internal/domain"
)

type ResultRepository interface {
	PublishOutcome(ctx context.Context, event domain.OutcomeEvent) error
	PublishReport(ctx context.Context, report domain.RunReport) error
	SendLog(ctx context.Context, entry domain.LogEntry) error
}

// EventPublisher is the slice of the kafka producer the result repository needs.
type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
	Topic() string
}

// reportEnvelope tags settled reports so consumers of the outcomes topic can
// tell them apart from per-probe transitions.
type reportEnvelope struct {
	Kind   string           `json:"kind"`
	Report domain.RunReport `json:"report"`
}

type KafkaResultRepository struct {
	outcomes EventPublisher
	logs     EventPublisher
	log      *slog.Logger
}

func NewKafkaResultRepository(outcomes, logs EventPublisher, log *slog.Logger) *KafkaResultRepository {
	return &KafkaResultRepository{
		outcomes: outcomes,
		logs:     logs,
		log:      log,
	}
}

func (r *KafkaResultRepository) PublishOutcome(ctx context.Context, event domain.OutcomeEvent) error {
	if err := r.outcomes.PublishEvent(ctx, event.RunID, event); err != nil {
		return fmt.Errorf("failed to publish outcome: %w", err)
	}
	r.log.Debug("sent outcome",
		slog.String("run_id", event.RunID),
		slog.String("probe", event.Outcome.Name),
		slog.String("status", string(event.Outcome.Status)),
		slog.String("topic", r.outcomes.Topic()))
	return nil
}

func (r *KafkaResultRepository) PublishReport(ctx context.Context, report domain.RunReport) error {
	if err := r.outcomes.PublishEvent(ctx, report.RunID, reportEnvelope{Kind: "report", Report: report}); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	r.log.Info("sent report",
		slog.String("run_id", report.RunID),
		slog.Int("pass", report.Counts.Pass),
		slog.Int("fail", report.Counts.Fail),
		slog.Int("skip", report.Counts.Skip),
		slog.String("topic", r.outcomes.Topic()))
	return nil
}

func (r *KafkaResultRepository) SendLog(ctx context.Context, entry domain.LogEntry) error {
	key := fmt.Sprintf("%s-%d", entry.RunID, entry.Timestamp.UnixNano())
	if err := r.logs.PublishEvent(ctx, key, entry); err != nil {
		return fmt.Errorf("failed to publish log: %w", err)
	}
	return nil
}

// LogResultRepository writes everything to the structured logger. It stands
// in for kafka when publishing is disabled.
type LogResultRepository struct {
	log *slog.Logger
}

func NewLogResultRepository(log *slog.Logger) *LogResultRepository {
	return &LogResultRepository{log: log}
}

func (r *LogResultRepository) PublishOutcome(_ context.Context, event domain.OutcomeEvent) error {
	r.log.Debug("outcome",
		slog.String("run_id", event.RunID),
		slog.Int("index", event.Index),
		slog.String("probe", event.Outcome.Name),
		slog.String("status", string(event.Outcome.Status)),
		slog.String("message", event.Outcome.Message))
	return nil
}

func (r *LogResultRepository) PublishReport(_ context.Context, report domain.RunReport) error {
	r.log.Info("report",
		slog.String("run_id", report.RunID),
		slog.Int("pass", report.Counts.Pass),
		slog.Int("fail", report.Counts.Fail),
		slog.Int("skip", report.Counts.Skip))
	return nil
}

func (r *LogResultRepository) SendLog(_ context.Context, entry domain.LogEntry) error {
	level := slog.LevelInfo
	if entry.Level == domain.LogLevelError {
		level = slog.LevelError
	}
	r.log.Log(context.Background(), level, entry.Message, slog.String("run_id", entry.RunID))
	return nil
}
