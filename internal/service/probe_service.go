package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/i18n"
	"giwa/sdk-probe/internal/ledger"
	"giwa/sdk-probe/internal/plan"
	"giwa/sdk-probe/internal/repository"
	"giwa/sdk-probe/internal/runner"
	"giwa/sdk-probe/internal/sdk"
)

var (
	// ErrRunInProgress is returned while another run owns the ledger.
	ErrRunInProgress = errors.New("a probe run is already in progress")
	// ErrNoPreferences is returned when the language cannot be persisted.
	ErrNoPreferences = errors.New("language preferences are not configured")
)

const (
	publishTimeout = 5 * time.Second
	lockRetry      = 50 * time.Millisecond
)

type Config struct {
	AgentID      string
	PollInterval time.Duration
	ProbeTimeout time.Duration
	Plan         plan.Options
}

// Progress is the live view of the ledger.
type Progress struct {
	RunID    string           `json:"run_id,omitempty"`
	Active   bool             `json:"active"`
	Current  string           `json:"current,omitempty"`
	Outcomes []domain.Outcome `json:"outcomes"`
	Counts   domain.Counts    `json:"counts"`
}

type ProbeService struct {
	client     sdk.Client
	prefs      *i18n.Preferences
	taskRepo   repository.TaskRepository
	resultRepo repository.ResultRepository
	ledger     *ledger.Ledger
	log        *slog.Logger
	cfg        Config

	// run is held for the whole of a run; TryLock failing means busy.
	run    sync.Mutex
	active atomic.Bool

	mu        sync.RWMutex
	isRunning bool
	runner    *runner.Runner
	runID     string
	latest    *domain.RunReport
}

// NewProbeService wires a service. taskRepo may be nil, in which case Start
// only waits for shutdown. prefs may be nil, in which case runs use the
// default language.
func NewProbeService(
	client sdk.Client,
	prefs *i18n.Preferences,
	taskRepo repository.TaskRepository,
	resultRepo repository.ResultRepository,
	log *slog.Logger,
	cfg Config,
) *ProbeService {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	if resultRepo == nil {
		resultRepo = repository.NewLogResultRepository(log)
	}

	s := &ProbeService{
		client:     client,
		prefs:      prefs,
		taskRepo:   taskRepo,
		resultRepo: resultRepo,
		ledger:     ledger.New(),
		log:        log.With(slog.String("agent_id", cfg.AgentID)),
		cfg:        cfg,
	}
	s.ledger.Observe(s.publishOutcome)
	return s
}

// Observe forwards ledger transitions to fn.
func (s *ProbeService) Observe(fn ledger.Observer) {
	s.ledger.Observe(fn)
}

// Run executes the plan once under a fresh run id. An empty lang uses the
// stored preference.
func (s *ProbeService) Run(ctx context.Context, lang string) (domain.RunReport, error) {
	return s.execute(ctx, uuid.NewString(), lang, false)
}

// RunRequest executes the plan for a queued request, reusing its id. Unlike
// Run it waits for an active run to finish instead of rejecting, so a queued
// request is never committed past; it only gives up when ctx is done.
func (s *ProbeService) RunRequest(ctx context.Context, req domain.RunRequest) (domain.RunReport, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	return s.execute(ctx, id, req.Language, true)
}

func (s *ProbeService) execute(ctx context.Context, runID, lang string, wait bool) (domain.RunReport, error) {
	language, err := s.resolveLanguage(lang)
	if err != nil {
		return domain.RunReport{}, err
	}

	if err := s.acquire(ctx, wait); err != nil {
		return domain.RunReport{}, err
	}
	defer s.run.Unlock()
	s.active.Store(true)
	defer s.active.Store(false)

	strs := i18n.For(language)
	r := runner.New(s.ledger, s.log, runner.Config{
		Timeout:    s.cfg.ProbeTimeout,
		SkipReason: strs.Skip,
	})
	p := plan.New(s.client, strs, s.log, s.cfg.Plan)

	s.ledger.Reset()
	s.mu.Lock()
	s.runner = r
	s.runID = runID
	s.mu.Unlock()

	started := time.Now()
	s.log.Info("probe run started",
		slog.String("run_id", runID),
		slog.String("language", string(language)),
		slog.Int("probes", len(p.Probes())))

	p.Execute(ctx, r)

	report := domain.RunReport{
		RunID:      runID,
		AgentID:    s.cfg.AgentID,
		Language:   string(language),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Outcomes:   s.ledger.Outcomes(),
		Counts:     s.ledger.Counts(),
	}
	if env := p.Snapshot(ctx); env.Network != nil {
		report.Network = env.Network.Name
	}

	s.mu.Lock()
	s.latest = &report
	s.mu.Unlock()

	s.log.Info("probe run finished",
		slog.String("run_id", runID),
		slog.Int("pass", report.Counts.Pass),
		slog.Int("fail", report.Counts.Fail),
		slog.Int("skip", report.Counts.Skip),
		slog.Duration("elapsed", report.FinishedAt.Sub(started)))

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.resultRepo.PublishReport(pubCtx, report); err != nil {
		s.log.Error("failed to publish report", slog.String("run_id", runID), slog.String("error", err.Error()))
	}

	return report, nil
}

func (s *ProbeService) acquire(ctx context.Context, wait bool) error {
	if s.run.TryLock() {
		return nil
	}
	if !wait {
		return ErrRunInProgress
	}

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.run.TryLock() {
				return nil
			}
		}
	}
}

func (s *ProbeService) resolveLanguage(lang string) (i18n.Language, error) {
	if lang != "" {
		return i18n.ParseLanguage(lang)
	}
	return s.Language(), nil
}

func (s *ProbeService) publishOutcome(index int, outcome domain.Outcome) {
	s.mu.RLock()
	runID := s.runID
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	event := domain.OutcomeEvent{
		RunID:     runID,
		AgentID:   s.cfg.AgentID,
		Index:     index,
		Outcome:   outcome,
		Timestamp: time.Now(),
	}
	if err := s.resultRepo.PublishOutcome(ctx, event); err != nil {
		s.log.Error("failed to publish outcome",
			slog.String("run_id", runID),
			slog.String("probe", outcome.Name),
			slog.String("error", err.Error()))
	}
}

// Start polls the task repository until ctx is cancelled.
func (s *ProbeService) Start(ctx context.Context) error {
	s.setRunning(true)
	defer s.setRunning(false)

	s.log.Info("probe service started", slog.Duration("poll_interval", s.cfg.PollInterval))

	if s.taskRepo == nil {
		<-ctx.Done()
		s.log.Info("probe service stopped")
		return nil
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.processRuns(ctx); err != nil {
				s.log.Error("failed to process run requests", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			s.log.Info("probe service stopped")
			return nil
		}
	}
}

func (s *ProbeService) processRuns(ctx context.Context) error {
	requests, err := s.taskRepo.FetchRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch run requests: %w", err)
	}

	for _, req := range requests {
		if ctx.Err() != nil {
			s.taskRepo.NackRun(req.ID)
			continue
		}

		s.sendLog(ctx, req.ID, domain.LogLevelInfo, fmt.Sprintf("Received run request from %q", req.RequestedBy))

		report, err := s.RunRequest(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				// shutting down while waiting for the run lock; leave the
				// request and everything after it uncommitted
				s.taskRepo.NackRun(req.ID)
				continue
			}
			s.sendLog(ctx, req.ID, domain.LogLevelError, fmt.Sprintf("Run rejected: %v", err))
		} else {
			s.sendLog(ctx, req.ID, domain.LogLevelInfo, fmt.Sprintf("Run finished: %d pass, %d fail, %d skip",
				report.Counts.Pass, report.Counts.Fail, report.Counts.Skip))
		}

		if err := s.taskRepo.AckRun(ctx, req.ID); err != nil {
			s.log.Error("failed to ack run request", slog.String("run_id", req.ID), slog.String("error", err.Error()))
		}
	}

	return nil
}

func (s *ProbeService) sendLog(ctx context.Context, runID string, level domain.LogLevel, message string) {
	entry := domain.LogEntry{
		RunID:     runID,
		AgentID:   s.cfg.AgentID,
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err := s.resultRepo.SendLog(ctx, entry); err != nil {
		s.log.Warn("failed to send log", slog.String("error", err.Error()))
	}
}

func (s *ProbeService) setRunning(v bool) {
	s.mu.Lock()
	s.isRunning = v
	s.mu.Unlock()
}

// Current returns the name of the probe in flight, if any.
func (s *ProbeService) Current() string {
	s.mu.RLock()
	r := s.runner
	s.mu.RUnlock()
	if r == nil {
		return ""
	}
	return r.Current()
}

// Active reports whether a run is in progress.
func (s *ProbeService) Active() bool {
	return s.active.Load()
}

// Progress returns the ledger as it stands.
func (s *ProbeService) Progress() Progress {
	s.mu.RLock()
	runID := s.runID
	s.mu.RUnlock()

	return Progress{
		RunID:    runID,
		Active:   s.Active(),
		Current:  s.Current(),
		Outcomes: s.ledger.Outcomes(),
		Counts:   s.ledger.Counts(),
	}
}

// Latest returns the last settled report.
func (s *ProbeService) Latest() (domain.RunReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return domain.RunReport{}, false
	}
	return *s.latest, true
}

func (s *ProbeService) Language() i18n.Language {
	if s.prefs == nil {
		return i18n.DefaultLanguage
	}
	return s.prefs.Language()
}

func (s *ProbeService) SetLanguage(lang string) (i18n.Language, error) {
	if s.prefs == nil {
		return "", ErrNoPreferences
	}
	parsed, err := i18n.ParseLanguage(lang)
	if err != nil {
		return "", err
	}
	if err := s.prefs.SetLanguage(parsed); err != nil {
		return "", err
	}
	s.log.Info("language changed", slog.String("language", string(parsed)))
	return parsed, nil
}

func (s *ProbeService) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return fmt.Errorf("service is not running")
	}
	return nil
}

func (s *ProbeService) GetStatus() domain.ServiceStatus {
	probes := len(plan.New(s.client, i18n.For(s.Language()), s.log, s.cfg.Plan).Probes())

	s.mu.RLock()
	status := domain.ServiceStatus{
		AgentID:      s.cfg.AgentID,
		IsRunning:    s.isRunning,
		PollInterval: s.cfg.PollInterval.String(),
		Probes:       probes,
	}
	if s.latest != nil {
		status.LastRunID = s.latest.RunID
		status.LastRunAt = s.latest.FinishedAt
	}
	s.mu.RUnlock()

	status.RunActive = s.Active()
	status.Current = s.Current()
	status.Counts = s.ledger.Counts()
	return status
}
