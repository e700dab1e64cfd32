package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
)

// RunTrigger starts a full pipeline run.
type RunTrigger interface {
	Run(ctx context.Context, trigger string) (*pipeline.Report, error)
}

const periodicJobName = "periodic-optimize"

// Scheduler wraps a gocron scheduler running the pipeline periodically.
type Scheduler struct {
	scheduler gocron.Scheduler
	runner    RunTrigger
	logger    *slog.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(runner RunTrigger, logger *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRuntime, "failed to create gocron scheduler").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{scheduler: s, runner: runner, logger: logger}, nil
}

// SchedulePeriodicRun registers a full run every interval and returns the job id.
// Overlapping executions are rescheduled rather than queued.
func (s *Scheduler) SchedulePeriodicRun(ctx context.Context, interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", derrors.ValidationError("schedule interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.executeRun, ctx),
		gocron.WithName(periodicJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryRuntime, "failed to create periodic run job").Build()
	}
	s.logger.Info("Scheduled periodic runs", logfields.JobName(periodicJobName), slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	if err := s.scheduler.Shutdown(); err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "scheduler shutdown").Build()
	}
	return nil
}

// Run starts the scheduler and stops it once ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	return s.Stop()
}

// executeRun is called by gocron to execute a scheduled run.
func (s *Scheduler) executeRun(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := s.runner.Run(ctx, pipeline.TriggerSchedule)
	if err != nil {
		s.logger.Error("Scheduled run failed", logfields.JobName(periodicJobName), logfields.Error(err))
		return
	}
	s.logger.Info("Scheduled run finished",
		logfields.JobName(periodicJobName),
		logfields.RunID(report.RunID),
		logfields.Documents(report.Documents),
		slog.Int("optimized", report.Optimized),
		logfields.Skipped(report.Skipped))
}
