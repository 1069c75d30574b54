package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"videoai/internal/jobs"
	"videoai/internal/logging"
	"videoai/internal/realtime"
	"videoai/internal/services"
)

// Runner executes pipelines against the job store and pushes a notification
// after every state transition. Each job is executed by exactly one runner
// invocation, which is the sole writer of that job's mutable fields.
type Runner struct {
	store  *jobs.Store
	bus    *realtime.Bus
	logger *slog.Logger
}

// NewRunner constructs a runner over the given store and bus.
func NewRunner(store *jobs.Store, bus *realtime.Bus, logger *slog.Logger) *Runner {
	return &Runner{
		store:  store,
		bus:    bus,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the pipeline's stages strictly in order. After each stage's
// success the new progress is persisted and pushed; the first failing stage
// persists a failed terminal state and halts, and remaining stages never
// execute. Exactly one terminal notification is pushed per job.
func (r *Runner) Run(ctx context.Context, job *jobs.Job, pipeline Pipeline) error {
	if job == nil {
		return errors.New("job is nil")
	}
	if len(pipeline.Stages) == 0 {
		return fmt.Errorf("pipeline %s has no stages", pipeline.Kind)
	}

	ctx = logging.WithJobID(ctx, job.ID)
	ctx = logging.WithOwnerID(ctx, job.OwnerID)
	logger := logging.WithContext(ctx, r.logger).With(
		logging.Args(logging.String(logging.FieldJobKind, string(job.Kind)))...,
	)

	start := time.Now()
	job.SetProcessing(pipeline.StartMessage)
	if err := r.persistAndPush(ctx, job); err != nil {
		logger.Error("failed to transition job to processing", logging.Error(err))
		return err
	}
	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.Int("stage_count", len(pipeline.Stages)),
	)

	for _, stage := range pipeline.Stages {
		stageCtx := logging.WithStage(ctx, stage.Name)
		stageLogger := logging.WithContext(stageCtx, r.logger)

		stageStart := time.Now()
		stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

		message, err := stage.Run(stageCtx, job)
		if err != nil {
			return r.failJob(stageCtx, stageLogger, job, err)
		}
		if message == "" {
			message = stage.Message
		}

		job.SetProgress(stage.Progress, message)
		if err := r.persistAndPush(stageCtx, job); err != nil {
			stageLogger.Error("failed to persist stage progress", logging.Error(err))
			return err
		}
		stageLogger.Info("stage completed",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.Int("progress", job.Progress),
			logging.Duration("stage_duration", time.Since(stageStart)),
		)
	}

	var result *jobs.Result
	if pipeline.Result != nil {
		result = pipeline.Result()
	}
	job.SetCompleted(result, pipeline.CompletionMessage)
	if err := r.persistAndPush(ctx, job); err != nil {
		logger.Error("failed to persist job completion", logging.Error(err))
		return err
	}
	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.Duration("job_duration", time.Since(start)),
	)
	return nil
}

func (r *Runner) failJob(ctx context.Context, logger *slog.Logger, job *jobs.Job, stageErr error) error {
	job.SetFailed(services.Describe(stageErr))

	logger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("error_message", job.ErrorMessage),
		logging.Error(stageErr),
	)
	if err := r.store.Update(ctx, job); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}
	r.bus.PublishJobUpdate(job)
	return stageErr
}

// persistAndPush writes the job's current state and fans the matching update
// out to the owner. The push is best-effort; persistence failures surface to
// the caller, delivery failures never do.
func (r *Runner) persistAndPush(ctx context.Context, job *jobs.Job) error {
	if err := r.store.Update(ctx, job); err != nil {
		return fmt.Errorf("persist job state: %w", err)
	}
	r.bus.PublishJobUpdate(job)
	return nil
}
