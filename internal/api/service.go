package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"videoai/internal/generation"
	"videoai/internal/jobs"
	"videoai/internal/logging"
	"videoai/internal/pipeline"
	"videoai/internal/publishing"
	"videoai/internal/realtime"
	"videoai/internal/segmentation"
	"videoai/internal/services"
)

// Collaborators bundles the external-service dependencies every pipeline
// kind needs. The service holds them once and builds per-job pipelines on
// demand.
type Collaborators struct {
	Generation   generation.Collaborators
	Segmentation segmentation.Collaborators
	Publishing   publishing.Collaborators
}

// Service is the job submission boundary. Submit validates the request,
// persists a queued job, hands execution to the pool, and returns the job
// identifier without waiting for the pipeline.
type Service struct {
	store    *jobs.Store
	registry *realtime.Registry
	runner   *pipeline.Runner
	pool     *pipeline.Pool
	collab   Collaborators
	logger   *slog.Logger
}

// NewService constructs the submission service.
func NewService(store *jobs.Store, registry *realtime.Registry, runner *pipeline.Runner, pool *pipeline.Pool, collab Collaborators, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		registry: registry,
		runner:   runner,
		pool:     pool,
		collab:   collab,
		logger:   logging.NewComponentLogger(logger, "api"),
	}
}

// Submit validates the request, creates a queued job, and schedules its
// pipeline for detached execution. The returned identifier is usable for
// status reads immediately; rejected requests never create a job.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	ownerID := strings.TrimSpace(req.UserID)
	if ownerID == "" {
		return "", services.Wrap(services.ErrValidation, "submit", "validate", "userId is required", nil)
	}

	kind, ok := jobs.ParseKind(req.Kind)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "submit", "validate",
			fmt.Sprintf("unknown job kind %q", req.Kind), nil)
	}

	build, inputJSON, err := s.preparePipeline(kind, req.Input)
	if err != nil {
		return "", err
	}

	job := jobs.New(kind, ownerID, inputJSON)
	if err := s.store.Create(ctx, job); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job accepted",
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldOwnerID, job.OwnerID),
		logging.String(logging.FieldJobKind, string(job.Kind)),
		logging.String(logging.FieldEventType, "job_accepted"),
	)

	// Execution is detached from the request: the pipeline runs on its own
	// context so it survives the HTTP handler returning.
	s.pool.Submit(func() {
		if err := s.runner.Run(context.Background(), job, build()); err != nil {
			s.logger.Error("pipeline finished with error",
				logging.String(logging.FieldJobID, job.ID),
				logging.Error(err),
			)
		}
	})

	return job.ID, nil
}

// preparePipeline validates the kind-specific input and returns a builder
// producing the matching pipeline, plus the canonical input JSON persisted
// with the job.
func (s *Service) preparePipeline(kind jobs.Kind, raw json.RawMessage) (func() pipeline.Pipeline, string, error) {
	switch kind {
	case jobs.KindGeneration:
		input, err := decodeGenerationInput(raw)
		if err != nil {
			return nil, "", err
		}
		encoded, err := encodeInput(input)
		if err != nil {
			return nil, "", err
		}
		return func() pipeline.Pipeline {
			return generation.NewPipeline(input, s.collab.Generation)
		}, encoded, nil

	case jobs.KindSegmentation:
		input, err := decodeSegmentationInput(raw)
		if err != nil {
			return nil, "", err
		}
		encoded, err := encodeInput(input)
		if err != nil {
			return nil, "", err
		}
		return func() pipeline.Pipeline {
			return segmentation.NewPipeline(input, s.collab.Segmentation, s.logger)
		}, encoded, nil

	case jobs.KindPublishing:
		input, err := decodePublishingInput(raw)
		if err != nil {
			return nil, "", err
		}
		encoded, err := encodeInput(input)
		if err != nil {
			return nil, "", err
		}
		return func() pipeline.Pipeline {
			return publishing.NewPipeline(input, s.collab.Publishing)
		}, encoded, nil
	}
	return nil, "", services.Wrap(services.ErrValidation, "submit", "validate",
		fmt.Sprintf("unsupported job kind %q", kind), nil)
}

// GetJob returns the wire view of one job.
func (s *Service) GetJob(ctx context.Context, id string) (JobView, error) {
	job, err := s.store.GetByID(ctx, id)
	if err != nil {
		return JobView{}, err
	}
	return ViewForJob(job), nil
}

// ListJobs returns all jobs for one owner, or every job when ownerID is
// empty, newest first.
func (s *Service) ListJobs(ctx context.Context, ownerID string) ([]JobView, error) {
	var (
		records []*jobs.Job
		err     error
	)
	if strings.TrimSpace(ownerID) == "" {
		records, err = s.store.List(ctx)
	} else {
		records, err = s.store.ListByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}
	views := make([]JobView, 0, len(records))
	for _, record := range records {
		views = append(views, ViewForJob(record))
	}
	return views, nil
}

// Status summarizes store health and live push connections.
func (s *Service) Status(ctx context.Context) (StatusResponse, error) {
	health, err := s.store.Health(ctx)
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{
		Jobs:        health,
		Connections: s.registry.ConnectionCount(),
	}, nil
}

func decodeGenerationInput(raw json.RawMessage) (generation.Input, error) {
	var input generation.Input
	if err := decodeInput(raw, &input); err != nil {
		return generation.Input{}, err
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return generation.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			"generation prompt is required", nil)
	}
	if input.Duration < generation.MinDurationSeconds || input.Duration > generation.MaxDurationSeconds {
		return generation.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			fmt.Sprintf("generation duration must be between %d and %d seconds",
				generation.MinDurationSeconds, generation.MaxDurationSeconds), nil)
	}
	return input, nil
}

func decodeSegmentationInput(raw json.RawMessage) (segmentation.Input, error) {
	var input segmentation.Input
	if err := decodeInput(raw, &input); err != nil {
		return segmentation.Input{}, err
	}
	if strings.TrimSpace(input.MediaPath) == "" {
		return segmentation.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			"segmentation mediaPath is required", nil)
	}
	if input.Duration <= 0 {
		return segmentation.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			"segmentation duration must be positive", nil)
	}
	return input, nil
}

func decodePublishingInput(raw json.RawMessage) (publishing.Input, error) {
	var input publishing.Input
	if err := decodeInput(raw, &input); err != nil {
		return publishing.Input{}, err
	}
	if strings.TrimSpace(input.AccountID) == "" {
		return publishing.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			"publishing accountId is required", nil)
	}
	if strings.TrimSpace(input.Platform) == "" {
		return publishing.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			"publishing platform is required", nil)
	}
	if strings.TrimSpace(input.Title) == "" {
		return publishing.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			"publishing title is required", nil)
	}
	parsed, err := url.Parse(input.VideoURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return publishing.Input{}, services.Wrap(services.ErrValidation, "submit", "validate",
			fmt.Sprintf("publishing videoUrl %q is not a valid URL", input.VideoURL), nil)
	}
	return input, nil
}

func decodeInput(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return services.Wrap(services.ErrValidation, "submit", "validate", "input payload is required", nil)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return services.Wrap(services.ErrValidation, "submit", "decode", "input payload is malformed", err)
	}
	return nil
}

func encodeInput(input any) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode input: %w", err)
	}
	return string(encoded), nil
}
