package segmentation

import (
	"context"
	"fmt"
	"log/slog"

	"videoai/internal/jobs"
	"videoai/internal/logging"
	"videoai/internal/pipeline"
	"videoai/internal/services"
)

// Input is the validated request a segmentation job runs against.
type Input struct {
	MediaPath string  `json:"mediaPath"`
	Duration  float64 `json:"duration"`
}

type state struct {
	frames    []string
	plan      Plan
	subtitles []Subtitle
}

// NewPipeline builds the segmentation stage sequence for one job input.
func NewPipeline(input Input, collab Collaborators, logger *slog.Logger) pipeline.Pipeline {
	logger = logging.NewComponentLogger(logger, "segmentation")
	st := &state{}

	stages := []pipeline.Stage{
		{
			Name:     "sample_frames",
			Progress: 25,
			Message:  "sampling frames",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				timestamps := PlanSamples(input.Duration)
				if len(timestamps) == 0 {
					return "", services.Wrap(services.ErrValidation, "sample_frames", "plan", "clip duration yields no samples", nil)
				}
				for _, ts := range timestamps {
					frame, err := collab.Frames.ExtractFrame(ctx, input.MediaPath, ts)
					if err != nil {
						return "", services.Wrap(services.ErrExternalService, "sample_frames", "extract",
							fmt.Sprintf("frame at %.1fs", ts), err)
					}
					st.frames = append(st.frames, frame)
				}
				return fmt.Sprintf("sampled %d frames", len(st.frames)), nil
			},
		},
		{
			Name:     "analyze_scenes",
			Progress: 55,
			Message:  "analyzing scenes",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				plan, err := collab.Scenes.AnalyzeFrames(ctx, st.frames, input.Duration)
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "analyze_scenes", "analyze", "", err)
				}
				st.plan = plan
				return fmt.Sprintf("identified %d segments", len(plan.Segments)), nil
			},
		},
		{
			Name:     "generate_subtitles",
			Progress: 90,
			Message:  "generating subtitles",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				for i, segment := range st.plan.Segments {
					subtitle, err := collab.Transcriber.TranscribeSegment(ctx, input.MediaPath, segment.Start, segment.End)
					if err != nil {
						// One bad segment never sinks the job.
						logging.WithContext(ctx, logger).Warn("subtitle generation failed for segment",
							logging.Int("segment_index", i),
							logging.Float64("segment_start", segment.Start),
							logging.Float64("segment_end", segment.End),
							logging.String(logging.FieldEventType, "segment_subtitle_failed"),
							logging.String(logging.FieldErrorHint, "segment is skipped; re-run segmentation to retry"),
							logging.Error(err),
						)
						continue
					}
					st.subtitles = append(st.subtitles, subtitle)
				}
				return fmt.Sprintf("generated subtitles for %d of %d segments",
					len(st.subtitles), len(st.plan.Segments)), nil
			},
		},
	}

	return pipeline.Pipeline{
		Kind:   jobs.KindSegmentation,
		Stages: stages,
		Result: func() *jobs.Result {
			return &jobs.Result{Segmentation: &jobs.SegmentationResult{
				SegmentCount:  len(st.plan.Segments),
				SubtitleCount: len(st.subtitles),
				Transcript:    st.plan.Transcript,
			}}
		},
		StartMessage:      "preparing clip analysis",
		CompletionMessage: "segmentation complete",
	}
}
