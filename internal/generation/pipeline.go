package generation

import (
	"context"
	"fmt"

	"videoai/internal/jobs"
	"videoai/internal/pipeline"
	"videoai/internal/services"
)

// Accepted narration length for a generated video, in seconds.
const (
	MinDurationSeconds = 5
	MaxDurationSeconds = 300
)

// Input is the validated request a generation job runs against.
type Input struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
	Voice    string `json:"voice,omitempty"`
}

type state struct {
	script   string
	voice    VoiceOver
	captions []Caption
	video    RenderedVideo
}

// NewPipeline builds the generation stage sequence for one job input.
// Progress checkpoints land at 20/40/60/80, with completion forcing 100.
func NewPipeline(input Input, collab Collaborators) pipeline.Pipeline {
	st := &state{}

	stages := []pipeline.Stage{
		{
			Name:     "write_script",
			Progress: 20,
			Message:  "writing script",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				script, err := collab.Scripts.GenerateScript(ctx, input.Prompt, input.Duration)
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "write_script", "generate", "", err)
				}
				st.script = script
				return "", nil
			},
		},
		{
			Name:     "synthesize_voice",
			Progress: 40,
			Message:  "generating voice-over",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				voice, err := collab.Voices.GenerateVoiceOver(ctx, st.script, input.Voice)
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "synthesize_voice", "synthesize", "", err)
				}
				st.voice = voice
				return fmt.Sprintf("voice-over ready (%.1fs)", voice.Duration), nil
			},
		},
		{
			Name:     "generate_captions",
			Progress: 60,
			Message:  "generating captions",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				captions, err := collab.Captions.GenerateCaptions(ctx, st.voice.AudioURL)
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "generate_captions", "transcribe", "", err)
				}
				st.captions = captions
				return fmt.Sprintf("generated %d caption lines", len(captions)), nil
			},
		},
		{
			Name:     "render_video",
			Progress: 80,
			Message:  "rendering video",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				video, err := collab.Renderer.RenderVideo(ctx, RenderRequest{
					Script:   st.script,
					AudioURL: st.voice.AudioURL,
					Captions: st.captions,
				})
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "render_video", "render", "", err)
				}
				st.video = video
				return "", nil
			},
		},
	}

	return pipeline.Pipeline{
		Kind:   jobs.KindGeneration,
		Stages: stages,
		Result: func() *jobs.Result {
			return &jobs.Result{Generation: &jobs.GenerationResult{
				VideoURL:     st.video.URL,
				ThumbnailURL: st.video.ThumbnailURL,
			}}
		},
		StartMessage:      "preparing generation",
		CompletionMessage: "video ready",
	}
}
