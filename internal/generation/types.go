package generation

import "context"

// VoiceOver is the synthesized narration for a script.
type VoiceOver struct {
	AudioURL string  `json:"audioUrl"`
	Duration float64 `json:"duration"`
}

// Caption is one timed caption line.
type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// RenderRequest carries everything the renderer needs for the final video.
type RenderRequest struct {
	Script   string    `json:"script"`
	AudioURL string    `json:"audioUrl"`
	Captions []Caption `json:"captions"`
}

// RenderedVideo is the finished asset.
type RenderedVideo struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail"`
}

// ScriptWriter produces a narration script for a prompt.
type ScriptWriter interface {
	GenerateScript(ctx context.Context, prompt string, duration int) (string, error)
}

// VoiceSynthesizer turns a script into narration audio.
type VoiceSynthesizer interface {
	GenerateVoiceOver(ctx context.Context, text, voice string) (VoiceOver, error)
}

// CaptionGenerator derives timed captions from narration audio.
type CaptionGenerator interface {
	GenerateCaptions(ctx context.Context, audioURL string) ([]Caption, error)
}

// VideoRenderer composes the final video from script, audio, and captions.
type VideoRenderer interface {
	RenderVideo(ctx context.Context, req RenderRequest) (RenderedVideo, error)
}

// Collaborators bundles the external services the pipeline depends on.
type Collaborators struct {
	Scripts  ScriptWriter
	Voices   VoiceSynthesizer
	Captions CaptionGenerator
	Renderer VideoRenderer
}
