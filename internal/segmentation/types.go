package segmentation

import "context"

// Segment is one scene of the analyzed clip.
type Segment struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Description string  `json:"description"`
}

// Plan is the ordered scene breakdown produced by the analysis collaborator.
// Segments need not cover the full clip; quiet stretches may be dropped.
type Plan struct {
	Segments   []Segment `json:"segments"`
	Transcript string    `json:"transcript,omitempty"`
}

// Subtitle is the transcription of one segment's audio slice.
type Subtitle struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// FrameExtractor pulls a single frame from the clip at a timestamp.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, mediaPath string, timestamp float64) (string, error)
}

// SceneAnalyzer turns sampled frames into a scene Plan.
type SceneAnalyzer interface {
	AnalyzeFrames(ctx context.Context, frames []string, duration float64) (Plan, error)
}

// Transcriber generates subtitles for one segment's audio slice.
type Transcriber interface {
	TranscribeSegment(ctx context.Context, mediaPath string, start, end float64) (Subtitle, error)
}

// Collaborators bundles the external services the pipeline depends on.
type Collaborators struct {
	Frames      FrameExtractor
	Scenes      SceneAnalyzer
	Transcriber Transcriber
}
