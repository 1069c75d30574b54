package segmentation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"videoai/internal/jobs"
	"videoai/internal/pipeline"
	"videoai/internal/realtime"
	"videoai/internal/segmentation"
	"videoai/internal/services"
	"videoai/internal/testsupport"
)

type fakeAnalyzer struct {
	plan            segmentation.Plan
	planErr         error
	frameErr        error
	failTranscripts map[int]bool

	extracted       []float64
	transcribeCalls int
}

func (f *fakeAnalyzer) ExtractFrame(_ context.Context, _ string, timestamp float64) (string, error) {
	if f.frameErr != nil {
		return "", f.frameErr
	}
	f.extracted = append(f.extracted, timestamp)
	return fmt.Sprintf("/tmp/frame-%.1f.jpg", timestamp), nil
}

func (f *fakeAnalyzer) AnalyzeFrames(context.Context, []string, float64) (segmentation.Plan, error) {
	return f.plan, f.planErr
}

func (f *fakeAnalyzer) TranscribeSegment(_ context.Context, _ string, start, end float64) (segmentation.Subtitle, error) {
	index := f.transcribeCalls
	f.transcribeCalls++
	if f.failTranscripts[index] {
		return segmentation.Subtitle{}, errors.New("transcription timeout")
	}
	return segmentation.Subtitle{Start: start, End: end, Text: fmt.Sprintf("segment %d", index)}, nil
}

func (f *fakeAnalyzer) collaborators() segmentation.Collaborators {
	return segmentation.Collaborators{Frames: f, Scenes: f, Transcriber: f}
}

func segments(n int) []segmentation.Segment {
	out := make([]segmentation.Segment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, segmentation.Segment{
			Start:       float64(i * 10),
			End:         float64(i*10 + 10),
			Description: fmt.Sprintf("scene %d", i),
		})
	}
	return out
}

func runSegmentation(t *testing.T, store *jobs.Store, job *jobs.Job, input segmentation.Input, collab segmentation.Collaborators) error {
	t.Helper()
	runner := pipeline.NewRunner(store, realtime.NewBus(realtime.NewRegistry(), nil), nil)
	return runner.Run(context.Background(), job, segmentation.NewPipeline(input, collab, nil))
}

func TestSegmentationPipelineSuccess(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	analyzer := &fakeAnalyzer{plan: segmentation.Plan{Segments: segments(3), Transcript: "full text"}}

	job := testsupport.NewJob(t, store, jobs.KindSegmentation, "user-1")
	input := segmentation.Input{MediaPath: "/media/clip.mp4", Duration: 20}
	if err := runSegmentation(t, store, job, input, analyzer.collaborators()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// duration 20 at interval 2 samples ten frames.
	if len(analyzer.extracted) != 10 {
		t.Errorf("extracted %d frames, want 10", len(analyzer.extracted))
	}

	stored, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != jobs.StatusCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
	result := stored.Result.Segmentation
	if result.SegmentCount != 3 || result.SubtitleCount != 3 {
		t.Errorf("counts = %d/%d, want 3/3", result.SegmentCount, result.SubtitleCount)
	}
	if result.Transcript != "full text" {
		t.Errorf("transcript = %q", result.Transcript)
	}
}

func TestSegmentationToleratesSubtitleFailures(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	analyzer := &fakeAnalyzer{
		plan:            segmentation.Plan{Segments: segments(5)},
		failTranscripts: map[int]bool{2: true},
	}

	job := testsupport.NewJob(t, store, jobs.KindSegmentation, "user-1")
	input := segmentation.Input{MediaPath: "/media/clip.mp4", Duration: 50}
	if err := runSegmentation(t, store, job, input, analyzer.collaborators()); err != nil {
		t.Fatalf("one bad segment must not fail the job: %v", err)
	}

	stored, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != jobs.StatusCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
	result := stored.Result.Segmentation
	if result.SegmentCount != 5 {
		t.Errorf("segment count = %d, want 5", result.SegmentCount)
	}
	if result.SubtitleCount != 4 {
		t.Errorf("subtitle count = %d, want 4 (one segment skipped)", result.SubtitleCount)
	}
	// Remaining segments are still attempted after the failure.
	if analyzer.transcribeCalls != 5 {
		t.Errorf("transcribe calls = %d, want 5", analyzer.transcribeCalls)
	}
}

func TestSegmentationFailsWhenExtractionFails(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	analyzer := &fakeAnalyzer{frameErr: errors.New("decoder crashed")}

	job := testsupport.NewJob(t, store, jobs.KindSegmentation, "user-1")
	input := segmentation.Input{MediaPath: "/media/clip.mp4", Duration: 20}
	err := runSegmentation(t, store, job, input, analyzer.collaborators())
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}

	stored, getErr := store.GetByID(context.Background(), job.ID)
	if getErr != nil {
		t.Fatalf("GetByID: %v", getErr)
	}
	if stored.Status != jobs.StatusFailed {
		t.Errorf("status = %s, want failed", stored.Status)
	}
}
