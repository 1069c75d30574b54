package realtime

import (
	"testing"

	"videoai/internal/jobs"
)

func TestUpdateTypeForKind(t *testing.T) {
	tests := []struct {
		kind     jobs.Kind
		expected MessageType
	}{
		{jobs.KindGeneration, MessageRenderUpdate},
		{jobs.KindSegmentation, MessageSegmentationUpdate},
		{jobs.KindPublishing, MessagePublishUpdate},
		{jobs.Kind("bogus"), MessageError},
	}
	for _, tt := range tests {
		if got := UpdateTypeForKind(tt.kind); got != tt.expected {
			t.Errorf("UpdateTypeForKind(%s) = %s, want %s", tt.kind, got, tt.expected)
		}
	}
}

func TestUpdateForJobProgress(t *testing.T) {
	job := jobs.New(jobs.KindGeneration, "user-1", "{}")
	job.SetProcessing("writing script")
	job.SetProgress(20, "script done")

	update := UpdateForJob(job)
	if update.RequestID != job.ID {
		t.Errorf("request id = %q, want %q", update.RequestID, job.ID)
	}
	if update.Status != "processing" {
		t.Errorf("status = %q, want processing", update.Status)
	}
	if update.Progress == nil || *update.Progress != 20 {
		t.Errorf("progress = %v, want 20", update.Progress)
	}
}

func TestUpdateForJobCompleted(t *testing.T) {
	job := jobs.New(jobs.KindGeneration, "user-1", "{}")
	job.SetCompleted(&jobs.Result{Generation: &jobs.GenerationResult{
		VideoURL:     "https://cdn.test/v.mp4",
		ThumbnailURL: "https://cdn.test/t.jpg",
	}}, "video ready")

	update := UpdateForJob(job)
	if update.Progress == nil || *update.Progress != 100 {
		t.Errorf("progress = %v, want 100", update.Progress)
	}
	if update.ResultURL != "https://cdn.test/v.mp4" {
		t.Errorf("result url = %q", update.ResultURL)
	}
	if update.ThumbnailURL != "https://cdn.test/t.jpg" {
		t.Errorf("thumbnail url = %q", update.ThumbnailURL)
	}
}

func TestUpdateForJobFailed(t *testing.T) {
	job := jobs.New(jobs.KindSegmentation, "user-1", "{}")
	job.SetProcessing("sampling")
	job.SetFailed("frame extraction failed")

	update := UpdateForJob(job)
	if update.Status != "failed" {
		t.Errorf("status = %q, want failed", update.Status)
	}
	if update.Progress != nil {
		t.Errorf("failed update should omit progress, got %v", *update.Progress)
	}
	if update.ErrorMessage != "frame extraction failed" {
		t.Errorf("error message = %q", update.ErrorMessage)
	}
}

func TestUpdateForJobPublishing(t *testing.T) {
	job := jobs.New(jobs.KindPublishing, "user-1", "{}")
	job.SetCompleted(&jobs.Result{Publishing: &jobs.PublishingResult{
		Platform:    "youtube",
		ExternalID:  "yt-123",
		ExternalURL: "https://youtube.test/watch?v=123",
	}}, "published")

	update := UpdateForJob(job)
	if update.PublishID != job.ID {
		t.Errorf("publish id = %q, want %q", update.PublishID, job.ID)
	}
	if update.RequestID != "" {
		t.Errorf("publishing update must use publishId, got requestId %q", update.RequestID)
	}
	if update.Platform != "youtube" || update.ExternalURL == "" {
		t.Errorf("unexpected publishing payload: %+v", update)
	}
}
