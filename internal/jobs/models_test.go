package jobs

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
		ok       bool
	}{
		{"generation", KindGeneration, true},
		{"Segmentation", KindSegmentation, true},
		{" publishing ", KindPublishing, true},
		{"render", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		kind, ok := ParseKind(tt.input)
		if ok != tt.ok || kind != tt.expected {
			t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.input, kind, ok, tt.expected, tt.ok)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		ok       bool
	}{
		{"queued", StatusQueued, true},
		{"PROCESSING", StatusProcessing, true},
		{"completed", StatusCompleted, true},
		{"failed", StatusFailed, true},
		{"done", "", false},
	}
	for _, tt := range tests {
		status, ok := ParseStatus(tt.input)
		if ok != tt.ok || status != tt.expected {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.input, status, ok, tt.expected, tt.ok)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusQueued.IsTerminal() || StatusProcessing.IsTerminal() {
		t.Error("queued/processing must not be terminal")
	}
	if !StatusCompleted.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Error("completed/failed must be terminal")
	}
}

func TestProgressNeverDecreases(t *testing.T) {
	job := New(KindGeneration, "user-1", "{}")
	job.SetProcessing("starting")

	job.SetProgress(40, "voice")
	if job.Progress != 40 {
		t.Fatalf("progress = %d, want 40", job.Progress)
	}

	// A stale lower checkpoint keeps the message but not the regression.
	job.SetProgress(20, "stale")
	if job.Progress != 40 {
		t.Errorf("progress regressed to %d", job.Progress)
	}
	if job.StageMessage != "stale" {
		t.Errorf("stage message = %q, want stale", job.StageMessage)
	}

	job.SetProgress(80, "render")
	if job.Progress != 80 {
		t.Errorf("progress = %d, want 80", job.Progress)
	}
}

func TestSetProcessingHoldsProgress(t *testing.T) {
	job := New(KindSegmentation, "user-1", "{}")
	job.SetProgress(25, "frames")
	job.SetProcessing("resuming")
	if job.Progress != 25 {
		t.Errorf("progress = %d, want 25", job.Progress)
	}
	if job.Status != StatusProcessing {
		t.Errorf("status = %s, want processing", job.Status)
	}
}

func TestSetCompletedForcesFullProgress(t *testing.T) {
	job := New(KindGeneration, "user-1", "{}")
	job.SetProcessing("starting")
	job.SetProgress(80, "render")

	job.SetCompleted(&Result{Generation: &GenerationResult{VideoURL: "u"}}, "done")
	if job.Progress != 100 {
		t.Errorf("progress = %d, want 100", job.Progress)
	}
	if job.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}

	// The terminal timestamp is stamped exactly once.
	first := *job.CompletedAt
	job.SetCompleted(job.Result, "done again")
	if !job.CompletedAt.Equal(first) {
		t.Error("completion timestamp changed on repeat call")
	}
}

func TestSetFailedRecordsMessage(t *testing.T) {
	job := New(KindPublishing, "user-1", "{}")
	job.SetProcessing("starting")
	job.SetProgress(30, "verify")
	job.SetFailed("account is not verified")

	if job.Status != StatusFailed {
		t.Errorf("status = %s, want failed", job.Status)
	}
	if job.ErrorMessage != "account is not verified" {
		t.Errorf("error message = %q", job.ErrorMessage)
	}
	if job.Progress != 30 {
		t.Errorf("progress = %d, failure must not rewind progress", job.Progress)
	}
	if job.CompletedAt == nil {
		t.Error("expected terminal timestamp")
	}
}
