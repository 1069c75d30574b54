package jobs

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies which pipeline a job runs.
type Kind string

const (
	KindGeneration   Kind = "generation"
	KindSegmentation Kind = "segmentation"
	KindPublishing   Kind = "publishing"
)

var allKinds = []Kind{KindGeneration, KindSegmentation, KindPublishing}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range allKinds {
		if kind == normalized {
			return kind, true
		}
	}
	return "", false
}

// Status represents the lifecycle of a job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{StatusQueued, StatusProcessing, StatusCompleted, StatusFailed}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether a status is absorbing.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// GenerationResult is the completion payload of a generation job.
type GenerationResult struct {
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// SegmentationResult is the completion payload of a segmentation job.
type SegmentationResult struct {
	SegmentCount  int    `json:"segmentCount"`
	SubtitleCount int    `json:"subtitleCount"`
	Transcript    string `json:"transcript,omitempty"`
}

// PublishingResult is the completion payload of a publishing job.
type PublishingResult struct {
	Platform    string `json:"platform"`
	ExternalID  string `json:"externalId"`
	ExternalURL string `json:"externalUrl,omitempty"`
}

// Result is the kind-tagged completion payload. Exactly one branch is set on
// a completed job; all branches are nil otherwise.
type Result struct {
	Generation   *GenerationResult   `json:"generation,omitempty"`
	Segmentation *SegmentationResult `json:"segmentation,omitempty"`
	Publishing   *PublishingResult   `json:"publishing,omitempty"`
}

// Job represents one submitted long-running request persisted in SQLite.
type Job struct {
	ID           string
	OwnerID      string
	Kind         Kind
	Status       Status
	Progress     int
	StageMessage string
	InputJSON    string
	Result       *Result
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// New builds a queued job with a fresh identifier.
func New(kind Kind, ownerID, inputJSON string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Kind:      kind,
		Status:    StatusQueued,
		InputJSON: inputJSON,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal reports whether the job has reached an absorbing state.
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// SetProcessing moves the job into processing while holding progress at its
// last recorded value.
func (j *Job) SetProcessing(message string) {
	j.Status = StatusProcessing
	if message != "" {
		j.StageMessage = message
	}
	j.ErrorMessage = ""
}

// SetProgress records a stage boundary. Progress never decreases.
func (j *Job) SetProgress(progress int, message string) {
	if progress > j.Progress {
		j.Progress = progress
	}
	j.StageMessage = message
}

// SetCompleted marks the job successful, forcing progress to 100 and stamping
// the terminal timestamp exactly once.
func (j *Job) SetCompleted(result *Result, message string) {
	j.Status = StatusCompleted
	j.Progress = 100
	j.StageMessage = message
	j.Result = result
	j.ErrorMessage = ""
	if j.CompletedAt == nil {
		now := time.Now().UTC()
		j.CompletedAt = &now
	}
}

// SetFailed marks the job failed with a human-readable message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.StageMessage = "failed"
	j.ErrorMessage = message
	if j.CompletedAt == nil {
		now := time.Now().UTC()
		j.CompletedAt = &now
	}
}

// HealthSummary describes aggregated job counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Queued     int
	Processing int
	Completed  int
	Failed     int
}
