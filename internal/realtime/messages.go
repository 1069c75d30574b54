package realtime

import (
	"encoding/json"

	"videoai/internal/jobs"
)

// MessageType classifies push-channel messages in both directions.
type MessageType string

const (
	// MessageAuth is the client-to-server authentication handshake.
	MessageAuth MessageType = "auth"
	// MessageAuthSuccess acknowledges a successful handshake.
	MessageAuthSuccess MessageType = "auth_success"
	// MessageError reports a protocol or authentication problem.
	MessageError MessageType = "error"
	// MessageRenderUpdate carries generation job progress.
	MessageRenderUpdate MessageType = "render_update"
	// MessageSegmentationUpdate carries segmentation job progress.
	MessageSegmentationUpdate MessageType = "segmentation_update"
	// MessagePublishUpdate carries publishing job progress.
	MessagePublishUpdate MessageType = "publish_update"
)

// Message is the JSON envelope exchanged over a push channel.
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// Envelope is the inbound form of Message with the payload left raw so the
// handler can decode it per type.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AuthPayload is the payload of an auth message.
type AuthPayload struct {
	UserID string `json:"userId"`
}

// ErrorPayload is the payload of an error message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// JobUpdate is the payload of render_update, segmentation_update, and
// publish_update messages. Kind-specific fields are omitted when empty.
type JobUpdate struct {
	RequestID     string `json:"requestId,omitempty"`
	PublishID     string `json:"publishId,omitempty"`
	Status        string `json:"status"`
	Progress      *int   `json:"progress,omitempty"`
	Message       string `json:"message,omitempty"`
	ResultURL     string `json:"resultUrl,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
	SegmentCount  *int   `json:"segmentCount,omitempty"`
	SubtitleCount *int   `json:"subtitleCount,omitempty"`
	Platform      string `json:"platform,omitempty"`
	ExternalURL   string `json:"externalUrl,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// UpdateTypeForKind maps a job kind to its push message type.
func UpdateTypeForKind(kind jobs.Kind) MessageType {
	switch kind {
	case jobs.KindGeneration:
		return MessageRenderUpdate
	case jobs.KindSegmentation:
		return MessageSegmentationUpdate
	case jobs.KindPublishing:
		return MessagePublishUpdate
	default:
		return MessageError
	}
}

// UpdateForJob builds the push payload mirroring the fields that changed on
// the job record.
func UpdateForJob(job *jobs.Job) JobUpdate {
	update := JobUpdate{
		Status:       string(job.Status),
		Message:      job.StageMessage,
		ErrorMessage: job.ErrorMessage,
	}
	if job.Kind == jobs.KindPublishing {
		update.PublishID = job.ID
	} else {
		update.RequestID = job.ID
	}
	if !job.Status.IsTerminal() || job.Status == jobs.StatusCompleted {
		progress := job.Progress
		update.Progress = &progress
	}
	if job.Result != nil {
		if gen := job.Result.Generation; gen != nil {
			update.ResultURL = gen.VideoURL
			update.ThumbnailURL = gen.ThumbnailURL
		}
		if seg := job.Result.Segmentation; seg != nil {
			segments := seg.SegmentCount
			subtitles := seg.SubtitleCount
			update.SegmentCount = &segments
			update.SubtitleCount = &subtitles
		}
		if pub := job.Result.Publishing; pub != nil {
			update.Platform = pub.Platform
			update.ExternalURL = pub.ExternalURL
		}
	}
	return update
}
