package realtime

import (
	"log/slog"

	"videoai/internal/jobs"
	"videoai/internal/logging"
)

// Bus fans typed events out to every channel a user currently holds.
// Delivery is best-effort: transport failures are logged and swallowed, and
// a failure on one channel never affects the others.
type Bus struct {
	registry *Registry
	logger   *slog.Logger
}

// NewBus builds a bus over the given registry.
func NewBus(registry *Registry, logger *slog.Logger) *Bus {
	return &Bus{
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "realtime-bus"),
	}
}

// Publish pushes a message to all of ownerID's channels. It reports how many
// channels accepted the message; zero simply means the owner has no live
// connections right now.
func (b *Bus) Publish(ownerID string, msg Message) int {
	channels := b.registry.ChannelsFor(ownerID)
	delivered := 0
	for _, ch := range channels {
		if err := ch.Send(msg); err != nil {
			b.logger.Debug("push delivery failed",
				logging.String(logging.FieldOwnerID, ownerID),
				logging.String("message_type", string(msg.Type)),
				logging.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

// PublishJobUpdate pushes the state of job to its owner using the message
// type matching the job's kind.
func (b *Bus) PublishJobUpdate(job *jobs.Job) int {
	return b.Publish(job.OwnerID, Message{
		Type:    UpdateTypeForKind(job.Kind),
		Payload: UpdateForJob(job),
	})
}
