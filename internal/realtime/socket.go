package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"videoai/internal/logging"
)

// UserDirectory resolves owner identifiers during the auth handshake. It is
// an external collaborator; the engine only needs existence checks.
type UserDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// SocketOptions tunes the websocket transport.
type SocketOptions struct {
	AllowedOrigins  []string
	WriteTimeout    time.Duration
	MaxMessageBytes int64
}

// SocketHandler upgrades HTTP requests into push channels and runs the
// authentication handshake before registering them.
type SocketHandler struct {
	registry     *Registry
	users        UserDirectory
	logger       *slog.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration

	maxMessageBytes int64
}

// NewSocketHandler builds the websocket endpoint handler.
func NewSocketHandler(registry *Registry, users UserDirectory, logger *slog.Logger, opts SocketOptions) *SocketHandler {
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	maxBytes := opts.MaxMessageBytes
	if maxBytes <= 0 {
		maxBytes = 32 * 1024
	}
	handler := &SocketHandler{
		registry:     registry,
		users:        users,
		logger:       logging.NewComponentLogger(logger, "realtime-socket"),
		writeTimeout: writeTimeout,
	}
	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	handler.maxMessageBytes = maxBytes
	return handler
}

func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", logging.Error(err))
		return
	}
	conn.SetReadLimit(h.maxMessageBytes)

	channel := newWSChannel(conn, h.writeTimeout)
	// The request context dies when ServeHTTP returns; the session outlives it.
	go h.runSession(context.Background(), channel)
}

// runSession reads messages until the connection drops. The channel joins
// the registry only after a successful auth handshake and leaves it on
// disconnect.
func (h *SocketHandler) runSession(ctx context.Context, channel *wsChannel) {
	var userID string
	defer func() {
		if userID != "" {
			h.registry.Unregister(userID, channel)
			h.logger.Debug("channel unregistered", logging.String(logging.FieldOwnerID, userID))
		}
		channel.Close()
	}()

	for {
		_, data, err := channel.conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			h.sendError(channel, "malformed message")
			continue
		}

		switch envelope.Type {
		case MessageAuth:
			resolved, ok := h.authenticate(ctx, channel, envelope.Payload)
			if !ok {
				continue
			}
			if userID == "" {
				userID = resolved
				h.registry.Register(userID, channel)
				h.logger.Debug("channel registered", logging.String(logging.FieldOwnerID, userID))
			}
			_ = channel.Send(Message{Type: MessageAuthSuccess, Payload: AuthPayload{UserID: resolved}})
		default:
			if userID == "" {
				h.sendError(channel, "authentication required")
				continue
			}
			h.sendError(channel, "unsupported message type")
		}
	}
}

func (h *SocketHandler) authenticate(ctx context.Context, channel *wsChannel, raw json.RawMessage) (string, bool) {
	var payload AuthPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(channel, "malformed auth payload")
		return "", false
	}
	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		h.sendError(channel, "userId is required")
		return "", false
	}
	exists, err := h.users.UserExists(ctx, userID)
	if err != nil {
		h.logger.Warn("user lookup failed during handshake",
			logging.String(logging.FieldOwnerID, userID),
			logging.Error(err),
		)
		h.sendError(channel, "authentication unavailable")
		return "", false
	}
	if !exists {
		h.sendError(channel, "unknown user")
		return "", false
	}
	return userID, true
}

func (h *SocketHandler) sendError(channel *wsChannel, message string) {
	_ = channel.Send(Message{Type: MessageError, Payload: ErrorPayload{Message: message}})
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		// Same-host deployments; the default gorilla check rejects
		// cross-origin requests.
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.ToLower(strings.TrimSpace(origin))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := strings.ToLower(strings.TrimSpace(r.Header.Get("Origin")))
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// wsChannel adapts a websocket connection to the Channel interface. Gorilla
// connections allow a single concurrent writer, so Send serializes writes
// under a mutex with a deadline.
type wsChannel struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func newWSChannel(conn *websocket.Conn, writeTimeout time.Duration) *wsChannel {
	return &wsChannel{conn: conn, writeTimeout: writeTimeout}
}

func (c *wsChannel) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *wsChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.conn.Close()
}
