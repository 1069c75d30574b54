package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type fakeDirectory struct {
	users map[string]bool
	err   error
}

func (d *fakeDirectory) UserExists(_ context.Context, userID string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.users[userID], nil
}

type socketFixture struct {
	registry *Registry
	server   *httptest.Server
}

func newSocketFixture(t *testing.T, directory UserDirectory) *socketFixture {
	t.Helper()
	registry := NewRegistry()
	handler := NewSocketHandler(registry, directory, nil, SocketOptions{WriteTimeout: time.Second})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &socketFixture{registry: registry, server: server}
}

func (f *socketFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType MessageType, payload any) {
	t.Helper()
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := conn.WriteJSON(Envelope{Type: msgType, Payload: encoded}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope Envelope
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("read: %v", err)
	}
	return envelope
}

func waitForConnections(t *testing.T, registry *Registry, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if registry.ConnectionCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("connection count = %d, want %d", registry.ConnectionCount(), want)
}

func TestSocketAuthHandshake(t *testing.T) {
	f := newSocketFixture(t, &fakeDirectory{users: map[string]bool{"user-1": true}})
	conn := f.dial(t)

	send(t, conn, MessageAuth, AuthPayload{UserID: "user-1"})
	reply := read(t, conn)
	if reply.Type != MessageAuthSuccess {
		t.Fatalf("reply type = %s, want auth_success", reply.Type)
	}
	var payload AuthPayload
	if err := json.Unmarshal(reply.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.UserID != "user-1" {
		t.Errorf("payload user = %q", payload.UserID)
	}

	waitForConnections(t, f.registry, 1)
	if got := len(f.registry.ChannelsFor("user-1")); got != 1 {
		t.Errorf("user-1 channels = %d, want 1", got)
	}
}

func TestSocketRequiresAuthFirst(t *testing.T) {
	f := newSocketFixture(t, &fakeDirectory{users: map[string]bool{"user-1": true}})
	conn := f.dial(t)

	// Any non-auth message before the handshake draws an error and the
	// channel stays unregistered.
	send(t, conn, MessageRenderUpdate, map[string]string{"requestId": "x"})
	reply := read(t, conn)
	if reply.Type != MessageError {
		t.Fatalf("reply type = %s, want error", reply.Type)
	}
	var payload ErrorPayload
	if err := json.Unmarshal(reply.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Message != "authentication required" {
		t.Errorf("error message = %q", payload.Message)
	}
	if got := f.registry.ConnectionCount(); got != 0 {
		t.Errorf("connection count = %d, want 0", got)
	}

	// The connection itself survives and can still authenticate.
	send(t, conn, MessageAuth, AuthPayload{UserID: "user-1"})
	if reply := read(t, conn); reply.Type != MessageAuthSuccess {
		t.Fatalf("reply type = %s, want auth_success", reply.Type)
	}
	waitForConnections(t, f.registry, 1)
}

func TestSocketRejectsUnknownUser(t *testing.T) {
	f := newSocketFixture(t, &fakeDirectory{users: map[string]bool{}})
	conn := f.dial(t)

	send(t, conn, MessageAuth, AuthPayload{UserID: "ghost"})
	reply := read(t, conn)
	if reply.Type != MessageError {
		t.Fatalf("reply type = %s, want error", reply.Type)
	}
	var payload ErrorPayload
	if err := json.Unmarshal(reply.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Message != "unknown user" {
		t.Errorf("error message = %q", payload.Message)
	}
	if got := f.registry.ConnectionCount(); got != 0 {
		t.Errorf("connection count = %d, want 0", got)
	}
}

func TestSocketDirectoryFailure(t *testing.T) {
	f := newSocketFixture(t, &fakeDirectory{err: errors.New("directory down")})
	conn := f.dial(t)

	send(t, conn, MessageAuth, AuthPayload{UserID: "user-1"})
	reply := read(t, conn)
	if reply.Type != MessageError {
		t.Fatalf("reply type = %s, want error", reply.Type)
	}
	if got := f.registry.ConnectionCount(); got != 0 {
		t.Errorf("connection count = %d, want 0", got)
	}
}

func TestSocketUnregistersOnDisconnect(t *testing.T) {
	f := newSocketFixture(t, &fakeDirectory{users: map[string]bool{"user-1": true}})
	conn := f.dial(t)

	send(t, conn, MessageAuth, AuthPayload{UserID: "user-1"})
	if reply := read(t, conn); reply.Type != MessageAuthSuccess {
		t.Fatalf("reply type = %s, want auth_success", reply.Type)
	}
	waitForConnections(t, f.registry, 1)

	conn.Close()
	waitForConnections(t, f.registry, 0)
}

func TestSocketReceivesPublishedUpdates(t *testing.T) {
	f := newSocketFixture(t, &fakeDirectory{users: map[string]bool{"user-1": true}})
	conn := f.dial(t)

	send(t, conn, MessageAuth, AuthPayload{UserID: "user-1"})
	if reply := read(t, conn); reply.Type != MessageAuthSuccess {
		t.Fatalf("reply type = %s, want auth_success", reply.Type)
	}
	waitForConnections(t, f.registry, 1)

	bus := NewBus(f.registry, nil)
	progress := 40
	delivered := bus.Publish("user-1", Message{
		Type:    MessageRenderUpdate,
		Payload: JobUpdate{RequestID: "job-1", Status: "processing", Progress: &progress},
	})
	if delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}

	reply := read(t, conn)
	if reply.Type != MessageRenderUpdate {
		t.Fatalf("reply type = %s, want render_update", reply.Type)
	}
	var update JobUpdate
	if err := json.Unmarshal(reply.Payload, &update); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if update.RequestID != "job-1" || update.Progress == nil || *update.Progress != 40 {
		t.Errorf("unexpected update: %+v", update)
	}
}
