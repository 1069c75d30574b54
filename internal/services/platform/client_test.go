package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"videoai/internal/publishing"
)

func TestClientAccountLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/accounts/acct-1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(publishing.Account{
			ID:       "acct-1",
			Platform: "youtube",
			Handle:   "@clips",
			Active:   true,
			Verified: true,
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	account, err := client.Account(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("Account returned error: %v", err)
	}
	if account.Platform != "youtube" || !account.Active || !account.Verified {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestClientValidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/accounts/acct-1/token" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok-123"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	token, err := client.ValidToken(context.Background(), publishing.Account{ID: "acct-1"})
	if err != nil {
		t.Fatalf("ValidToken returned error: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestClientValidTokenEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.ValidToken(context.Background(), publishing.Account{ID: "acct-1"}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestClientUserExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/users/user-1":
			w.WriteHeader(http.StatusOK)
		case "/v1/users/ghost":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	exists, err := client.UserExists(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("UserExists returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected user-1 to exist")
	}

	// A 404 means unknown user, not a transport failure.
	exists, err = client.UserExists(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("UserExists returned error for 404: %v", err)
	}
	if exists {
		t.Fatal("expected ghost to be unknown")
	}

	if _, err := client.UserExists(context.Background(), "broken"); err == nil {
		t.Fatal("expected error for 500")
	}

	exists, err = client.UserExists(context.Background(), "  ")
	if err != nil || exists {
		t.Fatalf("blank user id: exists=%v err=%v", exists, err)
	}
}

func TestClientPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/publications" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["accountId"] != "acct-1" || req["platform"] != "youtube" {
			t.Fatalf("unexpected payload: %v", req)
		}
		if req["accessToken"] != "tok-123" {
			t.Fatalf("expected access token in payload, got %v", req["accessToken"])
		}
		_ = json.NewEncoder(w).Encode(publishing.Receipt{
			ExternalID:  "yt-789",
			ExternalURL: "https://youtube.test/watch?v=yt-789",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	receipt, err := client.Publish(context.Background(), publishing.PublishRequest{
		Account:     publishing.Account{ID: "acct-1", Platform: "youtube"},
		AccessToken: "tok-123",
		VideoURL:    "https://cdn.test/v.mp4",
		Title:       "demo",
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if receipt.ExternalID != "yt-789" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestClientPublishRejectsEmptyExternalID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(publishing.Receipt{})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Publish(context.Background(), publishing.PublishRequest{
		Account: publishing.Account{ID: "acct-1", Platform: "youtube"},
	})
	if err == nil {
		t.Fatal("expected error for empty external id")
	}
}

func TestCollaboratorsRegisterDefaultPlatforms(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://platform.test"})
	collab := client.Collaborators()
	if collab.Accounts == nil || collab.Tokens == nil || collab.Publishers == nil {
		t.Fatal("expected fully wired collaborators")
	}
	for _, name := range DefaultPlatforms {
		if _, ok := collab.Publishers.Lookup(name); !ok {
			t.Fatalf("expected publisher for %q", name)
		}
	}
	if _, ok := collab.Publishers.Lookup("myspace"); ok {
		t.Fatal("expected unknown platform to miss lookup")
	}
}
