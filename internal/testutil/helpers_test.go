package testutil

import (
	"context"
	"testing"
)

func TestNewAPIServer(t *testing.T) {
	server, memStore, ts := NewAPIServer(t)
	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if memStore == nil {
		t.Fatal("Expected non-nil store")
	}
	if ts.URL == "" {
		t.Fatal("Expected a listening test server")
	}

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestRegisterUser(t *testing.T) {
	_, memStore, ts := NewAPIServer(t)

	token, user := RegisterUser(t, ts, "helper@example.com")
	if token == "" {
		t.Error("Expected a token")
	}
	if user.Email != "helper@example.com" {
		t.Errorf("Expected email 'helper@example.com', got '%s'", user.Email)
	}

	stored, err := memStore.GetUserByEmail(context.Background(), "helper@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID != user.ID {
		t.Errorf("Expected stored user ID %d, got %d", user.ID, stored.ID)
	}
}

func TestGrantCredits(t *testing.T) {
	_, memStore, ts := NewAPIServer(t)
	_, user := RegisterUser(t, ts, "credits@example.com")

	GrantCredits(t, memStore, user.ID, 7)

	updated, err := memStore.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ChestCredits != 7 {
		t.Errorf("Expected 7 credits, got %d", updated.ChestCredits)
	}
}
