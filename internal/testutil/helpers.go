// Package testutil spins up in-memory API servers for tests in other
// packages. The api package's own tests use in-package helpers instead.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/focusflow/focusflow/internal/api"
	"github.com/focusflow/focusflow/internal/config"
	"github.com/focusflow/focusflow/internal/parser"
	"github.com/focusflow/focusflow/internal/store"
)

// NewAPIServer starts a full API server over an in-memory store with the
// heuristic parser. The server is torn down with the test.
func NewAPIServer(t *testing.T) (*api.Server, *store.MemoryStore, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{
		AppEnv:    "test",
		HTTPAddr:  ":0",
		StoreType: "memory",
		JWTSecret: "test-secret",
	}
	memStore := store.NewMemoryStore()
	server := api.NewServer(memStore, parser.NewHeuristic(), cfg, zerolog.Nop())
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return server, memStore, ts
}

// RegisterUser creates an account through the real register endpoint and
// returns its token and user record.
func RegisterUser(t *testing.T, ts *httptest.Server, email string) (string, *store.User) {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := ts.Client().Post(ts.URL+"/api/auth/register", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned status %d", resp.StatusCode)
	}

	var out struct {
		Token string      `json:"token"`
		User  *store.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Token == "" || out.User == nil {
		t.Fatal("register response missing token or user")
	}
	return out.Token, out.User
}

// GrantCredits sets the user's chest credit balance directly in the store.
func GrantCredits(t *testing.T, st store.Store, userID, credits int) {
	t.Helper()
	ctx := context.Background()
	user, err := st.GetUserByID(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = st.UpdateUserProgress(ctx, store.ProgressParams{
		UserID:            userID,
		XP:                user.XP,
		Level:             user.Level,
		ChestCredits:      credits,
		ProductiveMinutes: user.ProductiveMinutes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
