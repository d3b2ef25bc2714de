package store

import (
	"context"
	"testing"
)

func TestNewStore_Memory(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, "memory", "")
	if err != nil {
		t.Fatalf("NewStore('memory') failed: %v", err)
	}
	if store == nil {
		t.Fatal("Expected non-nil store")
	}

	// Verify it can store and retrieve
	user, err := store.CreateUser(ctx, CreateUserParams{Email: "a@b.c", Name: "A"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	got, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Email != "a@b.c" {
		t.Errorf("Expected email a@b.c, got %s", got.Email)
	}

	store.Close()
}

func TestNewStore_UnsupportedType(t *testing.T) {
	ctx := context.Background()
	_, err := NewStore(ctx, "invalid-type", "")
	if err == nil {
		t.Fatal("Expected error for unsupported store type")
	}
	expectedMsg := "unsupported store type: invalid-type"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
}

func TestNewStore_PostgresWithInvalidDSN(t *testing.T) {
	ctx := context.Background()
	// Invalid DSN should fail during pool creation
	_, err := NewStore(ctx, "postgres", "invalid-dsn")
	if err == nil {
		t.Fatal("Expected error for invalid DSN")
	}
}

func TestNewStore_CaseSensitivity(t *testing.T) {
	ctx := context.Background()

	// Store type is case-sensitive (lowercase expected)
	if _, err := NewStore(ctx, "Memory", ""); err == nil {
		t.Error("Expected error for 'Memory' (capital M)")
	}
	if _, err := NewStore(ctx, "MEMORY", ""); err == nil {
		t.Error("Expected error for 'MEMORY' (all caps)")
	}

	store, err := NewStore(ctx, "memory", "")
	if err != nil {
		t.Fatalf("NewStore('memory') should work: %v", err)
	}
	store.Close()
}
