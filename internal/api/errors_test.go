package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password")

	if resp.Error != "Unauthorized" {
		t.Errorf("Expected Error 'Unauthorized', got '%s'", resp.Error)
	}
	if resp.Message != "Invalid email or password" {
		t.Errorf("Expected Message 'Invalid email or password', got '%s'", resp.Message)
	}
	if resp.Code != ErrCodeInvalidCredentials {
		t.Errorf("Expected Code ErrCodeInvalidCredentials, got '%s'", resp.Code)
	}
}

func TestErrorResponse_WithFields(t *testing.T) {
	fields := map[string]string{
		"email":    "Valid email is required",
		"password": "Password must be at least 6 characters",
	}

	resp := NewErrorResponse(http.StatusBadRequest, ErrCodeValidation, "Validation failed").
		WithFields(fields)

	if len(resp.Fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(resp.Fields))
	}
	if resp.Fields["email"] != "Valid email is required" {
		t.Errorf("Expected field 'email' to be 'Valid email is required', got '%s'", resp.Fields["email"])
	}
}

func TestErrorResponse_WithRequestID(t *testing.T) {
	resp := NewErrorResponse(http.StatusInternalServerError, ErrCodeInternal, "Internal error").
		WithRequestID("req-123")

	if resp.RequestID != "req-123" {
		t.Errorf("Expected RequestID 'req-123', got '%s'", resp.RequestID)
	}
}

func TestValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)

	fields := map[string]string{
		"name": "Name is required",
	}

	ValidationError(w, r, "Validation failed", fields)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeValidation {
		t.Errorf("Expected Code ErrCodeValidation, got '%s'", resp.Code)
	}
	if resp.Fields["name"] != "Name is required" {
		t.Errorf("Expected field 'name' error, got '%s'", resp.Fields["name"])
	}
}

func TestBadRequestError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/log_activity", nil)

	BadRequestError(w, r, ErrCodeInvalidJSON, "Invalid JSON")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeInvalidJSON {
		t.Errorf("Expected Code ErrCodeInvalidJSON, got '%s'", resp.Code)
	}
	if resp.Message != "Invalid JSON" {
		t.Errorf("Expected message 'Invalid JSON', got '%s'", resp.Message)
	}
}

func TestUnauthorizedError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

	UnauthorizedError(w, r, "Missing authentication")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeUnauthorized {
		t.Errorf("Expected Code ErrCodeUnauthorized, got '%s'", resp.Code)
	}
}

func TestConflictError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)

	ConflictError(w, r, ErrCodeEmailTaken, "Email already registered")

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeEmailTaken {
		t.Errorf("Expected Code ErrCodeEmailTaken, got '%s'", resp.Code)
	}
}

func TestInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/log_activity", nil)

	InternalError(w, r, "Database connection failed")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeInternal {
		t.Errorf("Expected Code ErrCodeInternal, got '%s'", resp.Code)
	}
}

func TestNotFoundError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/activities/999", nil)

	NotFoundError(w, r, "Activity not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeNotFound {
		t.Errorf("Expected Code ErrCodeNotFound, got '%s'", resp.Code)
	}
}

func TestRateLimitedError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/user/open_chest", nil)

	RateLimitedError(w, r, "Too many chest opens, slow down")

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeRateLimited {
		t.Errorf("Expected Code ErrCodeRateLimited, got '%s'", resp.Code)
	}
}

func TestRequestTooLargeError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/log_activity", nil)

	RequestTooLargeError(w, r, "Request body exceeds limit")

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Code != ErrCodeRequestTooLarge {
		t.Errorf("Expected Code ErrCodeRequestTooLarge, got '%s'", resp.Code)
	}
}

func TestErrorResponseContentType(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/log_activity", nil)

	BadRequestError(w, r, ErrCodeInvalidJSON, "Invalid JSON")

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
	}
}
