package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies. Activity text and login payloads are
// tiny; anything near this limit is abuse.
const maxBodyBytes = 1 << 20 // 1 MB

// ===== HTTP Helpers =====

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, enforcing the body size limit.
// On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err.Error() == "http: request body too large" {
			RequestTooLargeError(w, r, "Request body too large")
			return false
		}
		BadRequestError(w, r, ErrCodeInvalidJSON, "Invalid JSON in request body")
		return false
	}
	return true
}

// urlParamInt parses a chi URL parameter as an integer.
func urlParamInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ===== Date Helpers =====

// dateParam parses an optional YYYY-MM-DD query parameter, defaulting to
// today's UTC date. The bool is false when the value is present but invalid.
func dateParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// intParam parses an optional integer query parameter, returning def when
// absent or malformed.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// dayWindowUTC converts a local calendar date plus a timezone offset into the
// UTC half-open interval [start, end) covering that local day. tzOffset is in
// minutes, positive when the client is behind UTC (JavaScript's
// getTimezoneOffset convention).
func dayWindowUTC(localDate time.Time, tzOffsetMinutes int) (start, end time.Time) {
	start = localDate.Add(time.Duration(tzOffsetMinutes) * time.Minute)
	return start, start.Add(24 * time.Hour)
}

// ===== Rounding =====

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
