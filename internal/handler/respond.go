package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
)

// Notifier receives a change hint after every successful write.
type Notifier interface {
	Notify(entity, action string, id int64)
}

const maxBodyBytes = 1 << 20

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServerError logs the cause and answers 500 with a generic message.
func writeServerError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

// decodeBody reads a JSON body into v, answering 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// validate answers 400 with the field message when err is a validation error.
func validate(w http.ResponseWriter, err error) bool {
	if err == nil {
		return true
	}
	var fe *model.FieldError
	if errors.As(err, &fe) {
		writeError(w, http.StatusBadRequest, fe.Error())
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return false
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// Clock returns the current time. Handlers take one so tests can pin "now".
type Clock func() time.Time

// requestNow resolves "now" for a read, honoring a ?today=YYYY-MM-DD override
// (noon of that day in the clock's location).
func requestNow(r *http.Request, clock Clock) (time.Time, error) {
	now := clock()
	s := r.URL.Query().Get("today")
	if s == "" {
		return now, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid today %q", s)
	}
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, now.Location()), nil
}

// emptyIfNil keeps JSON list responses as [] rather than null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
