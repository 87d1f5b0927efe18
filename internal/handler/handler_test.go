package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/database"
	"github.com/dukerupert/smartfood/internal/logging"
)

// Wednesday 13 March 2024, mid-morning.
var testNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type note struct {
	Entity string
	Action string
	ID     int64
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Notify(entity, action string, id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{entity, action, id})
}

func (n *recordingNotifier) has(entity, action string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, x := range n.notes {
		if x.Entity == entity && x.Action == action {
			return true
		}
	}
	return false
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
}

var testLogger = logging.Discard()

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSONAuth(t, h, "", method, path, body)
}

func doJSONAuth(t *testing.T, h http.Handler, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func ptr[T any](v T) *T { return &v }

func testNowDate() civil.Date { return civil.DateOf(testNow) }

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
