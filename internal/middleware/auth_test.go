package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/smartfood/internal/auth"
	"github.com/dukerupert/smartfood/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestRequireBearer(t *testing.T) {
	jwt := auth.NewJWTManager(testSecret, time.Hour)
	token, err := jwt.Generate(&model.User{ID: 9, Email: "an@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var gotUser int64
	handler := RequireBearer(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = 0
			req := httptest.NewRequest("GET", "/api/shopping-lists", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && gotUser != 9 {
				t.Errorf("user id = %d, want 9", gotUser)
			}
		})
	}
}
