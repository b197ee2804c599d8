package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBasicAuth(t *testing.T) {
	t.Setenv("AUTH_USER", "admin")
	t.Setenv("AUTH_PASS", "secret")

	h := BasicAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		user, pass string
		withCreds  bool
		wantCode   int
	}{
		{name: "no credentials", wantCode: http.StatusUnauthorized},
		{name: "wrong password", user: "admin", pass: "nope", withCreds: true, wantCode: http.StatusUnauthorized},
		{name: "wrong user", user: "root", pass: "secret", withCreds: true, wantCode: http.StatusUnauthorized},
		{name: "valid credentials", user: "admin", pass: "secret", withCreds: true, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.withCreds {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestBasicAuthSkippedWhenUnconfigured(t *testing.T) {
	t.Setenv("AUTH_USER", "")
	t.Setenv("AUTH_PASS", "")

	h := BasicAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
