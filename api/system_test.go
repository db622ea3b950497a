package api_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garnizeh/portfolio/api"
	"github.com/garnizeh/portfolio/pkg/repository/mock"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		getErr     error
		wantStatus int
		wantBody   string
	}{
		{name: "empty store", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "store down", getErr: errors.New("disk gone"), wantStatus: http.StatusServiceUnavailable, wantBody: `"store":"unavailable"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewStore()
			store.GetErr = tt.getErr
			h := api.NewSystemHandler(store)

			w := httptest.NewRecorder()
			h.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			res := w.Result()
			defer res.Body.Close()
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d got %d", tt.wantStatus, res.StatusCode)
			}
			if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
				t.Fatalf("expected json content-type, got %q", ct)
			}
			b, _ := io.ReadAll(res.Body)
			if !strings.Contains(string(b), tt.wantBody) || !strings.Contains(string(b), `"service":"portfolio"`) {
				t.Fatalf("unexpected body %s", string(b))
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	vh := api.NewSystemHandler(nil).VersionHandler("1.2.3", "2025-08-24T00:00:00Z")
	w := httptest.NewRecorder()
	vh(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("version: expected 200 got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"version":"1.2.3"`) || !strings.Contains(string(b), `"buildTime":"2025-08-24T00:00:00Z"`) {
		t.Fatalf("version: unexpected body %s", string(b))
	}
}
