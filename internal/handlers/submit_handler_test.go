package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vse-rental/storefront/internal/clients"
	"github.com/vse-rental/storefront/pkg/logger"
)

func TestSubmitHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		upstream     http.HandlerFunc
		wantStatus   int
		wantBody     string
		wantContains string
	}{
		{
			name: "forwards verbatim",
			body: `[{"order_id":"ORDER-#0001","name":"Ivan"}]`,
			upstream: func(w http.ResponseWriter, r *http.Request) {
				got, _ := io.ReadAll(r.Body)
				if string(got) != `[{"order_id":"ORDER-#0001","name":"Ivan"}]` {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				_, _ = w.Write([]byte(`{"result":"success","row":7}`))
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"result":"success","row":7}`,
		},
		{
			name: "upstream html page",
			body: `{}`,
			upstream: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`<html>denied</html>`))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: `"message":"Error"`,
		},
		{
			name: "upstream json failure",
			body: `{}`,
			upstream: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"result":"error","error":"sheet is locked"}`))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: `"error":"sheet is locked"`,
		},
		{
			name: "upstream json failure without message",
			body: `{}`,
			upstream: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"result":"error"}`))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: `"message":"Error"`,
		},
		{
			name:       "invalid json body",
			body:       `not json`,
			upstream:   func(w http.ResponseWriter, r *http.Request) { t.Error("upstream should not be called") },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.upstream)
			defer srv.Close()

			handler := NewSubmitHandler(clients.NewIngestionClient(srv.URL, srv.Client()), logger.Discard())

			req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.Submit(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
			if tt.wantContains != "" && !strings.Contains(w.Body.String(), tt.wantContains) {
				t.Errorf("body %s does not contain %s", w.Body.String(), tt.wantContains)
			}
		})
	}
}

func TestSubmitHandler_UpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	handler := NewSubmitHandler(clients.NewIngestionClient(url, nil), logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.Submit(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeBody[map[string]string](t, w)
	if body["message"] != "Error" || body["error"] == "" {
		t.Errorf("unexpected body: %v", body)
	}
}
