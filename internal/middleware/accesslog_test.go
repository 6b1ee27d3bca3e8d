// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/forumlens/internal/logging"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(previous) })
	return &buf
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		sleep     time.Duration
		threshold time.Duration
		wantLevel string
	}{
		{"server error", http.StatusInternalServerError, 0, time.Hour, `"level":"error"`},
		{"slow request", http.StatusOK, 20 * time.Millisecond, time.Millisecond, `"level":"warn"`},
		{"bad gateway beats slow", http.StatusBadGateway, 5 * time.Millisecond, time.Millisecond, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			handler := RequestID(AccessLog(tt.threshold)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(tt.sleep)
				w.WriteHeader(tt.status)
			})))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/database", nil)
			req.Header.Set(RequestIDHeader, "req-42")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			for _, want := range []string{tt.wantLevel, `"method":"POST"`, `"request_id":"req-42"`, `"message":"HTTP request"`} {
				if !strings.Contains(out, want) {
					t.Errorf("log output missing %s: %s", want, out)
				}
			}
		})
	}
}

func TestAccessLog_DefaultThreshold(t *testing.T) {
	buf := captureLogs(t)

	handler := AccessLog(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Fast successful requests log at debug.
	if strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("fast request logged as slow: %s", buf.String())
	}
}
