// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/metrics"
)

// Source describes where snapshot bytes come from. Exactly one of Path, URL
// or Data is set.
type Source struct {
	Path string
	URL  string
	Data []byte

	// Name labels in-memory sources in logs and status output.
	Name string
}

// PathSource reads the snapshot from a local file.
func PathSource(path string) Source {
	return Source{Path: path}
}

// URLSource downloads the snapshot over HTTP(S).
func URLSource(url string) Source {
	return Source{URL: url}
}

// BytesSource uses an in-memory snapshot, such as an upload.
func BytesSource(name string, data []byte) Source {
	return Source{Name: name, Data: data}
}

// ParseSource turns a configured source string into a Source. Strings with an
// http or https scheme are URLs; anything else is a file path.
func ParseSource(s string) Source {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return URLSource(s)
	}
	return PathSource(s)
}

// String returns a description safe for logs and status output.
func (s Source) String() string {
	switch {
	case s.URL != "":
		return s.URL
	case s.Path != "":
		return s.Path
	case s.Name != "":
		return s.Name
	default:
		return "bytes"
	}
}

// Kind returns "url", "path" or "bytes".
func (s Source) Kind() string {
	switch {
	case s.URL != "":
		return "url"
	case s.Path != "":
		return "path"
	default:
		return "bytes"
	}
}

func (s Source) validate() error {
	set := 0
	if s.Path != "" {
		set++
	}
	if s.URL != "" {
		set++
	}
	if s.Data != nil {
		set++
	}
	if set != 1 {
		return errors.New("exactly one of path, url or data must be set")
	}
	return nil
}

// fetcher reads snapshot bytes from any Source kind. URL downloads go through
// a circuit breaker.
type fetcher struct {
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	maxBytes int64
}

const breakerName = "snapshot-fetch"

func newFetcher(timeout time.Duration, maxBytes int64) *fetcher {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		// Opens after 3 consecutive failed downloads
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// Oversized snapshots do not count as origin failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSnapshotTooLarge)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &fetcher{
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
		maxBytes: maxBytes,
	}
}

// fetch returns the snapshot bytes for src.
func (f *fetcher) fetch(ctx context.Context, src Source) ([]byte, error) {
	switch src.Kind() {
	case "url":
		return f.fetchURL(ctx, src.URL)
	case "path":
		return f.readFile(src.Path)
	default:
		if f.maxBytes > 0 && int64(len(src.Data)) > f.maxBytes {
			return nil, fmt.Errorf("%w: %d > %d bytes", ErrSnapshotTooLarge, len(src.Data), f.maxBytes)
		}
		return src.Data, nil
	}
}

func (f *fetcher) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if f.maxBytes > 0 && info.Size() > f.maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSnapshotTooLarge, info.Size(), f.maxBytes)
	}
	return os.ReadFile(path)
}

func (f *fetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	data, err := f.breaker.Execute(func() ([]byte, error) {
		return f.download(ctx, url)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
	return data, err
}

func (f *fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot URL: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}
	defer closeWithLog(resp.Body, "snapshot response body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot request returned HTTP %d", resp.StatusCode)
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSnapshotTooLarge, resp.ContentLength, f.maxBytes)
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrSnapshotTooLarge, f.maxBytes)
	}
	return data, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
