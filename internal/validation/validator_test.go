// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package validation

import (
	"strings"
	"sync"
	"testing"
)

// ============================================================================
// Singleton Tests
// ============================================================================

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	results := make(chan interface{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- GetValidator()
		}()
	}
	wg.Wait()
	close(results)

	first := GetValidator()
	for v := range results {
		if v != first {
			t.Error("GetValidator() returned different instances")
		}
	}
}

// ============================================================================
// Struct Validation Tests
// ============================================================================

type testRequest struct {
	Days     int    `query:"days" validate:"gte=0,lte=3650"`
	Limit    int    `query:"limit" validate:"min=1,max=1000"`
	SortBy   string `query:"sort_by" validate:"omitempty,oneof=created_utc score num_comments"`
	Platform string `query:"platform" validate:"omitempty,platform"`
	Query    string `query:"q" validate:"required,max=20,printable"`
	Source   string `json:"source" validate:"omitempty,snapshot_source"`
	Internal string `json:"-" validate:"omitempty,max=1"`
}

func validRequest() testRequest {
	return testRequest{Days: 7, Limit: 10, Query: "golang"}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(r *testRequest)
		wantField string
		wantTag   string
	}{
		{name: "valid", modify: func(r *testRequest) {}},
		{name: "days negative", modify: func(r *testRequest) { r.Days = -1 }, wantField: "days", wantTag: "gte"},
		{name: "days too large", modify: func(r *testRequest) { r.Days = 5000 }, wantField: "days", wantTag: "lte"},
		{name: "limit zero", modify: func(r *testRequest) { r.Limit = 0 }, wantField: "limit", wantTag: "min"},
		{name: "limit too large", modify: func(r *testRequest) { r.Limit = 1001 }, wantField: "limit", wantTag: "max"},
		{name: "bad sort", modify: func(r *testRequest) { r.SortBy = "title" }, wantField: "sort_by", wantTag: "oneof"},
		{name: "good sort", modify: func(r *testRequest) { r.SortBy = "score" }},
		{name: "bad platform", modify: func(r *testRequest) { r.Platform = "lobsters" }, wantField: "platform", wantTag: "platform"},
		{name: "good platform", modify: func(r *testRequest) { r.Platform = "hackernews" }},
		{name: "missing query", modify: func(r *testRequest) { r.Query = "" }, wantField: "q", wantTag: "required"},
		{name: "long query", modify: func(r *testRequest) { r.Query = strings.Repeat("a", 21) }, wantField: "q", wantTag: "max"},
		{name: "control chars", modify: func(r *testRequest) { r.Query = "go\x00lang" }, wantField: "q", wantTag: "printable"},
		{name: "url source", modify: func(r *testRequest) { r.Source = "https://example.com/forum.db" }},
		{name: "path source", modify: func(r *testRequest) { r.Source = "/var/lib/forumlens/forum.duckdb" }},
		{name: "url without host", modify: func(r *testRequest) { r.Source = "https://" }, wantField: "source", wantTag: "snapshot_source"},
		{name: "blank source", modify: func(r *testRequest) { r.Source = "   " }, wantField: "source", wantTag: "snapshot_source"},
		{name: "ignored tag name", modify: func(r *testRequest) { r.Internal = "xx" }, wantTag: "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tt.modify(&req)
			verr := ValidateStruct(&req)

			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1: %v", len(verr.Errors()), verr)
			}
			fe := verr.Errors()[0]
			if fe.Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", fe.Tag(), tt.wantTag)
			}
			if tt.wantField != "" && fe.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", fe.Field(), tt.wantField)
			}
		})
	}
}

// ============================================================================
// Error Message Tests
// ============================================================================

func TestValidateStruct_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(r *testRequest)
		want   string
	}{
		{"required", func(r *testRequest) { r.Query = "" }, "q is required"},
		{"string max", func(r *testRequest) { r.Query = strings.Repeat("a", 21) }, "q must be at most 20 characters"},
		{"number min", func(r *testRequest) { r.Limit = 0 }, "limit must be at least 1"},
		{"gte", func(r *testRequest) { r.Days = -1 }, "days must be greater than or equal to 0"},
		{"oneof", func(r *testRequest) { r.SortBy = "x" }, "sort_by must be one of: created_utc score num_comments"},
		{"platform", func(r *testRequest) { r.Platform = "x" }, "platform must be one of: reddit, hackernews, other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tt.modify(&req)
			verr := ValidateStruct(&req)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if got := verr.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		req := validRequest()
		req.Limit = 0
		apiErr := ValidateStruct(&req).ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q", apiErr.Code)
		}
		if apiErr.Details["field"] != "limit" {
			t.Errorf("Details[field] = %v, want limit", apiErr.Details["field"])
		}
	})

	t.Run("multiple", func(t *testing.T) {
		req := validRequest()
		req.Limit = 0
		req.Days = -3
		apiErr := ValidateStruct(&req).ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details[fields] = %#v", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "; ") {
			t.Errorf("Message = %q, want joined messages", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		verr := &RequestValidationError{}
		if verr.Error() != "validation failed" {
			t.Errorf("Error() = %q", verr.Error())
		}
		if verr.ToAPIError().Message != "Validation failed" {
			t.Errorf("Message = %q", verr.ToAPIError().Message)
		}
	})
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("not a struct")
	if verr == nil {
		t.Fatal("expected error for non-struct input")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}
