// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Text string `json:"text" validate:"notblank,max=20"`
	K    int    `json:"k" validate:"gte=0,lte=10"`
	Mode string `json:"mode" validate:"omitempty,oneof=fast exact"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("expected GetValidator to return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	req := sampleRequest{Text: "whales", K: 3, Mode: "fast"}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "blank text",
			req:       sampleRequest{Text: "   ", K: 1},
			wantField: "text",
			wantTag:   "notblank",
			wantMsg:   "text must not be blank",
		},
		{
			name:      "text too long",
			req:       sampleRequest{Text: strings.Repeat("x", 21), K: 1},
			wantField: "text",
			wantTag:   "max",
			wantMsg:   "text must be at most 20 characters",
		},
		{
			name:      "k too large",
			req:       sampleRequest{Text: "ok", K: 11},
			wantField: "k",
			wantTag:   "lte",
			wantMsg:   "k must be less than or equal to 10",
		},
		{
			name:      "k negative",
			req:       sampleRequest{Text: "ok", K: -1},
			wantField: "k",
			wantTag:   "gte",
			wantMsg:   "k must be greater than or equal to 0",
		},
		{
			name:      "bad mode",
			req:       sampleRequest{Text: "ok", Mode: "slow"},
			wantField: "mode",
			wantTag:   "oneof",
			wantMsg:   "mode must be one of: fast exact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatal("expected validation error, got nil")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&sampleRequest{Text: ""})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "text" {
		t.Errorf("Details[field] = %v, want text", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&sampleRequest{Text: "", K: 99})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("expected fields detail, got %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(fields))
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("expected joined message, got %q", apiErr.Message)
	}
}
