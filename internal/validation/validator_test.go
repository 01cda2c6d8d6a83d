// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package validation

import (
	"strings"
	"testing"
)

type recommendRequest struct {
	MovieID int64 `validate:"min=1"`
	Limit   int   `validate:"min=1,max=100"`
}

func TestValidateStructPasses(t *testing.T) {
	req := recommendRequest{MovieID: 318, Limit: 10}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
}

func TestValidateStructSingleFailure(t *testing.T) {
	req := recommendRequest{MovieID: 0, Limit: 10}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "MovieID" {
		t.Errorf("details field = %v, want MovieID", apiErr.Details["field"])
	}
}

func TestValidateStructMultipleFailures(t *testing.T) {
	req := recommendRequest{MovieID: 0, Limit: 500}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "MovieID") || !strings.Contains(apiErr.Message, "Limit") {
		t.Errorf("message missing field names: %q", apiErr.Message)
	}
}

func TestBuildMessages(t *testing.T) {
	req := recommendRequest{MovieID: 1, Limit: 101}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	if !strings.Contains(msg, "at most 100") {
		t.Errorf("expected max message, got %q", msg)
	}
}
