package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeTierLimit, "found %d screens, the free tier allows up to %d", 11, 10)

	if err.Code != ErrCodeTierLimit {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTierLimit)
	}
	if err.Message != "found 11 screens, the free tier allows up to 10" {
		t.Errorf("Message = %v", err.Message)
	}
	expected := "TIER_LIMIT: found 11 screens, the free tier allows up to 10"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("rsvg-convert: not found")
	err := Wrap(ErrCodeExportFailed, cause, "export png")

	if err.Code != ErrCodeExportFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeExportFailed)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeEmptyFlow, "x"), ErrCodeEmptyFlow, true},
		{"different code", New(ErrCodeEmptyFlow, "x"), ErrCodeTierLimit, false},
		{"wrapped by fmt", fmt.Errorf("generate: %w", New(ErrCodeFeatureGated, "pdf")), ErrCodeFeatureGated, true},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeNotFound, "diagram %q not found", "Flow: Home"))
	if GetCode(err) != ErrCodeNotFound {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	if got := UserMessage(err); got != `diagram "Flow: Home" not found` {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := errors.New("plain")
	if GetCode(plain) != "" || UserMessage(plain) != "plain" {
		t.Error("plain errors should pass through")
	}
}

func TestInternal(t *testing.T) {
	if Internal(nil) != nil {
		t.Error("Internal(nil) != nil")
	}
	coded := New(ErrCodeTierLimit, "x")
	if Internal(coded) != error(coded) {
		t.Error("coded errors should pass through")
	}
	if got := Internal(errors.New("boom")); !Is(got, ErrCodeInternal) {
		t.Errorf("Internal() = %v, want INTERNAL_ERROR", got)
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		var m map[string]int
		m["x"] = 1
		return nil
	}

	err := run()

	if !Is(err, ErrCodeInternal) {
		t.Fatalf("Recover produced %v, want INTERNAL_ERROR", err)
	}
	if !strings.Contains(err.Error(), "panic") {
		t.Errorf("error %q does not mention the panic", err)
	}

	ok := func() (err error) {
		defer Recover(&err)
		return New(ErrCodeEmptyFlow, "none")
	}
	if !Is(ok(), ErrCodeEmptyFlow) {
		t.Error("Recover must not touch errors without a panic")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidDirection, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeEmptyFlow, http.StatusUnprocessableEntity},
		{ErrCodeTierLimit, http.StatusPaymentRequired},
		{ErrCodeFeatureGated, http.StatusPaymentRequired},
		{ErrCodeExportFailed, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
	if HTTPStatus(errors.New("x")) != http.StatusInternalServerError {
		t.Error("uncoded errors should map to 500")
	}
}

func TestDescribe(t *testing.T) {
	err := Wrap(ErrCodeExportFailed, errors.New("exit status 1"), "export pdf")
	if got := Describe(err); got != "export failed: export pdf: exit status 1" {
		t.Errorf("Describe() = %q", got)
	}
	if got := Describe(New(ErrCodeFeatureGated, "pdf export requires pro")); !strings.HasPrefix(got, "upgrade required") {
		t.Errorf("Describe() = %q", got)
	}
}
