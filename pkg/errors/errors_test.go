package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "row %d: bad duration %q", 3, "x")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != `row 3: bad duration "x"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_INPUT: row 3: bad duration "x"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	sentinel := errors.New("unknown operation")
	err := Wrap(ErrCodeUnknownOperation, sentinel, "predecessor %q", "B")

	if err.Code != ErrCodeUnknownOperation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownOperation)
	}
	if errors.Unwrap(err) != sentinel {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), sentinel)
	}
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is(err, sentinel) = false, want true")
	}

	expected := `UNKNOWN_OPERATION: predecessor "B": unknown operation`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnknownStrategy, "test"),
			code:     ErrCodeUnknownStrategy,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeUnknownStrategy, "test"),
			code:     ErrCodeInfeasibleGraph,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("run: %w", New(ErrCodeInfeasibleGraph, "stuck")),
			code:     ErrCodeInfeasibleGraph,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
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
	err := fmt.Errorf("load: %w", New(ErrCodeDuplicateOperation, "operation %q", "A"))
	if got := GetCode(err); got != ErrCodeDuplicateOperation {
		t.Errorf("GetCode() = %v", got)
	}
	if got := UserMessage(err); got != `operation "A"` {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("boom")
	if got := GetCode(plain); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnknownStrategy, http.StatusBadRequest},
		{ErrCodeGraphHasCycle, http.StatusUnprocessableEntity},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(tt.code); got != tt.want {
				t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
