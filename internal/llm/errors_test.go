package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"empty output", ErrEmptyOutput, ErrorKindEmptyOutput},
		{"wrapped empty output", fmt.Errorf("complete: %w", ErrEmptyOutput), ErrorKindEmptyOutput},
		{"deadline exceeded", context.DeadlineExceeded, ErrorKindTimeout},
		{"wrapped deadline", fmt.Errorf("complete: %w", context.DeadlineExceeded), ErrorKindTimeout},
		{"timeout in message", errors.New("request timeout after 30s"), ErrorKindTimeout},
		{"generic api error", errors.New("HTTP 500: internal server error"), ErrorKindModel},
		{"rate limit", errors.New("rate limit exceeded"), ErrorKindModel},
		{"connection reset", errors.New("connection reset by peer"), ErrorKindModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got != tt.want {
				t.Errorf("ClassifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
