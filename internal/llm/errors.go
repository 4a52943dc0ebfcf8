package llm

import (
	"context"
	"errors"
	"strings"
)

// Error kinds recorded on failed tasks. A failed model call is fatal to the
// task that issued it and nothing else.
const (
	ErrorKindModel       = "model_error"
	ErrorKindEmptyOutput = "empty_output"
	ErrorKindTimeout     = "timeout"
)

// ErrEmptyOutput indicates the model returned a response with no content.
var ErrEmptyOutput = errors.New("model returned empty output")

// ClassifyError maps a completion error onto one of the task error kinds.
// Use errors.Is-aware checks first, message sniffing as a fallback since
// provider SDKs wrap timeouts inconsistently.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyOutput) {
		return ErrorKindEmptyOutput
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return ErrorKindTimeout
	}

	return ErrorKindModel
}
