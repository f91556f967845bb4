package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signals raised by the adapter itself. Both are treated as transient so the
// surrounding retry loop gets another shot at a usable response.
var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrEmptyRepair   = errors.New("empty response from repair call")
)

// APIError carries the upstream status so the retry loop can classify it.
// RetryAfter is the server-suggested delay, when the backend provided one.
type APIError struct {
	StatusCode int
	Status     string // e.g. "RESOURCE_EXHAUSTED", "UNAVAILABLE"
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error (status %d %s): %s", e.StatusCode, e.Status, e.Message)
}

// ParseError is raised when every JSON recovery tier failed. Tail holds the
// last 400 chars of the offending text for diagnostics.
type ParseError struct {
	Tail string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("json parse error: %v. tail=%s", e.Err, e.Tail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsRetryable reports whether err belongs to the recognized-transient set:
// quota/rate-limit, service-unavailable, connection problems and the
// adapter's own empty/unparseable-JSON signals.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrEmptyRepair) {
		return true
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503:
			return true
		}
		switch apiErr.Status {
		case "RESOURCE_EXHAUSTED", "UNAVAILABLE":
			return true
		}
	}

	msg := err.Error()
	for _, marker := range []string{
		"429",
		"RESOURCE_EXHAUSTED",
		"503",
		"UNAVAILABLE",
		"timeout",
		"connection reset",
		"ETIMEDOUT",
		"ECONNRESET",
		"EAI_AGAIN",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// ParseAPIError maps an upstream error body to *APIError, picking up the
// server-suggested retry delay when a RetryInfo detail is present.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    string(body),
	}

	var parsed struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Status = parsed.Error.Status
		apiErr.Message = parsed.Error.Message

		for _, d := range parsed.Error.Details {
			if strings.Contains(d.Type, "RetryInfo") && d.RetryDelay != "" {
				if secs, err := strconv.ParseFloat(strings.TrimSuffix(d.RetryDelay, "s"), 64); err == nil {
					apiErr.RetryAfter = time.Duration(secs * float64(time.Second))
				}
			}
		}
	}

	return apiErr
}

// RetryAfterHint extracts the server-suggested retry delay from err, if any.
func RetryAfterHint(err error) (time.Duration, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter, true
	}
	return 0, false
}
