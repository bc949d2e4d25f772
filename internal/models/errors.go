package models

import (
	"fmt"
	"strings"
)

// ErrorClass partitions provider failures into the buckets the chat layer
// knows how to explain to the user.
type ErrorClass int

const (
	ErrorUnknown ErrorClass = iota
	ErrorContentFilter
	ErrorFileTooLarge
	ErrorRateLimit
	ErrorAuth
	ErrorContextLength
	ErrorConnection
)

// Classify inspects an error's text and assigns it a class. Providers do
// not share a structured error surface, so this is substring matching by
// necessity. Order matters: content policy errors often mention "400" too.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorUnknown
	}
	s := strings.ToLower(err.Error())

	switch {
	case containsAny(s, "content_policy_violation", "content policy", "content filter", "content_filter", "safety system"):
		return ErrorContentFilter
	case containsAny(s, "file too large", "payload too large", "413", "request entity too large"):
		return ErrorFileTooLarge
	case containsAny(s, "429", "rate limit", "rate_limit", "quota", "too many requests"):
		return ErrorRateLimit
	case containsAny(s, "401", "403", "unauthorized", "invalid api key", "api key", "forbidden", "authentication"):
		return ErrorAuth
	case containsAny(s, "context length", "context_length_exceeded", "maximum context", "too many tokens", "token limit"):
		return ErrorContextLength
	case containsAny(s, "connection", "eof", "timeout", "deadline", "dial", "refused", "no such host"):
		return ErrorConnection
	default:
		return ErrorUnknown
	}
}

// HandleError wraps common SDK errors with a short stable prefix so logs
// group well. The original error stays reachable via errors.Unwrap.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	switch Classify(err) {
	case ErrorAuth:
		return fmt.Errorf("authentication failed: %w", err)
	case ErrorRateLimit:
		return fmt.Errorf("rate limited: %w", err)
	case ErrorContextLength:
		return fmt.Errorf("context too long: %w", err)
	case ErrorContentFilter:
		return fmt.Errorf("content filtered: %w", err)
	case ErrorConnection:
		return fmt.Errorf("connection error: %w", err)
	default:
		return err
	}
}

// ErrModelUnavailable indicates a backend returned a non-JSON or error
// response before the SDK could parse anything useful.
type ErrModelUnavailable struct {
	Provider string
	Body     string
	Cause    error
}

func (e *ErrModelUnavailable) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Provider, e.Body)
}

func (e *ErrModelUnavailable) Unwrap() error { return e.Cause }

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
