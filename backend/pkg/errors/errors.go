package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeCorpus represents corpus construction errors
	ErrorTypeCorpus ErrorType = "corpus"
	// ErrorTypeFetch represents page fetch errors
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeParse represents page extraction errors
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeAnalysis represents sentiment analysis errors
	ErrorTypeAnalysis ErrorType = "analysis"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrorType reports the category; promoted to every embedding error.
func (e *BaseError) ErrorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Corpus Errors

// ErrCorpusBuildFailed is returned when the search API cannot deliver a page
type ErrCorpusBuildFailed struct {
	*BaseError
	Topic string
	Page  int
}

func NewCorpusBuildFailed(topic string, page int, err error) *ErrCorpusBuildFailed {
	return &ErrCorpusBuildFailed{
		BaseError: NewBaseError(ErrorTypeCorpus, fmt.Sprintf("corpus build failed for %q at page %d", topic, page), err),
		Topic:     topic,
		Page:      page,
	}
}

// ErrCorpusEmpty is returned when no usable text was collected for a topic
type ErrCorpusEmpty struct {
	*BaseError
	Topic string
}

func NewCorpusEmpty(topic string) *ErrCorpusEmpty {
	return &ErrCorpusEmpty{
		BaseError: NewBaseError(ErrorTypeCorpus, fmt.Sprintf("empty corpus for %q", topic), nil),
		Topic:     topic,
	}
}

// Fetch Errors

// ErrFetchFailed is returned when a page cannot be retrieved or returns non-200
type ErrFetchFailed struct {
	*BaseError
	URL        string
	StatusCode int
}

func NewFetchFailed(url string, statusCode int, err error) *ErrFetchFailed {
	msg := fmt.Sprintf("fetch failed: %s", url)
	if statusCode != 0 {
		msg = fmt.Sprintf("fetch failed: %s (status %d)", url, statusCode)
	}
	return &ErrFetchFailed{
		BaseError:  NewBaseError(ErrorTypeFetch, msg, err),
		URL:        url,
		StatusCode: statusCode,
	}
}

// Retryable reports whether another attempt could succeed
func (e *ErrFetchFailed) Retryable() bool {
	if e.StatusCode == 0 {
		return e.Err != nil
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Parse Errors

// ErrParseFailed is returned when a fetched page cannot be parsed
type ErrParseFailed struct {
	*BaseError
	URL    string
	Reason string
}

func NewParseFailed(url, reason string, err error) *ErrParseFailed {
	return &ErrParseFailed{
		BaseError: NewBaseError(ErrorTypeParse, fmt.Sprintf("parse failed: %s: %s", url, reason), err),
		URL:       url,
		Reason:    reason,
	}
}

// Analysis Errors

// ErrAnalysisFailed is returned when an external analyzer cannot score text
type ErrAnalysisFailed struct {
	*BaseError
	Analyzer string
}

func NewAnalysisFailed(analyzer string, err error) *ErrAnalysisFailed {
	return &ErrAnalysisFailed{
		BaseError: NewBaseError(ErrorTypeAnalysis, fmt.Sprintf("sentiment analysis failed: %s", analyzer), err),
		Analyzer:  analyzer,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphWriteFailed is returned when a node or edge write fails
type ErrGraphWriteFailed struct {
	*BaseError
	Operation string
	IDs       []string
}

func NewGraphWriteFailed(operation string, err error, ids ...string) *ErrGraphWriteFailed {
	return &ErrGraphWriteFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("graph write failed: %s %v", operation, ids), err),
		Operation: operation,
		IDs:       ids,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// ErrContextTimeout is returned when context times out
type ErrContextTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewContextTimeout(operation string, timeout time.Duration) *ErrContextTimeout {
	return &ErrContextTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context timeout: %s (timeout: %v)", operation, timeout), nil),
		Operation: operation,
		Timeout:   timeout,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type typed interface {
	ErrorType() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if t, ok := err.(typed); ok && t.ErrorType() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fetchErr *ErrFetchFailed
	if stderrors.As(err, &fetchErr) {
		return fetchErr.Retryable()
	}
	// Graph write and connection errors are retryable
	if IsErrorType(err, ErrorTypeGraph) {
		return true
	}
	return false
}
