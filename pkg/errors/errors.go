package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNavigation represents page navigation and automation failures
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeStorage represents snapshot persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a run-level error with its failure class
type ScrapeError struct {
	Type    ErrorType
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error must abort the run. Every class
// here is fatal once it reaches the pipeline boundary; per-field read
// failures and link malformations are degraded locally and never
// become a ScrapeError.
func (e *ScrapeError) IsFatal() bool {
	return true
}

// New creates a new ScrapeError
func New(errType ErrorType, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNavigation creates a new navigation error
func NewNavigation(message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, message, err)
}

// NewStorage creates a new storage error
func NewStorage(message string, err error) *ScrapeError {
	return New(ErrorTypeStorage, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, message, err)
}
