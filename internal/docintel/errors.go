package docintel

import (
	"errors"
	"fmt"
)

// Common layout processing errors
var (
	// ErrInvalidPDF is returned when the provided data is not a valid PDF
	// document or cannot be processed by Document AI.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrProcessingFailed is returned when Document AI processing fails.
	ErrProcessingFailed = errors.New("document AI processing failed")

	// ErrInvalidCredentials is returned when Google Cloud credentials are
	// invalid or do not have the necessary permissions.
	ErrInvalidCredentials = errors.New("invalid Google Cloud credentials")

	// ErrMissingCredentials is returned when Google Cloud credentials are not
	// configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials")

	// ErrInvalidConfiguration is returned when the processor configuration is
	// invalid.
	ErrInvalidConfiguration = errors.New("invalid Document AI configuration")

	// ErrProcessorNotFound is returned when the specified processor cannot be
	// found or accessed.
	ErrProcessorNotFound = errors.New("Document AI processor not found")

	// ErrQuotaExceeded is returned when Document AI API quota limits are
	// exceeded.
	ErrQuotaExceeded = errors.New("Document AI API quota exceeded")

	// ErrDocumentTooLarge is returned when the PDF exceeds size limits.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")

	// ErrContextCanceled is returned when processing is canceled via context.
	ErrContextCanceled = errors.New("layout processing was canceled")
)

// LayoutProcessingError wraps errors with context about layout analysis
// failures.
type LayoutProcessingError struct {
	// Op is the operation that failed (e.g., "ProcessLayout").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *LayoutProcessingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("docintel: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("docintel: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LayoutProcessingError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *LayoutProcessingError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapLayoutError wraps an error as a LayoutProcessingError if it isn't
// already one.
func WrapLayoutError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var layoutErr *LayoutProcessingError
	if errors.As(err, &layoutErr) {
		return err
	}
	return &LayoutProcessingError{Op: op, Err: err, Details: details}
}
