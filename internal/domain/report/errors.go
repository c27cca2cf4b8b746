package report

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrNotVisible       = errors.New("report is not visible to this user")
	ErrNotApproved      = errors.New("report is not approved yet")
	ErrStatusRegression = errors.New("status can only move forward")
	ErrReasonRequired   = errors.New("rejection reason is required")
)

// ValidationError means the submission is incomplete. It is raised
// before any I/O happens; the user corrects the form and resubmits.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s %s", e.Field, e.Reason)
}

// TransportError wraps an upload failure. The submission fails without
// automatic retry and without rolling back already-uploaded photos.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "upload failed: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// StoreRejection wraps a write the report store refused.
type StoreRejection struct {
	Err error
}

func (e *StoreRejection) Error() string { return "store rejected report: " + e.Err.Error() }
func (e *StoreRejection) Unwrap() error { return e.Err }
