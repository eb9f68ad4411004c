package kosmo

import "fmt"

// PlanningError means the source root was unreadable or a remote listing
// failed. It aborts the run (§7).
type PlanningError struct {
	Cause error
}

func (e *PlanningError) Error() string { return fmt.Sprintf("planning failed: %v", e.Cause) }
func (e *PlanningError) Unwrap() error { return e.Cause }

// ResolutionError means the collision resolver could not probe existence
// or hash the destination. It is per-file: reported as Failed, the file
// is not transferred, and the source is not touched (§7).
type ResolutionError struct {
	Path  string
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: could not resolve destination: %v", e.Path, e.Cause)
}
func (e *ResolutionError) Unwrap() error { return e.Cause }

// TransportError means a subprocess exited non-zero, the network dropped,
// or a write failed. It is per-file; any partial destination is removed
// and the source is preserved (§7).
type TransportError struct {
	Path  string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failed: %v", e.Path, e.Cause)
}
func (e *TransportError) Unwrap() error { return e.Cause }

// VerificationError means hashes or bytes mismatched after transfer. It
// is per-file; the destination is removed and the source is preserved (§7).
type VerificationError struct {
	Path   string
	Detail string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: verification failed: %s", e.Path, e.Detail)
}

// PostMoveWarning means the transfer and verification succeeded but the
// source could not be deleted afterward. The outcome remains Moved; this
// is appended to the errors list as a warning, not a failure (§7).
type PostMoveWarning struct {
	Path  string
	Cause error
}

func (e *PostMoveWarning) Error() string {
	return fmt.Sprintf("%s: moved but failed to delete source: %v", e.Path, e.Cause)
}
func (e *PostMoveWarning) Unwrap() error { return e.Cause }
