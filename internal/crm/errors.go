package crm

import "fmt"

// NotFoundError reports a flush or commit whose target contact is no longer
// in the shortlist (e.g. removed by the import command mid-session). The
// operation is a no-op beyond surfacing the error.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found in shortlist", e.Name)
}

// WriteError wraps a durable-store write failure. The in-memory edit is
// retained by the caller so the user can retry instead of losing it.
type WriteError struct {
	Name string
	Err  error
}

func (e WriteError) Error() string {
	return fmt.Sprintf("save %q: %v", e.Name, e.Err)
}

func (e WriteError) Unwrap() error { return e.Err }
