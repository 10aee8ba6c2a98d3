// Package repository is the store gateway: it owns the database handle of
// one session and issues every parameterized query the console needs.
//
// Methods never return driver errors to callers. Expected absence and
// transport faults both surface as ok=false; faults are logged first so the
// operator log tells them apart.
package repository

import "errors"

// ErrClosed is returned internally when a query is attempted on a gateway
// whose session is not open.
var ErrClosed = errors.New("session is closed")

// ErrNotFound marks an empty or ambiguous result. It never leaves the
// package; exported methods translate it to ok=false without logging an
// error.
var ErrNotFound = errors.New("not found")
