// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: for
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own, such as editing another user's
// store. Handlers translate this into a generic failure page.
var ErrForbidden = errors.New("forbidden")
