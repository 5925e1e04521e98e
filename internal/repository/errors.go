// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// inventory item or room turns into a 404, insufficient stock aborts the
// whole booking transaction, and an empty patch turns into a 400.
package repository

import "errors"

// ErrItemNotFound is returned when a requested inventory item id does
// not exist in INVENTARIO_GENERAL.
var ErrItemNotFound = errors.New("inventory item not found")

// ErrRoomNotFound is returned when a salon id does not exist or carries
// no base price.
var ErrRoomNotFound = errors.New("salon not found")

// ErrInsufficientStock is returned when a requested quantity exceeds the
// item's available stock.  Inside the booking transaction it is raised
// by the conditional decrement, so a concurrent booking that drained the
// stock between validation and write still fails cleanly.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrEmailExists is returned when a user insert collides with an
// existing email.  Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrNoChanges is returned by patch updates when no field differs from
// the stored row.  Handlers translate this into HTTP 400.
var ErrNoChanges = errors.New("no fields to update")
