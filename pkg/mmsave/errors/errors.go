// Package errors defines the sentinel errors shared by the save codec and
// the converter. Callers match them with errors.Is; context is attached by
// wrapping with %w.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Container errors 📦
	ErrNotAContainer    = errors.New("❌ not a scene container")
	ErrBoundaryNotFound = fmt.Errorf("%w: image end marker not found", ErrNotAContainer)

	// Framing errors 🗜️
	ErrTruncatedHeader = errors.New("❌ truncated payload header")
	ErrCorruptPayload  = errors.New("❌ corrupt scene payload")

	// Registry errors 📒
	ErrInvalidSceneFormat = errors.New("❌ invalid scene format")
	ErrNoOrdinarySlots    = errors.New("❌ no ordinary save produced")
	ErrRegistryLocked     = errors.New("❌ registry is locked by another process")

	// Input errors 📂
	ErrMissingInput = errors.New("❌ input does not exist")
)
