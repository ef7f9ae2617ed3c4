// Package operations defines the reversible byte transformations applied to
// a scene before it is appended to a container, and the chain helpers that
// run them in order.
package operations

import "fmt"

// Operation identifiers
const (
	// No operation - raw data
	OP_NONE = 0x00

	// Text operations (0x01-0x0F)
	OP_UTF16LE = 0x02 // UTF-8 <-> UTF-16 little-endian

	// Compression operations (0x10-0x2F)
	OP_LZMA = 0x15 // LZMA-alone with 13-byte header
)

// Operation represents a single reversible transformation
type Operation interface {
	// ID returns the operation identifier (e.g., OP_LZMA)
	ID() uint8

	// Name returns the human-readable name
	Name() string

	// Apply applies the operation to input data
	Apply(input []byte) ([]byte, error)

	// Reverse reverses the operation (e.g., decompress for compression)
	Reverse(input []byte) ([]byte, error)
}

// BaseOperation provides common functionality for operations
type BaseOperation struct {
	OpID   uint8
	OpName string
}

func (o *BaseOperation) ID() uint8 {
	return o.OpID
}

func (o *BaseOperation) Name() string {
	return o.OpName
}

// GetName returns the name of an operation by ID
func GetName(id uint8) string {
	switch id {
	case OP_NONE:
		return "NONE"
	case OP_UTF16LE:
		return "UTF16LE"
	case OP_LZMA:
		return "LZMA"
	default:
		return fmt.Sprintf("UNKNOWN_%02x", id)
	}
}
