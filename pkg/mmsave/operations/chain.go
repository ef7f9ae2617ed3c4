package operations

import (
	"fmt"
	"strings"
)

// ApplyChain applies a chain of operations to data
func ApplyChain(data []byte, chain ...Operation) ([]byte, error) {
	current := data

	for _, op := range chain {
		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

// ReverseChain reverses a chain of operations on data
func ReverseChain(data []byte, chain ...Operation) ([]byte, error) {
	current := data

	// Apply operations in reverse order
	for i := len(chain) - 1; i >= 0; i-- {
		op := chain[i]

		result, err := op.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

// ChainString renders a chain in pipe format, e.g. "utf16le|lzma".
func ChainString(chain ...Operation) string {
	if len(chain) == 0 {
		return "raw"
	}

	names := make([]string, len(chain))
	for i, op := range chain {
		names[i] = strings.ToLower(GetName(op.ID()))
	}
	return strings.Join(names, "|")
}
