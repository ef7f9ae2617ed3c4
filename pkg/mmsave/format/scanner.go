package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
)

// endMarkerFailure is the KMP failure table for EndMarker.
var endMarkerFailure = failureTable(EndMarker)

// failureTable computes, for each prefix of pattern, the length of its
// longest proper prefix that is also a suffix.
func failureTable(pattern []byte) []int {
	table := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = table[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		table[i] = k
	}
	return table
}

// FindImageEnd scans r for the first EndMarker and returns the offset,
// relative to where r started, just past the trailer that follows it.
//
// r is read through a buffer, so callers holding a seekable stream must seek
// to the returned offset before reading further.
func FindImageEnd(r io.Reader) (int64, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	var offset int64
	state := 0
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, scanError(err, offset)
		}
		offset++

		for state > 0 && b != EndMarker[state] {
			state = endMarkerFailure[state-1]
		}
		if b == EndMarker[state] {
			state++
		}
		if state == len(EndMarker) {
			break
		}
	}

	for i := 0; i < EndTrailerSize; i++ {
		if _, err := br.ReadByte(); err != nil {
			return 0, scanError(err, offset)
		}
		offset++
	}

	return offset, nil
}

func scanError(err error, offset int64) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w after %d bytes", mmerrors.ErrBoundaryNotFound, offset)
	}
	return fmt.Errorf("scanning for image end: %w", err)
}
