// Package text converts scene text between Go strings and the UTF-16
// little-endian form stored inside containers.
package text

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
	"github.com/provide-io/mmconvert/pkg/mmsave/operations"
)

// UTF16Operation transcodes UTF-8 to UTF-16LE without a byte order mark.
type UTF16Operation struct {
	operations.BaseOperation
	enc encoding.Encoding
}

// NewUTF16Operation creates the scene text transcoder.
func NewUTF16Operation() *UTF16Operation {
	return &UTF16Operation{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OP_UTF16LE,
			OpName: "UTF16LE",
		},
		enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	}
}

// Apply encodes UTF-8 input as UTF-16LE.
func (o *UTF16Operation) Apply(input []byte) ([]byte, error) {
	if !utf8.Valid(input) {
		return nil, fmt.Errorf("%w: scene text is not valid UTF-8", mmerrors.ErrInvalidSceneFormat)
	}

	out, err := o.enc.NewEncoder().Bytes(input)
	if err != nil {
		return nil, fmt.Errorf("encoding utf-16: %w", err)
	}
	return out, nil
}

// Reverse decodes UTF-16LE input to UTF-8.
func (o *UTF16Operation) Reverse(input []byte) ([]byte, error) {
	if len(input)%2 != 0 {
		return nil, fmt.Errorf("%w: odd utf-16 byte count %d", mmerrors.ErrCorruptPayload, len(input))
	}

	out, err := o.enc.NewDecoder().Bytes(input)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding utf-16: %v", mmerrors.ErrCorruptPayload, err)
	}
	return out, nil
}
