// Package compress implements the framing codec for scene payloads: an
// LZMA-alone stream whose 13-byte header carries the 5 coder property bytes
// followed by the uncompressed length as a little-endian uint64.
package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ulikunitz/xz/lzma"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
	"github.com/provide-io/mmconvert/pkg/mmsave/operations"
)

const (
	PropertiesSize = 5                           // lc/lp/pb byte + dictionary size
	LengthSize     = 8                           // uncompressed length, little-endian
	HeaderSize     = PropertiesSize + LengthSize // bytes before the compressed stream
)

// Params is the coder configuration every payload is written with. The
// game reads payloads produced by a fixed 7-Zip SDK setup, so these values
// are never negotiated per file.
type Params struct {
	DictCap   int                 // dictionary size in bytes
	LC        int                 // literal context bits
	LP        int                 // literal position bits
	PB        int                 // position bits
	Matcher   lzma.MatchAlgorithm // not recorded in the header
	EOSMarker bool                // write an end-of-stream marker
}

// DefaultParams returns the parameter set used for scene payloads.
func DefaultParams() Params {
	return Params{
		DictCap: 1 << 23,
		LC:      3,
		LP:      0,
		PB:      2,
		Matcher: lzma.HashTable4,
	}
}

// header returns the 13-byte frame header for a payload of size bytes.
func (p Params) header(size uint64) []byte {
	h := make([]byte, HeaderSize)
	h[0] = byte((p.PB*5+p.LP)*9 + p.LC)
	binary.LittleEndian.PutUint32(h[1:PropertiesSize], uint32(p.DictCap))
	binary.LittleEndian.PutUint64(h[PropertiesSize:], size)
	return h
}

func (p Params) writerConfig(size int64) lzma.WriterConfig {
	return lzma.WriterConfig{
		Properties:   &lzma.Properties{LC: p.LC, LP: p.LP, PB: p.PB},
		DictCap:      p.DictCap,
		Matcher:      p.Matcher,
		SizeInHeader: true,
		Size:         size,
		EOSMarker:    p.EOSMarker,
	}
}

// LZMAOperation frames and compresses payloads with a fixed Params value.
type LZMAOperation struct {
	operations.BaseOperation
	params Params
}

// NewLZMAOperation creates the framing codec with DefaultParams.
func NewLZMAOperation() *LZMAOperation {
	return &LZMAOperation{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OP_LZMA,
			OpName: "LZMA",
		},
		params: DefaultParams(),
	}
}

// Params returns the coder configuration of the operation.
func (o *LZMAOperation) Params() Params {
	return o.params
}

// emptyStream is what the range coder flushes when nothing was encoded.
var emptyStream = make([]byte, 5)

// Apply compresses input and prepends the properties and length header.
func (o *LZMAOperation) Apply(input []byte) ([]byte, error) {
	// The lzma writer marks a zero size as unknown, so the empty frame is
	// built here.
	if len(input) == 0 {
		return append(o.params.header(0), emptyStream...), nil
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(input)/2)

	lw, err := o.params.writerConfig(int64(len(input))).NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating lzma writer: %w", err)
	}

	if _, err := lw.Write(input); err != nil {
		lw.Close()
		return nil, fmt.Errorf("writing lzma data: %w", err)
	}

	if err := lw.Close(); err != nil {
		return nil, fmt.Errorf("closing lzma writer: %w", err)
	}

	framed := buf.Bytes()
	if check, err := o.Reverse(framed); err != nil || !bytes.Equal(check, input) {
		return nil, fmt.Errorf("%w: encoder output does not decode to its input", mmerrors.ErrCorruptPayload)
	}

	return framed, nil
}

// Reverse decodes a framed payload held in memory.
func (o *LZMAOperation) Reverse(input []byte) ([]byte, error) {
	return o.Decode(bytes.NewReader(input))
}

// Decode reads a framed payload from r. Everything after the header up to
// EOF is treated as compressed data.
func (o *LZMAOperation) Decode(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte

	if _, err := io.ReadFull(r, header[:PropertiesSize]); err != nil {
		return nil, fmt.Errorf("%w: reading properties: %v", mmerrors.ErrTruncatedHeader, err)
	}
	if _, err := io.ReadFull(r, header[PropertiesSize:]); err != nil {
		return nil, fmt.Errorf("%w: reading length: %v", mmerrors.ErrTruncatedHeader, err)
	}

	declared := binary.LittleEndian.Uint64(header[PropertiesSize:])
	if declared > math.MaxInt64 {
		return nil, fmt.Errorf("%w: declared length %d out of range", mmerrors.ErrCorruptPayload, declared)
	}
	if declared == 0 {
		return []byte{}, nil
	}

	lr, err := lzma.NewReader(io.MultiReader(bytes.NewReader(header[:]), r))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mmerrors.ErrCorruptPayload, err)
	}

	out, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mmerrors.ErrCorruptPayload, err)
	}
	if uint64(len(out)) != declared {
		return nil, fmt.Errorf("%w: decompressed %d bytes, header declares %d",
			mmerrors.ErrCorruptPayload, len(out), declared)
	}

	return out, nil
}

// DeclaredLength returns the uncompressed length stored in a framed header.
func DeclaredLength(framed []byte) (uint64, error) {
	if len(framed) < HeaderSize {
		return 0, mmerrors.ErrTruncatedHeader
	}
	return binary.LittleEndian.Uint64(framed[PropertiesSize:HeaderSize]), nil
}
