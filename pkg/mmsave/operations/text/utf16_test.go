package text

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
)

func TestUTF16RoundTrip(t *testing.T) {
	op := NewUTF16Operation()

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"ascii", "2023-01-15 10:30:00,data;"},
		{"japanese", "2017/08/21 20:35:12,メイド,衣装;"},
		{"surrogate pair", "scene 🎎;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := op.Apply([]byte(tt.in))
			require.NoError(t, err)

			decoded, err := op.Reverse(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.in, string(decoded))
		})
	}
}

func TestUTF16LittleEndianNoBOM(t *testing.T) {
	op := NewUTF16Operation()

	encoded, err := op.Apply([]byte("Ab"))
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 0x00, 'b', 0x00}, encoded)
}

func TestUTF16OddLength(t *testing.T) {
	op := NewUTF16Operation()

	_, err := op.Reverse([]byte{'A', 0x00, 'b'})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mmerrors.ErrCorruptPayload))
}

func TestUTF16RejectsInvalidUTF8(t *testing.T) {
	op := NewUTF16Operation()

	_, err := op.Apply([]byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mmerrors.ErrInvalidSceneFormat))
}
