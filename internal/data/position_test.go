package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionEncodeDecodeRoundTrip(t *testing.T) {
	positions := []Position{
		{FileID: 0, Offset: 0, Size: 0},
		{FileID: 7, Offset: 123456, Size: 42},
		{FileID: ^uint32(0), Offset: ^uint64(0) >> 1, Size: ^uint32(0)},
	}

	for _, pos := range positions {
		encoded := EncodePosition(pos)
		decoded, err := DecodePosition(encoded)
		require.NoError(t, err)
		assert.Equal(t, pos, decoded)
	}
}

func TestDecodePositionRejectsTruncatedInput(t *testing.T) {
	_, err := DecodePosition(nil)
	assert.Error(t, err)
}
