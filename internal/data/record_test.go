package data

import (
	"testing"

	ignerrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []*Record{
		{Key: []byte("hello"), Value: []byte("world"), Type: RecordNormal},
		{Key: []byte("empty-value"), Value: []byte{}, Type: RecordNormal},
		{Key: []byte("tombstone"), Value: nil, Type: RecordDeleted},
		{Key: KeyWithSeq([]byte(TxnFinishedKey), 7), Value: nil, Type: RecordTxnFinished},
	}

	for _, rec := range cases {
		encoded := Encode(rec)
		require.Equal(t, rec.EncodedSize(), len(encoded))

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, rec.Key, decoded.Key)
		assert.Equal(t, rec.Type, decoded.Type)
		if len(rec.Value) == 0 {
			assert.Empty(t, decoded.Value)
		} else {
			assert.Equal(t, rec.Value, decoded.Value)
		}
	}
}

func TestDecodeRejectsCorruptedCRC(t *testing.T) {
	rec := &Record{Key: []byte("k"), Value: []byte("v"), Type: RecordNormal}
	encoded := Encode(rec)
	encoded[len(encoded)-1] ^= 0xFF

	_, err := Decode(encoded)
	assert.ErrorIs(t, err, ignerrors.ErrInvalidLogRecordCrc)
}

func TestParseHeaderMatchesEncode(t *testing.T) {
	rec := &Record{Key: []byte("some-key"), Value: []byte("some-value"), Type: RecordNormal}
	encoded := Encode(rec)

	parts, err := ParseHeader(encoded[:MaxHeaderSize()])
	require.NoError(t, err)
	assert.Equal(t, uint32(len(rec.Key)), parts.KeySize)
	assert.Equal(t, uint32(len(rec.Value)), parts.ValueSize)
}

func TestKeyWithSeqRoundTrip(t *testing.T) {
	userKey := []byte("user-key")
	for _, seq := range []uint64{0, 1, 42, 1 << 40} {
		onDisk := KeyWithSeq(userKey, seq)
		gotKey, gotSeq, err := ParseKeyWithSeq(onDisk)
		require.NoError(t, err)
		assert.Equal(t, userKey, gotKey)
		assert.Equal(t, seq, gotSeq)
	}
}
