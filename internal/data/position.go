package data

import "encoding/binary"

// maxPositionSize is the worst-case encoded size of a Position: three
// varints, up to binary.MaxVarintLen32 for the two uint32 fields and
// binary.MaxVarintLen64 for the offset.
const maxPositionSize = binary.MaxVarintLen32 + binary.MaxVarintLen64 + binary.MaxVarintLen32

// Position uniquely locates a record on disk: the file it lives in, the byte
// offset of its header, and its total on-disk size. It's the value every
// index variant stores against a user key, and the payload written into the
// hint file during merge.
type Position struct {
	FileID uint32
	Offset uint64
	Size   uint32
}

// EncodePosition packs a Position into three varints, used as the value of a
// hint-index record and as the persisted form in the B+ tree index.
func EncodePosition(pos Position) []byte {
	buf := make([]byte, maxPositionSize)

	n := binary.PutUvarint(buf, uint64(pos.FileID))
	n += binary.PutUvarint(buf[n:], pos.Offset)
	n += binary.PutUvarint(buf[n:], uint64(pos.Size))

	return buf[:n]
}

// DecodePosition reverses EncodePosition.
func DecodePosition(buf []byte) (Position, error) {
	fileID, n := binary.Uvarint(buf)
	if n <= 0 {
		return Position{}, errVarintDecode
	}
	buf = buf[n:]

	offset, n := binary.Uvarint(buf)
	if n <= 0 {
		return Position{}, errVarintDecode
	}
	buf = buf[n:]

	size, n := binary.Uvarint(buf)
	if n <= 0 {
		return Position{}, errVarintDecode
	}

	return Position{FileID: uint32(fileID), Offset: offset, Size: uint32(size)}, nil
}
