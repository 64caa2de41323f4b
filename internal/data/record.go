// Package data defines the on-disk log record: its type tags, its
// [type][key-len][value-len][key][value][crc] wire encoding, and the
// sequence-number prefix every key carries once written to a data file.
package data

import (
	"encoding/binary"
	stdErrors "errors"
	"hash/crc32"

	"github.com/ignitedb/ignite/pkg/errors"
)

// errVarintDecode signals a truncated or malformed varint during Position or
// sequence-number decoding; callers fold it into a CRC/corruption error since
// it only ever happens when reading a torn or corrupted record.
var errVarintDecode = stdErrors.New("data: truncated varint")

// RecordType tags what a LogRecord represents.
type RecordType = byte

const (
	// RecordNormal is an ordinary put.
	RecordNormal RecordType = iota
	// RecordDeleted is a tombstone superseding an earlier put of the same key.
	RecordDeleted
	// RecordTxnFinished marks a batch's seq_no as durably committed; it
	// carries the literal key "legacy" and an empty value, and is never
	// surfaced to a caller or inserted into the index.
	RecordTxnFinished
)

// TxnFinishedKey is the literal user key every TxnFinished record carries.
const TxnFinishedKey = "legacy"

// maxLogRecordHeaderSize bounds [type(1)][key-len varint][value-len varint].
const maxLogRecordHeaderSize = 1 + 2*binary.MaxVarintLen32

// Record is a single append-only log entry. Key is already sequence-prefixed
// (see KeyWithSeq) by the time it reaches Encode; callers working with plain
// user keys must prefix first.
type Record struct {
	Key   []byte
	Value []byte
	Type  RecordType
}

// EncodedSize returns the exact number of bytes Encode will produce, so
// callers can reserve a buffer or check rotation thresholds before writing.
func (r *Record) EncodedSize() int {
	header := make([]byte, maxLogRecordHeaderSize)
	n := 1
	n += binary.PutUvarint(header[n:], uint64(len(r.Key)))
	n += binary.PutUvarint(header[n:], uint64(len(r.Value)))
	return n + len(r.Key) + len(r.Value) + crc32.Size
}

// Encode serializes r as [type][key-len][value-len][key][value][crc32],
// with the CRC computed over everything preceding it and appended at the
// tail rather than the head.
func Encode(r *Record) []byte {
	header := make([]byte, maxLogRecordHeaderSize)
	header[0] = r.Type

	n := 1
	n += binary.PutUvarint(header[n:], uint64(len(r.Key)))
	n += binary.PutUvarint(header[n:], uint64(len(r.Value)))

	size := n + len(r.Key) + len(r.Value) + crc32.Size
	buf := make([]byte, size)

	copy(buf, header[:n])
	copy(buf[n:], r.Key)
	copy(buf[n+len(r.Key):], r.Value)

	crc := crc32.ChecksumIEEE(buf[:n+len(r.Key)+len(r.Value)])
	binary.LittleEndian.PutUint32(buf[size-crc32.Size:], crc)

	return buf
}

// Decode parses a single record out of buf, which must hold exactly the
// bytes read_log_record determined the record spans (header + key + value +
// crc, no more, no less). It recomputes the CRC and fails with
// ErrInvalidLogRecordCrc on mismatch.
func Decode(buf []byte) (*Record, error) {
	if len(buf) < 1+2+crc32.Size {
		return nil, errors.ErrInvalidLogRecordCrc
	}

	recordType := buf[0]
	rest := buf[1:]

	keySize, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, errors.ErrInvalidLogRecordCrc
	}
	rest = rest[n:]
	headerLen := 1 + n

	valueSize, n2 := binary.Uvarint(rest)
	if n2 <= 0 {
		return nil, errors.ErrInvalidLogRecordCrc
	}
	rest = rest[n2:]
	headerLen += n2

	if uint64(len(rest)) < keySize+valueSize+crc32.Size {
		return nil, errors.ErrInvalidLogRecordCrc
	}

	key := rest[:keySize]
	value := rest[keySize : keySize+valueSize]
	wantCRC := binary.LittleEndian.Uint32(rest[keySize+valueSize : keySize+valueSize+crc32.Size])

	gotCRC := crc32.ChecksumIEEE(buf[:headerLen+int(keySize)+int(valueSize)])
	if gotCRC != wantCRC {
		return nil, errors.ErrInvalidLogRecordCrc
	}

	return &Record{Key: key, Value: value, Type: recordType}, nil
}

// HeaderParts is the decoded fixed-layout prefix of a record, returned by
// ParseHeader so a reader can compute exactly how many more bytes to pull off
// disk before calling Decode on the whole thing.
type HeaderParts struct {
	Type      RecordType
	KeySize   uint32
	ValueSize uint32
	// HeaderSize is the actual number of header bytes consumed: 1 + the two
	// varints' encoded widths, which read_log_record needs to compute the
	// record's total on-disk size.
	HeaderSize int
}

// ParseHeader decodes the fixed-layout prefix of a record read from a buffer
// sized maxLogRecordHeaderSize. It reports io.EOF-equivalent termination by
// returning a HeaderParts with both lengths zero, per the read_log_record
// contract: a run of zero bytes at the tail of a file decodes this way.
func ParseHeader(buf []byte) (HeaderParts, error) {
	if len(buf) < 1 {
		return HeaderParts{}, errVarintDecode
	}

	recordType := buf[0]
	rest := buf[1:]

	keySize, n := binary.Uvarint(rest)
	if n <= 0 {
		return HeaderParts{}, errVarintDecode
	}
	rest = rest[n:]
	headerSize := 1 + n

	valueSize, n2 := binary.Uvarint(rest)
	if n2 <= 0 {
		return HeaderParts{}, errVarintDecode
	}
	headerSize += n2

	return HeaderParts{
		Type:       recordType,
		KeySize:    uint32(keySize),
		ValueSize:  uint32(valueSize),
		HeaderSize: headerSize,
	}, nil
}

// MaxHeaderSize is the number of bytes read_log_record must pull off disk
// before it knows the record's true header width.
func MaxHeaderSize() int {
	return maxLogRecordHeaderSize
}

// KeyWithSeq prefixes userKey with a varint sequence number, producing the
// on-disk key field. seq_no 0 marks a non-transactional write.
func KeyWithSeq(userKey []byte, seqNo uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64+len(userKey))
	n := binary.PutUvarint(buf, seqNo)
	copy(buf[n:], userKey)
	return buf[:n+len(userKey)]
}

// ParseKeyWithSeq reverses KeyWithSeq, splitting a record's on-disk key field
// back into its user key and sequence number.
func ParseKeyWithSeq(key []byte) (userKey []byte, seqNo uint64, err error) {
	seqNo, n := binary.Uvarint(key)
	if n <= 0 {
		return nil, 0, errVarintDecode
	}
	return key[n:], seqNo, nil
}
