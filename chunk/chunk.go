/*
Package chunk locates complete PNG streams embedded back to back inside an
arbitrary binary blob, such as the bitmap table of a color emoji font.

No index into the blob is used. Each occurrence of the PNG signature is a
candidate; its IHDR width is checked against the requested size and then the
chunks that follow are walked, using only their length and type fields, until
the IEND chunk closes the stream. A PNG chunk is laid out as:

	length (4 bytes, big-endian) | type (4 bytes) | data (length bytes) | CRC (4 bytes)

so each one occupies length + 12 bytes.
*/
package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

const (
	lengthSize    = 4
	typeSize      = 4
	crcSize       = 4
	chunkOverhead = lengthSize + typeSize + crcSize

	ihdrLength  = 13
	widthOffset = len(signature) + lengthSize + typeSize
)

const signature = "\x89PNG\r\n\x1a\n"

var (
	typeIHDR = []byte("IHDR")
	typeIEND = []byte("IEND")
)

// ErrMalformedChunk is the underlying cause whenever a candidate stream is
// dropped because it can't be walked to its IEND chunk.
var ErrMalformedChunk = errors.New("chunk: malformed chunk")

var (
	errTruncated = fmt.Errorf("%w: truncated", ErrMalformedChunk)
	errBadType   = fmt.Errorf("%w: invalid type", ErrMalformedChunk)
	errNoHeader  = fmt.Errorf("%w: missing IHDR", ErrMalformedChunk)
	errBadCRC    = fmt.Errorf("%w: CRC mismatch", ErrMalformedChunk)
)

// Range identifies one PNG stream within a blob. The stream is
// blob[Start:End], from the first byte of the signature up to and including
// the CRC of the IEND chunk.
type Range struct {
	Start, End int
}

// Len returns the length of the stream in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// Scanner iterates over the PNG streams in a blob whose width matches the
// requested size. The blob is never modified.
type Scanner struct {
	// VerifyCRC enables checking the CRC-32 of every chunk; a stream
	// containing a bad chunk is dropped.
	VerifyCRC bool

	blob    []byte
	size    uint32
	pos     int
	r       Range
	dropped int
	err     error
}

// NewScanner returns a Scanner reading PNG streams of width size from blob.
func NewScanner(blob []byte, size uint32) *Scanner {
	return &Scanner{
		blob: blob,
		size: size,
	}
}

// Next advances to the next matching stream, returning false when there are
// none left.
func (s *Scanner) Next() bool {
	for s.pos < len(s.blob) {
		i := bytes.Index(s.blob[s.pos:], []byte(signature))
		if i < 0 {
			break
		}
		start := s.pos + i

		width, err := s.width(start)
		if err != nil {
			s.drop(start, err)
			continue
		}
		if width != s.size {
			s.pos = start + 1
			continue
		}

		end, err := s.walk(start)
		if err != nil {
			s.drop(start, err)
			continue
		}

		s.r = Range{Start: start, End: end}
		s.pos = end
		return true
	}

	s.pos = len(s.blob)
	return false
}

// Range returns the location of the current stream.
func (s *Scanner) Range() Range {
	return s.r
}

// Bytes returns the current stream. The slice aliases the blob.
func (s *Scanner) Bytes() []byte {
	return s.blob[s.r.Start:s.r.End:s.r.End]
}

// Dropped returns the number of candidate streams discarded as malformed so
// far.
func (s *Scanner) Dropped() int {
	return s.dropped
}

// Err returns the reason the most recent candidate was dropped, or nil.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) drop(start int, err error) {
	s.dropped++
	s.err = err
	s.pos = start + 1
}

func (s *Scanner) width(start int) (uint32, error) {
	if len(s.blob)-start < widthOffset+4 {
		return 0, errTruncated
	}
	return binary.BigEndian.Uint32(s.blob[start+widthOffset:]), nil
}

// walk follows the chunks of the stream starting at start and returns the
// offset just past the IEND chunk.
func (s *Scanner) walk(start int) (int, error) {
	pos := start + len(signature)
	for first := true; ; first = false {
		if len(s.blob)-pos < chunkOverhead {
			return 0, errTruncated
		}

		length := binary.BigEndian.Uint32(s.blob[pos:])
		typ := s.blob[pos+lengthSize : pos+lengthSize+typeSize]

		if !validType(typ) {
			return 0, errBadType
		}
		if first && (!bytes.Equal(typ, typeIHDR) || length != ihdrLength) {
			return 0, errNoHeader
		}
		if uint64(length) > uint64(len(s.blob)-pos-chunkOverhead) {
			return 0, errTruncated
		}

		end := pos + chunkOverhead + int(length)

		if s.VerifyCRC {
			want := binary.BigEndian.Uint32(s.blob[end-crcSize:])
			if crc32.ChecksumIEEE(s.blob[pos+lengthSize:end-crcSize]) != want {
				return 0, errBadCRC
			}
		}

		if bytes.Equal(typ, typeIEND) {
			return end, nil
		}

		pos = end
	}
}

// Chunk types are four ASCII letters
func validType(typ []byte) bool {
	for _, c := range typ {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// Extract returns the location of every complete PNG stream in blob whose
// width equals size, in the order they appear. An empty result means no
// streams matched and is not an error.
func Extract(blob []byte, size uint32) []Range {
	var ranges []Range
	s := NewScanner(blob, size)
	for s.Next() {
		ranges = append(ranges, s.Range())
	}
	return ranges
}

// Streams is like Extract but returns the streams themselves. Each slice
// aliases blob.
func Streams(blob []byte, size uint32) [][]byte {
	var streams [][]byte
	s := NewScanner(blob, size)
	for s.Next() {
		streams = append(streams, s.Bytes())
	}
	return streams
}
