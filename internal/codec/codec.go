// Package codec provides the little-endian binary Reader and Writer used by
// the roster files and the tick log.
//
// Counts and positions are 8-byte words. Every read names the field it is
// decoding so a failure identifies what was malformed.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// WordSize is the width of counts, lengths and positions.
const WordSize = 8

// ErrInvalidData is matched by every decode failure.
var ErrInvalidData = errors.New("invalid data")

// InvalidDataError identifies a malformed field.
type InvalidDataError struct {
	Field  string
	Reason string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid data in %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidData.
func (e *InvalidDataError) Is(target error) bool {
	return target == ErrInvalidData
}

// Invalid builds an InvalidDataError for field.
func Invalid(field, format string, args ...any) error {
	return &InvalidDataError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Writer appends little-endian values to a growing buffer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates a Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	w := &Writer{}
	w.buf.Grow(capacity)
	return w
}

// Bytes returns the encoded buffer. It aliases the Writer's storage.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return w.buf.Len() }

// U8 writes one byte.
func (w *Writer) U8(v uint8) { w.buf.WriteByte(v) }

// U16 writes v in 2 bytes.
func (w *Writer) U16(v uint16) {
	w.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
}

// U32 writes v in 4 bytes.
func (w *Writer) U32(v uint32) {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, v))
}

// Word writes v in WordSize bytes.
func (w *Writer) Word(v uint64) {
	w.buf.Write(binary.LittleEndian.AppendUint64(nil, v))
}

// Int writes a non-negative int as a word.
//
// Precondition: v >= 0.
func (w *Writer) Int(v int) { w.Word(uint64(v)) }

// Raw writes b verbatim.
func (w *Writer) Raw(b []byte) { w.buf.Write(b) }

// Block writes b prefixed with its word length.
func (w *Writer) Block(b []byte) {
	w.Int(len(b))
	w.Raw(b)
}

// String writes s prefixed with its word length.
func (w *Writer) String(s string) {
	w.Int(len(s))
	w.buf.WriteString(s)
}

// ShortString writes s prefixed with a one-byte length.
//
// Postcondition: Returns an error and writes nothing if s exceeds 255 bytes.
func (w *Writer) ShortString(s string) error {
	if len(s) > math.MaxUint8 {
		return fmt.Errorf("string of %d bytes does not fit a one-byte length", len(s))
	}
	w.U8(uint8(len(s)))
	w.buf.WriteString(s)
	return nil
}

// Reader consumes little-endian values from a byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Position returns the current read offset.
func (r *Reader) Position() int { return r.pos }

func (r *Reader) take(field string, n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, Invalid(field, "need %d bytes at offset %d, have %d", n, r.pos, r.Remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// U8 reads one byte.
func (r *Reader) U8(field string) (uint8, error) {
	b, err := r.take(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads 2 bytes.
func (r *Reader) U16(field string) (uint16, error) {
	b, err := r.take(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads 4 bytes.
func (r *Reader) U32(field string) (uint32, error) {
	b, err := r.take(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Word reads WordSize bytes.
func (r *Reader) Word(field string) (uint64, error) {
	b, err := r.take(field, WordSize)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Int reads a word that must fit a non-negative int.
func (r *Reader) Int(field string) (int, error) {
	v, err := r.Word(field)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, Invalid(field, "value %d out of range", v)
	}
	return int(v), nil
}

// Count reads a word-sized element count. Every element occupies at least
// minSize bytes, so a count the remaining input cannot hold is rejected
// before anything is allocated for it.
//
// Precondition: minSize >= 1.
func (r *Reader) Count(field string, minSize int) (int, error) {
	n, err := r.Int(field)
	if err != nil {
		return 0, err
	}
	if n > r.Remaining()/minSize {
		return 0, Invalid(field, "count %d exceeds the %d bytes left", n, r.Remaining())
	}
	return n, nil
}

// Raw reads n bytes. The result aliases the Reader's input.
func (r *Reader) Raw(field string, n int) ([]byte, error) {
	return r.take(field, n)
}

// Block reads a word-length-prefixed byte block.
func (r *Reader) Block(field string) ([]byte, error) {
	n, err := r.Int(field)
	if err != nil {
		return nil, err
	}
	return r.take(field, n)
}

// String reads a word-length-prefixed UTF-8 string.
func (r *Reader) String(field string) (string, error) {
	b, err := r.Block(field)
	if err != nil {
		return "", err
	}
	return decodeUTF8(field, b)
}

// ShortString reads a one-byte-length-prefixed UTF-8 string.
func (r *Reader) ShortString(field string) (string, error) {
	n, err := r.U8(field)
	if err != nil {
		return "", err
	}
	b, err := r.take(field, int(n))
	if err != nil {
		return "", err
	}
	return decodeUTF8(field, b)
}

// Done fails if any input is left unread.
func (r *Reader) Done(field string) error {
	if r.Remaining() != 0 {
		return Invalid(field, "%d trailing bytes", r.Remaining())
	}
	return nil
}

func decodeUTF8(field string, b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", Invalid(field, "not valid UTF-8")
	}
	return string(b), nil
}
