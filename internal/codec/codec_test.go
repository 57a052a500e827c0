package codec_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arcana/internal/codec"
)

func TestWriter_LittleEndianLayout(t *testing.T) {
	w := codec.NewWriter(0)
	w.U8(0xAB)
	w.U16(0x0102)
	w.U32(0x03040506)
	w.Word(7)
	assert.Equal(t, []byte{
		0xAB,
		0x02, 0x01,
		0x06, 0x05, 0x04, 0x03,
		7, 0, 0, 0, 0, 0, 0, 0,
	}, w.Bytes())
}

func TestReader_RoundTrip(t *testing.T) {
	w := codec.NewWriter(64)
	w.U8(9)
	w.U16(math.MaxUint16)
	w.U32(123456)
	w.Int(42)
	w.String("Mordecai")
	require.NoError(t, w.ShortString("goblin"))
	w.Block([]byte{1, 2, 3})

	r := codec.NewReader(w.Bytes())
	u8, err := r.U8("u8")
	require.NoError(t, err)
	assert.Equal(t, uint8(9), u8)
	u16, err := r.U16("u16")
	require.NoError(t, err)
	assert.Equal(t, uint16(math.MaxUint16), u16)
	u32, err := r.U32("u32")
	require.NoError(t, err)
	assert.Equal(t, uint32(123456), u32)
	n, err := r.Int("int")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	s, err := r.String("name")
	require.NoError(t, err)
	assert.Equal(t, "Mordecai", s)
	s, err = r.ShortString("short")
	require.NoError(t, err)
	assert.Equal(t, "goblin", s)
	b, err := r.Block("block")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
	assert.NoError(t, r.Done("end"))
}

func TestReader_TruncatedNamesField(t *testing.T) {
	r := codec.NewReader([]byte{1})
	_, err := r.U32("wizard.hp")
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrInvalidData)
	var ide *codec.InvalidDataError
	require.True(t, errors.As(err, &ide))
	assert.Equal(t, "wizard.hp", ide.Field)
	assert.Equal(t, 0, r.Position(), "failed read consumes nothing")
}

func TestReader_RejectsInvalidUTF8(t *testing.T) {
	w := codec.NewWriter(0)
	w.Block([]byte{0xff, 0xfe})
	_, err := codec.NewReader(w.Bytes()).String("name")
	assert.ErrorIs(t, err, codec.ErrInvalidData)
}

func TestReader_CountBoundedByInput(t *testing.T) {
	w := codec.NewWriter(0)
	w.Int(1 << 20)
	w.U8(0)
	_, err := codec.NewReader(w.Bytes()).Count("battles", 1)
	assert.ErrorIs(t, err, codec.ErrInvalidData)
}

func TestReader_DoneRejectsTrailing(t *testing.T) {
	r := codec.NewReader([]byte{1, 2})
	_, _ = r.U8("x")
	assert.ErrorIs(t, r.Done("record"), codec.ErrInvalidData)
}

func TestWriter_ShortStringTooLong(t *testing.T) {
	w := codec.NewWriter(0)
	assert.Error(t, w.ShortString(strings.Repeat("a", 256)))
	assert.Equal(t, 0, w.Len())
}

// Property: every string written is read back unchanged.
func TestPropertyStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		w := codec.NewWriter(0)
		w.String(s)
		got, err := codec.NewReader(w.Bytes()).String("s")
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != s {
			t.Fatalf("got %q, want %q", got, s)
		}
	})
}

// Property: decoding any prefix of a valid buffer fails cleanly with invalid data.
func TestPropertyTruncationIsInvalidData(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		w := codec.NewWriter(0)
		w.Word(v)
		w.U32(uint32(v))
		cut := rapid.IntRange(0, w.Len()-1).Draw(t, "cut")
		r := codec.NewReader(w.Bytes()[:cut])
		_, err := r.Word("word")
		if err == nil {
			_, err = r.U32("u32")
		}
		if !errors.Is(err, codec.ErrInvalidData) {
			t.Fatalf("cut at %d: got %v", cut, err)
		}
	})
}
