package exifedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeSizes(t *testing.T) {
	cases := []struct {
		typ      Type
		unit     uint32
		numeric  bool
		rational bool
		bytes    bool
		signed   bool
	}{
		{TypeByte, 1, true, false, false, false},
		{TypeAscii, 1, false, false, true, false},
		{TypeShort, 2, true, false, false, false},
		{TypeLong, 4, true, false, false, false},
		{TypeRational, 8, false, true, false, false},
		{TypeSByte, 1, true, false, false, true},
		{TypeUndefined, 1, false, false, true, false},
		{TypeSShort, 2, true, false, false, true},
		{TypeSLong, 4, true, false, false, true},
		{TypeSRational, 8, false, true, false, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.unit, c.typ.unitSize(), c.typ.String())
		assert.Equal(t, c.numeric, c.typ.isNumeric(), c.typ.String())
		assert.Equal(t, c.rational, c.typ.isRational(), c.typ.String())
		assert.Equal(t, c.bytes, c.typ.isBytes(), c.typ.String())
		assert.Equal(t, c.signed, c.typ.signed(), c.typ.String())
		assert.True(t, c.typ.valid())
	}
	assert.False(t, Type(0).valid())
	assert.False(t, Type(11).valid())
}

func TestPayloadSizeBoundary(t *testing.T) {
	// The count=4/count=5 ASCII boundary named in spec.md §8.
	asciiInline := TypeAscii.payloadSize(4)
	asciiOutOfLine := TypeAscii.payloadSize(5)
	assert.LessOrEqual(t, asciiInline, uint32(4))
	assert.Greater(t, asciiOutOfLine, uint32(4))
}
