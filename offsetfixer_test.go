package exifedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraphWithMake(value string) *IfdGraph {
	g := NewGraph()
	zeroth := newIfd(ZEROTH)
	zeroth.appendRaw(NewAsciiTagZ(0x010f, value))
	g.ifds[ZEROTH] = zeroth
	return g
}

func TestFixOffsetsScenario1Arithmetic(t *testing.T) {
	// spec.md §8 scenario 1: Make = "ABCDE\0" (count 6) in an otherwise
	// empty 0th IFD. ifd length = 2 + 12 + 4 + 6 = 24; total segment
	// (tiff header + ifd) = 8 + 24 = 32.
	g := newTestGraphWithMake("ABCDE")
	FixOffsets(g)

	zeroth, ok := g.Get(ZEROTH)
	require.True(t, ok)
	assert.Equal(t, uint32(24), zeroth.length)
	assert.Equal(t, uint32(tiffHeaderSize), zeroth.offset)
}

func TestFixOffsetsIsIdempotent(t *testing.T) {
	g := newTestGraphWithMake("ABCDE")
	g.ifds[EXIF] = newIfd(EXIF)
	g.ifds[EXIF].appendRaw(NewShortTag(0x8827, 100))

	FixOffsets(g)
	zeroth, _ := g.Get(ZEROTH)
	exif, _ := g.Get(EXIF)
	firstLen, firstOff := zeroth.length, zeroth.offset
	exifLen, exifOff := exif.length, exif.offset

	FixOffsets(g)
	assert.Equal(t, firstLen, zeroth.length)
	assert.Equal(t, firstOff, zeroth.offset)
	assert.Equal(t, exifLen, exif.length)
	assert.Equal(t, exifOff, exif.offset)
}

func TestFixOffsetsPointerConsistency(t *testing.T) {
	g := newTestGraphWithMake("ABCDE")
	g.ifds[EXIF] = newIfd(EXIF)
	g.ifds[EXIF].appendRaw(NewShortTag(0x8827, 100))
	g.ifds[GPS] = newIfd(GPS)
	g.ifds[GPS].appendRaw(NewByteTag(0x0000, 2, 2, 0, 0))

	FixOffsets(g)

	zeroth, _ := g.Get(ZEROTH)
	exif, _ := g.Get(EXIF)
	gps, _ := g.Get(GPS)

	exifPtr, ok := zeroth.GetTag(tagExifIFDPointer)
	require.True(t, ok)
	assert.Equal(t, exif.offset, exifPtr.firstUint32())

	gpsPtr, ok := zeroth.GetTag(tagGPSInfoIFDPointer)
	require.True(t, ok)
	assert.Equal(t, gps.offset, gpsPtr.firstUint32())

	// Remove GPS; re-running FixOffsets should scrub the pointer to 0.
	g.ifds[GPS] = nil
	FixOffsets(g)
	gpsPtr, ok = zeroth.GetTag(tagGPSInfoIFDPointer)
	require.True(t, ok)
	assert.Equal(t, uint32(0), gpsPtr.firstUint32())
}

func TestFixOffsetsThumbnailConsistency(t *testing.T) {
	g := newTestGraphWithMake("ABCDE")
	thumb := []byte{0xff, 0xd8, 0xff, 0xd9}
	require.True(t, g.SetThumbnail(thumb).Ok())
	FixOffsets(g)

	first, ok := g.Get(FIRST)
	require.True(t, ok)
	lenTag, ok := first.GetTag(tagJPEGInterchangeLen)
	require.True(t, ok)
	assert.Equal(t, uint32(len(thumb)), lenTag.firstUint32())

	offTag, ok := first.GetTag(tagJPEGInterchangeFmt)
	require.True(t, ok)
	assert.Equal(t, first.offset+first.length-uint32(len(thumb)), offTag.firstUint32())
}

func TestFixOffsetsDropsErrorTags(t *testing.T) {
	g := newTestGraphWithMake("ABCDE")
	zeroth, _ := g.Get(ZEROTH)
	zeroth.appendRaw(Tag{ID: 0x9999, Error: true})
	FixOffsets(g)
	assert.False(t, zeroth.hasTag(0x9999))
}
