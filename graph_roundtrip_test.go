package exifedit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJPEG(t *testing.T, dir string, app1 []byte) string {
	t.Helper()
	path := filepath.Join(dir, "in.jpg")
	data := buildJPEGPrefix(app1)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// TestScenario1InsertIntoJpegWithNoExif follows spec.md §8 scenario 1
// literally: no existing APP1, insert a 0th IFD with Make="ABCDE\0".
func TestScenario1InsertIntoJpegWithNoExif(t *testing.T) {
	dir := t.TempDir()
	inPath := writeTempJPEG(t, dir, nil)
	outPath := filepath.Join(dir, "out.jpg")

	g, st := CreateGraph(inPath)
	require.True(t, st.Ok())
	assert.Nil(t, g)
	assert.Equal(t, 0, st.Count)

	removeSt := RemoveExifSegment(inPath, filepath.Join(dir, "noop.jpg"))
	require.True(t, removeSt.Ok())
	assert.Equal(t, 0, removeSt.Count)

	graph := NewGraph()
	require.True(t, graph.InsertIfd(ZEROTH).Ok())
	require.True(t, graph.InsertTag(ZEROTH, NewAsciiTagZ(0x010f, "ABCDE")).Ok())

	st = UpdateExifSegment(inPath, outPath, graph)
	require.True(t, st.Ok())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	// app1 segment: marker(2) + length(2, value 40) + preamble/tiff/ifd(38) = 42 bytes,
	// inserted immediately after SOI and before the DQT marker.
	assert.Equal(t, []byte{0xff, 0xd8}, out[0:2])
	assert.Equal(t, []byte{0xff, 0xe1}, out[2:4])
	assert.Equal(t, uint16(40), uint16(out[4])<<8|uint16(out[5]))
	assert.Equal(t, []byte{0xff, 0xdb}, out[2+42:2+42+2])

	reparsed, st2 := CreateGraph(outPath)
	require.True(t, st2.Ok())
	require.NotNil(t, reparsed)
	tag, st3 := reparsed.GetTag(ZEROTH, 0x010f)
	require.True(t, st3.Ok())
	assert.Equal(t, "ABCDE\x00", string(tag.Bytes()))
}

func TestRoundTripPreservesInlineUndefinedTag(t *testing.T) {
	dir := t.TempDir()
	inPath := writeTempJPEG(t, dir, nil)
	outPath := filepath.Join(dir, "out.jpg")

	graph := NewGraph()
	require.True(t, graph.InsertIfd(ZEROTH).Ok())
	require.True(t, graph.InsertIfd(EXIF).Ok())
	compConfig := NewUndefinedTag(0x9101, []byte{0x01, 0x02, 0x03, 0x00})
	require.True(t, graph.InsertTag(EXIF, compConfig).Ok())

	require.True(t, UpdateExifSegment(inPath, outPath, graph).Ok())

	reparsed, st := CreateGraph(outPath)
	require.True(t, st.Ok())
	tag, st2 := reparsed.GetTag(EXIF, 0x9101)
	require.True(t, st2.Ok())
	assert.True(t, tag.inline())
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x00}, tag.Bytes())
}

func TestRemoveIfdThenUpdateScrubsPointer(t *testing.T) {
	dir := t.TempDir()
	inPath := writeTempJPEG(t, dir, nil)
	midPath := filepath.Join(dir, "mid.jpg")
	outPath := filepath.Join(dir, "out.jpg")

	graph := NewGraph()
	require.True(t, graph.InsertIfd(ZEROTH).Ok())
	require.True(t, graph.InsertIfd(GPS).Ok())
	require.True(t, graph.InsertTag(GPS, NewByteTag(0x0001, 'N')).Ok())
	require.True(t, UpdateExifSegment(inPath, midPath, graph).Ok())

	reparsed, st := CreateGraph(midPath)
	require.True(t, st.Ok())
	_, found := reparsed.Get(GPS)
	require.True(t, found)

	require.True(t, reparsed.RemoveIfd(GPS).Ok())
	require.True(t, UpdateExifSegment(midPath, outPath, reparsed).Ok())

	final, st2 := CreateGraph(outPath)
	require.True(t, st2.Ok())
	_, found = final.Get(GPS)
	assert.False(t, found)
	ptr, stPtr := final.GetTag(ZEROTH, tagGPSInfoIFDPointer)
	if stPtr.Ok() {
		assert.Equal(t, uint32(0), ptr.firstUint32())
	}
}
