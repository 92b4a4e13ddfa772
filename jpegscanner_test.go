package exifedit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildJPEGPrefix assembles SOI, an optional APP1 segment (already fully
// formed, including marker/length/payload), and a trailing DQT marker with
// a dummy 2-byte payload.
func buildJPEGPrefix(app1 []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8}) // SOI
	buf.Write(app1)
	buf.Write([]byte{0xff, 0xdb, 0x00, 0x04, 0xaa, 0xbb}) // DQT, length 4, 2 payload bytes
	buf.Write([]byte{0xff, 0xd9})                         // EOI
	return buf.Bytes()
}

func buildApp1(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xe1})
	length := uint16(2 + len(payload))
	buf.Write([]byte{byte(length >> 8), byte(length)})
	buf.Write(payload)
	return buf.Bytes()
}

func TestScanNoSOI(t *testing.T) {
	r := bytes.NewReader([]byte{0xff, 0xd9})
	_, err := Scan(r, exifID)
	assert.ErrorIs(t, err, errNoSOI)
}

func TestScanNoApp1FindsDQT(t *testing.T) {
	data := buildJPEGPrefix(nil)
	res, err := Scan(bytes.NewReader(data), exifID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.App1Offset)
	assert.Equal(t, int64(2), res.DQTOffset)
}

func TestScanFindsExifApp1(t *testing.T) {
	payload := append([]byte(exifID), []byte{1, 2, 3, 4, 5, 6, 7, 8}...)
	app1 := buildApp1(payload)
	data := buildJPEGPrefix(app1)
	res, err := Scan(bytes.NewReader(data), exifID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.App1Offset)
	assert.Equal(t, int64(2+len(app1)), res.DQTOffset)
}

func TestScanSkipsNonMatchingApp1(t *testing.T) {
	xmpPayload := append([]byte("http://ns.adobe.com/xap/1.0/\x00"), []byte{1, 2}...)
	app1 := buildApp1(xmpPayload)
	data := buildJPEGPrefix(app1)
	res, err := Scan(bytes.NewReader(data), exifID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.App1Offset)
	assert.Equal(t, int64(2+len(app1)), res.DQTOffset)

	res2, err := Scan(bytes.NewReader(data), "http://ns.adobe.com/xap/")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res2.App1Offset)
}

func TestFindExifSignature(t *testing.T) {
	data := append([]byte{0xff, 0xe1, 0x00, 0x10}, []byte(exifID)...)
	data = append(data, []byte{'I', 'I', 0x2a, 0, 8, 0, 0, 0}...)
	off, err := FindExifSignature(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, off)

	_, err = FindExifSignature([]byte{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestFindMisalignedExifApp1Recovers(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})                  // SOI, not scanned by the helper itself
	appStart := buf.Len()
	buf.Write([]byte{0xff, 0xe1, 0x00, 0x10})       // well-formed marker + length
	buf.WriteString(exifID)
	buf.Write([]byte{'I', 'I', 0x2a, 0, 8, 0, 0, 0})

	off, ok := findMisalignedExifApp1(bytes.NewReader(buf.Bytes()), 0)
	require.True(t, ok)
	assert.Equal(t, int64(appStart), off)
}

func TestFindMisalignedExifApp1NoSignature(t *testing.T) {
	_, ok := findMisalignedExifApp1(bytes.NewReader([]byte{0xff, 0xd8, 0xff, 0xd9}), 0)
	assert.False(t, ok)
}
