package exifedit

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	markerAPP1     = 0xffe1
	exifID         = "Exif\x00\x00"
	tiffMagic      = 0x002a
	tiffHeaderSize = 8 // sizeof(TIFF_HEADER), spec.md §4.7 step 2
	app1PreambleSz = 4 // marker + length, always big-endian on the wire
)

// App1Header is the decoded APP1 marker + TIFF header preamble. Length is
// the on-wire segment length field (including itself); it is recomputed by
// OffsetFixer + ExifWriter on every write and is only informative on a
// freshly decoded header.
type App1Header struct {
	Order       binary.ByteOrder
	LittleEndian bool
	Ifd0Offset  uint32
	Length      uint16
}

// defaultApp1Header is used for a freshly-created segment: little-endian
// data, 0th IFD immediately following the 8-byte TIFF header.
func defaultApp1Header() App1Header {
	return App1Header{Order: binary.LittleEndian, LittleEndian: true, Ifd0Offset: tiffHeaderSize}
}

// DecodeApp1Header decodes the APP1 marker, length, Exif id and TIFF header
// starting at the absolute file offset app1Offset. It returns the header,
// the absolute offset of the TIFF header (the "offset base" all IFD
// pointers are relative to), and the number of bytes available after that
// base (used by IfdParser's oversized-payload guard).
func DecodeApp1Header(r io.ReaderAt, app1Offset int64) (hdr App1Header, tiffBase int64, segmentLen uint32, err error) {
	pre := make([]byte, app1PreambleSz+len(exifID))
	if _, err = r.ReadAt(pre, app1Offset); err != nil {
		return hdr, 0, 0, errors.Wrap(err, "read app1 preamble")
	}
	marker := binary.BigEndian.Uint16(pre[0:2])
	if marker != markerAPP1 {
		return hdr, 0, 0, errBadApp1Marker
	}
	length := binary.BigEndian.Uint16(pre[2:4])
	if string(pre[4:4+len(exifID)]) != exifID {
		return hdr, 0, 0, errBadExifID
	}
	if length < 2+uint16(len(exifID))+tiffHeaderSize {
		return hdr, 0, 0, errApp1TooShort
	}

	tiffBase = app1Offset + app1PreambleSz + int64(len(exifID))
	tiff := make([]byte, tiffHeaderSize)
	if _, err = r.ReadAt(tiff, tiffBase); err != nil {
		return hdr, 0, 0, errors.Wrap(err, "read tiff header")
	}
	mark := binary.BigEndian.Uint16(tiff[0:2]) // byte-order mark is readable either way
	order, oerr := byteOrderFromMark(mark)
	if oerr != nil {
		return hdr, 0, 0, oerr
	}
	magic := order.Uint16(tiff[2:4])
	if magic != tiffMagic {
		return hdr, 0, 0, errBadReserved
	}
	hdr = App1Header{
		Order:        order,
		LittleEndian: dataIsLE(mark),
		Ifd0Offset:   order.Uint32(tiff[4:8]),
		Length:       length,
	}
	segmentLen = uint32(length) - 2 - uint32(len(exifID))
	return hdr, tiffBase, segmentLen, nil
}

// EncodeApp1Header writes the marker, length, Exif id and TIFF header. The
// length must already have been recomputed by ExifWriter as
// sizeof(APP1_HEADER)-2 + Σ ifd.length (spec.md §4.8).
func EncodeApp1Header(w io.Writer, hdr App1Header, length uint16) (int, error) {
	n := 0
	if err := binary.Write(w, binary.BigEndian, uint16(markerAPP1)); err != nil {
		return n, err
	}
	n += 2
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return n, err
	}
	n += 2
	if _, err := w.Write([]byte(exifID)); err != nil {
		return n, err
	}
	n += len(exifID)
	if _, err := w.Write([]byte{byte(markFromByteOrder(hdr.Order) >> 8), byte(markFromByteOrder(hdr.Order))}); err != nil {
		return n, err
	}
	n += 2
	if err := binary.Write(w, hdr.Order, uint16(tiffMagic)); err != nil {
		return n, err
	}
	n += 2
	if err := binary.Write(w, hdr.Order, hdr.Ifd0Offset); err != nil {
		return n, err
	}
	n += 4
	return n, nil
}
