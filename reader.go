package exifedit

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// segmentReader performs the random-access reads IfdParser needs, relative to the start of the TIFF header ("offset base", per the
// glossary: all IFD offsets in the Exif segment are relative to the start of
// the TIFF header, never to the file or the APP1 marker). It replaces the
// teacher's in-memory Desc.data slice with io.ReaderAt so the caller's file
// handle, not a full-file copy, is the source of truth.
type segmentReader struct {
	r          io.ReaderAt
	order      binary.ByteOrder
	tiffBase   int64
	segmentLen uint32 // bytes available after the TIFF header, for the §4.4 guard
}

func (s segmentReader) readAt(offset uint32, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.r.ReadAt(buf, s.tiffBase+int64(offset)); err != nil {
		return nil, errors.Wrapf(err, "read %d bytes @offset %#x", n, offset)
	}
	return buf, nil
}

func (s segmentReader) u16(offset uint32) (uint16, error) {
	b, err := s.readAt(offset, 2)
	if err != nil {
		return 0, err
	}
	return s.order.Uint16(b), nil
}

func (s segmentReader) u32(offset uint32) (uint32, error) {
	b, err := s.readAt(offset, 4)
	if err != nil {
		return 0, err
	}
	return s.order.Uint32(b), nil
}

// oversized reports whether a claimed payload of sz bytes is at least as
// large as the bytes available after the TIFF header (segmentLen): the guard
// of spec.md §4.4. The payload's offset is not taken into account, and a
// zero segmentLen disables the check.
func (s segmentReader) oversized(sz uint32) bool {
	return s.segmentLen != 0 && sz >= s.segmentLen
}
