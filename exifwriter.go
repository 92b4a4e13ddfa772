package exifedit

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// writeOrder is the order IFDs are emitted on the wire (spec.md §4.8).
var writeOrder = [...]Kind{ZEROTH, EXIF, INTEROP, GPS, FIRST}

// WriteApp1 emits the full APP1 segment (header + all present IFDs + the
// FIRST IFD's thumbnail) for an already-fixed-up graph. Callers must run
// FixOffsets first; WriteApp1 trusts ifd.length/ifd.offset as given.
func WriteApp1(w io.Writer, g *IfdGraph) (int, error) {
	var sumLen uint32
	for _, k := range writeOrder {
		if ifd, present := g.Get(k); present {
			sumLen += ifd.length
		}
	}
	length := uint16(app1PreambleSz+len(exifID)+tiffHeaderSize-2) + uint16(sumLen)

	written, err := EncodeApp1Header(w, g.header, length)
	if err != nil {
		return written, errors.Wrap(err, "encode app1 header")
	}
	debugf(writerLog, "app1 header: length=%d little-endian=%v", length, g.header.LittleEndian)

	for _, k := range writeOrder {
		ifd, present := g.Get(k)
		if !present {
			continue
		}
		n, err := writeIfdEntries(w, g.header.Order, ifd)
		if err != nil {
			return written, errors.Wrapf(err, "write %s ifd entries", k)
		}
		written += n

		n, err = writeIfdDataArea(w, g.header.Order, ifd)
		if err != nil {
			return written, errors.Wrapf(err, "write %s ifd data area", k)
		}
		written += n

		if k == FIRST && len(ifd.thumbnail) > 0 {
			if _, err := w.Write(ifd.thumbnail); err != nil {
				return written, errors.Wrap(err, "write thumbnail")
			}
			written += len(ifd.thumbnail)
		}
	}

	return written, nil
}

func writeIfdEntries(w io.Writer, order binary.ByteOrder, ifd *Ifd) (int, error) {
	written := 0
	if err := binary.Write(w, order, uint16(ifd.tagCount())); err != nil {
		return written, err
	}
	written += 2

	dataOffset := ifd.offset + 2 + uint32(ifd.tagCount())*12 + 4
	for _, t := range ifd.tags {
		if err := binary.Write(w, order, t.ID); err != nil {
			return written, err
		}
		if err := binary.Write(w, order, uint16(t.Type)); err != nil {
			return written, err
		}
		if err := binary.Write(w, order, t.Count); err != nil {
			return written, err
		}
		if t.inline() {
			if _, err := w.Write(packInline(t, order)); err != nil {
				return written, err
			}
		} else {
			if err := binary.Write(w, order, dataOffset); err != nil {
				return written, err
			}
			dataOffset += outOfLineSize(t)
		}
		written += 12
	}

	if err := binary.Write(w, order, ifd.nextIfdOffset); err != nil {
		return written, err
	}
	written += 4
	return written, nil
}

func writeIfdDataArea(w io.Writer, order binary.ByteOrder, ifd *Ifd) (int, error) {
	written := 0
	for _, t := range ifd.tags {
		if t.inline() {
			continue
		}
		payload := payloadBytes(t, order)
		if _, err := w.Write(payload); err != nil {
			return written, err
		}
		written += len(payload)
		if pad := int(outOfLineSize(t)) - len(payload); pad > 0 {
			if _, err := w.Write(make([]byte, pad)); err != nil {
				return written, err
			}
			written += pad
		}
	}
	return written, nil
}

// packInline packs a tag's value left-justified into the 4-byte
// value/offset slot, in data endianness.
func packInline(t Tag, order binary.ByteOrder) []byte {
	buf := make([]byte, 4)
	switch {
	case t.Type.isBytes():
		copy(buf, t.raw)
	case t.Type.isNumeric():
		switch t.Type.unitSize() {
		case 1:
			for i, v := range t.nums {
				buf[i] = byte(v)
			}
		case 2:
			for i, v := range t.nums {
				order.PutUint16(buf[2*i:], uint16(v))
			}
		case 4:
			for i, v := range t.nums {
				order.PutUint32(buf[4*i:], v)
			}
		}
	}
	return buf
}

// payloadBytes renders a tag's out-of-line value as bytes, in data
// endianness, with no padding (padding is the caller's job).
func payloadBytes(t Tag, order binary.ByteOrder) []byte {
	switch {
	case t.Type.isBytes():
		return t.raw
	case t.Type.isNumeric():
		unit := t.Type.unitSize()
		buf := make([]byte, unit*uint32(len(t.nums)))
		for i, v := range t.nums {
			switch unit {
			case 1:
				buf[i] = byte(v)
			case 2:
				order.PutUint16(buf[2*i:], uint16(v))
			case 4:
				order.PutUint32(buf[4*i:], v)
			}
		}
		return buf
	case t.Type.isRational():
		buf := make([]byte, 4*len(t.rationals))
		for i, v := range t.rationals {
			order.PutUint32(buf[4*i:], v)
		}
		return buf
	default:
		return nil
	}
}
