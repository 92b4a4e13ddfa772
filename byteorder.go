package exifedit

import "encoding/binary"

// ByteOrder marks, as read from the first two bytes of a TIFF header.
const (
	markerLE = 0x4949 // "II", Intel / little-endian
	markerBE = 0x4d4d // "MM", Motorola / big-endian
)

// dataIsLE reports whether mark (the raw 16-bit value at TIFF header offset
// 0) designates a little-endian data area. It is the caller's job to have
// already validated mark against {markerLE, markerBE}.
func dataIsLE(mark uint16) bool {
	return mark == markerLE
}

// byteOrderFromMark returns the encoding/binary.ByteOrder matching mark, or
// an error if mark is neither "II" nor "MM".
func byteOrderFromMark(mark uint16) (binary.ByteOrder, error) {
	switch mark {
	case markerLE:
		return binary.LittleEndian, nil
	case markerBE:
		return binary.BigEndian, nil
	default:
		return nil, errInvalidByteOrderMark(mark)
	}
}

func markFromByteOrder(order binary.ByteOrder) uint16 {
	if order == binary.BigEndian {
		return markerBE
	}
	return markerLE
}

// swab16 byte-swaps a 16-bit value unconditionally.
func swab16(v uint16) uint16 {
	return v<<8 | v>>8
}

// swab32 byte-swaps a 32-bit value unconditionally.
func swab32(v uint32) uint32 {
	return v<<24 | (v<<8)&0x00ff0000 | (v>>8)&0x0000ff00 | v>>24
}

// fix16 swaps v if the data byte order differs from the host's assumed
// native order (host is always treated as little-endian, matching
// encoding/binary's native-independence: fix16/fix32 exist only to mirror
// the teacher's symmetric encode/decode helpers, not because the host
// matters once a binary.ByteOrder is in hand).
func fix16(v uint16, dataLE bool) uint16 {
	if dataLE {
		return v
	}
	return swab16(v)
}

func fix32(v uint32, dataLE bool) uint32 {
	if dataLE {
		return v
	}
	return swab32(v)
}
