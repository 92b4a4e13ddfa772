package exifedit

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ParseOptions controls IfdParser's handling of tags it cannot decode,
// supplementing the original C implementation's keep/remove/stop control
// (spec.md's own isolated-tag-error model corresponds to KeepTag).
type ParseOptions struct {
	UnknownTagPolicy UnknownTagPolicy
}

// decodeNumeric reads count elements of typ (one of the unsigned/signed
// BYTE/SHORT/LONG kinds) from data, sign-widening into 32-bit slots.
func decodeNumeric(data []byte, typ Type, count uint32, order binary.ByteOrder) []uint32 {
	out := make([]uint32, count)
	switch typ {
	case TypeByte:
		for i := uint32(0); i < count; i++ {
			out[i] = uint32(data[i])
		}
	case TypeSByte:
		for i := uint32(0); i < count; i++ {
			out[i] = uint32(int32(int8(data[i])))
		}
	case TypeShort:
		for i := uint32(0); i < count; i++ {
			out[i] = uint32(order.Uint16(data[2*i:]))
		}
	case TypeSShort:
		for i := uint32(0); i < count; i++ {
			out[i] = uint32(int32(int16(order.Uint16(data[2*i:]))))
		}
	case TypeLong:
		for i := uint32(0); i < count; i++ {
			out[i] = order.Uint32(data[4*i:])
		}
	case TypeSLong:
		for i := uint32(0); i < count; i++ {
			out[i] = uint32(int32(order.Uint32(data[4*i:])))
		}
	}
	return out
}

// decodeRationalWords reads count numerator/denominator pairs (2*count
// 32-bit words) from data. The bit pattern is identical whether the pair is
// ultimately exposed as Rational or SRational.
func decodeRationalWords(data []byte, count uint32, order binary.ByteOrder) []uint32 {
	out := make([]uint32, 2*count)
	for i := range out {
		out[i] = order.Uint32(data[4*i:])
	}
	return out
}

// decodeTag reads one 12-byte IFD entry at entryOffset (relative to the
// TIFF header) and resolves its value, inline or out-of-line, per
// spec.md §4.4. A tag whose type is unrecognised, or whose claimed payload
// length is greater than or equal to the Exif segment length, or whose
// out-of-line read fails, comes back with Error set rather than aborting
// the whole IFD.
func decodeTag(sr segmentReader, entryOffset uint32) (Tag, error) {
	id, err := sr.u16(entryOffset)
	if err != nil {
		return Tag{}, err
	}
	rawType, err := sr.u16(entryOffset + 2)
	if err != nil {
		return Tag{}, err
	}
	count, err := sr.u32(entryOffset + 4)
	if err != nil {
		return Tag{}, err
	}
	rawVal, err := sr.readAt(entryOffset+8, 4)
	if err != nil {
		return Tag{}, err
	}

	typ := Type(rawType)
	t := Tag{ID: id, Type: typ, Count: count}
	if !typ.valid() {
		t.Error = true
		return t, nil
	}

	size := typ.payloadSize(count)
	if sr.oversized(size) {
		t.Error = true
		return t, nil
	}

	var payload []byte
	if size <= 4 {
		payload = rawVal[:size]
	} else {
		offset := sr.order.Uint32(rawVal)
		payload, err = sr.readAt(offset, int(size))
		if err != nil {
			t.Error = true
			return t, nil
		}
	}

	switch {
	case typ.isNumeric():
		t.nums = decodeNumeric(payload, typ, count, sr.order)
	case typ.isRational():
		t.rationals = decodeRationalWords(payload, count, sr.order)
	case typ.isBytes():
		t.raw = append([]byte(nil), payload...)
	}
	return t, nil
}

// parseIfd reads one IFD at startOffset (relative to the TIFF header),
// decoding every entry in read order per spec.md §4.4. For ZEROTH it also
// reads the trailing next-IFD offset; for FIRST it additionally loads the
// thumbnail blob once all tags are in place.
func parseIfd(sr segmentReader, startOffset uint32, kind Kind, opts ParseOptions) (*Ifd, error) {
	count, err := sr.u16(startOffset)
	if err != nil {
		return nil, errors.Wrapf(err, "%s ifd: read tag count", kind)
	}

	ifd := newIfd(kind)
	for i := uint16(0); i < count; i++ {
		entryOffset := startOffset + 2 + uint32(i)*12
		t, err := decodeTag(sr, entryOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "%s ifd: decode entry %d", kind, i)
		}
		if t.Error {
			switch opts.UnknownTagPolicy {
			case RemoveTag:
				continue
			case StopOnUnknown:
				return nil, errors.Errorf("%s ifd: bad entry %d (tag %#04x)", kind, i, t.ID)
			}
		}
		debugf(parserLog, "%s ifd: entry %d tag %#04x type %s count %d error=%v",
			kind, i, t.ID, t.Type, t.Count, t.Error)
		ifd.appendRaw(t)
	}

	if kind == ZEROTH {
		nextOffset := startOffset + 2 + uint32(count)*12
		next, err := sr.u32(nextOffset)
		if err != nil {
			return nil, errors.Wrap(err, "0th ifd: read next-ifd offset")
		}
		ifd.nextIfdOffset = next
	}

	if kind == FIRST {
		loadThumbnail(sr, ifd)
	}

	return ifd, nil
}

// loadThumbnail copies the FIRST IFD's embedded JPEG thumbnail, per
// spec.md §4.4 step 4. A failed seek/read drops the thumbnail silently,
// matching the original behaviour: a missing thumbnail is not an error.
func loadThumbnail(sr segmentReader, ifd *Ifd) {
	offT, ok1 := ifd.GetTag(tagJPEGInterchangeFmt)
	lenT, ok2 := ifd.GetTag(tagJPEGInterchangeLen)
	if !ok1 || !ok2 || lenT.Type != TypeLong || offT.Type != TypeLong {
		return
	}
	length := lenT.firstUint32()
	if length == 0 {
		return
	}
	data, err := sr.readAt(offT.firstUint32(), int(length))
	if err != nil {
		return
	}
	ifd.setThumbnail(data)
}
