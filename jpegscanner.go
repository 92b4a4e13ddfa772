package exifedit

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	markerSOI    = 0xffd8
	markerDQT    = 0xffdb
	app0First    = 0xffe0
	appnLast     = 0xffef
)

// ScanResult is the outcome of walking a JPEG's marker chain looking for an
// Exif APP1 segment and the DQT marker that bounds where a new one may be
// inserted.
type ScanResult struct {
	App1Offset int64 // 0 if no matching APP1 was found
	DQTOffset  int64 // 0 if no DQT marker was seen before the scan stopped
}

// Scan locates the Exif APP1 segment (matched by idString, e.g. "Exif\x00")
// and the DQT marker position in a JPEG marker stream, per spec.md §4.2.
//
// It requires the first two bytes to be SOI (0xFFD8); JPEG marker lengths
// are always big-endian regardless of the TIFF data's own byte order. Once
// an Exif APP1 has been matched the scan still continues, so a DQT seen
// later is still recorded, but it terminates as soon as it sees a marker
// that is not an APPn segment.
func Scan(r io.ReadSeeker, idString string) (ScanResult, error) {
	var res ScanResult

	soi := make([]byte, 2)
	if _, err := io.ReadFull(r, soi); err != nil {
		return res, errors.Wrap(err, "read SOI")
	}
	if binary.BigEndian.Uint16(soi) != markerSOI {
		return res, errNoSOI
	}

	idBytes := []byte(idString)
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return res, errors.Wrap(err, "tell position")
		}

		var markerBuf [2]byte
		if _, err := io.ReadFull(r, markerBuf[:]); err != nil {
			if err == io.EOF {
				break
			}
			return res, errors.Wrap(err, "read marker")
		}
		marker := binary.BigEndian.Uint16(markerBuf[:])

		if marker == markerDQT {
			res.DQTOffset = pos
			debugf(scannerLog, "dqt marker @%#x", pos)
			break
		}
		if marker < app0First || marker > appnLast {
			debugf(scannerLog, "non-APPn marker %#04x @%#x, stopping scan", marker, pos)
			break
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return res, errors.Wrap(err, "read segment length")
		}
		length := binary.BigEndian.Uint16(lenBuf[:])

		if marker == markerAPP1 && res.App1Offset == 0 {
			idLen := len(idBytes)
			probe := make([]byte, idLen)
			n, _ := io.ReadFull(r, probe)
			if n == idLen && string(probe) == idString {
				res.App1Offset = pos
				debugf(scannerLog, "app1 Exif segment @%#x, length %d", pos, length)
			}
			// seek back to just after the length field regardless of match,
			// then skip the rest of the segment like any other APPn.
			if _, err := r.Seek(pos+4, io.SeekStart); err != nil {
				return res, errors.Wrap(err, "rewind after app1 probe")
			}
		}

		if _, err := r.Seek(int64(length)-2, io.SeekCurrent); err != nil {
			return res, errors.Wrap(err, "skip segment payload")
		}
	}

	if idString == exifID && res.App1Offset == 0 {
		if off, ok := findMisalignedExifApp1(r, res.DQTOffset); ok {
			res.App1Offset = off
			debugf(scannerLog, "app1 Exif segment recovered by signature scan @%#x", off)
		}
	}

	return res, nil
}

// findMisalignedExifApp1 is the defensive fallback for an encoder that
// embeds an Exif payload without a well-formed APP1 marker/length pair: it
// scans the bytes already walked (SOI through limit, or the whole stream if
// limit is 0) for the bitap-matched Exif signature and, if the two bytes
// four bytes before it are a 0xFFE1 marker, reports that marker's position
// as the APP1 offset. The length field between them is not checked.
func findMisalignedExifApp1(r io.ReadSeeker, limit int64) (int64, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, false
	}
	var buf []byte
	var err error
	if limit > 0 {
		buf = make([]byte, limit)
		_, err = io.ReadFull(r, buf)
	} else {
		buf, err = io.ReadAll(r)
	}
	if err != nil {
		return 0, false
	}
	sigOff, err := FindExifSignature(buf, 2)
	if err != nil || sigOff < 4 {
		return 0, false
	}
	if binary.BigEndian.Uint16(buf[sigOff-4:sigOff-2]) != markerAPP1 {
		return 0, false
	}
	return int64(sigOff - 4), true
}

var exifSigPattern = []byte("Exif\x00\x00")
var exifSigMasks = bitapMasks(exifSigPattern)

// FindExifSignature locates the 6-byte "Exif\x00\x00" signature within data
// starting at start. It supplements Scan's marker-based lookup for encoders
// that embed Exif without a well-formed APP1 length field, and returns the
// byte offset of the signature's first byte.
func FindExifSignature(data []byte, start int) (int, error) {
	off, ok := bitapSearch(data, start, exifSigMasks, len(exifSigPattern))
	if !ok {
		return 0, errors.New("exif signature not found")
	}
	return off, nil
}

// bitapMasks builds the per-byte shift-or mask table for pattern: bit i is
// cleared for every byte that occurs at position i in pattern, so a
// register of len(pattern)+1 bits (the top one being the match bit) can
// track every partial match in progress. pattern must be no longer than 7
// bytes to fit the 8-bit register.
func bitapMasks(pattern []byte) [256]byte {
	var masks [256]byte
	for i := range masks {
		masks[i] = 0xff
	}
	for i, c := range pattern {
		masks[c] &^= 1 << uint(i)
	}
	return masks
}

// bitapSearch scans data for the pattern masks was built from (patternLen
// bytes long) starting at start, using the bitap (shift-or) algorithm: an
// O(n) alternative to a general substring search that keeps its whole
// working set in a register and a 256-byte table.
func bitapSearch(data []byte, start int, masks [256]byte, patternLen int) (int, bool) {
	matchBit := byte(1) << uint(patternLen)
	bitMask := ^byte(1)
	for i := start; i < len(data); i++ {
		bitMask |= masks[data[i]]
		bitMask <<= 1
		if bitMask&matchBit == 0 {
			return i - (patternLen - 1), true
		}
	}
	return 0, false
}
