package exifedit

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/philhofer/fwd"
	"github.com/pkg/errors"
)

// copyBufSize is the bounded buffer FileEditor uses for prefix/suffix
// copies (spec.md §4.9, §5). fwd.Reader/fwd.Writer give us that bound
// without hand-rolling a bufio loop at every call site.
const copyBufSize = 8 * 1024

// readSegmentLength reads the big-endian length field of the segment
// starting at markerOffset (the length field itself lives 2 bytes past the
// marker, per the JPEG marker layout in the glossary).
func readSegmentLength(r io.ReaderAt, markerOffset int64) (uint16, error) {
	var b [2]byte
	if _, err := r.ReadAt(b[:], markerOffset+2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// streamCopy copies exactly n bytes from r to w through a fixed buffer.
func streamCopy(w *fwd.Writer, r *fwd.Reader, n int64) error {
	buf := make([]byte, copyBufSize)
	for n > 0 {
		want := len(buf)
		if int64(want) > n {
			want = int(n)
		}
		got, err := io.ReadFull(r, buf[:want])
		if got > 0 {
			if _, werr := w.Write(buf[:got]); werr != nil {
				return werr
			}
		}
		if err != nil {
			return err
		}
		n -= int64(got)
	}
	return nil
}

// streamCopyRest copies everything remaining from r to w.
func streamCopyRest(w *fwd.Writer, r *fwd.Reader) error {
	buf := make([]byte, copyBufSize)
	for {
		got, err := r.Read(buf)
		if got > 0 {
			if _, werr := w.Write(buf[:got]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func openPair(inPath, outPath string) (*os.File, *os.File, Status) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, nil, fail(ReadFile, err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		in.Close()
		return nil, nil, fail(WriteFile, err)
	}
	return in, out, ok(0)
}

// spliceOutSegment removes the first APP1 segment matching idString,
// copying everything else through unchanged. Shared by RemoveExifSegment
// and RemoveAdobeMetadata (spec.md §4.9).
func spliceOutSegment(inPath, outPath, idString string) Status {
	in, out, st := openPair(inPath, outPath)
	if !st.Ok() {
		return st
	}
	defer in.Close()
	defer out.Close()

	res, err := Scan(in, idString)
	if err != nil {
		return fail(InvalidJpeg, err)
	}
	if res.App1Offset == 0 {
		return ok(0)
	}

	length, err := readSegmentLength(in, res.App1Offset)
	if err != nil {
		return fail(ReadFile, errors.Wrap(err, "read app1 length"))
	}
	skipTo := res.App1Offset + 2 + int64(length)

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return fail(ReadFile, err)
	}
	fr := fwd.NewReader(in)
	fw := fwd.NewWriter(out)

	if err := streamCopy(fw, fr, res.App1Offset); err != nil {
		return fail(WriteFile, errors.Wrap(err, "copy prefix"))
	}
	if _, err := in.Seek(skipTo, io.SeekStart); err != nil {
		return fail(ReadFile, errors.Wrap(err, "seek past old segment"))
	}
	fr = fwd.NewReader(in)
	if err := streamCopyRest(fw, fr); err != nil {
		return fail(WriteFile, errors.Wrap(err, "copy suffix"))
	}
	if err := fw.Flush(); err != nil {
		return fail(WriteFile, err)
	}
	return ok(1)
}

// RemoveExifSegment strips the Exif APP1 segment (if any) from inPath,
// writing the result to outPath. It returns ok(0) if there was no Exif
// segment to remove.
func RemoveExifSegment(inPath, outPath string) Status {
	return spliceOutSegment(inPath, outPath, exifID)
}

// adobeXMPId is the APP1 identifier string for Adobe XMP segments
// (spec.md §4.9, §6).
const adobeXMPId = "http://ns.adobe.com/xap/"

// SegmentSkipper is the collaborator interface for stripping a whole APP1
// segment by identifier, without parsing its contents. adobeXMPSkipper is
// the only implementation; it exists so XMP stripping is pluggable in the
// same shape as the Exif splice, not because more than one implementation
// is expected today.
type SegmentSkipper interface {
	Skip(inPath, outPath string) Status
}

type adobeXMPSkipper struct{}

func (adobeXMPSkipper) Skip(inPath, outPath string) Status {
	return spliceOutSegment(inPath, outPath, adobeXMPId)
}

// RemoveAdobeMetadata strips the Adobe XMP APP1 segment (if any), with the
// same splice shape as RemoveExifSegment. It performs no XML parsing: this
// is purely a segment-skip operation, as spec.md §1 describes it.
func RemoveAdobeMetadata(inPath, outPath string) Status {
	var skipper SegmentSkipper = adobeXMPSkipper{}
	return skipper.Skip(inPath, outPath)
}

// UpdateExifSegment reconciles graph's offsets, then writes a new Exif
// segment into outPath at the position of the existing one (or, if absent,
// immediately before the DQT marker), copying the rest of inPath through
// unchanged (spec.md §4.9).
func UpdateExifSegment(inPath, outPath string, graph *IfdGraph) Status {
	FixOffsets(graph)

	in, out, st := openPair(inPath, outPath)
	if !st.Ok() {
		return st
	}
	defer in.Close()
	defer out.Close()

	res, err := Scan(in, exifID)
	if err != nil {
		return fail(InvalidJpeg, err)
	}

	var insertAt, skipTo int64
	switch {
	case res.App1Offset != 0:
		length, lerr := readSegmentLength(in, res.App1Offset)
		if lerr != nil {
			return fail(ReadFile, errors.Wrap(lerr, "read app1 length"))
		}
		insertAt = res.App1Offset
		skipTo = res.App1Offset + 2 + int64(length)
	case res.DQTOffset != 0:
		insertAt = res.DQTOffset
		skipTo = res.DQTOffset
	default:
		insertAt = 2 // immediately after SOI
		skipTo = 2
	}

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return fail(ReadFile, err)
	}
	fr := fwd.NewReader(in)
	fw := fwd.NewWriter(out)

	if err := streamCopy(fw, fr, insertAt); err != nil {
		return fail(WriteFile, errors.Wrap(err, "copy prefix"))
	}

	if _, err := WriteApp1(fw, graph); err != nil {
		return fail(WriteFile, errors.Wrap(err, "write app1 segment"))
	}

	if _, err := in.Seek(skipTo, io.SeekStart); err != nil {
		return fail(ReadFile, errors.Wrap(err, "seek past old segment"))
	}
	fr = fwd.NewReader(in)
	if err := streamCopyRest(fw, fr); err != nil {
		return fail(WriteFile, errors.Wrap(err, "copy suffix"))
	}
	if err := fw.Flush(); err != nil {
		return fail(WriteFile, err)
	}
	return ok(1)
}
