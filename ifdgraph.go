package exifedit

import (
	"os"

	"github.com/pkg/errors"
)

// IfdGraph is the in-memory representation of an Exif segment: a mapping
// from IFD kind to at most one IFD, plus the TIFF byte order the segment
// was (or will be) encoded in. ZEROTH exists whenever the graph is
// non-empty; EXIF/GPS/INTEROP/FIRST are reachable only through the pointer
// tags and next-IFD offset described in spec.md §3.
type IfdGraph struct {
	ifds   [numKinds]*Ifd
	header App1Header
}

// NewGraph returns an empty graph with the default (freshly-created)
// APP1 header: little-endian data, 0th IFD at offset 8.
func NewGraph() *IfdGraph {
	return &IfdGraph{header: defaultApp1Header()}
}

// Get returns the IFD of the given kind, if present.
func (g *IfdGraph) Get(kind Kind) (*Ifd, bool) {
	ifd := g.ifds[kind]
	return ifd, ifd != nil
}

// LittleEndian reports the TIFF byte order this graph will be (re)encoded
// in.
func (g *IfdGraph) LittleEndian() bool { return g.header.LittleEndian }

// buildGraph walks the pointer chain described in spec.md §4.5: EXIF and
// GPS are reachable from the 0th IFD, INTEROP from EXIF, FIRST from the
// 0th's next-IFD offset. A child IFD that fails to parse is recorded as
// InvalidIfd but siblings already parsed are retained, per spec.md §4.5 and
// §7's "isolated tag/ifd failures" error model.
func buildGraph(sr segmentReader, hdr App1Header, opts ParseOptions) (*IfdGraph, error) {
	g := &IfdGraph{header: hdr}

	zeroth, err := parseIfd(sr, hdr.Ifd0Offset, ZEROTH, opts)
	if err != nil {
		return nil, errors.Wrap(err, "parse 0th ifd")
	}
	g.ifds[ZEROTH] = zeroth

	var invalid bool

	if off, ok := childOffset(zeroth, tagExifIFDPointer); ok {
		if exifIfd, err := parseIfd(sr, off, EXIF, opts); err != nil {
			invalid = true
		} else {
			g.ifds[EXIF] = exifIfd
			if ioff, ok := childOffset(exifIfd, tagInteropIFDPointer); ok {
				if interop, err := parseIfd(sr, ioff, INTEROP, opts); err != nil {
					invalid = true
				} else {
					g.ifds[INTEROP] = interop
				}
			}
		}
	}

	if off, ok := childOffset(zeroth, tagGPSInfoIFDPointer); ok {
		if gps, err := parseIfd(sr, off, GPS, opts); err != nil {
			invalid = true
		} else {
			g.ifds[GPS] = gps
		}
	}

	if zeroth.nextIfdOffset != 0 {
		if first, err := parseIfd(sr, zeroth.nextIfdOffset, FIRST, opts); err != nil {
			invalid = true
		} else {
			g.ifds[FIRST] = first
		}
	}

	if invalid {
		return g, errors.New("one or more child ifds failed to parse")
	}
	return g, nil
}

func childOffset(parent *Ifd, pointerTag uint16) (uint32, bool) {
	t, ok := parent.GetTag(pointerTag)
	if !ok || t.Type != TypeLong || t.Count == 0 {
		return 0, false
	}
	off := t.firstUint32()
	return off, off != 0
}

// CreateGraph implements the public create_graph(path) operation: it scans
// path for a JPEG SOI and an Exif APP1 segment and, if found, decodes the
// full IFD graph using the default (KeepTag) unknown-tag policy. A JPEG
// with no Exif segment is not an error: it returns a nil graph with an OK
// status carrying a zero count (spec.md §8 scenario 1).
func CreateGraph(path string) (*IfdGraph, Status) {
	return CreateGraphWithPolicy(path, KeepTag)
}

// CreateGraphWithPolicy is CreateGraph with an explicit UnknownTagPolicy,
// as configured via Config.Policy (spec.md §6, "Configuration").
func CreateGraphWithPolicy(path string, policy UnknownTagPolicy) (*IfdGraph, Status) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fail(ReadFile, err)
	}
	defer f.Close()

	res, err := Scan(f, exifID)
	if err != nil {
		return nil, fail(InvalidJpeg, err)
	}
	if res.App1Offset == 0 {
		return nil, ok(0)
	}

	hdr, tiffBase, segmentLen, err := DecodeApp1Header(f, res.App1Offset)
	if err != nil {
		return nil, fail(InvalidApp1Header, err)
	}

	sr := segmentReader{r: f, order: hdr.Order, tiffBase: tiffBase, segmentLen: segmentLen}
	g, err := buildGraph(sr, hdr, ParseOptions{UnknownTagPolicy: policy})
	if err != nil {
		return g, fail(InvalidIfd, err)
	}
	return g, ok(1)
}

// --- edit operations (spec.md §4.6) ---------------------------------------

// InsertIfd creates an empty IFD of the given kind.
func (g *IfdGraph) InsertIfd(kind Kind) Status {
	if kind < 0 || kind >= numKinds {
		return fail(InvalidPointer, errors.Errorf("invalid ifd kind %d", kind))
	}
	if g.ifds[kind] != nil {
		return fail(AlreadyExist, errIfdExists)
	}
	g.ifds[kind] = newIfd(kind)
	return ok(0)
}

// RemoveIfd drops the IFD of the given kind (and its thumbnail, for
// FIRST), returning the count removed (0 or 1).
func (g *IfdGraph) RemoveIfd(kind Kind) Status {
	if kind < 0 || kind >= numKinds {
		return fail(InvalidPointer, errors.Errorf("invalid ifd kind %d", kind))
	}
	if g.ifds[kind] == nil {
		return ok(0)
	}
	g.ifds[kind] = nil
	return ok(1)
}

// InsertTag appends a deep copy of tag to the given IFD.
func (g *IfdGraph) InsertTag(kind Kind, tag Tag) Status {
	ifd, exists := g.Get(kind)
	if !exists {
		return fail(NotExist, errIfdMissing)
	}
	if err := ifd.insertUnique(tag); err != nil {
		return fail(AlreadyExist, err)
	}
	return ok(0)
}

// RemoveTag removes every tag with the given id from the given IFD.
func (g *IfdGraph) RemoveTag(kind Kind, tagID uint16) Status {
	ifd, exists := g.Get(kind)
	if !exists {
		return fail(NotExist, errIfdMissing)
	}
	return ok(ifd.removeByID(tagID))
}

// GetTag returns a copy of the tag with the given id from the given IFD.
func (g *IfdGraph) GetTag(kind Kind, tagID uint16) (Tag, Status) {
	ifd, exists := g.Get(kind)
	if !exists {
		return Tag{}, fail(NotExist, errIfdMissing)
	}
	t, found := ifd.GetTag(tagID)
	if !found {
		return Tag{}, fail(NotExist, errors.Errorf("tag %#04x not present", tagID))
	}
	return t, ok(0)
}

// QueryTagExists reports whether a tag with the given id is present in the
// given IFD (false, without error, if the IFD itself is absent).
func (g *IfdGraph) QueryTagExists(kind Kind, tagID uint16) bool {
	ifd, exists := g.Get(kind)
	if !exists {
		return false
	}
	return ifd.hasTag(tagID)
}

// GetThumbnail returns a copy of FIRST's thumbnail bytes.
func (g *IfdGraph) GetThumbnail() ([]byte, Status) {
	ifd, exists := g.Get(FIRST)
	if !exists {
		return nil, fail(NotExist, errIfdMissing)
	}
	if len(ifd.thumbnail) == 0 {
		return nil, fail(NotExist, errors.New("no thumbnail present"))
	}
	return ifd.Thumbnail(), ok(0)
}

// SetThumbnail replaces (or creates) FIRST's thumbnail, updating or adding
// JPEGInterchangeFormatLength to the new length and resetting
// JPEGInterchangeFormat to 0 so OffsetFixer recomputes it (spec.md §4.6).
func (g *IfdGraph) SetThumbnail(data []byte) Status {
	ifd, exists := g.Get(FIRST)
	if !exists {
		ifd = newIfd(FIRST)
		g.ifds[FIRST] = ifd
	}
	ifd.setThumbnail(data)
	ifd.setOrCreate(NewLongTag(tagJPEGInterchangeLen, uint32(len(data))))
	ifd.setOrCreate(NewLongTag(tagJPEGInterchangeFmt, 0))
	return ok(0)
}
