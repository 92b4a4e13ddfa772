package exifedit

// Kind discriminates the five IFDs an Exif segment may carry.
type Kind int

const (
	ZEROTH Kind = iota
	FIRST
	EXIF
	GPS
	INTEROP

	numKinds
)

var kindNames = [numKinds]string{
	ZEROTH:  "0th",
	FIRST:   "1st",
	EXIF:    "Exif",
	GPS:     "GPS",
	INTEROP: "Interoperability",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "Unknown"
	}
	return kindNames[k]
}

// pointerTag names the tag, in the parent IFD, that carries a child IFD's
// offset. ZEROTH→FIRST uses nextIfdOffset instead of a tag, so it has none.
const (
	tagExifIFDPointer      = 0x8769
	tagGPSInfoIFDPointer   = 0x8825
	tagInteropIFDPointer   = 0xa005
	tagJPEGInterchangeFmt  = 0x0201
	tagJPEGInterchangeLen  = 0x0202
	tagCompression         = 0x0103
)

func pointerTagFor(k Kind) (uint16, bool) {
	switch k {
	case EXIF:
		return tagExifIFDPointer, true
	case GPS:
		return tagGPSInfoIFDPointer, true
	case INTEROP:
		return tagInteropIFDPointer, true
	default:
		return 0, false
	}
}

// Ifd is one Image File Directory: an ordered, id-unique sequence of tags
// plus the bookkeeping OffsetFixer needs (length, offset, nextIfdOffset) and,
// for FIRST only, the owned thumbnail bytes.
type Ifd struct {
	Kind Kind

	tags []Tag

	nextIfdOffset uint32
	length        uint32
	offset        uint32

	thumbnail []byte // owned exclusively by FIRST
}

func newIfd(kind Kind) *Ifd {
	return &Ifd{Kind: kind}
}

// Tags returns the IFD's tags in their ordered (insertion/dump) sequence.
// The returned slice is a copy of the header slots; payload buffers inside
// each Tag are still shared with the IFD, unlike GetTag, which returns a
// deep copy.
func (ifd *Ifd) Tags() []Tag {
	out := make([]Tag, len(ifd.tags))
	copy(out, ifd.tags)
	return out
}

func (ifd *Ifd) indexOf(id uint16) int {
	for i, t := range ifd.tags {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// GetTag returns a deep copy of the tag with the given id.
func (ifd *Ifd) GetTag(id uint16) (Tag, bool) {
	if i := ifd.indexOf(id); i >= 0 {
		return ifd.tags[i].Clone(), true
	}
	return Tag{}, false
}

func (ifd *Ifd) hasTag(id uint16) bool {
	return ifd.indexOf(id) >= 0
}

// appendRaw appends t as-is (no uniqueness check); used by IfdParser, which
// must tolerate malformed input that violates the id-uniqueness invariant
// rather than reject it outright.
func (ifd *Ifd) appendRaw(t Tag) {
	ifd.tags = append(ifd.tags, t)
}

// insertUnique appends a deep copy of t, failing if id already exists; used
// by the public insert_tag operation (spec.md §4.6).
func (ifd *Ifd) insertUnique(t Tag) error {
	if ifd.hasTag(t.ID) {
		return errTagExists
	}
	ifd.appendRaw(t.Clone())
	return nil
}

// removeByID removes every tag matching id (malformed input may duplicate
// ids) and returns the count removed.
func (ifd *Ifd) removeByID(id uint16) int {
	n := 0
	out := ifd.tags[:0]
	for _, t := range ifd.tags {
		if t.ID == id {
			n++
			continue
		}
		out = append(out, t)
	}
	ifd.tags = out
	return n
}

// setOrCreate overwrites the value of an existing tag with id, or appends a
// new one if absent. Used by OffsetFixer to write back pointer/length tags.
func (ifd *Ifd) setOrCreate(t Tag) (created bool) {
	if i := ifd.indexOf(t.ID); i >= 0 {
		ifd.tags[i] = t
		return false
	}
	ifd.appendRaw(t)
	return true
}

// dropErrorTags removes tags whose decode failed, as required before
// OffsetFixer computes lengths (spec.md §4.7 step 1).
func (ifd *Ifd) dropErrorTags() int {
	n := 0
	out := ifd.tags[:0]
	for _, t := range ifd.tags {
		if t.Error {
			n++
			continue
		}
		out = append(out, t)
	}
	ifd.tags = out
	return n
}

func (ifd *Ifd) tagCount() int { return len(ifd.tags) }

// setThumbnail replaces FIRST's thumbnail bytes; callers go through
// IfdGraph.SetThumbnail, which also maintains the length/offset tags.
func (ifd *Ifd) setThumbnail(b []byte) {
	ifd.thumbnail = append([]byte(nil), b...)
}

// Thumbnail returns a copy of FIRST's thumbnail bytes.
func (ifd *Ifd) Thumbnail() []byte {
	return append([]byte(nil), ifd.thumbnail...)
}

// ThumbnailCompression reads the Compression tag (0x103) of the FIRST IFD
// without interpreting any other tag: a read-only introspection helper
// supplementing the original implementation's thumbnail/compression
// reporting, not a general tag-semantics interpreter.
func (ifd *Ifd) ThumbnailCompression() (uint32, bool) {
	t, ok := ifd.GetTag(tagCompression)
	if !ok || t.Type != TypeShort || t.Count == 0 {
		return 0, false
	}
	return t.Uint32s()[0], true
}
