package exifedit

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/exifkit/exifedit/tagname"
)

// dumpEntry is the JSON shape of one tag in a DumpIfd report.
type dumpEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
	Count uint32 `json:"count"`
	Error bool   `json:"error,omitempty"`
	Value string `json:"value,omitempty"`
}

func toTagnameKind(k Kind) tagname.Kind {
	switch k {
	case ZEROTH:
		return tagname.ZEROTH
	case FIRST:
		return tagname.FIRST
	case EXIF:
		return tagname.EXIF
	case GPS:
		return tagname.GPS
	case INTEROP:
		return tagname.INTEROP
	default:
		return tagname.ZEROTH
	}
}

func formatValue(t Tag) string {
	if t.Error {
		return ""
	}
	switch {
	case t.Type.isBytes():
		return fmt.Sprintf("%q", t.Bytes())
	case t.Type.isRational():
		if t.Type == TypeRational {
			rs := t.Rationals()
			return fmt.Sprintf("%v", rs)
		}
		return fmt.Sprintf("%v", t.SRationals())
	case t.Type.isNumeric():
		if t.Type.signed() {
			return fmt.Sprintf("%v", t.Int32s())
		}
		return fmt.Sprintf("%v", t.Uint32s())
	default:
		return ""
	}
}

// DumpIfd renders one IFD of g as pretty-printed JSON: one object per tag
// with its id, best-effort name, type, count, and decoded value. Tags that
// failed to decode are included (per their positional-context rule) with
// error set and no value. DumpIfd performs no interpretation of a tag's
// meaning beyond the name lookup in the tagname package.
func DumpIfd(g *IfdGraph, kind Kind) ([]byte, Status) {
	ifd, exists := g.Get(kind)
	if !exists {
		return nil, fail(NotExist, errIfdMissing)
	}

	tnKind := toTagnameKind(kind)
	entries := make([]dumpEntry, 0, ifd.tagCount())
	for _, t := range ifd.Tags() {
		e := dumpEntry{
			ID:    fmt.Sprintf("%#04x", t.ID),
			Type:  t.Type.String(),
			Count: t.Count,
			Error: t.Error,
		}
		if name, ok := tagname.Lookup(tnKind, t.ID); ok {
			e.Name = name
		}
		if !t.Error {
			e.Value = formatValue(t)
		}
		entries = append(entries, e)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fail(Unknown, err)
	}
	return pretty.Pretty(raw), ok(len(entries))
}
