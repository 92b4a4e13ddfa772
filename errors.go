package exifedit

import (
	"github.com/pkg/errors"
)

// Sentinel causes, wrapped with call-site context via pkg/errors and then
// classified into a Status by the public API layer.
var (
	errNoSOI          = errors.New("jpeg does not start with SOI marker")
	errBadApp1Marker  = errors.New("app1 segment does not start with marker 0xffe1")
	errBadExifID      = errors.New("app1 payload is not an Exif segment")
	errBadReserved    = errors.New("tiff header reserved word is not 0x002a")
	errIfdMissing   = errors.New("ifd not present")
	errIfdExists    = errors.New("ifd already present")
	errTagExists    = errors.New("tag already present")
	errApp1TooShort = errors.New("app1 segment shorter than a bare tiff header")
)

func errInvalidByteOrderMark(mark uint16) error {
	return errors.Errorf("invalid tiff byte-order mark %#04x", mark)
}
