// Package tagname provides a best-effort, deliberately incomplete lookup
// from (ifd kind, tag id) to a human-readable name, for use by dump
// formatting only. It carries no semantic interpretation of tag values: an
// unknown id is reported as such rather than guessed at.
package tagname

// Kind mirrors exifedit.Kind's ordinal values without importing the root
// package, so dump formatting can depend on tagname without a cycle.
type Kind int

const (
	ZEROTH Kind = iota
	FIRST
	EXIF
	GPS
	INTEROP
)

var zerothNames = map[uint16]string{
	0x010e: "ImageDescription",
	0x010f: "Make",
	0x0110: "Model",
	0x0112: "Orientation",
	0x011a: "XResolution",
	0x011b: "YResolution",
	0x0128: "ResolutionUnit",
	0x0131: "Software",
	0x0132: "DateTime",
	0x013e: "WhitePoint",
	0x013f: "PrimaryChromaticities",
	0x0211: "YCbCrCoefficients",
	0x0213: "YCbCrPositioning",
	0x0214: "ReferenceBlackWhite",
	0x8298: "Copyright",
	0x8769: "ExifIFDPointer",
	0x8825: "GPSInfoIFDPointer",
}

var firstNames = map[uint16]string{
	0x0103: "Compression",
	0x0201: "JPEGInterchangeFormat",
	0x0202: "JPEGInterchangeFormatLength",
}

var exifNames = map[uint16]string{
	0x829a: "ExposureTime",
	0x829d: "FNumber",
	0x8822: "ExposureProgram",
	0x8827: "ISOSpeedRatings",
	0x9000: "ExifVersion",
	0x9003: "DateTimeOriginal",
	0x9004: "DateTimeDigitized",
	0x9101: "ComponentsConfiguration",
	0x9201: "ShutterSpeedValue",
	0x9202: "ApertureValue",
	0x9204: "ExposureBiasValue",
	0x9209: "Flash",
	0x920a: "FocalLength",
	0xa000: "FlashpixVersion",
	0xa001: "ColorSpace",
	0xa002: "PixelXDimension",
	0xa003: "PixelYDimension",
	0xa005: "InteroperabilityIFDPointer",
	0xa402: "ExposureMode",
	0xa403: "WhiteBalance",
}

var gpsNames = map[uint16]string{
	0x0000: "GPSVersionID",
	0x0001: "GPSLatitudeRef",
	0x0002: "GPSLatitude",
	0x0003: "GPSLongitudeRef",
	0x0004: "GPSLongitude",
	0x0005: "GPSAltitudeRef",
	0x0006: "GPSAltitude",
	0x0007: "GPSTimeStamp",
}

var interopNames = map[uint16]string{
	0x0001: "InteroperabilityIndex",
	0x0002: "InteroperabilityVersion",
}

// Lookup returns the human-readable name for id within kind, if known.
func Lookup(kind Kind, id uint16) (string, bool) {
	var table map[uint16]string
	switch kind {
	case ZEROTH:
		table = zerothNames
	case FIRST:
		table = firstNames
	case EXIF:
		table = exifNames
	case GPS:
		table = gpsNames
	case INTEROP:
		table = interopNames
	default:
		return "", false
	}
	name, ok := table[id]
	return name, ok
}
