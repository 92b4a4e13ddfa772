// Package exifedit reads, edits and re-serialises the Exif (TIFF) metadata
// carried in the APP1 segment of a JPEG file.
//
// It walks the JPEG marker chain to find the Exif segment, decodes the
// linked chain of IFDs (0th, 1st, Exif, GPS, Interoperability) into an
// in-memory graph, lets tags be queried, inserted, removed and updated, and
// re-encodes the segment with recomputed offsets so the rest of the file is
// copied through untouched.
//
// Tag values are preserved as typed numeric or byte arrays; this package
// never interprets tag semantics. General JPEG image decoding, TIFF files
// outside of a JPEG container, and concurrent edits of a single file are out
// of scope.
package exifedit
