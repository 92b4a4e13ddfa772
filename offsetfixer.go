package exifedit

// outOfLineSize returns the number of bytes t's value contributes to its
// IFD's variable-size data area: 0 if it is stored inline, otherwise its
// payload size rounded up to an even byte count (spec.md §4.7/§4.8). For
// SHORT/LONG/RATIONAL types the payload is already a multiple of 2, so the
// rounding only ever bites ASCII/UNDEFINED/BYTE/SBYTE blobs of odd length.
func outOfLineSize(t Tag) uint32 {
	if t.inline() {
		return 0
	}
	sz := t.payloadSize()
	if sz&1 == 1 {
		sz++
	}
	return sz
}

// ifdLength computes 2 + 12*tagCount + 4 + Σ out-of-line payload sizes,
// plus the thumbnail length for FIRST (spec.md §4.7 step 1).
func ifdLength(ifd *Ifd) uint32 {
	n := uint32(ifd.tagCount())
	total := 2 + 12*n + 4
	for _, t := range ifd.tags {
		total += outOfLineSize(t)
	}
	if ifd.Kind == FIRST {
		total += uint32(len(ifd.thumbnail))
	}
	return total
}

// FixOffsets makes g self-consistent before writing: it drops error tags,
// recomputes every present IFD's length, assigns offsets, and reconciles
// the cross-IFD pointer tags (spec.md §4.7). Because creating a pointer tag
// enlarges its parent IFD, the whole computation is redone until a pass
// creates no new tag; this terminates in at most a few passes since each
// pointer tag is created at most once.
func FixOffsets(g *IfdGraph) {
	zeroth, hasZeroth := g.Get(ZEROTH)
	if !hasZeroth {
		return
	}

	for {
		changed := false

		for k := Kind(0); k < numKinds; k++ {
			if ifd, present := g.Get(k); present {
				ifd.dropErrorTags()
				ifd.length = ifdLength(ifd)
			}
		}
		zeroth.nextIfdOffset = 0

		const base = tiffHeaderSize
		zeroth.offset = base

		exifIfd, hasExif := g.Get(EXIF)
		interopIfd, hasInterop := g.Get(INTEROP)
		gpsIfd, hasGPS := g.Get(GPS)
		firstIfd, hasFirst := g.Get(FIRST)

		offsetAfter := func(includeExif, includeInterop, includeGPS bool) uint32 {
			off := uint32(base) + zeroth.length
			if includeExif && hasExif {
				off += exifIfd.length
			}
			if includeInterop && hasInterop {
				off += interopIfd.length
			}
			if includeGPS && hasGPS {
				off += gpsIfd.length
			}
			return off
		}

		if hasExif {
			exifOffset := offsetAfter(false, false, false)
			if zeroth.setOrCreate(NewLongTag(tagExifIFDPointer, exifOffset)) {
				changed = true
			}
			exifIfd.offset = exifOffset

			if hasInterop {
				interopOffset := exifOffset + exifIfd.length
				if exifIfd.setOrCreate(NewLongTag(tagInteropIFDPointer, interopOffset)) {
					changed = true
				}
				interopIfd.offset = interopOffset
			} else if exifIfd.hasTag(tagInteropIFDPointer) {
				exifIfd.setOrCreate(NewLongTag(tagInteropIFDPointer, 0))
			}
		} else if zeroth.hasTag(tagExifIFDPointer) {
			zeroth.setOrCreate(NewLongTag(tagExifIFDPointer, 0))
		}

		if hasGPS {
			gpsOffset := offsetAfter(true, true, false)
			if zeroth.setOrCreate(NewLongTag(tagGPSInfoIFDPointer, gpsOffset)) {
				changed = true
			}
			gpsIfd.offset = gpsOffset
		} else if zeroth.hasTag(tagGPSInfoIFDPointer) {
			zeroth.setOrCreate(NewLongTag(tagGPSInfoIFDPointer, 0))
		}

		if hasFirst {
			firstOffset := offsetAfter(true, true, true)
			zeroth.nextIfdOffset = firstOffset
			firstIfd.offset = firstOffset

			if len(firstIfd.thumbnail) > 0 {
				if _, hasLen := firstIfd.GetTag(tagJPEGInterchangeLen); hasLen {
					thumbOffset := firstOffset + firstIfd.length - uint32(len(firstIfd.thumbnail))
					if firstIfd.setOrCreate(NewLongTag(tagJPEGInterchangeFmt, thumbOffset)) {
						changed = true
					}
				} else if firstIfd.hasTag(tagJPEGInterchangeFmt) {
					firstIfd.setOrCreate(NewLongTag(tagJPEGInterchangeFmt, 0))
				}
			}
		}

		debugf(offsetFixerLog, "fixup pass: zeroth.length=%d changed=%v", zeroth.length, changed)

		if !changed {
			return
		}
	}
}
