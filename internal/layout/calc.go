package layout

// Info is the size and alignment of one storage unit.
type Info struct {
	Size  uintptr
	Align uintptr
}

// Record is a sequential layout with the offset of every member.
type Record struct {
	Offsets []uintptr
	Info
}

// Tagged is a discriminated union layout.
type Tagged struct {
	Info
	DiscSize      uintptr
	PayloadOffset uintptr
}

// AlignTo rounds offset up to a multiple of align. align must be a power of two.
func AlignTo(offset, align uintptr) uintptr {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// Sequential lays members out in order.
func Sequential(members []Info) Record {
	if len(members) == 0 {
		return Record{Info: Info{Size: 0, Align: 1}}
	}

	offsets := make([]uintptr, len(members))
	maxAlign := uintptr(1)
	offset := uintptr(0)

	for i, m := range members {
		offset = AlignTo(offset, m.Align)
		offsets[i] = offset

		if m.Align > maxAlign {
			maxAlign = m.Align
		}

		offset += m.Size
	}

	return Record{
		Offsets: offsets,
		Info: Info{
			Size:  AlignTo(offset, maxAlign),
			Align: maxAlign,
		},
	}
}

// Union lays out a discriminant of discSize bytes followed by room for the
// largest case.
func Union(discSize uintptr, cases []Info) Tagged {
	if len(cases) == 0 {
		return Tagged{Info: Info{Size: 0, Align: 1}}
	}

	maxAlign := discSize
	maxSize := uintptr(0)

	for _, c := range cases {
		if c.Align > maxAlign {
			maxAlign = c.Align
		}
		if c.Size > maxSize {
			maxSize = c.Size
		}
	}

	payloadOffset := AlignTo(discSize, maxAlign)

	return Tagged{
		Info: Info{
			Size:  AlignTo(payloadOffset+maxSize, maxAlign),
			Align: maxAlign,
		},
		DiscSize:      discSize,
		PayloadOffset: payloadOffset,
	}
}

// DiscriminantSize: 1 byte for <=256 cases, 2 for <=65536, else 4.
func DiscriminantSize(numCases int) uintptr {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}
