package serial

import (
	"bytes"
	goerrors "errors"
	"io"
)

// ErrOverflow is returned when a varint runs past 64 bits.
var ErrOverflow = goerrors.New("varint: overflow")

// ReadUvarint reads an unsigned LEB128 value.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 63 && b > 1 {
			return 0, ErrOverflow
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// ReadVarint reads a zigzag-encoded signed value.
func ReadVarint(r io.ByteReader) (int64, error) {
	u, err := ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	return ZigzagDecode(u), nil
}

// WriteUvarint writes an unsigned LEB128 value.
func WriteUvarint(w *bytes.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteVarint writes a zigzag-encoded signed value.
func WriteVarint(w *bytes.Buffer, v int64) {
	WriteUvarint(w, ZigzagEncode(v))
}

// ZigzagEncode maps signed values to unsigned so that small magnitudes
// stay small: 0, -1, 1, -2 become 0, 1, 2, 3.
func ZigzagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

func ZigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// UvarintSize returns the encoded length of v in bytes.
func UvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
