package gguf

import (
	"encoding/binary"
	"io"
	"os"
)

// Minimal GGUF reader. It understands just enough of the container format to
// walk the key-value section and pull out one named string array; everything
// else is skipped by width.

const (
	magic      = "GGUF"
	minVersion = 2

	// Sanity ceilings guarding against malformed or foreign files.
	maxKeyLen    = 4096
	maxStringLen = 1 << 20
	maxKVCount   = 1 << 20
	maxSkipCount = 1 << 24
	maxArrayLen  = 1 << 16
)

type valueType uint32

const (
	typeUint8 valueType = iota
	typeInt8
	typeUint16
	typeInt16
	typeUint32
	typeInt32
	typeFloat32
	typeBool
	typeString
	typeArray
	typeUint64
	typeInt64
	typeFloat64
)

var scalarWidth = map[valueType]int64{
	typeUint8:   1,
	typeInt8:    1,
	typeBool:    1,
	typeUint16:  2,
	typeInt16:   2,
	typeUint32:  4,
	typeInt32:   4,
	typeFloat32: 4,
	typeUint64:  8,
	typeInt64:   8,
	typeFloat64: 8,
}

// ReadNamedArray opens a GGUF model file and returns the string array stored
// under key, or nil if the file is malformed, the key is absent, or the value
// is not a string array. It never returns an error to the caller.
func ReadNamedArray(path, key string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var hdr [4]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil
	}
	if string(hdr[:]) != magic {
		return nil
	}
	version, ok := readU32(f)
	if !ok || version < minVersion {
		return nil
	}
	// tensor count, unused here
	if _, ok := readU64(f); !ok {
		return nil
	}
	kvCount, ok := readU64(f)
	if !ok || kvCount > maxKVCount {
		return nil
	}
	for i := uint64(0); i < kvCount; i++ {
		k, ok := readString(f, maxKeyLen)
		if !ok {
			return nil
		}
		t, ok := readU32(f)
		if !ok {
			return nil
		}
		vt := valueType(t)
		if k == key {
			if vt != typeArray {
				return nil
			}
			return readStringArray(f)
		}
		if !skipValue(f, vt) {
			return nil
		}
	}
	return nil
}

func readStringArray(f *os.File) []string {
	et, ok := readU32(f)
	if !ok || valueType(et) != typeString {
		return nil
	}
	n, ok := readU64(f)
	if !ok || n > maxArrayLen {
		return nil
	}
	out := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		s, ok := readString(f, maxStringLen)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// skipValue advances past one value of the given type using the fixed width
// table. Oversized strings are seeked past, never read into memory.
func skipValue(f *os.File, vt valueType) bool {
	switch vt {
	case typeString:
		return skipString(f)
	case typeArray:
		et, ok := readU32(f)
		if !ok {
			return false
		}
		evt := valueType(et)
		n, ok := readU64(f)
		if !ok || n > maxSkipCount {
			return false
		}
		switch evt {
		case typeString:
			for i := uint64(0); i < n; i++ {
				if !skipString(f) {
					return false
				}
			}
			return true
		case typeArray:
			// nested arrays are not part of the subset we support
			return false
		default:
			w, ok := scalarWidth[evt]
			if !ok {
				return false
			}
			_, err := f.Seek(int64(n)*w, io.SeekCurrent)
			return err == nil
		}
	default:
		w, ok := scalarWidth[vt]
		if !ok {
			return false
		}
		_, err := f.Seek(w, io.SeekCurrent)
		return err == nil
	}
}

func skipString(f *os.File) bool {
	n, ok := readU64(f)
	if !ok || n > maxSkipCount {
		return false
	}
	_, err := f.Seek(int64(n), io.SeekCurrent)
	return err == nil
}

func readString(f *os.File, limit uint64) (string, bool) {
	n, ok := readU64(f)
	if !ok || n > limit {
		return "", false
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", false
	}
	return string(buf), true
}

func readU32(f *os.File) (uint32, bool) {
	var b [4]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[:]), true
}

func readU64(f *os.File) (uint64, bool) {
	var b [8]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[:]), true
}
