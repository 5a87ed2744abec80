package localmodel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// ggufMagic is the little-endian file magic "GGUF".
var ggufMagic = [4]byte{'G', 'G', 'U', 'F'}

// ErrNotGGUF indicates the file is not a GGUF model.
var ErrNotGGUF = errors.New("localmodel: not a GGUF file")

// Header holds the fixed-size prefix of a GGUF file.
type Header struct {
	Version     uint32
	TensorCount uint64
	KVCount     uint64
}

// ReadHeader reads and validates the GGUF header of a weights file.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	var raw struct {
		Magic       [4]byte
		Version     uint32
		TensorCount uint64
		KVCount     uint64
	}
	if err := binary.Read(f, binary.LittleEndian, &raw); err != nil {
		return Header{}, fmt.Errorf("%w: truncated header", ErrNotGGUF)
	}
	if raw.Magic != ggufMagic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrNotGGUF, raw.Magic)
	}
	// Version 1 files use a 32-bit tensor count; nothing modern ships them.
	if raw.Version < 2 {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrNotGGUF, raw.Version)
	}
	return Header{Version: raw.Version, TensorCount: raw.TensorCount, KVCount: raw.KVCount}, nil
}

// ValidateGGUF checks that a file carries a well-formed GGUF header.
func ValidateGGUF(path string) error {
	_, err := ReadHeader(path)
	return err
}
