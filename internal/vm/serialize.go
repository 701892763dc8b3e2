package vm

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// bytecodeVersion is incremented on incompatible format changes.
const bytecodeVersion byte = 0x01

// programMagic identifies serialized programs: "RHMB"
var programMagic = [4]byte{'R', 'H', 'M', 'B'}

// Serialize converts a Program to binary format.
// Format:
// - Magic number (4 bytes): "RHMB"
// - Version (1 byte): 0x01
// - Gob-encoded Program data
func (p *Program) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)

	buf.Write(programMagic[:])
	buf.WriteByte(bytecodeVersion)

	enc := gob.NewEncoder(buf)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("program gob encoding failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Deserialize reads a serialized Program back. The round trip is lossless.
func Deserialize(data []byte) (*Program, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("bytecode data too short")
	}
	if !bytes.Equal(data[:4], programMagic[:]) {
		return nil, fmt.Errorf("invalid magic number, expected RHMB")
	}
	if data[4] != bytecodeVersion {
		return nil, fmt.Errorf("unsupported bytecode version 0x%02x", data[4])
	}

	var p Program
	dec := gob.NewDecoder(bytes.NewReader(data[5:]))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("program gob decoding failed: %w", err)
	}
	return &p, nil
}
