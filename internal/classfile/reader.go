package classfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Provides utilities for reading class-file data in big-endian format
type BinaryReader struct {
	reader    *bufio.Reader
	bytesRead int64
}

func NewBinaryReader(reader io.Reader) *BinaryReader {
	return &BinaryReader{
		reader: bufio.NewReader(reader),
	}
}

func (br *BinaryReader) BytesRead() int64 {
	return br.bytesRead
}

// ReadNBytes reads exactly n bytes and tracks position
func (br *BinaryReader) ReadNBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	bytesRead, err := io.ReadFull(br.reader, buf)
	br.bytesRead += int64(bytesRead)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadU1 reads a single unsigned byte
func (br *BinaryReader) ReadU1() (uint8, error) {
	b, err := br.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	br.bytesRead++
	return b, nil
}

// ReadU2 reads a 2-byte unsigned integer (big-endian)
func (br *BinaryReader) ReadU2() (uint16, error) {
	buf, err := br.ReadNBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadU4 reads a 4-byte unsigned integer (big-endian)
func (br *BinaryReader) ReadU4() (uint32, error) {
	buf, err := br.ReadNBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// Skip skips n bytes in the stream
func (br *BinaryReader) Skip(n int) error {
	discarded, err := br.reader.Discard(n)
	br.bytesRead += int64(discarded)
	if err != nil {
		return fmt.Errorf("failed to skip %d bytes: %w", n, err)
	}
	return nil
}

// ReadModifiedUtf8 reads a u2-length-prefixed CONSTANT_Utf8 payload.
// Class files use modified UTF-8; names and descriptors only differ from
// standard UTF-8 for NUL and supplementary characters, which are decoded here.
func (br *BinaryReader) ReadModifiedUtf8() (string, error) {
	length, err := br.ReadU2()
	if err != nil {
		return "", fmt.Errorf("failed to read string length: %w", err)
	}

	if length == 0 {
		return "", nil
	}

	data, err := br.ReadNBytes(int(length))
	if err != nil {
		return "", fmt.Errorf("failed to read string data: %w", err)
	}

	return decodeModifiedUtf8(data)
}

func decodeModifiedUtf8(data []byte) (string, error) {
	units := make([]uint16, 0, len(data))
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b&0x80 == 0:
			units = append(units, uint16(b))
			i++
		case b&0xE0 == 0xC0:
			if i+1 >= len(data) {
				return "", fmt.Errorf("truncated 2-byte sequence at %d", i)
			}
			units = append(units, uint16(b&0x1F)<<6|uint16(data[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0:
			if i+2 >= len(data) {
				return "", fmt.Errorf("truncated 3-byte sequence at %d", i)
			}
			units = append(units, uint16(b&0x0F)<<12|uint16(data[i+1]&0x3F)<<6|uint16(data[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("invalid modified UTF-8 byte 0x%02x at %d", b, i)
		}
	}

	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u < 0xDC00 && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] < 0xE000 {
			runes = append(runes, (rune(u)-0xD800)<<10+(rune(units[i+1])-0xDC00)+0x10000)
			i++
			continue
		}
		runes = append(runes, rune(u))
	}

	return string(runes), nil
}
