package mappings

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatTSRG
	FormatSRG
)

func (f Format) String() string {
	switch f {
	case FormatTSRG:
		return "tsrg"
	case FormatSRG:
		return "srg"
	default:
		return "unknown"
	}
}

// ParseFormat accepts the names printed by Format.String.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "tsrg":
		return FormatTSRG, nil
	case "srg":
		return FormatSRG, nil
	case "", "auto":
		return FormatUnknown, nil
	}
	return FormatUnknown, fmt.Errorf("unknown mapping format: %s", name)
}

var srgPrefixes = []string{"PK:", "CL:", "FD:", "MD:", "PA:"}

// Sniff determines the mapping format from the file name, falling back to
// the first meaningful line of content.
func Sniff(hint string, content []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(hint)) {
	case ".tsrg":
		return FormatTSRG, nil
	case ".srg":
		return FormatSRG, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, prefix := range srgPrefixes {
			if strings.HasPrefix(line, prefix) {
				return FormatSRG, nil
			}
		}
		return FormatTSRG, nil
	}

	return FormatUnknown, fmt.Errorf("unable to detect mapping format of %s", hint)
}

// LoadFile loads and parses a mapping file, sniffing its format.
func LoadFile(path string) (*Mappings, error) {
	return LoadFileAs(path, FormatUnknown)
}

// LoadFileAs loads a mapping file in a known format; FormatUnknown sniffs.
func LoadFileAs(path string, format Format) (*Mappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	if format == FormatUnknown {
		format, err = Sniff(path, data)
		if err != nil {
			return nil, err
		}
	}

	return Parse(bytes.NewReader(data), format, path)
}

// Parse reads mapping lines in the given format. path only labels errors.
func Parse(r io.Reader, format Format, path string) (*Mappings, error) {
	var p lineParser
	switch format {
	case FormatTSRG:
		p = newTSRGParser(path)
	case FormatSRG:
		p = newSRGParser(path)
	default:
		return nil, fmt.Errorf("unsupported mapping format: %s", format)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if err := p.parseLine(lineNo, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return p.finish()
}

type lineParser interface {
	parseLine(lineNo int, line string) error
	finish() (*Mappings, error)
}
