package mappings

import (
	"strconv"
	"strings"
)

/*
TSRG layout, one record per line:

	a net/example/Foo                 class rename
		a field_100_a                 field rename
		b (I)V func_200_b             method rename
			1 p_i300_1_ [300]         parameter of the method above: slot, name, optional id
	a/ net/example/                   package rename

Comment lines start with '#'.
*/
type tsrgParser struct {
	path   string
	m      *Mappings
	cls    *ClsInfo
	method string // name+desc of the last method line
}

func newTSRGParser(path string) *tsrgParser {
	return &tsrgParser{path: path, m: newMappings()}
}

func (p *tsrgParser) malformed(lineNo int, line, reason string) error {
	return &MalformedLineError{Path: p.path, Line: lineNo, Text: line, Reason: reason}
}

func (p *tsrgParser) parseLine(lineNo int, line string) error {
	depth := 0
	for depth < len(line) && line[depth] == '\t' {
		depth++
	}
	fields := strings.Fields(line[depth:])

	// trailing comments
	for i, f := range fields {
		if strings.HasPrefix(f, "#") {
			fields = fields[:i]
			break
		}
	}

	switch depth {
	case 0:
		return p.parseClass(lineNo, line, fields)
	case 1:
		return p.parseMember(lineNo, line, fields)
	case 2:
		return p.parseParam(lineNo, line, fields)
	}
	return p.malformed(lineNo, line, "too deeply indented")
}

func (p *tsrgParser) parseClass(lineNo int, line string, fields []string) error {
	if len(fields) > 0 && fields[0] == "tsrg2" {
		return p.malformed(lineNo, line, "tsrg2 mappings are not supported")
	}
	if len(fields) != 2 {
		return p.malformed(lineNo, line, "class line needs 2 columns")
	}

	p.method = ""
	if strings.HasSuffix(fields[0], "/") {
		p.m.packages[strings.TrimSuffix(fields[0], "/")] = strings.TrimSuffix(fields[1], "/")
		p.cls = nil
		return nil
	}

	p.m.addClass(fields[0], fields[1])
	p.cls = p.m.class(fields[0])
	return nil
}

func (p *tsrgParser) parseMember(lineNo int, line string, fields []string) error {
	if p.cls == nil {
		return p.malformed(lineNo, line, "member line outside of a class")
	}

	p.method = ""
	switch {
	case len(fields) == 2:
		p.cls.fields[fields[0]] = fields[1]

	case len(fields) == 3 && strings.HasPrefix(fields[1], "("):
		key := fields[0] + fields[1]
		p.cls.methods[key] = fields[2]
		p.method = key

	case len(fields) == 3:
		// field with descriptor: name desc target
		p.cls.fields[fields[0]] = fields[2]

	default:
		return p.malformed(lineNo, line, "member line needs 2 or 3 columns")
	}

	return nil
}

func (p *tsrgParser) parseParam(lineNo int, line string, fields []string) error {
	if p.cls == nil || p.method == "" {
		return p.malformed(lineNo, line, "parameter line outside of a method")
	}
	if len(fields) != 2 && len(fields) != 3 {
		return p.malformed(lineNo, line, "parameter line needs 2 or 3 columns")
	}

	slot, err := strconv.Atoi(fields[0])
	if err != nil || slot < 0 {
		return p.malformed(lineNo, line, "invalid parameter slot")
	}

	explicitID := ""
	if len(fields) == 3 {
		explicitID = fields[2]
	}

	param, err := NewParam(slot, fields[1], explicitID)
	if err != nil {
		return p.malformed(lineNo, line, err.Error())
	}

	p.cls.addParam(p.method, param)
	return nil
}

func (p *tsrgParser) finish() (*Mappings, error) {
	return p.m, nil
}
