package mappings

import (
	"strconv"
	"strings"
)

/*
SRG layout, one record per line:

	PK: a net/example
	CL: a net/example/Foo
	FD: a/a net/example/Foo/field_100_a
	MD: a/b (La;)V net/example/Foo/func_200_b (Lnet/example/Foo;)V
	PA: net/example/Foo/<init> (Lnet/example/Foo;I)V 2 p_i300_2_ [300]

PA lines are written against target names; they are resolved back to the
original class, method and descriptor once the whole file is read.
*/
type srgParser struct {
	path    string
	m       *Mappings
	pending []pendingParam
}

type pendingParam struct {
	lineNo int
	line   string
	owner  string // target names
	method string
	desc   string
	param  Param
}

func newSRGParser(path string) *srgParser {
	return &srgParser{path: path, m: newMappings()}
}

func (p *srgParser) malformed(lineNo int, line, reason string) error {
	return &MalformedLineError{Path: p.path, Line: lineNo, Text: line, Reason: reason}
}

// splitMember splits "owner/name" at the last slash.
func splitMember(s string) (string, string, bool) {
	idx := strings.LastIndexByte(s, '/')
	if idx <= 0 || idx == len(s)-1 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

func (p *srgParser) parseLine(lineNo int, line string) error {
	fields := strings.Fields(line)
	kind, args := fields[0], fields[1:]

	switch kind {
	case "PK:":
		if len(args) != 2 {
			return p.malformed(lineNo, line, "PK needs 2 columns")
		}
		p.m.packages[args[0]] = args[1]

	case "CL:":
		if len(args) != 2 {
			return p.malformed(lineNo, line, "CL needs 2 columns")
		}
		p.m.addClass(args[0], args[1])

	case "FD:":
		// the optional descriptor columns of XSRG are accepted and ignored
		if len(args) != 2 && len(args) != 4 {
			return p.malformed(lineNo, line, "FD needs 2 or 4 columns")
		}
		owner, name, ok := splitMember(args[0])
		if !ok {
			return p.malformed(lineNo, line, "invalid field reference")
		}
		_, target, ok := splitMember(args[len(args)/2])
		if !ok {
			return p.malformed(lineNo, line, "invalid target field reference")
		}
		p.m.class(owner).fields[name] = target

	case "MD:":
		if len(args) != 4 {
			return p.malformed(lineNo, line, "MD needs 4 columns")
		}
		owner, name, ok := splitMember(args[0])
		if !ok {
			return p.malformed(lineNo, line, "invalid method reference")
		}
		_, target, ok := splitMember(args[2])
		if !ok {
			return p.malformed(lineNo, line, "invalid target method reference")
		}
		if !strings.HasPrefix(args[1], "(") {
			return p.malformed(lineNo, line, "invalid method descriptor")
		}
		p.m.class(owner).methods[name+args[1]] = target

	case "PA:":
		return p.parseParam(lineNo, line, args)

	default:
		return p.malformed(lineNo, line, "unknown record type")
	}

	return nil
}

func (p *srgParser) parseParam(lineNo int, line string, args []string) error {
	if len(args) != 4 && len(args) != 5 {
		return p.malformed(lineNo, line, "PA needs 4 or 5 columns")
	}

	owner, method, ok := splitMember(args[0])
	if !ok {
		return p.malformed(lineNo, line, "invalid method reference")
	}
	if !strings.HasPrefix(args[1], "(") {
		return p.malformed(lineNo, line, "invalid method descriptor")
	}

	slot, err := strconv.Atoi(args[2])
	if err != nil || slot < 0 {
		return p.malformed(lineNo, line, "invalid parameter slot")
	}

	explicitID := ""
	if len(args) == 5 {
		explicitID = args[4]
	}

	param, err := NewParam(slot, args[3], explicitID)
	if err != nil {
		return p.malformed(lineNo, line, err.Error())
	}

	p.pending = append(p.pending, pendingParam{
		lineNo: lineNo,
		line:   line,
		owner:  owner,
		method: method,
		desc:   args[1],
		param:  param,
	})
	return nil
}

// finish resolves parameter records written in target names.
func (p *srgParser) finish() (*Mappings, error) {
	for _, pa := range p.pending {
		owner := p.m.UnmapClass(pa.owner)
		origDesc := p.m.UnmapDesc(pa.desc)
		info := p.m.class(owner)

		// unrenamed methods (constructors) keep their own name
		name := ""
		for key, target := range info.methods {
			if target != pa.method || !strings.HasSuffix(key, origDesc) {
				continue
			}
			if candidate := strings.TrimSuffix(key, origDesc); name == "" || candidate < name {
				name = candidate
			}
		}
		if name == "" {
			name = pa.method
		}

		info.addParam(name+origDesc, pa.param)
	}

	return p.m, nil
}
