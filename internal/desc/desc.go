// Package desc implements the JVM field and method descriptor grammar.
package desc

import (
	"fmt"
	"strings"
)

type Sort int

const (
	Void Sort = iota
	Boolean
	Char
	Byte
	Short
	Int
	Float
	Long
	Double
	Array
	Object
)

var primitives = map[byte]Sort{
	'V': Void,
	'Z': Boolean,
	'C': Char,
	'B': Byte,
	'S': Short,
	'I': Int,
	'F': Float,
	'J': Long,
	'D': Double,
}

func (s Sort) String() string {
	switch s {
	case Void:
		return "void"
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Float:
		return "float"
	case Long:
		return "long"
	case Double:
		return "double"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Type is one parsed type descriptor.
type Type struct {
	Sort     Sort
	Dims     int    // array dimensions, Sort == Array only
	Elem     *Type  // element type, Sort == Array only
	Internal string // internal class name, Sort == Object only
	Raw      string
}

// Size is the number of local variable slots the type occupies.
func (t Type) Size() int {
	switch t.Sort {
	case Void:
		return 0
	case Long, Double:
		return 2
	default:
		return 1
	}
}

func (t Type) String() string {
	return t.Raw
}

// ParseType parses a complete field descriptor (or a lone return type).
func ParseType(s string) (Type, error) {
	t, n, err := parseAt(s, 0)
	if err != nil {
		return Type{}, err
	}
	if n != len(s) {
		return Type{}, fmt.Errorf("trailing data in type descriptor %q", s)
	}
	return t, nil
}

// parseAt parses one type starting at pos and returns the position after it.
func parseAt(s string, pos int) (Type, int, error) {
	if pos >= len(s) {
		return Type{}, pos, fmt.Errorf("unexpected end of descriptor %q", s)
	}

	c := s[pos]
	if sort, ok := primitives[c]; ok {
		return Type{Sort: sort, Raw: s[pos : pos+1]}, pos + 1, nil
	}

	switch c {
	case 'L':
		end := strings.IndexByte(s[pos:], ';')
		if end < 2 {
			return Type{}, pos, fmt.Errorf("unterminated class type in %q", s)
		}
		end += pos
		return Type{Sort: Object, Internal: s[pos+1 : end], Raw: s[pos : end+1]}, end + 1, nil

	case '[':
		start := pos
		dims := 0
		for pos < len(s) && s[pos] == '[' {
			dims++
			pos++
		}
		elem, next, err := parseAt(s, pos)
		if err != nil {
			return Type{}, pos, err
		}
		if elem.Sort == Void {
			return Type{}, pos, fmt.Errorf("array of void in %q", s)
		}
		return Type{Sort: Array, Dims: dims, Elem: &elem, Raw: s[start:next]}, next, nil
	}

	return Type{}, pos, fmt.Errorf("invalid type character %q at %d in %q", c, pos, s)
}

// Method is a parsed method descriptor.
type Method struct {
	Args   []Type
	Return Type
}

// ParseMethod parses "(" args ")" return.
func ParseMethod(s string) (Method, error) {
	if len(s) < 3 || s[0] != '(' {
		return Method{}, fmt.Errorf("invalid method descriptor %q", s)
	}

	var m Method
	pos := 1
	for pos < len(s) && s[pos] != ')' {
		t, next, err := parseAt(s, pos)
		if err != nil {
			return Method{}, err
		}
		if t.Sort == Void {
			return Method{}, fmt.Errorf("void argument in %q", s)
		}
		m.Args = append(m.Args, t)
		pos = next
	}
	if pos >= len(s) {
		return Method{}, fmt.Errorf("missing ')' in method descriptor %q", s)
	}

	ret, next, err := parseAt(s, pos+1)
	if err != nil {
		return Method{}, err
	}
	if next != len(s) {
		return Method{}, fmt.Errorf("trailing data in method descriptor %q", s)
	}
	m.Return = ret

	return m, nil
}

// ArgumentTypes returns the argument types of a method descriptor.
func ArgumentTypes(s string) ([]Type, error) {
	m, err := ParseMethod(s)
	if err != nil {
		return nil, err
	}
	return m.Args, nil
}

// ReturnType returns the return type of a method descriptor.
func ReturnType(s string) (Type, error) {
	m, err := ParseMethod(s)
	if err != nil {
		return Type{}, err
	}
	return m.Return, nil
}

// ArgumentsAndReturnSizes packs the argument size (including the implicit
// receiver) and return size as argSize<<2 | retSize.
func (m Method) ArgumentsAndReturnSizes() int {
	argSize := 1
	for _, a := range m.Args {
		argSize += a.Size()
	}
	return argSize<<2 | m.Return.Size()
}

// ArgumentSlots returns the local variable index of each argument.
func (m Method) ArgumentSlots(static bool) []int {
	slot := 1
	if static {
		slot = 0
	}
	slots := make([]int, len(m.Args))
	for i, a := range m.Args {
		slots[i] = slot
		slot += a.Size()
	}
	return slots
}

// Remap rewrites every class name referenced by a field or method descriptor.
// Descriptors that do not parse are returned unchanged.
func Remap(s string, mapper func(string) string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != 'L' {
			sb.WriteByte(s[i])
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return s
		}
		sb.WriteByte('L')
		sb.WriteString(mapper(s[i+1 : i+end]))
		sb.WriteByte(';')
		i += end
	}

	return sb.String()
}

// Same reports whether two types are interchangeable for identifier
// purposes. Object types are always equivalent to each other: overrides in
// generic subclasses carry erased or specialised class names that differ
// from the overridden declaration.
func Same(a, b Type) bool {
	switch a.Sort {
	case Array:
		return b.Sort == Array && a.Dims == b.Dims && Same(*a.Elem, *b.Elem)
	case Object:
		return b.Sort == Object
	default:
		return a.Sort == b.Sort
	}
}
