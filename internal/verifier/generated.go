package verifier

import (
	"regexp"
	"strconv"
)

type GeneratedKind int

const (
	NotGenerated GeneratedKind = iota
	GeneratedField
	GeneratedMethod
)

func (k GeneratedKind) String() string {
	switch k {
	case GeneratedField:
		return "field"
	case GeneratedMethod:
		return "method"
	default:
		return "none"
	}
}

// Generated is the result of classifying a rename target.
type Generated struct {
	Kind GeneratedKind
	ID   int
}

var generatedPattern = regexp.MustCompile(`^(field|func)_(\d+)(?:_|$)`)

// ParseGenerated classifies a target name: field_<id>_* and func_<id>_*
// carry a generated ID, anything else does not.
func ParseGenerated(name string) Generated {
	match := generatedPattern.FindStringSubmatch(name)
	if match == nil {
		return Generated{Kind: NotGenerated}
	}

	id, err := strconv.Atoi(match[2])
	if err != nil {
		return Generated{Kind: NotGenerated}
	}

	if match[1] == "field" {
		return Generated{Kind: GeneratedField, ID: id}
	}
	return Generated{Kind: GeneratedMethod, ID: id}
}
