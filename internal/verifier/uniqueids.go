package verifier

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/mabhi256/mapverify/internal/desc"
	"github.com/mabhi256/mapverify/internal/inheritance"
	"github.com/mabhi256/mapverify/internal/mappings"
)

// idSpace separates member IDs (field_/func_ names) from parameter IDs.
type idSpace int

const (
	memberSpace idSpace = iota
	paramSpace
)

// shape is one recorded occurrence of a designator: [name] for a field,
// [name, descriptor] for a method.
type shape []string

func (s shape) String() string {
	return strings.Join(s, " ")
}

// claimTable maps an ID to the designators claiming it.
type claimTable map[int]map[string]bool

func (t claimTable) add(id int, designator string) {
	set, ok := t[id]
	if !ok {
		set = make(map[string]bool)
		t[id] = set
	}
	set[designator] = true
}

// shapeTable maps a designator to its distinct shapes, keyed by String().
type shapeTable map[string]map[string]shape

func (t shapeTable) add(designator string, s shape) {
	set, ok := t[designator]
	if !ok {
		set = make(map[string]shape)
		t[designator] = set
	}
	set[s.String()] = s
}

// sorted returns the designator's shapes in a stable order.
func (t shapeTable) sorted(designator string) []shape {
	set := t[designator]
	keys := slices.Sorted(maps.Keys(set))
	out := make([]shape, len(keys))
	for i, k := range keys {
		out[i] = set[k]
	}
	return out
}

// UniqueIDs verifies that every generated ID designates exactly one logical
// member within its ID space and that the member and parameter ID spaces do
// not overlap.
type UniqueIDs struct{}

func (u *UniqueIDs) Name() string { return "unique-ids" }

func (u *UniqueIDs) Description() string {
	return "generated field, method and parameter IDs are unique and consistent"
}

func (u *UniqueIDs) Process(inh *inheritance.Map, m *mappings.Mappings, sink *Sink) bool {
	claims := map[idSpace]claimTable{
		memberSpace: {},
		paramSpace:  {},
	}
	shapes := shapeTable{}

	claim := func(space idSpace, id int, designator string, s shape) {
		claims[space].add(id, designator)
		shapes.add(designator, s)
	}

	ok := true

	for _, cls := range inh.Classes() {
		info := m.Info(cls.Name)

		for _, field := range cls.FieldList() {
			target := info.MapField(field.Name)
			if g := ParseGenerated(target); g.Kind == GeneratedField {
				claim(memberSpace, g.ID, target, shape{field.Name})
			}
		}

		for _, method := range cls.MethodList() {
			target := info.MapMethod(method.Name, method.Desc)
			if g := ParseGenerated(target); g.Kind == GeneratedMethod {
				claim(memberSpace, g.ID, target, shape{method.Name, method.Desc})
				continue
			}

			// not ID-renamed itself, so any ID comes from its parameters
			md, err := desc.ParseMethod(method.Desc)
			if err != nil {
				sink.Errorf("Invalid descriptor: %s.%s%s: %v", cls.Name, method.Name, method.Desc, err)
				ok = false
				continue
			}
			argSlots := md.ArgumentSlots(method.IsStatic())
			for _, p := range info.Params(method.Name, method.Desc) {
				if !slices.Contains(argSlots, p.Slot) {
					sink.Warnf("Parameter %s mapped at slot %d, which is not an argument slot of %s.%s%s",
						p.Name, p.Slot, cls.Name, method.Name, method.Desc)
				}
				// the ID is claimed regardless, it still occupies the parameter space
				if p.HasID {
					claim(paramSpace, p.ID, p.Designator, shape{method.Name, method.Desc})
				}
			}
		}
	}

	if overlap := overlappingIDs(claims[memberSpace], claims[paramSpace]); len(overlap) > 0 {
		sink.Errorf("Duplicate ID between parameter table and method table")
		for _, id := range overlap {
			designators := append(sortedKeys(claims[memberSpace][id]), sortedKeys(claims[paramSpace][id])...)
			sink.Errorf("    %d (%s)", id, strings.Join(designators, ", "))
		}
		ok = false
	}

	type finding struct {
		space idSpace
		id    int
	}
	var findings []finding
	for _, space := range []idSpace{memberSpace, paramSpace} {
		for id, designators := range claims[space] {
			if len(designators) > 1 {
				findings = append(findings, finding{space, id})
				continue
			}
			for d := range designators {
				if conflicting(shapes.sorted(d)) {
					findings = append(findings, finding{space, id})
				}
			}
		}
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].id != findings[j].id {
			return findings[i].id < findings[j].id
		}
		return findings[i].space < findings[j].space
	})

	for _, f := range findings {
		designators := sortedKeys(claims[f.space][f.id])
		sink.Errorf("Duplicate ID: %d (%s)", f.id, strings.Join(designators, ", "))
		for _, d := range designators {
			var listed []string
			for _, s := range shapes.sorted(d) {
				listed = append(listed, s.String())
			}
			sink.Errorf("    %s (%s)", d, strings.Join(listed, ", "))
		}
		ok = false
	}

	return ok
}

func overlappingIDs(a, b claimTable) []int {
	var ids []int
	for id := range a {
		if _, ok := b[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func sortedKeys(set map[string]bool) []string {
	return slices.Sorted(maps.Keys(set))
}

// conflicting reports whether a set of shapes recorded for one ID can not
// belong to a single logical member. Identical shapes were already merged.
// A field and a method never match, two different fields never match, and
// methods must agree on stack size, return type and argument types under
// desc.Same.
func conflicting(shapes []shape) bool {
	if len(shapes) <= 1 {
		return false
	}

	field, method := false, false
	var first *desc.Method

	for _, s := range shapes {
		switch len(s) {
		case 1:
			if field {
				return true
			}
			field = true

		case 2:
			method = true
			md, err := desc.ParseMethod(s[1])
			if err != nil {
				return true
			}
			if first == nil {
				first = &md
				continue
			}
			if !sameSignature(*first, md) {
				return true
			}
		}
	}

	return field && method
}

func sameSignature(a, b desc.Method) bool {
	if a.ArgumentsAndReturnSizes() != b.ArgumentsAndReturnSizes() || !desc.Same(a.Return, b.Return) {
		return false
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !desc.Same(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}
