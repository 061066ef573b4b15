package inheritance

import "github.com/mabhi256/mapverify/internal/classfile"

// Supers returns the direct supertypes of cls that exist in the archive:
// the superclass first, then interfaces in declaration order. Platform
// classes are opaque and left out.
func (m *Map) Supers(cls *classfile.ClassInfo) []*classfile.ClassInfo {
	var supers []*classfile.ClassInfo

	if cls.Super != "" {
		if super, ok := m.Get(cls.Super); ok {
			supers = append(supers, super)
		}
	}
	for _, name := range cls.Interfaces {
		if iface, ok := m.Get(name); ok {
			supers = append(supers, iface)
		}
	}

	return supers
}

// Override pairs a method with the supertype declaration it overrides.
type Override struct {
	Owner  *classfile.ClassInfo
	Method *classfile.MethodInfo
}

// FindOverridden returns the nearest supertype declarations that method
// overrides, searched breadth-first. A branch stops at the first match so
// that each returned declaration is the closest one on its path.
// Constructors, static and private methods never override, and a
// package-private declaration is only overridden from its own package.
func (m *Map) FindOverridden(cls *classfile.ClassInfo, method *classfile.MethodInfo) []Override {
	if method.IsConstructor() || method.IsStatic() || method.IsPrivate() {
		return nil
	}

	var found []Override
	visited := map[string]bool{cls.Name: true}
	queue := m.Supers(cls)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if visited[next.Name] {
			continue
		}
		visited[next.Name] = true

		if candidate, ok := next.Method(method.Name, method.Desc); ok && overrides(cls, next, candidate) {
			found = append(found, Override{Owner: next, Method: candidate})
			continue
		}

		queue = append(queue, m.Supers(next)...)
	}

	return found
}

func overrides(cls, owner *classfile.ClassInfo, candidate *classfile.MethodInfo) bool {
	if candidate.IsStatic() || candidate.IsPrivate() {
		return false
	}
	if candidate.IsPackagePrivate() {
		return cls.Package() == owner.Package()
	}
	return true
}
