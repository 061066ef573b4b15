package verifier

import (
	"github.com/mabhi256/mapverify/internal/inheritance"
	"github.com/mabhi256/mapverify/internal/mappings"
)

// OverrideNames verifies that a method overriding a supertype method from
// the same archive is renamed to the same target as the method it overrides.
// Supertypes outside the archive are opaque and not checked.
type OverrideNames struct{}

func (o *OverrideNames) Name() string { return "override-names" }

func (o *OverrideNames) Description() string {
	return "overriding methods share the target name of the method they override"
}

func (o *OverrideNames) Process(inh *inheritance.Map, m *mappings.Mappings, sink *Sink) bool {
	ok := true

	for _, cls := range inh.Classes() {
		info := m.Info(cls.Name)

		for _, method := range cls.MethodList() {
			target := info.MapMethod(method.Name, method.Desc)

			for _, super := range inh.FindOverridden(cls, method) {
				superTarget := m.Info(super.Owner.Name).MapMethod(super.Method.Name, super.Method.Desc)
				if superTarget == target {
					continue
				}

				sink.Errorf("Overridden method renamed differently: %s/%s%s -> %s (overrides %s/%s%s -> %s)",
					cls.Name, method.Name, method.Desc, target,
					super.Owner.Name, super.Method.Name, super.Method.Desc, superTarget)
				ok = false
			}
		}
	}

	return ok
}
