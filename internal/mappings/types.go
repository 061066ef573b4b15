package mappings

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/mabhi256/mapverify/internal/desc"
)

// Mappings is the rename table keyed by original (unmapped) class name.
// It is read-only once Load returns.
type Mappings struct {
	classes  map[string]*ClsInfo
	reverse  map[string]string // target class -> original class
	packages map[string]string
}

// ClsInfo holds the renames declared for one original class.
type ClsInfo struct {
	Name   string
	Target string // equals Name when the class itself is not renamed

	fields  map[string]string
	methods map[string]string        // name+desc -> target
	params  map[string]map[int]Param // name+desc -> slot -> param
}

// Param is one parameter rename. Slot is the local variable index.
type Param struct {
	Slot  int
	Name  string
	ID    int
	HasID bool
	// Designator is the ID stem shared by every parameter of one method,
	// e.g. p_i300 for p_i300_1_ and p_i300_2_.
	Designator string
}

var paramNamePattern = regexp.MustCompile(`^(p_i?(\d+))_\d+_?$`)

// NewParam derives the parameter ID from explicitID (when non-empty) or from
// the generated parameter name.
func NewParam(slot int, name, explicitID string) (Param, error) {
	p := Param{Slot: slot, Name: name}

	match := paramNamePattern.FindStringSubmatch(name)

	switch {
	case explicitID != "":
		id, err := strconv.Atoi(explicitID)
		if err != nil || id < 0 {
			return Param{}, fmt.Errorf("invalid parameter id %q", explicitID)
		}
		p.ID, p.HasID = id, true
	case match != nil:
		id, err := strconv.Atoi(match[2])
		if err != nil {
			return Param{}, fmt.Errorf("parameter id out of range in %q", name)
		}
		p.ID, p.HasID = id, true
	default:
		return p, nil
	}

	if match != nil && match[2] == strconv.Itoa(p.ID) {
		p.Designator = match[1]
	} else {
		p.Designator = "p_" + strconv.Itoa(p.ID)
	}
	return p, nil
}

func newMappings() *Mappings {
	return &Mappings{
		classes:  make(map[string]*ClsInfo),
		reverse:  make(map[string]string),
		packages: make(map[string]string),
	}
}

func newClsInfo(name string) *ClsInfo {
	return &ClsInfo{
		Name:    name,
		Target:  name,
		fields:  make(map[string]string),
		methods: make(map[string]string),
		params:  make(map[string]map[int]Param),
	}
}

// class returns the info for name, creating it on first use.
func (m *Mappings) class(name string) *ClsInfo {
	info, ok := m.classes[name]
	if !ok {
		info = newClsInfo(name)
		m.classes[name] = info
	}
	return info
}

func (m *Mappings) addClass(name, target string) {
	info := m.class(name)
	info.Target = target
	m.reverse[target] = name
}

// Class returns the renames for an original class name. A miss means the
// class is unmapped, which is legal.
func (m *Mappings) Class(name string) (*ClsInfo, bool) {
	info, ok := m.classes[name]
	return info, ok
}

// Info is Class with an identity fallback for unmapped classes.
func (m *Mappings) Info(name string) *ClsInfo {
	if info, ok := m.classes[name]; ok {
		return info
	}
	return newClsInfo(name)
}

// ClassNames returns every original class name with an entry, sorted.
func (m *Mappings) ClassNames() []string {
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Mappings) MapClass(name string) string {
	if info, ok := m.classes[name]; ok {
		return info.Target
	}
	return name
}

func (m *Mappings) UnmapClass(target string) string {
	if name, ok := m.reverse[target]; ok {
		return name
	}
	return target
}

// MapPackage returns the renamed package, or the original when unmapped.
func (m *Mappings) MapPackage(name string) string {
	if target, ok := m.packages[name]; ok {
		return target
	}
	return name
}

// MapDesc rewrites a descriptor from original to target class names.
func (m *Mappings) MapDesc(d string) string {
	return desc.Remap(d, m.MapClass)
}

// UnmapDesc rewrites a descriptor written with target class names back to
// original names.
func (m *Mappings) UnmapDesc(d string) string {
	return desc.Remap(d, m.UnmapClass)
}

// MapField returns the field's target name, or name unchanged.
func (c *ClsInfo) MapField(name string) string {
	if target, ok := c.fields[name]; ok {
		return target
	}
	return name
}

// MapMethod returns the method's target name, or name unchanged. The
// descriptor must match exactly.
func (c *ClsInfo) MapMethod(name, d string) string {
	if target, ok := c.methods[name+d]; ok {
		return target
	}
	return name
}

// IsRenamed reports whether the class has any class or member rename.
func (c *ClsInfo) IsRenamed() bool {
	return c.Target != c.Name || len(c.fields) > 0 || len(c.methods) > 0 || len(c.params) > 0
}

// Param returns the parameter mapped at slot of the given method.
func (c *ClsInfo) Param(name, d string, slot int) (Param, bool) {
	p, ok := c.params[name+d][slot]
	return p, ok
}

// ParamID returns the numeric ID of the method's parameters: the ID of the
// lowest mapped slot that carries one.
func (c *ClsInfo) ParamID(name, d string) (int, bool) {
	best, found := -1, false
	id := 0
	for slot, p := range c.params[name+d] {
		if p.HasID && (!found || slot < best) {
			best, found, id = slot, true, p.ID
		}
	}
	return id, found
}

// Params returns the parameters mapped for a method, ordered by slot.
func (c *ClsInfo) Params(name, d string) []Param {
	slots := c.params[name+d]
	params := make([]Param, 0, len(slots))
	for _, p := range slots {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool {
		return params[i].Slot < params[j].Slot
	})
	return params
}

func (c *ClsInfo) addParam(method string, p Param) {
	slots, ok := c.params[method]
	if !ok {
		slots = make(map[int]Param)
		c.params[method] = slots
	}
	slots[p.Slot] = p
}

// FieldCount and MethodCount report how many member renames the class has.
func (c *ClsInfo) FieldCount() int  { return len(c.fields) }
func (c *ClsInfo) MethodCount() int { return len(c.methods) }

// MalformedLineError reports a mapping line that cannot become a record.
type MalformedLineError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Text)
}
