package classfile

import (
	"fmt"
	"strings"
)

const Magic uint32 = 0xCAFEBABE

// Access flags
const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccBridge    = 0x0040
	AccSynthetic = 0x1000
	AccInterface = 0x0200
)

// Constant pool tags
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// ClassInfo is one compiled class with its declared (not inherited) members.
// It is immutable once Parse returns.
type ClassInfo struct {
	Name       string
	Super      string // empty for java/lang/Object and module-info
	Interfaces []string
	Access     uint16

	Fields  map[string]*FieldInfo
	Methods map[string]*MethodInfo // keyed by name+desc

	fieldOrder  []*FieldInfo
	methodOrder []*MethodInfo
}

type FieldInfo struct {
	Name   string
	Desc   string
	Access uint16
}

type MethodInfo struct {
	Name   string
	Desc   string
	Access uint16
}

// MethodKey is the key under which a method is stored in ClassInfo.Methods.
func MethodKey(name, desc string) string {
	return name + desc
}

// Package returns the internal package name, "" for the default package.
func (c *ClassInfo) Package() string {
	if i := strings.LastIndexByte(c.Name, '/'); i >= 0 {
		return c.Name[:i]
	}
	return ""
}

func (c *ClassInfo) IsInterface() bool {
	return c.Access&AccInterface != 0
}

// Method looks up a declared method by exact name and descriptor.
func (c *ClassInfo) Method(name, desc string) (*MethodInfo, bool) {
	m, ok := c.Methods[MethodKey(name, desc)]
	return m, ok
}

// FieldList returns declared fields in class-file order.
func (c *ClassInfo) FieldList() []*FieldInfo {
	return c.fieldOrder
}

// MethodList returns declared methods in class-file order.
func (c *ClassInfo) MethodList() []*MethodInfo {
	return c.methodOrder
}

func (m *MethodInfo) IsStatic() bool {
	return m.Access&AccStatic != 0
}

func (m *MethodInfo) IsPrivate() bool {
	return m.Access&AccPrivate != 0
}

// IsPackagePrivate reports a method with none of the public, protected or
// private flags.
func (m *MethodInfo) IsPackagePrivate() bool {
	return m.Access&(AccPublic|AccProtected|AccPrivate) == 0
}

// IsSynthetic reports compiler-generated methods, bridges included.
func (m *MethodInfo) IsSynthetic() bool {
	return m.Access&(AccSynthetic|AccBridge) != 0
}

func (m *MethodInfo) IsConstructor() bool {
	return m.Name == "<init>" || m.Name == "<clinit>"
}

func (m *MethodInfo) String() string {
	return m.Name + m.Desc
}

// MalformedClassError reports a class record that could not be parsed.
type MalformedClassError struct {
	Name   string // archive entry name
	Offset int64
	Err    error
}

func (e *MalformedClassError) Error() string {
	return fmt.Sprintf("malformed class %s at offset %d: %v", e.Name, e.Offset, e.Err)
}

func (e *MalformedClassError) Unwrap() error {
	return e.Err
}
