// Package classfiletest assembles minimal, valid class files for tests.
package classfiletest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
)

type member struct {
	access uint16
	name   string
	desc   string
}

// Builder collects the pieces of a class; Bytes renders it.
type Builder struct {
	name       string
	super      string
	interfaces []string
	access     uint16
	fields     []member
	methods    []member
}

// Class starts a public class extending java/lang/Object.
func Class(name string) *Builder {
	return &Builder{name: name, super: "java/lang/Object", access: 0x0021}
}

func (b *Builder) Extends(super string) *Builder {
	b.super = super
	return b
}

func (b *Builder) Implements(ifaces ...string) *Builder {
	b.interfaces = append(b.interfaces, ifaces...)
	return b
}

func (b *Builder) Access(access uint16) *Builder {
	b.access = access
	return b
}

func (b *Builder) Field(name, desc string) *Builder {
	return b.FieldAccess(0x0001, name, desc)
}

func (b *Builder) FieldAccess(access uint16, name, desc string) *Builder {
	b.fields = append(b.fields, member{access, name, desc})
	return b
}

func (b *Builder) Method(name, desc string) *Builder {
	return b.MethodAccess(0x0001, name, desc)
}

func (b *Builder) MethodAccess(access uint16, name, desc string) *Builder {
	b.methods = append(b.methods, member{access, name, desc})
	return b
}

type pool struct {
	buf     bytes.Buffer
	count   uint16
	utf8    map[string]uint16
	classes map[string]uint16
}

func (p *pool) utf(s string) uint16 {
	if idx, ok := p.utf8[s]; ok {
		return idx
	}
	p.buf.WriteByte(1)
	binary.Write(&p.buf, binary.BigEndian, uint16(len(s)))
	p.buf.WriteString(s)
	p.count++
	p.utf8[s] = p.count
	return p.count
}

func (p *pool) class(name string) uint16 {
	if idx, ok := p.classes[name]; ok {
		return idx
	}
	nameIdx := p.utf(name)
	p.buf.WriteByte(7)
	binary.Write(&p.buf, binary.BigEndian, nameIdx)
	p.count++
	p.classes[name] = p.count
	return p.count
}

// Bytes renders the class file. Every member carries one opaque attribute so
// that attribute skipping is exercised.
func (b *Builder) Bytes() []byte {
	cp := &pool{utf8: map[string]uint16{}, classes: map[string]uint16{}}

	// a Long constant to exercise double-slot entries
	cp.buf.WriteByte(5)
	cp.buf.Write(make([]byte, 8))
	cp.count += 2

	this := cp.class(b.name)
	var super uint16
	if b.super != "" {
		super = cp.class(b.super)
	}
	ifaces := make([]uint16, len(b.interfaces))
	for i, iface := range b.interfaces {
		ifaces[i] = cp.class(iface)
	}
	attrName := cp.utf("Synthetic")

	var body bytes.Buffer
	w := func(v any) { binary.Write(&body, binary.BigEndian, v) }

	w(b.access)
	w(this)
	w(super)
	w(uint16(len(ifaces)))
	for _, idx := range ifaces {
		w(idx)
	}

	writeMembers := func(members []member) {
		w(uint16(len(members)))
		for _, m := range members {
			w(m.access)
			w(cp.utf(m.name))
			w(cp.utf(m.desc))
			w(uint16(1))
			w(attrName)
			w(uint32(2))
			w(uint16(0xBEEF))
		}
	}
	writeMembers(b.fields)
	writeMembers(b.methods)
	w(uint16(0))

	var out bytes.Buffer
	o := func(v any) { binary.Write(&out, binary.BigEndian, v) }
	o(uint32(0xCAFEBABE))
	o(uint16(0))
	o(uint16(52))
	o(cp.count + 1)
	out.Write(cp.buf.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

// Entry is one file placed into a test archive.
type Entry struct {
	Name string
	Data []byte
}

// ClassEntry renders b as "<name>.class".
func ClassEntry(b *Builder) Entry {
	return Entry{Name: b.name + ".class", Data: b.Bytes()}
}

// Jar writes the entries, in order, into an in-memory zip archive.
func Jar(entries ...Entry) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := zw.Create(e.Name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write(e.Data); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
