package inheritance

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mabhi256/mapverify/internal/classfile"
)

type entry struct {
	Class     *classfile.ClassInfo
	LoadOrder int // order in which the class was read from the archive
}

// Map owns every class read from one archive, indexed by internal name.
// It is read-only once Load returns.
type Map struct {
	classesByName map[string]*entry

	loadOrder int
}

// DuplicateClassError is returned when an archive defines a class twice.
type DuplicateClassError struct {
	Name  string
	First string // entry that defined it first
	Again string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("duplicate class %s in %s (already defined by %s)", e.Name, e.Again, e.First)
}

func NewMap() *Map {
	return &Map{
		classesByName: make(map[string]*entry),
	}
}

// Load reads every class record of the archive at path.
func Load(path string) (*Map, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open archive: %w", err)
	}
	defer archive.Close()

	return LoadArchive(&archive.Reader)
}

// LoadBytes reads an in-memory archive.
func LoadBytes(data []byte) (*Map, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to open archive: %w", err)
	}
	return LoadArchive(archive)
}

// LoadArchive parses every *.class entry in archive order. Entries under
// META-INF are skipped: multi-release overlays there redefine classes that
// are already present at the root.
func LoadArchive(archive *zip.Reader) (*Map, error) {
	m := NewMap()
	sources := make(map[string]string)

	for _, file := range archive.File {
		if file.FileInfo().IsDir() || !strings.HasSuffix(file.Name, ".class") {
			continue
		}
		if strings.HasPrefix(file.Name, "META-INF/") {
			continue
		}

		data, err := readEntry(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
		}

		cls, err := classfile.Parse(file.Name, data)
		if err != nil {
			return nil, err
		}

		if first, exists := sources[cls.Name]; exists {
			return nil, &DuplicateClassError{Name: cls.Name, First: first, Again: file.Name}
		}
		sources[cls.Name] = file.Name

		m.Add(cls)
	}

	return m, nil
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Add registers a class. Callers building a map by hand are responsible for
// unique names; a repeated name replaces the earlier class but keeps its slot.
func (m *Map) Add(cls *classfile.ClassInfo) {
	if existing, ok := m.classesByName[cls.Name]; ok {
		existing.Class = cls
		return
	}

	m.loadOrder++
	m.classesByName[cls.Name] = &entry{
		Class:     cls,
		LoadOrder: m.loadOrder,
	}
}

func (m *Map) Get(name string) (*classfile.ClassInfo, bool) {
	e, exists := m.classesByName[name]
	if !exists {
		return nil, false
	}
	return e.Class, true
}

func (m *Map) Count() int {
	return len(m.classesByName)
}

// Classes returns every class in archive order. Each call returns a fresh
// slice so the sequence can be enumerated again.
func (m *Map) Classes() []*classfile.ClassInfo {
	entries := make([]*entry, 0, len(m.classesByName))
	for _, e := range m.classesByName {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoadOrder < entries[j].LoadOrder
	})

	classes := make([]*classfile.ClassInfo, len(entries))
	for i, e := range entries {
		classes[i] = e.Class
	}
	return classes
}
