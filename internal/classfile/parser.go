package classfile

import (
	"bytes"
	"fmt"
)

/*
*	Class file layout, JVMS §4.1
*	https://docs.oracle.com/javase/specs/jvms/se21/html/jvms-4.html
 */

// Parse parses a single class record:
//
//	u4             magic
//	u2             minor_version
//	u2             major_version
//	u2             constant_pool_count
//	cp_info        constant_pool[constant_pool_count-1]
//	u2             access_flags
//	u2             this_class
//	u2             super_class
//	u2             interfaces_count
//	u2             interfaces[interfaces_count]
//	u2             fields_count
//	field_info     fields[fields_count]
//	u2             methods_count
//	method_info    methods[methods_count]
//	u2             attributes_count
//	attribute_info attributes[attributes_count]
//
// name identifies the record in errors; it is usually the archive entry name.
func Parse(name string, data []byte) (*ClassInfo, error) {
	reader := NewBinaryReader(bytes.NewReader(data))

	cls, err := parseClass(reader)
	if err != nil {
		return nil, &MalformedClassError{Name: name, Offset: reader.BytesRead(), Err: err}
	}
	return cls, nil
}

func parseClass(reader *BinaryReader) (*ClassInfo, error) {
	magic, err := reader.ReadU4()
	if err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic: 0x%08x", magic)
	}

	// minor + major version
	if err := reader.Skip(4); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}

	pool, err := ParseConstantPool(reader)
	if err != nil {
		return nil, err
	}

	access, err := reader.ReadU2()
	if err != nil {
		return nil, fmt.Errorf("failed to read access flags: %w", err)
	}

	cls := &ClassInfo{
		Access:  access,
		Fields:  make(map[string]*FieldInfo),
		Methods: make(map[string]*MethodInfo),
	}

	if cls.Name, err = readClassRef(reader, pool, false); err != nil {
		return nil, fmt.Errorf("failed to read this_class: %w", err)
	}
	if cls.Super, err = readClassRef(reader, pool, true); err != nil {
		return nil, fmt.Errorf("failed to read super_class: %w", err)
	}

	interfaceCount, err := reader.ReadU2()
	if err != nil {
		return nil, fmt.Errorf("failed to read interfaces count: %w", err)
	}
	for range interfaceCount {
		iface, err := readClassRef(reader, pool, false)
		if err != nil {
			return nil, fmt.Errorf("failed to read interface: %w", err)
		}
		cls.Interfaces = append(cls.Interfaces, iface)
	}

	fieldCount, err := reader.ReadU2()
	if err != nil {
		return nil, fmt.Errorf("failed to read fields count: %w", err)
	}
	for i := range fieldCount {
		acc, name, desc, err := parseMember(reader, pool)
		if err != nil {
			return nil, fmt.Errorf("field #%d: %w", i, err)
		}
		field := &FieldInfo{Name: name, Desc: desc, Access: acc}
		cls.Fields[name] = field
		cls.fieldOrder = append(cls.fieldOrder, field)
	}

	methodCount, err := reader.ReadU2()
	if err != nil {
		return nil, fmt.Errorf("failed to read methods count: %w", err)
	}
	for i := range methodCount {
		acc, name, desc, err := parseMember(reader, pool)
		if err != nil {
			return nil, fmt.Errorf("method #%d: %w", i, err)
		}
		method := &MethodInfo{Name: name, Desc: desc, Access: acc}
		cls.Methods[MethodKey(name, desc)] = method
		cls.methodOrder = append(cls.methodOrder, method)
	}

	if err := skipAttributes(reader); err != nil {
		return nil, fmt.Errorf("class attributes: %w", err)
	}

	return cls, nil
}

func readClassRef(reader *BinaryReader, pool *ConstantPool, optional bool) (string, error) {
	index, err := reader.ReadU2()
	if err != nil {
		return "", err
	}
	if index == 0 && optional {
		return "", nil
	}
	return pool.ClassName(index)
}

/*
parseMember parses a field_info or method_info structure; both share a layout:

u2             access_flags
u2             name_index
u2             descriptor_index
u2             attributes_count
attribute_info attributes[attributes_count]
*/
func parseMember(reader *BinaryReader, pool *ConstantPool) (uint16, string, string, error) {
	access, err := reader.ReadU2()
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to read access flags: %w", err)
	}

	nameIndex, err := reader.ReadU2()
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to read name index: %w", err)
	}
	name, err := pool.Utf8(nameIndex)
	if err != nil {
		return 0, "", "", fmt.Errorf("name: %w", err)
	}

	descIndex, err := reader.ReadU2()
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to read descriptor index: %w", err)
	}
	desc, err := pool.Utf8(descIndex)
	if err != nil {
		return 0, "", "", fmt.Errorf("descriptor of %s: %w", name, err)
	}

	if err := skipAttributes(reader); err != nil {
		return 0, "", "", fmt.Errorf("attributes of %s: %w", name, err)
	}

	return access, name, desc, nil
}

// skipAttributes skips an attributes table; member contents are not needed
func skipAttributes(reader *BinaryReader) error {
	count, err := reader.ReadU2()
	if err != nil {
		return fmt.Errorf("failed to read attributes count: %w", err)
	}

	for range count {
		// attribute_name_index
		if err := reader.Skip(2); err != nil {
			return err
		}
		length, err := reader.ReadU4()
		if err != nil {
			return fmt.Errorf("failed to read attribute length: %w", err)
		}
		if err := reader.Skip(int(length)); err != nil {
			return err
		}
	}

	return nil
}
