package classfile

import "fmt"

// ConstantPool keeps the entries the class model needs: Utf8 text and
// Class name indices. Everything else is validated and skipped.
type ConstantPool struct {
	tags    []uint8
	utf8    map[uint16]string
	classes map[uint16]uint16 // class index -> name index
}

// fixed payload sizes of the entries that are skipped
var constantSizes = map[uint8]int{
	TagInteger:            4,
	TagFloat:              4,
	TagLong:               8,
	TagDouble:             8,
	TagString:             2,
	TagFieldref:           4,
	TagMethodref:          4,
	TagInterfaceMethodref: 4,
	TagNameAndType:        4,
	TagMethodHandle:       3,
	TagMethodType:         2,
	TagDynamic:            4,
	TagInvokeDynamic:      4,
	TagModule:             2,
	TagPackage:            2,
}

/*
ParseConstantPool parses the constant pool:

u2        constant_pool_count
cp_info   constant_pool[constant_pool_count-1]

Long and Double entries occupy two indices.
*/
func ParseConstantPool(reader *BinaryReader) (*ConstantPool, error) {
	count, err := reader.ReadU2()
	if err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", err)
	}

	pool := &ConstantPool{
		tags:    make([]uint8, count),
		utf8:    make(map[uint16]string),
		classes: make(map[uint16]uint16),
	}

	for index := uint16(1); index < count; index++ {
		tag, err := reader.ReadU1()
		if err != nil {
			return nil, fmt.Errorf("failed to read tag of constant #%d: %w", index, err)
		}
		pool.tags[index] = tag

		switch tag {
		case TagUtf8:
			text, err := reader.ReadModifiedUtf8()
			if err != nil {
				return nil, fmt.Errorf("constant #%d: %w", index, err)
			}
			pool.utf8[index] = text

		case TagClass:
			nameIndex, err := reader.ReadU2()
			if err != nil {
				return nil, fmt.Errorf("failed to read class name index of constant #%d: %w", index, err)
			}
			pool.classes[index] = nameIndex

		default:
			size, ok := constantSizes[tag]
			if !ok {
				return nil, fmt.Errorf("unknown constant pool tag %d at #%d", tag, index)
			}
			if err := reader.Skip(size); err != nil {
				return nil, fmt.Errorf("constant #%d: %w", index, err)
			}
			if tag == TagLong || tag == TagDouble {
				index++
			}
		}
	}

	return pool, nil
}

// Utf8 resolves a CONSTANT_Utf8 entry
func (p *ConstantPool) Utf8(index uint16) (string, error) {
	text, ok := p.utf8[index]
	if !ok {
		return "", fmt.Errorf("constant #%d is not a Utf8 entry", index)
	}
	return text, nil
}

// ClassName resolves a CONSTANT_Class entry to its internal name
func (p *ConstantPool) ClassName(index uint16) (string, error) {
	nameIndex, ok := p.classes[index]
	if !ok {
		return "", fmt.Errorf("constant #%d is not a Class entry", index)
	}
	return p.Utf8(nameIndex)
}

func (p *ConstantPool) Count() int {
	return len(p.tags)
}
