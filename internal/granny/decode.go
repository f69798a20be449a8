package granny

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

type member struct {
	typ       MemberType
	name      string
	def       sectionRef
	hasDef    bool
	arraySize int
}

// decoder walks object data against its member definitions. Pointers are
// resolved through the relocation tables rather than by patching the
// section data, so a pointer slot without a relocation reads as null.
type decoder struct {
	sections    []section
	pointerSize int
	structSizes map[sectionRef]int
	elements    int
}

func (d *decoder) bytes(at sectionRef, n int) ([]byte, error) {
	if int(at.section) >= len(d.sections) {
		return nil, fmt.Errorf("%w: section %d of %d", ErrOutOfBounds, at.section, len(d.sections))
	}
	data := d.sections[at.section].data
	end := uint64(at.offset) + uint64(n)
	if n < 0 || end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: [%d, %d) in section %d of %d bytes", ErrOutOfBounds, at.offset, end, at.section, len(data))
	}
	return data[at.offset:end], nil
}

func (d *decoder) u8(at sectionRef) (uint8, error) {
	b, err := d.bytes(at, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16(at sectionRef) (uint16, error) {
	b, err := d.bytes(at, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *decoder) u32(at sectionRef) (uint32, error) {
	b, err := d.bytes(at, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) f32(at sectionRef) (float32, error) {
	v, err := d.u32(at)
	return math.Float32frombits(v), err
}

func (d *decoder) pointer(at sectionRef) (sectionRef, bool, error) {
	if _, err := d.bytes(at, d.pointerSize); err != nil {
		return sectionRef{}, false, err
	}
	target, ok := d.sections[at.section].relocs[at.offset]
	return target, ok, nil
}

func (d *decoder) cstring(at sectionRef) (string, error) {
	data, err := d.bytes(at, 0)
	if err != nil {
		return "", err
	}
	data = d.sections[at.section].data[at.offset:]
	n := bytes.IndexByte(data, 0)
	if n < 0 {
		return "", fmt.Errorf("%w: unterminated string at %d", ErrOutOfBounds, at.offset)
	}
	return string(data[:n]), nil
}

func (d *decoder) count() error {
	d.elements++
	if d.elements > maxElements {
		return ErrTooLarge
	}
	return nil
}

func (d *decoder) member(at sectionRef) (member, error) {
	p := d.pointerSize

	typ, err := d.u32(at)
	if err != nil {
		return member{}, err
	}
	if MemberType(typ) == MemberNone {
		return member{typ: MemberNone}, nil
	}

	m := member{typ: MemberType(typ)}

	nameRef, ok, err := d.pointer(at.add(4))
	if err != nil {
		return member{}, err
	}
	if ok {
		if m.name, err = d.cstring(nameRef); err != nil {
			return member{}, err
		}
	}

	if m.def, m.hasDef, err = d.pointer(at.add(4 + p)); err != nil {
		return member{}, err
	}

	arraySize, err := d.u32(at.add(4 + 2*p))
	if err != nil {
		return member{}, err
	}
	m.arraySize = int(arraySize)

	return m, nil
}

func (d *decoder) decodeStruct(def, obj sectionRef, depth int) ([]Element, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}

	stride := MemberDefinitionSize(d.pointerSize)
	cursor := obj

	var elements []Element
	for i := 0; ; i++ {
		m, err := d.member(def.add(i * stride))
		if err != nil {
			return nil, fmt.Errorf("member definition %d: %w", i, err)
		}
		if m.typ == MemberNone {
			break
		}
		if err := d.count(); err != nil {
			return nil, err
		}

		value, size, err := d.decodeMember(m, cursor, depth)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.name, err)
		}

		elements = append(elements, Element{Name: m.name, Value: value})
		cursor = cursor.add(size)
	}

	return elements, nil
}

func (d *decoder) structSize(def sectionRef, depth int) (int, error) {
	if size, ok := d.structSizes[def]; ok {
		return size, nil
	}
	if depth > maxDepth {
		return 0, ErrTooDeep
	}

	stride := MemberDefinitionSize(d.pointerSize)
	total := 0
	for i := 0; ; i++ {
		m, err := d.member(def.add(i * stride))
		if err != nil {
			return 0, err
		}
		if m.typ == MemberNone {
			break
		}
		size, err := d.memberSize(m, depth)
		if err != nil {
			return 0, err
		}
		total += size
	}

	d.structSizes[def] = total
	return total, nil
}

func (d *decoder) memberSize(m member, depth int) (int, error) {
	var size int
	if m.typ == MemberInline {
		if m.hasDef {
			s, err := d.structSize(m.def, depth+1)
			if err != nil {
				return 0, err
			}
			size = s
		}
	} else {
		s, ok := scalarSize(m.typ, d.pointerSize)
		if !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownMember, m.typ)
		}
		size = s
	}

	if m.arraySize > 0 {
		size *= m.arraySize
	}
	return size, nil
}

func (d *decoder) decodeMember(m member, at sectionRef, depth int) (Value, int, error) {
	size, err := d.memberSize(m, depth)
	if err != nil {
		return nil, 0, err
	}
	if _, err := d.bytes(at, size); err != nil {
		return nil, 0, err
	}

	if m.arraySize == 0 {
		value, err := d.decodeValue(m, at, depth)
		return value, size, err
	}

	stride := size / m.arraySize
	values := make(Array, 0, min(m.arraySize, 1024))
	for k := 0; k < m.arraySize; k++ {
		if err := d.count(); err != nil {
			return nil, 0, err
		}
		value, err := d.decodeValue(m, at.add(k*stride), depth)
		if err != nil {
			return nil, 0, fmt.Errorf("[%d]: %w", k, err)
		}
		values = append(values, value)
	}
	return values, size, nil
}

func (d *decoder) decodeValue(m member, at sectionRef, depth int) (Value, error) {
	switch m.typ {
	case MemberInline:
		if !m.hasDef {
			return Reference{}, nil
		}
		elements, err := d.decodeStruct(m.def, at, depth+1)
		return Reference{Elements: elements}, err

	case MemberReference:
		target, ok, err := d.pointer(at)
		if err != nil || !ok || !m.hasDef {
			return Reference{}, err
		}
		elements, err := d.decodeStruct(m.def, target, depth+1)
		return Reference{Elements: elements}, err

	case MemberEmptyReference:
		return Reference{}, nil

	case MemberReferenceToArray:
		return d.referenceToArray(m, at, depth)

	case MemberArrayOfReferences:
		return d.arrayOfReferences(m, at, depth)

	case MemberVariantReference, MemberReferenceToVariantArray:
		return VariantReference{}, nil

	case MemberString:
		target, ok, err := d.pointer(at)
		if err != nil || !ok {
			return String(""), err
		}
		s, err := d.cstring(target)
		return String(s), err

	case MemberTransform:
		return d.transform(at)

	case MemberReal32:
		v, err := d.f32(at)
		return Float32(v), err

	case MemberReal16:
		v, err := d.u16(at)
		return Float32(halfToFloat32(v)), err

	case MemberInt8, MemberBinormalInt8:
		v, err := d.u8(at)
		return Int32(int8(v)), err

	case MemberUInt8, MemberNormalUInt8:
		v, err := d.u8(at)
		return Int32(v), err

	case MemberInt16, MemberBinormalInt16:
		v, err := d.u16(at)
		return Int32(int16(v)), err

	case MemberUInt16, MemberNormalUInt16:
		v, err := d.u16(at)
		return Int32(v), err

	case MemberInt32, MemberUInt32:
		v, err := d.u32(at)
		return Int32(int32(v)), err
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownMember, m.typ)
}

func (d *decoder) referenceToArray(m member, at sectionRef, depth int) (Value, error) {
	count, err := d.u32(at)
	if err != nil {
		return nil, err
	}
	target, ok, err := d.pointer(at.add(4))
	if err != nil {
		return nil, err
	}
	if count == 0 || !ok || !m.hasDef {
		return ArrayOfReferences{}, nil
	}

	stride, err := d.structSize(m.def, depth+1)
	if err != nil {
		return nil, err
	}
	if _, err := d.bytes(target, stride*int(count)); err != nil {
		return nil, err
	}

	groups := make([][]Element, 0, min(int(count), 1024))
	for i := 0; i < int(count); i++ {
		if err := d.count(); err != nil {
			return nil, err
		}
		elements, err := d.decodeStruct(m.def, target.add(i*stride), depth+1)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		groups = append(groups, elements)
	}
	return ArrayOfReferences{Groups: groups}, nil
}

func (d *decoder) arrayOfReferences(m member, at sectionRef, depth int) (Value, error) {
	count, err := d.u32(at)
	if err != nil {
		return nil, err
	}
	table, ok, err := d.pointer(at.add(4))
	if err != nil {
		return nil, err
	}
	if count == 0 || !ok {
		return ArrayOfReferences{}, nil
	}
	if _, err := d.bytes(table, int(count)*d.pointerSize); err != nil {
		return nil, err
	}

	groups := make([][]Element, 0, count)
	for i := 0; i < int(count); i++ {
		if err := d.count(); err != nil {
			return nil, err
		}
		target, ok, err := d.pointer(table.add(i * d.pointerSize))
		if err != nil {
			return nil, err
		}
		if !ok || !m.hasDef {
			groups = append(groups, nil)
			continue
		}
		elements, err := d.decodeStruct(m.def, target, depth+1)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		groups = append(groups, elements)
	}
	return ArrayOfReferences{Groups: groups}, nil
}

func (d *decoder) transform(at sectionRef) (Value, error) {
	b, err := d.bytes(at, TransformSize)
	if err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	word := func(i int) float32 { return math.Float32frombits(le.Uint32(b[4+i*4:])) }

	t := Transform{Flags: le.Uint32(b)}
	for i := range t.Translation {
		t.Translation[i] = word(i)
	}
	for i := range t.Rotation {
		t.Rotation[i] = word(3 + i)
	}
	for i := range t.ScaleShear {
		t.ScaleShear[i] = word(7 + i)
	}
	return t, nil
}

// halfToFloat32 widens an IEEE 754 binary16 value.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	switch {
	case exp == 0 && frac == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// subnormal: renormalise into the float32 exponent range
		e := uint32(127 - 15 + 1)
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		return math.Float32frombits(sign | e<<23 | frac<<13)
	case exp == 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | frac<<13)
	}
	return math.Float32frombits(sign | (exp+127-15)<<23 | frac<<13)
}
