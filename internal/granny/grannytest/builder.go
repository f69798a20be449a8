// Package grannytest builds in-memory Granny2 files for tests.
//
// A file is described as a Struct of named Fields; Build emits the member
// definitions and the object data into a single uncompressed section and
// links pointers through relocation records.
package grannytest

import (
	"encoding/binary"
	"math"

	"granny-viewer/internal/granny"
)

// Offsets of header fields inside a built version 7 file, for corrupting
// tests.
const (
	VersionOffset       = granny.MagicSize
	SectionHeaderOffset = granny.MagicSize + granny.HeaderSizeV7
	DataOffset          = SectionHeaderOffset + granny.SectionHeaderSize
)

type Field struct {
	Name  string
	Value Value
}

type Struct []Field

// Value is one of the field kinds below.
type Value interface {
	isValue()
}

type (
	String    string
	Real32    float32
	Real16    uint16
	Int32     int32
	UInt32    uint32
	Int16     int16
	UInt8     uint8
	Transform granny.Transform
	Inline    Struct
	// Ref is a pointer to a struct; a nil Ref is a null pointer.
	Ref Struct
	// RefArray is a counted pointer to contiguous structs. All items share
	// the shape of the first.
	RefArray []Struct
	// RefList is a counted pointer to a table of struct pointers. All
	// items share the shape of the first.
	RefList []Struct
	Variant struct{}
	// Int32Array and Real32Array are fixed-size member arrays and must not
	// be empty.
	Int32Array  []int32
	Real32Array []float32
)

func (String) isValue()      {}
func (Real32) isValue()      {}
func (Real16) isValue()      {}
func (Int32) isValue()       {}
func (UInt32) isValue()      {}
func (Int16) isValue()       {}
func (UInt8) isValue()       {}
func (Transform) isValue()   {}
func (Inline) isValue()      {}
func (Ref) isValue()         {}
func (RefArray) isValue()    {}
func (RefList) isValue()     {}
func (Variant) isValue()     {}
func (Int32Array) isValue()  {}
func (Real32Array) isValue() {}

// Builder controls the file-level options of Build. Version may be 6 or 7;
// zero means 7.
type Builder struct {
	PointerSize int
	TypeTag     uint32
	Version     uint32
}

// Build encodes root as a 32-bit little-endian file.
func Build(root Struct) []byte {
	return Builder{PointerSize: 4}.Build(root)
}

// Build encodes root with the builder's pointer width.
func (b Builder) Build(root Struct) []byte {
	p := b.PointerSize
	if p != 8 {
		p = 4
	}
	version, headerSize := uint32(7), granny.HeaderSizeV7
	if b.Version == 6 {
		version, headerSize = 6, granny.HeaderSizeV6
	}
	sectionAt := granny.MagicSize + headerSize
	dataAt := sectionAt + granny.SectionHeaderSize

	w := &writer{pointerSize: p}
	typeOffset := w.typeDef(root)
	objectOffset := w.object(root)

	le := binary.LittleEndian
	relocsAt := align(dataAt+len(w.buf), 4)
	total := relocsAt + len(w.relocs)*granny.RelocationSize
	out := make([]byte, total)

	magic := granny.MagicLE32
	switch {
	case p == 8:
		magic = granny.MagicLE64
	case version == 6:
		magic = granny.MagicLE32v6
	}
	copy(out, magic[:])
	le.PutUint32(out[16:], uint32(headerSize+granny.SectionHeaderSize))

	h := out[granny.MagicSize:]
	le.PutUint32(h[0:], version)
	le.PutUint32(h[4:], uint32(total))
	le.PutUint32(h[12:], uint32(headerSize))
	le.PutUint32(h[16:], 1)
	le.PutUint32(h[24:], uint32(typeOffset))
	le.PutUint32(h[32:], uint32(objectOffset))
	le.PutUint32(h[36:], b.TypeTag)

	sh := out[sectionAt:]
	le.PutUint32(sh[4:], uint32(dataAt))
	le.PutUint32(sh[8:], uint32(len(w.buf)))
	le.PutUint32(sh[12:], uint32(len(w.buf)))
	le.PutUint32(sh[16:], 4)
	le.PutUint32(sh[20:], uint32(len(w.buf)))
	le.PutUint32(sh[24:], uint32(len(w.buf)))
	le.PutUint32(sh[28:], uint32(relocsAt))
	le.PutUint32(sh[32:], uint32(len(w.relocs)))

	copy(out[dataAt:], w.buf)

	for i, r := range w.relocs {
		rec := out[relocsAt+i*granny.RelocationSize:]
		le.PutUint32(rec[0:], uint32(r.at))
		le.PutUint32(rec[8:], uint32(r.target))
	}

	return out
}

type reloc struct {
	at     int
	target int
}

type writer struct {
	pointerSize int
	buf         []byte
	relocs      []reloc
}

func align(n, to int) int {
	return (n + to - 1) / to * to
}

func (w *writer) alloc(n int) int {
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
	off := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)
	return off
}

func (w *writer) pointer(at, target int) {
	w.relocs = append(w.relocs, reloc{at: at, target: target})
}

func (w *writer) cstring(s string) int {
	off := len(w.buf)
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	return off
}

func (w *writer) putU32(at int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[at:], v)
}

func (w *writer) putF32(at int, v float32) {
	w.putU32(at, math.Float32bits(v))
}

// describe returns the member type, nested definition and array size of v.
func describe(v Value) (granny.MemberType, Struct, int) {
	switch v := v.(type) {
	case String:
		return granny.MemberString, nil, 0
	case Real32:
		return granny.MemberReal32, nil, 0
	case Real16:
		return granny.MemberReal16, nil, 0
	case Int32:
		return granny.MemberInt32, nil, 0
	case UInt32:
		return granny.MemberUInt32, nil, 0
	case Int16:
		return granny.MemberInt16, nil, 0
	case UInt8:
		return granny.MemberUInt8, nil, 0
	case Transform:
		return granny.MemberTransform, nil, 0
	case Inline:
		return granny.MemberInline, Struct(v), 0
	case Ref:
		return granny.MemberReference, Struct(v), 0
	case RefArray:
		if len(v) == 0 {
			return granny.MemberReferenceToArray, nil, 0
		}
		return granny.MemberReferenceToArray, v[0], 0
	case RefList:
		if len(v) == 0 {
			return granny.MemberArrayOfReferences, nil, 0
		}
		return granny.MemberArrayOfReferences, v[0], 0
	case Variant:
		return granny.MemberVariantReference, nil, 0
	case Int32Array:
		return granny.MemberInt32, nil, len(v)
	case Real32Array:
		return granny.MemberReal32, nil, len(v)
	}
	panic("grannytest: unknown value type")
}

func (w *writer) typeDef(s Struct) int {
	p := w.pointerSize
	stride := granny.MemberDefinitionSize(p)
	off := w.alloc((len(s) + 1) * stride)

	for i, f := range s {
		at := off + i*stride
		typ, def, arraySize := describe(f.Value)

		w.putU32(at, uint32(typ))
		w.pointer(at+4, w.cstring(f.Name))
		if def != nil {
			w.pointer(at+4+p, w.typeDef(def))
		}
		w.putU32(at+4+2*p, uint32(arraySize))
	}

	return off
}

func (w *writer) fieldSize(v Value) int {
	p := w.pointerSize
	switch v := v.(type) {
	case String, Ref:
		return p
	case Real32, Int32, UInt32:
		return 4
	case Real16, Int16:
		return 2
	case UInt8:
		return 1
	case Transform:
		return granny.TransformSize
	case Inline:
		return w.structSize(Struct(v))
	case RefArray, RefList:
		return 4 + p
	case Variant:
		return 2 * p
	case Int32Array:
		return 4 * len(v)
	case Real32Array:
		return 4 * len(v)
	}
	panic("grannytest: unknown value type")
}

func (w *writer) structSize(s Struct) int {
	total := 0
	for _, f := range s {
		total += w.fieldSize(f.Value)
	}
	return total
}

func (w *writer) object(s Struct) int {
	off := w.alloc(w.structSize(s))
	w.fill(s, off)
	return off
}

func (w *writer) fill(s Struct, off int) {
	cursor := off
	for _, f := range s {
		w.writeValue(f.Value, cursor)
		cursor += w.fieldSize(f.Value)
	}
}

func (w *writer) writeValue(v Value, at int) {
	p := w.pointerSize
	switch v := v.(type) {
	case String:
		w.pointer(at, w.cstring(string(v)))
	case Real32:
		w.putF32(at, float32(v))
	case Real16:
		binary.LittleEndian.PutUint16(w.buf[at:], uint16(v))
	case Int32:
		w.putU32(at, uint32(v))
	case UInt32:
		w.putU32(at, uint32(v))
	case Int16:
		binary.LittleEndian.PutUint16(w.buf[at:], uint16(v))
	case UInt8:
		w.buf[at] = byte(v)
	case Transform:
		w.putU32(at, v.Flags)
		words := append(append(v.Translation[:], v.Rotation[:]...), v.ScaleShear[:]...)
		for i, f := range words {
			w.putF32(at+4+i*4, f)
		}
	case Inline:
		w.fill(Struct(v), at)
	case Ref:
		if v != nil {
			w.pointer(at, w.object(Struct(v)))
		}
	case RefArray:
		w.putU32(at, uint32(len(v)))
		if len(v) > 0 {
			size := w.structSize(v[0])
			base := w.alloc(size * len(v))
			for i, item := range v {
				w.fill(item, base+i*size)
			}
			w.pointer(at+4, base)
		}
	case RefList:
		w.putU32(at, uint32(len(v)))
		if len(v) > 0 {
			table := w.alloc(len(v) * p)
			for i, item := range v {
				w.pointer(table+i*p, w.object(item))
			}
			w.pointer(at+4, table)
		}
	case Variant:
	case Int32Array:
		for i, n := range v {
			w.putU32(at+i*4, uint32(n))
		}
	case Real32Array:
		for i, f := range v {
			w.putF32(at+i*4, f)
		}
	}
}
