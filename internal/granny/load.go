package granny

import (
	"encoding/binary"
	"fmt"
)

// sectionRef addresses a byte offset inside a section.
type sectionRef struct {
	section uint32
	offset  uint32
}

func (r sectionRef) add(n int) sectionRef {
	return sectionRef{section: r.section, offset: r.offset + uint32(n)}
}

type section struct {
	data   []byte
	relocs map[uint32]sectionRef
}

type header struct {
	version      uint32
	pointerSize  int
	typeTag      uint32
	rootType     sectionRef
	rootObject   sectionRef
	sectionCount int
}

// LoadFromBytes decodes a complete .gr2 file held in memory.
func LoadFromBytes(raw []byte) (*File, error) {
	h, err := readHeader(raw)
	if err != nil {
		return nil, err
	}

	sections, err := readSections(raw, h)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		sections:    sections,
		pointerSize: h.pointerSize,
		structSizes: make(map[sectionRef]int),
	}

	elements, err := d.decodeStruct(h.rootType, h.rootObject, 0)
	if err != nil {
		return nil, fmt.Errorf("decode root object: %w", err)
	}

	return &File{
		Version:      h.version,
		PointerSize:  h.pointerSize,
		TypeTag:      h.typeTag,
		SectionCount: h.sectionCount,
		RootElements: elements,
	}, nil
}

func readHeader(raw []byte) (header, error) {
	if len(raw) < MagicSize {
		return header{}, fmt.Errorf("%w: %d bytes, magic block needs %d", ErrTruncated, len(raw), MagicSize)
	}

	var signature [16]byte
	copy(signature[:], raw[:16])

	pointerSize := PointerSize(signature)
	if pointerSize == 0 {
		if isBigEndian(signature) {
			return header{}, ErrBigEndian
		}
		return header{}, ErrBadMagic
	}

	le := binary.LittleEndian
	if len(raw) < MagicSize+HeaderSizeV6 {
		return header{}, fmt.Errorf("%w: header incomplete", ErrTruncated)
	}

	hdr := raw[MagicSize:]
	version := le.Uint32(hdr[0:])
	if version != 6 && version != 7 {
		return header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	h := header{
		version:      version,
		pointerSize:  pointerSize,
		sectionCount: int(le.Uint32(hdr[16:])),
		rootType:     sectionRef{section: le.Uint32(hdr[20:]), offset: le.Uint32(hdr[24:])},
		rootObject:   sectionRef{section: le.Uint32(hdr[28:]), offset: le.Uint32(hdr[32:])},
		typeTag:      le.Uint32(hdr[36:]),
	}

	sectionsAt := uint64(MagicSize) + uint64(le.Uint32(hdr[12:]))
	end := sectionsAt + uint64(h.sectionCount)*SectionHeaderSize
	if end > uint64(len(raw)) {
		return header{}, fmt.Errorf("%w: %d section headers at offset %d", ErrTruncated, h.sectionCount, sectionsAt)
	}

	return h, nil
}

func readSections(raw []byte, h header) ([]section, error) {
	le := binary.LittleEndian
	sectionsAt := MagicSize + int(le.Uint32(raw[MagicSize+12:]))

	sections := make([]section, h.sectionCount)
	for i := range sections {
		sh := raw[sectionsAt+i*SectionHeaderSize:]

		compression := le.Uint32(sh[0:])
		dataOffset := uint64(le.Uint32(sh[4:]))
		dataSize := uint64(le.Uint32(sh[8:]))
		decompressedSize := le.Uint32(sh[12:])
		relocOffset := uint64(le.Uint32(sh[28:]))
		relocCount := uint64(le.Uint32(sh[32:]))

		if compression != 0 && decompressedSize > 0 {
			return nil, fmt.Errorf("%w: section %d uses compression %d", ErrCompressed, i, compression)
		}
		if dataOffset+dataSize > uint64(len(raw)) {
			return nil, fmt.Errorf("%w: section %d data [%d, %d)", ErrTruncated, i, dataOffset, dataOffset+dataSize)
		}
		if relocOffset+relocCount*RelocationSize > uint64(len(raw)) {
			return nil, fmt.Errorf("%w: section %d relocations", ErrTruncated, i)
		}

		relocs := make(map[uint32]sectionRef, relocCount)
		for r := uint64(0); r < relocCount; r++ {
			rec := raw[relocOffset+r*RelocationSize:]
			relocs[le.Uint32(rec[0:])] = sectionRef{
				section: le.Uint32(rec[4:]),
				offset:  le.Uint32(rec[8:]),
			}
		}

		sections[i] = section{
			data:   raw[dataOffset : dataOffset+dataSize],
			relocs: relocs,
		}
	}

	return sections, nil
}
