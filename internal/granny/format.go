package granny

import "errors"

// MemberType identifies how a struct member is laid out in an object.
type MemberType uint32

const (
	MemberNone                    MemberType = 0
	MemberInline                  MemberType = 1
	MemberReference               MemberType = 2
	MemberReferenceToArray        MemberType = 3
	MemberArrayOfReferences       MemberType = 4
	MemberVariantReference        MemberType = 5
	MemberReferenceToVariantArray MemberType = 7
	MemberString                  MemberType = 8
	MemberTransform               MemberType = 9
	MemberReal32                  MemberType = 10
	MemberInt8                    MemberType = 11
	MemberUInt8                   MemberType = 12
	MemberBinormalInt8            MemberType = 13
	MemberNormalUInt8             MemberType = 14
	MemberInt16                   MemberType = 15
	MemberUInt16                  MemberType = 16
	MemberBinormalInt16           MemberType = 17
	MemberNormalUInt16            MemberType = 18
	MemberInt32                   MemberType = 19
	MemberUInt32                  MemberType = 20
	MemberReal16                  MemberType = 21
	MemberEmptyReference          MemberType = 22
)

// Fixed layout sizes in bytes.
const (
	MagicSize         = 32
	HeaderSizeV6      = 56
	HeaderSizeV7      = 72
	SectionHeaderSize = 44
	RelocationSize    = 12
	TransformSize     = 68
)

const (
	maxDepth    = 128
	maxElements = 1 << 20
)

var (
	// MagicLE32 and MagicLE64 are the little-endian signatures for 32- and
	// 64-bit pointer files.
	MagicLE32 = [16]byte{0x29, 0xDE, 0x6C, 0xC0, 0xBA, 0xA4, 0x53, 0x2B, 0x25, 0xF5, 0xB7, 0xA5, 0xF6, 0x66, 0xE2, 0xEE}
	MagicLE64 = [16]byte{0xE5, 0x9B, 0x49, 0x5E, 0x6F, 0x63, 0x1F, 0x14, 0x1E, 0x13, 0xEB, 0xA9, 0x90, 0xBE, 0xED, 0xC4}

	// MagicLE32v6 is the older 32-bit signature written by format version 6
	// exporters.
	MagicLE32v6 = [16]byte{0xB8, 0x67, 0xB0, 0xCA, 0xF8, 0x6D, 0xB1, 0x0F, 0x84, 0x72, 0x8C, 0x7E, 0x5E, 0x19, 0x00, 0x1E}

	magicBE32   = [16]byte{0x0E, 0x11, 0x95, 0xB5, 0x6A, 0xA5, 0xB5, 0x4B, 0xEB, 0x28, 0x28, 0x50, 0x25, 0x78, 0xB3, 0x04}
	magicBE64   = [16]byte{0x31, 0x95, 0xD4, 0xE3, 0x20, 0xDC, 0x4F, 0x62, 0xCC, 0x36, 0xD0, 0x3A, 0xB1, 0x82, 0xFF, 0x89}
	magicBE32v6 = [16]byte{0xCA, 0xB0, 0x67, 0xB8, 0x0F, 0xB1, 0x6D, 0xF8, 0x7E, 0x8C, 0x72, 0x84, 0x1E, 0x00, 0x19, 0x5E}
)

var (
	ErrTruncated          = errors.New("granny: file truncated")
	ErrBadMagic           = errors.New("granny: not a granny2 file")
	ErrBigEndian          = errors.New("granny: big-endian files are not supported")
	ErrUnsupportedVersion = errors.New("granny: unsupported format version")
	ErrCompressed         = errors.New("granny: compressed sections are not supported")
	ErrOutOfBounds        = errors.New("granny: reference out of bounds")
	ErrUnknownMember      = errors.New("granny: unknown member type")
	ErrTooDeep            = errors.New("granny: element nesting too deep")
	ErrTooLarge           = errors.New("granny: too many elements")
)

// PointerSize reports the pointer width encoded by a file signature, or 0
// when the signature is not a supported little-endian one.
func PointerSize(signature [16]byte) int {
	switch signature {
	case MagicLE32, MagicLE32v6:
		return 4
	case MagicLE64:
		return 8
	}
	return 0
}

func isBigEndian(signature [16]byte) bool {
	switch signature {
	case magicBE32, magicBE64, magicBE32v6:
		return true
	}
	return false
}

// MemberDefinitionSize returns the on-disk size of one member definition.
func MemberDefinitionSize(pointerSize int) int {
	return 20 + 3*pointerSize
}

// scalarSize returns the in-object size of a non-inline member type.
func scalarSize(t MemberType, pointerSize int) (int, bool) {
	switch t {
	case MemberReference, MemberString, MemberEmptyReference:
		return pointerSize, true
	case MemberReferenceToArray, MemberArrayOfReferences:
		return 4 + pointerSize, true
	case MemberVariantReference:
		return 2 * pointerSize, true
	case MemberReferenceToVariantArray:
		return 4 + 2*pointerSize, true
	case MemberTransform:
		return TransformSize, true
	case MemberReal32, MemberInt32, MemberUInt32:
		return 4, true
	case MemberInt8, MemberUInt8, MemberBinormalInt8, MemberNormalUInt8:
		return 1, true
	case MemberInt16, MemberUInt16, MemberBinormalInt16, MemberNormalUInt16, MemberReal16:
		return 2, true
	}
	return 0, false
}
