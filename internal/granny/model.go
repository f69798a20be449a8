// Package granny decodes Granny2 (.gr2) asset files into a read-only tree
// of named elements.
package granny

// File is the decoded representation of one .gr2 file.
type File struct {
	Version      uint32
	PointerSize  int
	TypeTag      uint32
	SectionCount int
	RootElements []Element
}

// Element is a named node carrying one typed payload.
type Element struct {
	Name  string
	Value Value
}

// Value is the payload of an element. The set of implementations is
// closed; consumers switch over the concrete types below.
type Value interface {
	isValue()
}

// Reference holds the elements of a nested struct.
type Reference struct {
	Elements []Element
}

// ArrayOfReferences holds one element group per referenced struct.
type ArrayOfReferences struct {
	Groups [][]Element
}

// VariantReference marks a variant-typed reference. Its target is not
// decoded.
type VariantReference struct{}

type String string

type Float32 float32

type Int32 int32

// Transform is the Granny transform layout: translation, rotation
// quaternion and a row-major 3x3 scale/shear matrix.
type Transform struct {
	Flags       uint32
	Translation [3]float32
	Rotation    [4]float32
	ScaleShear  [9]float32
}

// Array holds the members of a fixed-size member array.
type Array []Value

func (Reference) isValue()         {}
func (ArrayOfReferences) isValue() {}
func (VariantReference) isValue()  {}
func (String) isValue()            {}
func (Float32) isValue()           {}
func (Int32) isValue()             {}
func (Transform) isValue()         {}
func (Array) isValue()             {}
