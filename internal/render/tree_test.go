package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granny-viewer/internal/granny"
)

func TestElementStringPayload(t *testing.T) {
	nodes := Elements([]granny.Element{{Name: "Root", Value: granny.String("hello")}})

	require.Len(t, nodes, 1)
	assert.Equal(t, Section("Root", []Node{Label("hello")}), nodes[0])
}

func TestElementsPreserveOrder(t *testing.T) {
	elements := []granny.Element{
		{Name: "Textures", Value: granny.Int32(3)},
		{Name: "Materials", Value: granny.Int32(2)},
		{Name: "Skeletons", Value: granny.Int32(1)},
	}

	nodes := Elements(elements)
	require.Len(t, nodes, len(elements))
	for i, n := range nodes {
		assert.Equal(t, KindSection, n.Kind)
		assert.Equal(t, elements[i].Name, n.Text)
	}
}

func TestArrayOfReferencesIndexedSections(t *testing.T) {
	groups := [][]granny.Element{
		{{Name: "Name", Value: granny.String("a")}},
		{{Name: "Name", Value: granny.String("b")}},
		{},
		{{Name: "Name", Value: granny.String("d")}},
	}

	nodes := Content(granny.ArrayOfReferences{Groups: groups})
	require.Len(t, nodes, len(groups))
	for i, n := range nodes {
		assert.Equal(t, KindSection, n.Kind)
		assert.Equal(t, "["+string(rune('0'+i))+"]", n.Text)
		assert.Len(t, n.Children, len(groups[i]))
	}
	assert.Equal(t, Section("Name", []Node{Label("b")}), nodes[1].Children[0])
}

func TestPlaceholderPayloads(t *testing.T) {
	assert.Equal(t, []Node{Label(UnsupportedText)}, Content(granny.VariantReference{}))
	assert.Empty(t, Content(granny.Transform{Flags: 1, Translation: [3]float32{1, 2, 3}}))

	nested := Element(granny.Element{Name: "Ext", Value: granny.Reference{Elements: []granny.Element{
		{Name: "Variant", Value: granny.VariantReference{}},
		{Name: "Transform", Value: granny.Transform{}},
	}}})
	assert.Equal(t, Section("Ext", []Node{
		Section("Variant", []Node{Label(UnsupportedText)}),
		Section("Transform", nil),
	}), nested)
}

func TestScalarFormatting(t *testing.T) {
	tests := []struct {
		value granny.Value
		want  string
	}{
		{granny.Float32(1), "1"},
		{granny.Float32(0.1), "0.1"},
		{granny.Float32(-2.5), "-2.5"},
		{granny.Float32(1e10), "10000000000"},
		{granny.Int32(-42), "-42"},
		{granny.String(""), ""},
	}

	for _, tc := range tests {
		assert.Equal(t, []Node{Label(tc.want)}, Content(tc.value), "%#v", tc.value)
	}
}

func TestArrayFlattensMembers(t *testing.T) {
	got := Content(granny.Array{
		granny.Float32(1),
		granny.Float32(2),
		granny.Reference{Elements: []granny.Element{{Name: "Inner", Value: granny.Int32(3)}}},
		granny.Transform{},
	})

	assert.Equal(t, []Node{
		Label("1"),
		Label("2"),
		Section("Inner", []Node{Label("3")}),
	}, got)
}

func TestFilter(t *testing.T) {
	nodes := []Node{
		Section("Skeletons", []Node{
			Section("[0]", []Node{Section("Name", []Node{Label("pelvis")})}),
			Section("[1]", []Node{Section("Name", []Node{Label("spine")})}),
		}),
		Section("Meshes", []Node{Label("body")}),
	}

	assert.Equal(t, nodes, Filter(nodes, "  "))

	assert.Equal(t, []Node{nodes[1]}, Filter(nodes, "mesh"))

	assert.Equal(t, []Node{
		Section("Skeletons", []Node{
			Section("[1]", []Node{Section("Name", []Node{Label("spine")})}),
		}),
	}, Filter(nodes, "SPINE"))

	assert.Empty(t, Filter(nodes, "zzz"))
}

func TestCount(t *testing.T) {
	nodes := []Node{Section("a", []Node{Label("b"), Section("c", []Node{Label("d")})}), Label("e")}
	assert.Equal(t, 5, Count(nodes))
	assert.Equal(t, 0, Count(nil))
}

func TestText(t *testing.T) {
	out := Text("model.gr2", []Node{
		Section("Root", []Node{Label("hello")}),
		Section("Bones", []Node{Section("[0]", nil)}),
	})

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, lines[0], "model.gr2")
	assert.Contains(t, out, "Root")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "[0]")
	assert.Less(t, strings.Index(out, "Root"), strings.Index(out, "Bones"))
}
