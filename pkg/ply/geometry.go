package ply

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Conventional element and property names used by BuildGeometry.
const (
	VertexElement   = "vertex"
	faceIndexName   = "vertex_index"
	faceIndicesName = "vertex_indices"
	colorMax        = 255.0
)

// Geometry is a flat triangle mesh or point cloud. Positions, Normals and
// Colors hold 3 floats per vertex; Indices holds 3 vertex indices per
// triangle. Normals, Colors and Indices are nil when the source lacks them.
type Geometry struct {
	Positions    []float32
	Normals      []float32
	Colors       []float32
	Indices      []uint32
	VertexColors bool
}

// BuildGeometry reduces a decoded document to a Geometry using the
// conventional PLY names: a "vertex" element with x, y, z and optional
// nx, ny, nz and red, green, blue, plus at most one face element whose
// first property is a vertex_index or vertex_indices list. Any other
// element is rejected with ErrUnsupportedLayout. A document without any
// elements yields an empty Geometry.
func BuildGeometry(doc *Document) (*Geometry, error) {
	if len(doc.Elements) == 0 {
		return &Geometry{Positions: []float32{}}, nil
	}

	vertex := doc.Element(VertexElement)
	if vertex == nil {
		return nil, ErrMissingVertexElement
	}

	var face *ElementData
	for i := range doc.Elements {
		ed := &doc.Elements[i]
		if ed == vertex {
			continue
		}
		if !isFaceElement(ed) {
			return nil, fmt.Errorf("%w: element %q is neither vertex nor face", ErrUnsupportedLayout, ed.Name)
		}
		if face != nil {
			return nil, fmt.Errorf("%w: face elements %q and %q", ErrUnsupportedLayout, face.Name, ed.Name)
		}
		face = ed
	}

	g := &Geometry{}

	positions, ok := vertexTriple(vertex, "x", "y", "z")
	if !ok {
		return nil, ErrMissingCoordinates
	}
	g.Positions = readTriples(vertex, positions, 1)

	if normals, ok := vertexTriple(vertex, "nx", "ny", "nz"); ok {
		g.Normals = readTriples(vertex, normals, 1)
	}

	// Channels are 0-255 whatever their declared kind.
	if colors, ok := vertexTriple(vertex, "red", "green", "blue"); ok {
		g.Colors = readTriples(vertex, colors, colorMax)
		g.VertexColors = len(g.Colors) > 0
	}

	if face != nil {
		indices, err := faceIndices(face, len(vertex.Records))
		if err != nil {
			return nil, err
		}
		g.Indices = indices
	}

	if len(g.Normals) == 0 {
		g.Normals = nil
	}
	if len(g.Colors) == 0 {
		g.Colors = nil
	}
	if len(g.Indices) == 0 {
		g.Indices = nil
	}
	return g, nil
}

func isFaceElement(ed *ElementData) bool {
	if len(ed.Properties) == 0 || !ed.Properties[0].IsList {
		return false
	}
	name := ed.Properties[0].Name
	return name == faceIndexName || name == faceIndicesName
}

// vertexTriple finds three scalar properties by name.
func vertexTriple(ed *ElementData, a, b, c string) ([3]int, bool) {
	var idx [3]int
	for i, name := range [3]string{a, b, c} {
		j := ed.PropertyIndex(name)
		if j < 0 || ed.Properties[j].IsList {
			return idx, false
		}
		idx[i] = j
	}
	return idx, true
}

func readTriples(ed *ElementData, idx [3]int, div float64) []float32 {
	out := make([]float32, 0, 3*len(ed.Records))
	for _, rec := range ed.Records {
		for _, j := range idx {
			out = append(out, float32(rec[j].Scalar/div))
		}
	}
	return out
}

// faceIndices takes the first three entries of each face list.
func faceIndices(face *ElementData, vertexCount int) ([]uint32, error) {
	out := make([]uint32, 0, 3*len(face.Records))
	for i, rec := range face.Records {
		list := rec[0].List
		if len(list) < 3 {
			return nil, fmt.Errorf("%w: %s %d has %d", ErrShortFace, face.Name, i, len(list))
		}
		for _, v := range list[:3] {
			if v < 0 || v >= float64(vertexCount) || v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: %s %d references %v of %d vertices", ErrIndexOutOfRange, face.Name, i, v, vertexCount)
			}
			out = append(out, uint32(v))
		}
	}
	return out, nil
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of indexed triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Vertex returns the position of vertex i.
func (g *Geometry) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]}
}

// Bounds returns the axis-aligned bounding box of all positions.
// An empty geometry yields two zero vectors.
func (g *Geometry) Bounds() (lo, hi mgl32.Vec3) {
	n := g.VertexCount()
	if n == 0 {
		return lo, hi
	}
	lo, hi = g.Vertex(0), g.Vertex(0)
	for i := 1; i < n; i++ {
		v := g.Vertex(i)
		for c := 0; c < 3; c++ {
			lo[c] = min(lo[c], v[c])
			hi[c] = max(hi[c], v[c])
		}
	}
	return lo, hi
}

// Centroid returns the mean vertex position.
func (g *Geometry) Centroid() mgl32.Vec3 {
	n := g.VertexCount()
	if n == 0 {
		return mgl32.Vec3{}
	}
	var sum mgl32.Vec3
	for i := 0; i < n; i++ {
		sum = sum.Add(g.Vertex(i))
	}
	return sum.Mul(1 / float32(n))
}

// FaceNormals returns one unit normal per triangle, using counter-clockwise
// winding. Degenerate triangles get a zero vector.
func (g *Geometry) FaceNormals() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, g.TriangleCount())
	for t := range out {
		a := g.Vertex(int(g.Indices[3*t]))
		b := g.Vertex(int(g.Indices[3*t+1]))
		c := g.Vertex(int(g.Indices[3*t+2]))
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 0 {
			out[t] = n.Mul(1 / l)
		}
	}
	return out
}
