package lightning

// Vertex is a single mesh vertex: a 2D position (lifted to z = VertexZ
// at transform time), a tint color, and a texture coordinate.
// Vertices are plain values; meshes replace them wholesale rather than
// mutating them in place.
type Vertex struct {
	Pos   Vec2
	Color RGBA
	UV    Vec2
}

// Vert builds a vertex from its components.
func Vert(pos Vec2, c RGBA, uv Vec2) Vertex {
	return Vertex{Pos: pos, Color: c, UV: uv}
}
