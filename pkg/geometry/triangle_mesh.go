package geometry

import (
	"fmt"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/material"
)

// TriangleMesh is a list of triangles stored in world space.
// Faces are wound counter-clockwise around their outward normal.
type TriangleMesh struct {
	vertices []core.Vec3 // World-space positions
	faces    [][3]int
	uvs      []core.Vec2 // Optional per-vertex texture coordinates
	bounds   core.AABB
	area     float64
	sampler  *core.WeightedSampler // Area-weighted face selection
}

// NewTriangleMesh transforms object-space vertices into the world and precomputes face areas.
// uvs may be nil; otherwise it must have one entry per vertex.
func NewTriangleMesh(vertices []core.Vec3, faces [][3]int, uvs []core.Vec2, toWorld core.Transform) (*TriangleMesh, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("mesh has no faces")
	}
	if uvs != nil && len(uvs) != len(vertices) {
		return nil, fmt.Errorf("mesh has %d uvs for %d vertices", len(uvs), len(vertices))
	}

	world := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		world[i] = toWorld.TransformPoint(v)
	}

	areas := make([]float64, len(faces))
	total := 0.0
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(world) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", i, idx, len(world))
			}
		}
		e1 := world[f[1]].Subtract(world[f[0]])
		e2 := world[f[2]].Subtract(world[f[0]])
		areas[i] = 0.5 * e1.Cross(e2).Length()
		total += areas[i]
	}

	sampler, err := core.NewWeightedSampler(areas)
	if err != nil {
		return nil, fmt.Errorf("mesh has no area: %w", err)
	}

	return &TriangleMesh{
		vertices: world,
		faces:    faces,
		uvs:      uvs,
		bounds:   core.NewAABBFromPoints(world...),
		area:     total,
		sampler:  sampler,
	}, nil
}

// NewQuadMesh creates a parallelogram from a corner and two edge vectors.
// The front side faces u × v.
func NewQuadMesh(corner, u, v core.Vec3) *TriangleMesh {
	vertices := []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	uvs := []core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	mesh, err := NewTriangleMesh(vertices, [][3]int{{0, 1, 2}, {0, 2, 3}}, uvs, core.Identity())
	if err != nil {
		panic(fmt.Sprintf("degenerate quad: %v", err))
	}
	return mesh
}

// NewBoxMesh creates a box with outward-facing triangles from a center, half extents and
// a rotation around the vertical axis in radians
func NewBoxMesh(center, halfSize core.Vec3, rotationY float64) *TriangleMesh {
	// Define the 8 corners of a unit box centered at origin
	corners := []core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	quads := [][4]int{
		{0, 3, 2, 1}, // -z
		{4, 5, 6, 7}, // +z
		{0, 4, 7, 3}, // -x
		{1, 2, 6, 5}, // +x
		{0, 1, 5, 4}, // -y
		{3, 7, 6, 2}, // +y
	}
	faces := make([][3]int, 0, 12)
	for _, q := range quads {
		faces = append(faces, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}

	toWorld := core.Translate(center).Compose(core.RotateY(rotationY)).Compose(core.Scale(halfSize))
	mesh, err := NewTriangleMesh(corners, faces, nil, toWorld)
	if err != nil {
		panic(fmt.Sprintf("degenerate box: %v", err))
	}
	return mesh
}

// Hit tests every face and keeps the nearest
func (m *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	best := Hit{T: tMax}
	found := false
	for i, f := range m.faces {
		t, u, v, ok := IntersectTriangle(ray, m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]], tMin, best.T)
		if ok {
			best = Hit{T: t, Part: i, U: u, V: v}
			found = true
		}
	}
	return best, found
}

// Interaction builds the surface record for a face hit
func (m *TriangleMesh) Interaction(ray core.Ray, hit Hit) material.SurfaceInteraction {
	si := m.surfaceAt(hit.Part, hit.U, hit.V)
	si.Distance = hit.T
	return si
}

// Bounds returns the box around every vertex
func (m *TriangleMesh) Bounds() core.AABB {
	return m.bounds
}

// Area returns the total world-space area
func (m *TriangleMesh) Area() float64 {
	return m.area
}

// SamplePoint chooses a face proportionally to its area and a uniform point on it
func (m *TriangleMesh) SamplePoint(sample core.Vec3) material.SurfaceInteraction {
	face, _ := m.sampler.Sample(sample.X)
	u, v := core.SampleTriangleBarycentric(core.NewVec2(sample.Y, sample.Z))
	return m.surfaceAt(face, u, v)
}

// TriangleCount returns the number of faces
func (m *TriangleMesh) TriangleCount() int {
	return len(m.faces)
}

func (m *TriangleMesh) surfaceAt(face int, u, v float64) material.SurfaceInteraction {
	f := m.faces[face]
	p0, p1, p2 := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
	e1 := p1.Subtract(p0)
	e2 := p2.Subtract(p0)
	n := e1.Cross(e2).Normalize()
	frame := core.NewFrame(n, e1)

	uv := core.NewVec2(u, v)
	if m.uvs != nil {
		t0, t1, t2 := m.uvs[f[0]], m.uvs[f[1]], m.uvs[f[2]]
		w := 1 - u - v
		uv = core.NewVec2(w*t0.X+u*t1.X+v*t2.X, w*t0.Y+u*t1.Y+v*t2.Y)
	}

	return material.SurfaceInteraction{
		Point:     p0.Add(e1.Multiply(u)).Add(e2.Multiply(v)),
		Ng:        n,
		Ns:        n,
		Tangent:   frame.T,
		Bitangent: frame.B,
		UV:        uv,
	}
}
