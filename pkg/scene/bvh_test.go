package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/material"
)

func randomSpheres(random *rand.Rand, n int) []*geometry.Primitive {
	matte := material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))
	primitives := make([]*geometry.Primitive, n)
	for i := range primitives {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		primitives[i] = geometry.NewPrimitive(geometry.NewSphere(center, 0.2+random.Float64()), matte)
	}
	return primitives
}

// linearClosest is the brute-force reference for bvh.closest
func linearClosest(primitives []*geometry.Primitive, ray core.Ray) (int, float64) {
	index := -1
	closest := math.Inf(1)
	for i, p := range primitives {
		if hit, ok := p.Shape.Hit(ray, rayEpsilon, closest); ok {
			closest = hit.T
			index = i
		}
	}
	return index, closest
}

func TestBVH_MatchesLinearSearch(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	primitives := randomSpheres(random, 200)
	primitives = append(primitives, geometry.NewPrimitive(
		geometry.NewQuadMesh(core.NewVec3(-15, -12, -15), core.NewVec3(30, 0, 0), core.NewVec3(0, 0, 30)),
		material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))))
	tree := newBVH(primitives)

	for i := 0; i < 1000; i++ {
		origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
		direction := core.SampleSphereUniform(core.NewVec2(random.Float64(), random.Float64()))
		ray := core.NewRay(origin, direction)

		expectedIndex, expectedT := linearClosest(primitives, ray)
		index, hit, ok := tree.closest(ray, rayEpsilon, math.Inf(1))
		if ok != (expectedIndex >= 0) {
			t.Fatalf("Ray %d: expected hit=%v, got %v", i, expectedIndex >= 0, ok)
		}
		if !ok {
			continue
		}
		if index != expectedIndex || math.Abs(hit.T-expectedT) > 1e-9 {
			t.Fatalf("Ray %d: expected primitive %d at %v, got %d at %v", i, expectedIndex, expectedT, index, hit.T)
		}
		if !tree.occluded(ray, rayEpsilon, expectedT+1e-6) {
			t.Errorf("Ray %d: expected occlusion up to the closest hit", i)
		}
		if tree.occluded(ray, rayEpsilon, expectedT*0.999) {
			t.Errorf("Ray %d: expected no occlusion before the closest hit", i)
		}
	}
}

func TestBVH_Stats(t *testing.T) {
	primitives := randomSpheres(rand.New(rand.NewSource(42)), 100)
	stats := newBVH(primitives).stats()

	if stats.items != len(primitives) {
		t.Errorf("Expected %d primitives in leaves, got %d", len(primitives), stats.items)
	}
	if stats.leaves < len(primitives)/leafThreshold {
		t.Errorf("Expected at least %d leaves, got %d", len(primitives)/leafThreshold, stats.leaves)
	}
	if stats.nodes != 2*stats.leaves-1 {
		t.Errorf("Expected a full binary tree with %d nodes, got %d", 2*stats.leaves-1, stats.nodes)
	}
	if stats.maxDepth > 10 {
		t.Errorf("Expected a balanced tree, got depth %d", stats.maxDepth)
	}
}

func TestBVH_Empty(t *testing.T) {
	tree := newBVH(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	if _, _, ok := tree.closest(ray, rayEpsilon, math.Inf(1)); ok {
		t.Errorf("Expected no hit in an empty hierarchy")
	}
	if tree.occluded(ray, rayEpsilon, math.Inf(1)) {
		t.Errorf("Expected no occlusion in an empty hierarchy")
	}
}
