package scene

import (
	"sort"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
)

// leafThreshold is the largest number of primitives stored in one leaf
const leafThreshold = 4

// bvhNode is a node of the bounding volume hierarchy. Leaves hold primitive
// indices; internal nodes have both children.
type bvhNode struct {
	bounds      core.AABB
	left, right *bvhNode
	items       []int
}

// bvh accelerates ray queries over the scene's primitives
type bvh struct {
	root       *bvhNode
	primitives []*geometry.Primitive
}

// newBVH builds a hierarchy by splitting at the median along the longest axis
func newBVH(primitives []*geometry.Primitive) *bvh {
	tree := &bvh{primitives: primitives}
	if len(primitives) == 0 {
		return tree
	}

	items := make([]int, len(primitives))
	bounds := make([]core.AABB, len(primitives))
	for i, p := range primitives {
		items[i] = i
		bounds[i] = p.Shape.Bounds()
	}
	tree.root = buildBVH(items, bounds)
	return tree
}

func buildBVH(items []int, bounds []core.AABB) *bvhNode {
	box := core.EmptyAABB()
	for _, i := range items {
		box = box.Union(bounds[i])
	}
	if len(items) <= leafThreshold {
		return &bvhNode{bounds: box, items: items}
	}

	axis := box.LongestAxis()
	sort.Slice(items, func(a, b int) bool {
		return bounds[items[a]].Center().Axis(axis) < bounds[items[b]].Center().Axis(axis)
	})

	mid := len(items) / 2
	return &bvhNode{
		bounds: box,
		left:   buildBVH(items[:mid], bounds),
		right:  buildBVH(items[mid:], bounds),
	}
}

// closest returns the primitive index and hit nearest along ray within (tMin, tMax)
func (h *bvh) closest(ray core.Ray, tMin, tMax float64) (int, geometry.Hit, bool) {
	index := -1
	var best geometry.Hit
	if h.root == nil {
		return index, best, false
	}

	stack := make([]*bvhNode, 0, 32)
	stack = append(stack, h.root)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !node.bounds.Hit(ray, tMin, tMax) {
			continue
		}
		if node.left == nil {
			for _, i := range node.items {
				if hit, ok := h.primitives[i].Shape.Hit(ray, tMin, tMax); ok {
					tMax = hit.T
					index = i
					best = hit
				}
			}
			continue
		}
		stack = append(stack, node.left, node.right)
	}
	return index, best, index >= 0
}

// occluded reports whether anything is hit within (tMin, tMax)
func (h *bvh) occluded(ray core.Ray, tMin, tMax float64) bool {
	if h.root == nil {
		return false
	}

	stack := make([]*bvhNode, 0, 32)
	stack = append(stack, h.root)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !node.bounds.Hit(ray, tMin, tMax) {
			continue
		}
		if node.left == nil {
			for _, i := range node.items {
				if _, ok := h.primitives[i].Shape.Hit(ray, tMin, tMax); ok {
					return true
				}
			}
			continue
		}
		stack = append(stack, node.left, node.right)
	}
	return false
}

// bvhStats describes the shape of the hierarchy
type bvhStats struct {
	nodes    int
	leaves   int
	maxDepth int
	items    int
}

func (h *bvh) stats() bvhStats {
	var stats bvhStats
	if h.root != nil {
		h.collectStats(h.root, 0, &stats)
	}
	return stats
}

func (h *bvh) collectStats(node *bvhNode, depth int, stats *bvhStats) {
	stats.nodes++
	stats.maxDepth = max(stats.maxDepth, depth)
	if node.left == nil {
		stats.leaves++
		stats.items += len(node.items)
		return
	}
	h.collectStats(node.left, depth+1, stats)
	h.collectStats(node.right, depth+1, stats)
}
