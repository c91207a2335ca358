package gravity

// nodeHandle is a stable index into a nodeArena. noTreeHandle (-1)
// means "no node" (null). Using an arena + integer handle, rather than
// raw pointers, avoids the body->node->body reference cycle the
// original design has and lets moved bodies reuse node memory without
// touching the allocator (see spec's design notes on back-references).
type nodeHandle = int32

type nodeKind uint8

const (
	external nodeKind = iota
	internal
)

// octant identifies one of the eight children of an internal node by
// the sign of each axis relative to the node's center. Bit 0 is the
// X axis (0=West, 1=East), bit 1 is the Z axis (0=South, 1=North),
// bit 2 is the Y axis (0=Bottom, 1=Top).
type octant uint8

const (
	BSW octant = 0b000
	BSE octant = 0b001
	BNW octant = 0b010
	BNE octant = 0b011
	TSW octant = 0b100
	TSE octant = 0b101
	TNW octant = 0b110
	TNE octant = 0b111
)

// octantOf determines which octant of a node centered at center the
// point belongs to. Equality on any axis resolves to the negative
// (West/South/Bottom) side; only strictly-greater selects the
// positive side. This rule is applied consistently by every caller
// that needs to know which child a point falls in.
func octantOf(center, point Vector3) octant {
	var o octant
	if point.X() > center.X() {
		o |= 1
	}
	if point.Z() > center.Z() {
		o |= 2
	}
	if point.Y() > center.Y() {
		o |= 4
	}
	return o
}

// childCenter computes the center of the cube for octant oct within a
// parent cube of the given center and extent (full side length).
func childCenter(parentCenter Vector3, parentExtent float64, oct octant) Vector3 {
	q := parentExtent / 4
	d := Vector3{-q, -q, -q}
	if oct&1 != 0 {
		d[0] = q
	}
	if oct&4 != 0 {
		d[1] = q
	}
	if oct&2 != 0 {
		d[2] = q
	}
	return parentCenter.Add(d)
}

// cubeContains reports whether point lies within the cube centered at
// center with the given extent (full side length), using <= against
// the half-extent so that a point exactly on a face is considered
// inside.
func cubeContains(center Vector3, extent float64, point Vector3) bool {
	h := extent / 2
	for i := 0; i < 3; i++ {
		d := point[i] - center[i]
		if d < -h || d > h {
			return false
		}
	}
	return true
}

// octreeNode is the payload of one arena slot. Only the fields
// relevant to its current kind are meaningful: body for External,
// children for Internal.
type octreeNode struct {
	kind   nodeKind
	center Vector3
	extent float64 // full cube side length

	parent       nodeHandle
	parentOctant octant

	bodyCount int
	mass      float64
	com       Vector3

	body     *Body                  // External payload
	children [8]nodeHandle          // Internal payload
}

func blankNode() *octreeNode {
	n := &octreeNode{parent: noTreeHandle}
	for i := range n.children {
		n.children[i] = noTreeHandle
	}
	return n
}

// nodeArena is a fixed-block pool allocator for octree nodes. Each
// slot is a separately heap-allocated *octreeNode rather than a value
// in the nodes slice, so growing nodes (append past its capacity hint)
// only moves pointers, never the node structs themselves: a *octreeNode
// returned by get() stays valid across any later alloc(), including
// one nested inside a recursive insert() call. Freed slots go on a
// free list and are reused by subsequent allocations, so that moving a
// body (remove + reinsert) never calls into the underlying slice's
// growth path on the hot path.
type nodeArena struct {
	nodes    []*octreeNode
	freeList []nodeHandle
}

func newNodeArena(capacityHint int) *nodeArena {
	return &nodeArena{
		nodes:    make([]*octreeNode, 0, capacityHint),
		freeList: make([]nodeHandle, 0, capacityHint/4),
	}
}

// alloc returns a handle to a fresh, blank node slot.
func (a *nodeArena) alloc() nodeHandle {
	if n := len(a.freeList); n > 0 {
		h := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		*a.nodes[h] = *blankNode()
		return h
	}
	a.nodes = append(a.nodes, blankNode())
	return nodeHandle(len(a.nodes) - 1)
}

// free returns a node slot to the pool for reuse.
func (a *nodeArena) free(h nodeHandle) {
	a.freeList = append(a.freeList, h)
}

func (a *nodeArena) get(h nodeHandle) *octreeNode {
	return a.nodes[h]
}

// liveCount reports how many node slots are currently allocated (not
// on the free list). Nothing in the package calls it at present.
func (a *nodeArena) liveCount() int {
	return len(a.nodes) - len(a.freeList)
}
