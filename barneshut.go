package gravity

import "fmt"

// BarnesHutSolver approximates gravity with an octree: bodies beyond
// a size/distance ratio controlled by theta are treated as a single
// point mass at their subtree's center of mass. It incrementally
// maintains the tree across steps rather than rebuilding it from
// scratch, tracking node placement via each body's treeHandle.
type BarnesHutSolver struct {
	theta     float64
	sizeScale float64

	arena *nodeArena
	root  nodeHandle
}

// NewBarnesHutSolver builds an octree over bodies and returns a solver
// that maintains it across subsequent steps. theta is the
// accuracy/speed opening parameter (smaller is more accurate and
// slower; 0.5 is a common default). sizeScale (>=2) multiplies the
// initial bounding box so bodies have room to move before leaving the
// tree's volume.
func NewBarnesHutSolver(bodies []*Body, theta, sizeScale float64) (*BarnesHutSolver, error) {
	if sizeScale < 2 {
		return nil, fmt.Errorf("gravity: size_scale must be >= 2, got %g: %w", sizeScale, ErrInvalidArgument)
	}
	if len(bodies) == 0 {
		return nil, fmt.Errorf("gravity: BarnesHutSolver requires at least one body: %w", ErrInvalidArgument)
	}

	s := &BarnesHutSolver{
		theta:     theta,
		sizeScale: sizeScale,
		arena:     newNodeArena(2 * len(bodies)),
		root:      noTreeHandle,
	}
	s.build(bodies)
	return s, nil
}

// build performs the construction described by the spec: compute the
// bounding box of every body's position, scale it into a cube, seed
// the root with body 0, then insert the rest one at a time.
func (s *BarnesHutSolver) build(bodies []*Body) {
	center, extent := boundingCube(bodies, s.sizeScale)

	rootHandle := s.arena.alloc()
	root := s.arena.get(rootHandle)
	root.kind = external
	root.center = center
	root.extent = extent
	root.parent = noTreeHandle
	root.body = bodies[0]
	root.mass = bodies[0].mass
	root.com = bodies[0].position
	root.bodyCount = 1
	bodies[0].treeHandle = rootHandle
	s.root = rootHandle

	for i := 1; i < len(bodies); i++ {
		leaf := s.arena.alloc()
		s.insert(bodies[i], leaf, s.root)
	}
}

// boundingCube computes the axis-aligned bounding box of every body's
// position, takes its largest side, multiplies by sizeScale, and
// re-centers so all three axes share that extent.
func boundingCube(bodies []*Body, sizeScale float64) (center Vector3, extent float64) {
	min, max := bodies[0].position, bodies[0].position
	for _, b := range bodies[1:] {
		p := b.position
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	size := max.Sub(min)
	maxSide := size[0]
	if size[1] > maxSide {
		maxSide = size[1]
	}
	if size[2] > maxSide {
		maxSide = size[2]
	}
	if maxSide == 0 {
		maxSide = 1 // degenerate: every body at the same point
	}
	center = min.Add(max).Mul(0.5)
	extent = maxSide * sizeScale
	return center, extent
}

// insert installs body into the subtree rooted at n, using newNode as
// the external leaf to place it in. newNode is an arena slot not linked
// into the tree: either freshly allocated, or the leaf moveBody just
// detached (the caller supplies it so that bottom-up moves can reuse
// memory without calling into the allocator). insert overwrites every
// field an external node uses.
func (s *BarnesHutSolver) insert(body *Body, newNode, n nodeHandle) {
	node := s.arena.get(n)
	if node.kind == external {
		s.upgrade(n)
		node = s.arena.get(n)
	}

	oct := octantOf(node.center, body.position)
	child := node.children[oct]
	if child == noTreeHandle {
		leaf := s.arena.get(newNode)
		leaf.kind = external
		leaf.center = childCenter(node.center, node.extent, oct)
		leaf.extent = node.extent / 2
		leaf.parent = n
		leaf.parentOctant = oct
		leaf.body = body
		leaf.mass = body.mass
		leaf.com = body.position
		leaf.bodyCount = 1
		node.children[oct] = newNode
		body.treeHandle = newNode
	} else {
		s.insert(body, newNode, child)
	}
	node.bodyCount++
}

// upgrade converts the external node n into an internal node, moving
// its single body into a freshly allocated child in the appropriate
// octant. n's bodyCount is left unchanged (the one body it already
// held is simply relocated one level down).
func (s *BarnesHutSolver) upgrade(n nodeHandle) {
	node := s.arena.get(n)
	stashed := node.body

	node.kind = internal
	node.body = nil
	for i := range node.children {
		node.children[i] = noTreeHandle
	}

	oct := octantOf(node.center, stashed.position)
	child := s.arena.alloc()
	leaf := s.arena.get(child)
	leaf.kind = external
	leaf.center = childCenter(node.center, node.extent, oct)
	leaf.extent = node.extent / 2
	leaf.parent = n
	leaf.parentOctant = oct
	leaf.body = stashed
	leaf.mass = stashed.mass
	leaf.com = stashed.position
	leaf.bodyCount = 1
	node.children[oct] = child
	stashed.treeHandle = child
}

// rebuildMassComTopDown recomputes mass and center-of-mass for the
// whole subtree rooted at h with a post-order walk: external nodes
// take their body's mass/position, internal nodes aggregate their
// children.
func (s *BarnesHutSolver) rebuildMassComTopDown(h nodeHandle) {
	if h == noTreeHandle {
		return
	}
	node := s.arena.get(h)
	if node.kind == external {
		node.mass = node.body.mass
		node.com = node.body.position
		return
	}

	var mass float64
	var weighted Vector3
	for _, c := range node.children {
		if c == noTreeHandle {
			continue
		}
		s.rebuildMassComTopDown(c)
		cn := s.arena.get(c)
		mass += cn.mass
		weighted = weighted.Add(cn.com.Mul(cn.mass))
	}
	node.mass = mass
	if mass > 0 {
		node.com = weighted.Mul(1 / mass)
	} else {
		node.com = Vector3{}
	}
}

// rollupBottomUp recomputes mass/com at h from its current children
// (or body, if external) and then walks up to the root recomputing
// each ancestor. This is the incremental maintenance mode (spec
// §4.4.4). Nothing in the package calls it: moveBody does not update
// mass/com, and ComputeForces relies on the top-down full rebuild it
// runs after reconciliation instead.
func (s *BarnesHutSolver) rollupBottomUp(h nodeHandle) {
	for h != noTreeHandle {
		node := s.arena.get(h)
		if node.kind == external {
			node.mass = node.body.mass
			node.com = node.body.position
		} else {
			var mass float64
			var weighted Vector3
			for _, c := range node.children {
				if c == noTreeHandle {
					continue
				}
				cn := s.arena.get(c)
				mass += cn.mass
				weighted = weighted.Add(cn.com.Mul(cn.mass))
			}
			node.mass = mass
			if mass > 0 {
				node.com = weighted.Mul(1 / mass)
			} else {
				node.com = Vector3{}
			}
		}
		h = node.parent
	}
}

// checkBodyMovement reconciles bodies that have moved outside their
// leaf's cube since the last call. Bodies with no tree presence
// (free-floating) are skipped.
func (s *BarnesHutSolver) checkBodyMovement(bodies []*Body) {
	for _, b := range bodies {
		if b.treeHandle == noTreeHandle {
			continue
		}
		leaf := s.arena.get(b.treeHandle)
		if cubeContains(leaf.center, leaf.extent, b.position) {
			continue
		}
		s.moveBody(b)
	}
}

// moveBody implements the bottom-up move: detach b's leaf from its
// parent, walk upward until an ancestor's cube contains b's new
// position (re-inserting there), or the walk runs off the root (the
// body has escaped the universe volume).
func (s *BarnesHutSolver) moveBody(b *Body) {
	leafHandle := b.treeHandle
	leaf := s.arena.get(leafHandle)
	parentHandle := leaf.parent

	cur := parentHandle
	if cur != noTreeHandle {
		p := s.arena.get(cur)
		p.children[leaf.parentOctant] = noTreeHandle
		p.bodyCount--
	}

	for cur != noTreeHandle {
		node := s.arena.get(cur)
		if cubeContains(node.center, node.extent, b.position) {
			s.insert(b, leafHandle, cur)
			return
		}

		parentOfCur := node.parent
		if node.bodyCount == 0 {
			if parentOfCur != noTreeHandle {
				s.arena.get(parentOfCur).children[node.parentOctant] = noTreeHandle
			}
			if cur == s.root {
				s.root = noTreeHandle
			}
			s.arena.free(cur)
		}
		if parentOfCur != noTreeHandle {
			s.arena.get(parentOfCur).bodyCount--
		}
		cur = parentOfCur
	}

	// Walked off the root: the body has left the universe volume.
	if leafHandle == s.root {
		s.root = noTreeHandle
	}
	s.arena.free(leafHandle)
	b.treeHandle = noTreeHandle
}

// query accumulates body.force with the gravitational contribution of
// other (and, if other is Internal and fails the opening test, its
// children). theta2 is theta*theta, precomputed once per step to
// avoid a square root in the opening criterion.
func (s *BarnesHutSolver) query(body *Body, other nodeHandle, theta2 float64) {
	if other == noTreeHandle || other == body.treeHandle {
		return
	}
	node := s.arena.get(other)

	r := node.com.Sub(body.position)
	d2 := r.Dot(r)

	if node.kind == internal {
		if node.extent*node.extent/d2 > theta2 {
			for _, c := range node.children {
				if c != noTreeHandle {
					s.query(body, c, theta2)
				}
			}
			return
		}
	}

	f := G * body.mass * node.mass / d2
	force := withLength(r, f)
	body.force = body.force.Add(force)
}

// ComputeForces implements GravitySolver: reconcile moved bodies,
// rebuild the mass/center-of-mass aggregate top-down, then query every
// body still present in the tree against the root.
func (s *BarnesHutSolver) ComputeForces(bodies []*Body) error {
	s.checkBodyMovement(bodies)
	s.rebuildMassComTopDown(s.root)

	theta2 := s.theta * s.theta
	for _, b := range bodies {
		if b.treeHandle == noTreeHandle {
			continue
		}
		s.query(b, s.root, theta2)
	}
	return nil
}

// Theta returns the solver's opening-angle accuracy parameter.
func (s *BarnesHutSolver) Theta() float64 { return s.theta }

// Validate walks the whole tree and returns an error describing the
// first invariant violation found (an internal node with no live
// children, a body_count mismatch, a leaf whose body lies outside its
// cube, or a dangling parent back-reference). It's not called
// automatically on the hot path; callers that want an explicit
// consistency assertion (tests, or a host application running with
// debug checks enabled) call it directly.
func (s *BarnesHutSolver) Validate() error {
	return s.checkInvariants()
}

func (s *BarnesHutSolver) checkInvariants() error {
	if s.root == noTreeHandle {
		return nil
	}
	_, err := s.checkSubtreeInvariants(s.root)
	return err
}

func (s *BarnesHutSolver) checkSubtreeInvariants(h nodeHandle) (count int, err error) {
	node := s.arena.get(h)
	if node.kind == external {
		if node.body == nil {
			return 0, fmt.Errorf("external node %d has no body: %w", h, ErrInvariantViolation)
		}
		if !cubeContains(node.center, node.extent, node.body.position) {
			return 0, fmt.Errorf("body outside its leaf's cube: %w", ErrInvariantViolation)
		}
		if node.body.treeHandle != h {
			return 0, fmt.Errorf("body's treeHandle does not reference its leaf: %w", ErrInvariantViolation)
		}
		return 1, nil
	}

	children := 0
	total := 0
	for _, c := range node.children {
		if c == noTreeHandle {
			continue
		}
		children++
		cn := s.arena.get(c)
		if cn.parent != h {
			return 0, fmt.Errorf("child %d's parent does not point back to %d: %w", c, h, ErrInvariantViolation)
		}
		n, err := s.checkSubtreeInvariants(c)
		if err != nil {
			return 0, err
		}
		total += n
	}
	if children == 0 {
		return 0, fmt.Errorf("internal node %d has zero children: %w", h, ErrInvariantViolation)
	}
	if total != node.bodyCount {
		return 0, fmt.Errorf("node %d bodyCount=%d but subtree has %d bodies: %w", h, node.bodyCount, total, ErrInvariantViolation)
	}
	return total, nil
}
