package gravity

import "github.com/orrery-sim/gravity/internal/workerpool"

// BarnesHutParallelSolver shares a BarnesHutSolver's octree but
// parallelizes the per-body force queries over a worker pool. The
// tree is only read during queries (movement reconciliation and
// center-of-mass rollup stay serial, ahead of the parallel region), so
// no locking is needed: each body writes only its own force
// accumulator.
type BarnesHutParallelSolver struct {
	bh   *BarnesHutSolver
	pool *workerpool.Pool
}

// NewBarnesHutParallelSolver wraps an existing BarnesHutSolver to
// parallelize its query phase across pool.
func NewBarnesHutParallelSolver(bh *BarnesHutSolver, pool *workerpool.Pool) *BarnesHutParallelSolver {
	return &BarnesHutParallelSolver{bh: bh, pool: pool}
}

// ComputeForces implements GravitySolver.
func (s *BarnesHutParallelSolver) ComputeForces(bodies []*Body) error {
	s.bh.checkBodyMovement(bodies)
	s.bh.rebuildMassComTopDown(s.bh.root)

	theta2 := s.bh.theta * s.bh.theta
	n := len(bodies)
	if n == 0 {
		return nil
	}

	nBlocks := 2 * s.pool.Workers()
	s.pool.ParallelForBlocks(0, n, nBlocks, func(block, lo, hi int) {
		for i := lo; i < hi; i++ {
			b := bodies[i]
			if b.treeHandle == noTreeHandle {
				continue
			}
			s.bh.query(b, s.bh.root, theta2)
		}
	})
	return nil
}
