package gravity

import "github.com/orrery-sim/gravity/internal/workerpool"

// DirectParallelSolver computes the same O(N^2) pairwise sum as
// DirectSolver, but partitions the outer loop across a worker pool.
// Each worker accumulates into its own scratch row (size N) to avoid
// write contention; rows are summed into the bodies' accumulators
// after all workers finish. The partition is deterministic given a
// fixed worker count, which makes the reduction order — and therefore
// the result — reproducible across runs (spec's parallel-determinism
// property).
type DirectParallelSolver struct {
	pool *workerpool.Pool

	// scratch is a workers-by-N grid, reused across calls and resized
	// only when the body count grows. scratch[w][i] accumulates
	// worker w's contribution to body i's force.
	scratch [][]Vector3
}

// NewDirectParallelSolver returns a DirectParallelSolver using pool
// for its worker decomposition.
func NewDirectParallelSolver(pool *workerpool.Pool) *DirectParallelSolver {
	return &DirectParallelSolver{pool: pool}
}

func (s *DirectParallelSolver) ensureScratch(n int) {
	t := s.pool.Workers()
	if len(s.scratch) != t || (t > 0 && len(s.scratch[0]) < n) {
		s.scratch = make([][]Vector3, t)
		for w := range s.scratch {
			s.scratch[w] = make([]Vector3, n)
		}
		return
	}
	for w := range s.scratch {
		row := s.scratch[w]
		for i := range row {
			row[i] = Vector3{}
		}
	}
}

// ComputeForces implements GravitySolver.
func (s *DirectParallelSolver) ComputeForces(bodies []*Body) error {
	n := len(bodies)
	if n < 2 {
		return nil
	}
	s.ensureScratch(n)

	nBlocks := 2 * s.pool.Workers()
	s.pool.ParallelForBlocks(0, n-1, nBlocks, func(block, lo, hi int) {
		worker := s.pool.WorkerIndex(block)
		row := s.scratch[worker]
		for i := lo; i < hi; i++ {
			bi := bodies[i]
			for j := i + 1; j < n; j++ {
				bj := bodies[j]
				r := bj.position.Sub(bi.position)
				d2 := r.Dot(r)
				f := G * bi.mass * bj.mass / d2
				force := withLength(r, f)
				row[i] = row[i].Add(force)
				row[j] = row[j].Sub(force)
			}
		}
	})

	for i := 0; i < n; i++ {
		var sum Vector3
		for w := range s.scratch {
			sum = sum.Add(s.scratch[w][i])
		}
		bodies[i].force = bodies[i].force.Add(sum)
	}
	return nil
}
