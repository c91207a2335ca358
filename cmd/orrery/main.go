// Command orrery is a non-graphical demo/benchmark harness for the
// gravity engine: it builds a small randomized system, steps it with
// a chosen solver, and optionally records the run to SQLite and/or a
// compressed gob checkpoint stream.
package main

import (
	"compress/zlib"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/orrery-sim/gravity"
	"github.com/orrery-sim/gravity/internal/config"
	"github.com/orrery-sim/gravity/internal/record"
)

var (
	configFile string
	solver     string
	theta      float64
	sizeScale  float64
	dt         float64
	substeps   int
	steps      int
	bodies     int
	seed       int64
	workerHint int

	sqlitePath     string
	checkpointPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orrery",
		Short: "gravity engine demo and benchmark CLI",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "build a random system and step it",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare solver throughput across body counts",
		RunE:  benchSolvers,
	}
	benchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	benchCmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "barnes-hut opening angle")
	benchCmd.Flags().Float64Var(&sizeScale, "size-scale", config.DefaultSizeScale, "barnes-hut bounding box scale")
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "seconds per step")
	benchCmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "integration substeps per step")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "scene random seed")
	benchCmd.Flags().IntVar(&workerHint, "workers", config.DefaultWorkerHint, "worker pool size (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&solver, "solver", config.DefaultSolver, "direct|direct-parallel|barnes-hut|barnes-hut-parallel")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "barnes-hut opening angle")
	cmd.Flags().Float64Var(&sizeScale, "size-scale", config.DefaultSizeScale, "barnes-hut bounding box scale")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "seconds per step")
	cmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "integration substeps per step")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps to run")
	cmd.Flags().IntVar(&bodies, "bodies", config.DefaultBodies, "number of orbiting bodies")
	cmd.Flags().Int64Var(&seed, "seed", 1, "scene random seed")
	cmd.Flags().IntVar(&workerHint, "workers", config.DefaultWorkerHint, "worker pool size (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "write per-step snapshots to this SQLite file (must not exist)")
	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "write compressed gob checkpoints to this file")
}

// loadRunConfig merges a config file (if given) with CLI flag
// overrides; flags that were explicitly set on the command line win,
// matching san-kum-dynsim's cmd/dynsim precedence rule.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("solver") {
		cfg.Solver = solver
	}
	if cmd.Flags().Changed("theta") {
		cfg.Theta = theta
	}
	if cmd.Flags().Changed("size-scale") {
		cfg.SizeScale = sizeScale
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("substeps") {
		cfg.Substeps = substeps
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("bodies") {
		cfg.Bodies = bodies
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.WorkerHint = workerHint
	}
	if cmd.Flags().Changed("sqlite") {
		cfg.SQLitePath = sqlitePath
	}
	if cmd.Flags().Changed("checkpoint") {
		cfg.CheckpointPath = checkpointPath
	}
	return cfg, nil
}

func buildUniverse(cfg *config.Config) (*gravity.Universe, []*gravity.Body, error) {
	u := gravity.NewUniverse(cfg.Bodies+1, gravity.WithThreadHint(cfg.WorkerHint))
	ptrs, err := buildClusterScene(u, cfg.Bodies, cfg.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("orrery: build scene: %w", err)
	}

	switch cfg.Solver {
	case "direct":
		u.SetSolver(gravity.NewDirectSolver())
	case "direct-parallel":
		u.SetSolver(gravity.NewDirectParallelSolver(u.Pool()))
	case "barnes-hut":
		bh, err := gravity.NewBarnesHutSolver(ptrs, cfg.Theta, cfg.SizeScale)
		if err != nil {
			return nil, nil, fmt.Errorf("orrery: build barnes-hut solver: %w", err)
		}
		u.SetSolver(bh)
	case "barnes-hut-parallel":
		bh, err := gravity.NewBarnesHutSolver(ptrs, cfg.Theta, cfg.SizeScale)
		if err != nil {
			return nil, nil, fmt.Errorf("orrery: build barnes-hut solver: %w", err)
		}
		u.SetSolver(gravity.NewBarnesHutParallelSolver(bh, u.Pool()))
	default:
		return nil, nil, fmt.Errorf("orrery: unknown solver %q", cfg.Solver)
	}
	return u, ptrs, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	u, ptrs, err := buildUniverse(cfg)
	if err != nil {
		return err
	}

	var sqliteRec *record.SQLiteRecorder
	var checkpointRec *record.Checkpointer
	var checkpointFile *os.File
	if cfg.SQLitePath != "" {
		sqliteRec, err = record.NewSQLiteRecorder(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer sqliteRec.Close()
	}
	if cfg.CheckpointPath != "" {
		checkpointFile, err = os.Create(cfg.CheckpointPath)
		if err != nil {
			return fmt.Errorf("orrery: create checkpoint file: %w", err)
		}
		checkpointRec, err = record.NewCheckpointer(checkpointFile, zlib.DefaultCompression)
		if err != nil {
			return err
		}
		defer checkpointRec.Close()
	}

	slog.Info("starting run", "solver", cfg.Solver, "bodies", u.Len(), "steps", cfg.Steps)
	start := time.Now()

	for step := 0; step < cfg.Steps; step++ {
		if err := u.Step(cfg.Dt, cfg.Substeps); err != nil {
			return fmt.Errorf("orrery: step %d: %w", step, err)
		}
		if sqliteRec != nil || checkpointRec != nil {
			snaps := snapshotBodies(ptrs)
			if sqliteRec != nil {
				if err := sqliteRec.RecordStep(step, snaps); err != nil {
					return err
				}
			}
			if checkpointRec != nil {
				if err := checkpointRec.RecordStep(step, snaps); err != nil {
					return err
				}
			}
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("ran %d steps over %d bodies with %s solver in %v (%.0f steps/sec)\n",
		cfg.Steps, u.Len(), cfg.Solver, elapsed, float64(cfg.Steps)/elapsed.Seconds())
	return nil
}

func snapshotBodies(ptrs []*gravity.Body) []record.Snapshot {
	snaps := make([]record.Snapshot, len(ptrs))
	for i, b := range ptrs {
		pos := b.Position()
		snaps[i] = record.Snapshot{
			ID:     uint32(i),
			X:      pos.X(),
			Y:      pos.Y(),
			Z:      pos.Z(),
			Mass:   b.Mass(),
			Radius: b.Radius(),
		}
	}
	return snaps
}

func benchSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tBODIES\tSTEPS\tTIME\tSTEPS/SEC")

	bodyCounts := []int{100, 500, 2000}
	solvers := []string{"direct", "direct-parallel", "barnes-hut", "barnes-hut-parallel"}

	for _, n := range bodyCounts {
		for _, s := range solvers {
			trialCfg := *cfg
			trialCfg.Bodies = n
			trialCfg.Solver = s
			trialCfg.Steps = 20

			u, _, err := buildUniverse(&trialCfg)
			if err != nil {
				fmt.Fprintf(w, "%s\t%d\terror: %v\t\t\n", s, n, err)
				continue
			}

			start := time.Now()
			for step := 0; step < trialCfg.Steps; step++ {
				if err := u.Step(trialCfg.Dt, trialCfg.Substeps); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n", s, n, trialCfg.Steps, elapsed,
				float64(trialCfg.Steps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}
