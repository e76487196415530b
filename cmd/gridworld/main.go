// Command gridworld is the headless CLI entry point for the block-paged
// grid-world core (spec.md §6). It has no rendering surface of its own —
// per spec.md's Non-goals, drawing belongs to an external UI consuming the
// core through the view-query/command/tick interfaces — but it wires up a
// World, drives it for a fixed number of ticks with a couple of demo
// agents, and reports the resulting block/agent counts so the core can be
// exercised end to end without a host UI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/finder"
	"github.com/jrjojr/byul-demo-env/world"
)

// fileConfig mirrors the subset of world.Config a TOML file may override,
// following server/conf.go's pattern of a small on-disk struct distinct
// from the runtime Config it feeds.
type fileConfig struct {
	BlockSize   int32   `toml:"block_size"`
	MaxBlocks   int     `toml:"max_blocks"`
	MaxParallel int     `toml:"max_parallel"`
	Workers     int     `toml:"workers"`
	Ticks       int     `toml:"ticks"`
	TickSeconds float64 `toml:"tick_seconds"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config: %w", err)
	}
	return fc, nil
}

var (
	flagBlockSize int32
	flagMaxBlocks int
	flagWorkers   int
	flagTicks     int
	flagConfig    string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridworld",
		Short: "Dynamic-pathfinding grid-world core",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headlessly for a fixed number of ticks",
		RunE:  runRun,
	}
	run.Flags().Int32Var(&flagBlockSize, "block-size", 16, "Block edge length in cells")
	run.Flags().IntVar(&flagMaxBlocks, "max-blocks", 64, "Maximum resident blocks before LRU eviction")
	run.Flags().IntVar(&flagWorkers, "workers", 4, "Route-finder and animator worker pool size")
	run.Flags().IntVar(&flagTicks, "ticks", 200, "Number of ticks to simulate before exiting")
	run.Flags().StringVar(&flagConfig, "config", "", "Optional TOML config file; flags override its values")

	root.AddCommand(run)
	return root
}

func runRun(cmd *cobra.Command, _ []string) error {
	fc, err := loadFileConfig(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	pick := func(name string, flag, file int) int {
		if flags.Changed(name) {
			return flag
		}
		return firstPositive(file, flag)
	}
	cfg := world.Config{
		BlockSize:       int32(pick("block-size", int(flagBlockSize), int(fc.BlockSize))),
		MaxBlocks:       pick("max-blocks", flagMaxBlocks, fc.MaxBlocks),
		MaxParallel:     pick("workers", flagWorkers, fc.MaxParallel),
		RouteWorkers:    pick("workers", flagWorkers, fc.Workers),
		AnimatorWorkers: pick("workers", flagWorkers, fc.Workers),
	}

	w := world.New(cfg, world.Hooks{})
	defer w.Shutdown()

	w.SetViewportCenter(0, 0)
	a := w.SpawnAgent("", 0, 0)
	a.Planner = agent.PlannerTag(finder.AStar)
	w.SetGoal(a.ID, 40, 40)
	w.SpawnAgent("", 5, 5).Planner = agent.DStarLite

	ticks := pick("ticks", flagTicks, fc.Ticks)
	dt := fc.TickSeconds
	if dt <= 0 {
		dt = 0.1
	}
	for i := 0; i < ticks; i++ {
		w.Tick(dt)
		time.Sleep(time.Millisecond) // yields between ticks; not a blocking wait on I/O
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ticks=%d blocks=%d agents=%d memory_bytes=%d\n",
		ticks, w.BlockCount(), w.AgentCount(), w.MemoryUsage())
	return nil
}

func firstPositive(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}

func firstPositive32(a, b int32) int32 {
	if a > 0 {
		return a
	}
	return b
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
