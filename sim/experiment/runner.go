package experiment

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dmi-sim/dmi-sim/sim"
)

// Result holds every record one replicate produced.
type Result struct {
	Replicate int
	Diverge   []sim.DivergeRecord
	Walk      []sim.WalkRecord
	Hybrids   []sim.HybridRecord
	DFE       []sim.DFERecord
}

// Runner executes a validated Spec over independent replicates.
type Runner struct {
	spec *Spec
}

// NewRunner wraps a validated spec.
func NewRunner(spec *Spec) *Runner {
	return &Runner{spec: spec}
}

// Run executes all replicates concurrently, bounded by GOMAXPROCS, and
// returns their results ordered by replicate index. Each replicate owns its
// landscape and RNGs, and its seed is derived positionally from the master
// seed, so results do not depend on scheduling. Context cancellation aborts
// outstanding replicates.
func (r *Runner) Run(ctx context.Context) ([]*Result, error) {
	master := sim.NewPartitionedRNG(sim.NewSimulationKey(r.spec.Seed))
	results := make([]*Result, r.spec.Replicates)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < r.spec.Replicates; i++ {
		i := i
		seed := master.ReplicateSeed(i)
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := r.runReplicate(i, seed)
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runReplicate runs one replicate to completion on a private landscape.
func (r *Runner) runReplicate(idx int, seed int64) (*Result, error) {
	prng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	land, err := sim.NewLandscape(r.spec.LandscapeConfig(), prng.ForSubsystem(sim.SubsystemLandscape))
	if err != nil {
		return nil, fmt.Errorf("building landscape: %w", err)
	}
	switch r.spec.Kind {
	case KindWalk:
		return r.runWalk(idx, prng, land)
	case KindDFE:
		return r.runDFE(idx, prng, land)
	default:
		return r.runDiverge(idx, prng, land)
	}
}

func (r *Runner) runDiverge(idx int, prng *sim.PartitionedRNG, land sim.Landscape) (*Result, error) {
	div, err := sim.NewDivergence(land, r.spec.Regime, r.spec.PopSize)
	if err != nil {
		return nil, err
	}
	lineageRNG := prng.ForSubsystem(sim.SubsystemLineage)
	walkRNG := prng.ForSubsystem(sim.SubsystemWalk)
	hybridRNG := prng.ForSubsystem(sim.SubsystemHybrids)
	dfeRNG := prng.ForSubsystem(sim.SubsystemDFE)

	res := &Result{Replicate: idx}
	for step := 1; step <= r.spec.Steps; step++ {
		div.Step(lineageRNG, walkRNG)
		if r.spec.Hybrids.Every > 0 && step%r.spec.Hybrids.Every == 0 {
			for _, kind := range sim.CrossKinds {
				rec, err := sim.SampleCross(land, div.Pop1().Current(), div.Pop2().Current(),
					kind, r.spec.Hybrids.Samples, hybridRNG)
				if err != nil {
					return nil, err
				}
				rec.Replicate = idx
				rec.Step = step
				res.Hybrids = append(res.Hybrids, rec)
			}
		}
		if r.spec.DFE.Every > 0 && step%r.spec.DFE.Every == 0 {
			for _, seq := range []string{div.Pop1().Current(), div.Pop2().Current()} {
				for _, rec := range sim.SampleDFE(land, seq, r.spec.DFE.Samples, dfeRNG) {
					rec.Replicate = idx
					rec.Step = step
					res.DFE = append(res.DFE, rec)
				}
			}
		}
	}
	for _, rec := range div.History() {
		if rec.Step%r.spec.RecordEvery != 0 && rec.Step != r.spec.Steps {
			continue
		}
		rec.Replicate = idx
		res.Diverge = append(res.Diverge, rec)
	}
	stats := land.Stats()
	logrus.Infof("replicate %d: d12=%d, %d/%d genotypes viable", idx, div.D12(), stats.Viable, stats.Evaluated)
	return res, nil
}

func (r *Runner) runWalk(idx int, prng *sim.PartitionedRNG, land sim.Landscape) (*Result, error) {
	walker, err := sim.NewWalker(land, r.spec.Regime, r.spec.PopSize, nil)
	if err != nil {
		return nil, err
	}
	walkRNG := prng.ForSubsystem(sim.SubsystemWalk)
	for step := 0; step < r.spec.Steps; step++ {
		walker.Step(walkRNG)
	}
	res := &Result{Replicate: idx}
	for _, rec := range walker.History() {
		if rec.Step%r.spec.RecordEvery != 0 && rec.Step != r.spec.Steps {
			continue
		}
		rec.Replicate = idx
		res.Walk = append(res.Walk, rec)
	}
	logrus.Infof("replicate %d: %d substitutions in %d steps, dist=%d",
		idx, walker.Substitutions(), walker.Steps(), walker.Dist())
	return res, nil
}

func (r *Runner) runDFE(idx int, prng *sim.PartitionedRNG, land sim.Landscape) (*Result, error) {
	walker, err := sim.NewWalker(land, r.spec.Regime, r.spec.PopSize, nil)
	if err != nil {
		return nil, err
	}
	walkRNG := prng.ForSubsystem(sim.SubsystemWalk)
	for step := 0; step < r.spec.Steps; step++ {
		walker.Step(walkRNG)
	}
	res := &Result{Replicate: idx}
	for _, rec := range sim.SampleDFE(land, walker.Current(), r.spec.DFE.Samples, prng.ForSubsystem(sim.SubsystemDFE)) {
		rec.Replicate = idx
		rec.Step = walker.Steps()
		res.DFE = append(res.DFE, rec)
	}
	return res, nil
}
