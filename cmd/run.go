package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dmi-sim/dmi-sim/sim/experiment"
	// Register the RNA landscape constructors.
	_ "github.com/dmi-sim/dmi-sim/sim/rna"
)

// runCmd executes the divergence experiment: two lineages evolve from a
// common ancestor while incompatible introgressions are counted.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the two-lineage divergence experiment",
	Run: func(cmd *cobra.Command, args []string) {
		runExperiment(cmd, experiment.KindDiverge)
	},
}

// walkCmd runs a single-lineage weak-mutation walk.
var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Run a single-lineage random walk",
	Run: func(cmd *cobra.Command, args []string) {
		runExperiment(cmd, experiment.KindWalk)
	},
}

// dfeCmd samples the distribution of fitness effects of a resident genotype.
var dfeCmd = &cobra.Command{
	Use:   "dfe",
	Short: "Sample the distribution of fitness effects after a walk",
	Run: func(cmd *cobra.Command, args []string) {
		runExperiment(cmd, experiment.KindDFE)
	},
}

func runExperiment(cmd *cobra.Command, kind string) {
	setupLogging()

	spec, err := buildSpec(cmd, kind)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Infof("Starting %s experiment: model=%s regime=%s length=%d steps=%d replicates=%d seed=%d",
		spec.Kind, spec.Model, spec.Regime, spec.Length, spec.Steps, spec.Replicates, spec.Seed)

	startTime := time.Now()
	results, err := experiment.NewRunner(spec).Run(context.Background())
	if err != nil {
		logrus.Fatalf("simulation failed: %v", err)
	}

	meta, err := experiment.WriteResults(spec, results, Version)
	if err != nil {
		logrus.Fatalf("writing results: %v", err)
	}
	logrus.Infof("Run %s complete in %s; outputs in %s", meta.RunID, time.Since(startTime).Round(time.Millisecond), spec.Output.Dir)
}

func init() {
	addSpecFlags(runCmd)
	addSpecFlags(walkCmd)
	addSpecFlags(dfeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(dfeCmd)
}
