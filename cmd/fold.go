package cmd

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dmi-sim/dmi-sim/sim"
	"github.com/dmi-sim/dmi-sim/sim/rna"
)

var (
	foldSeq    string
	foldRandom int
	foldSeed   int64
)

// foldCmd folds one RNA sequence and prints its dot-bracket structure.
// Useful for choosing reference structures for the RNA landscapes.
var foldCmd = &cobra.Command{
	Use:   "fold",
	Short: "Fold an RNA sequence and print its dot-bracket structure",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		seq := foldSeq
		if seq == "" {
			if foldRandom <= 0 {
				logrus.Fatalf("provide --seq or --random LENGTH")
			}
			rng := rand.New(rand.NewSource(foldSeed))
			seq = sim.RandomSequence(sim.RNA, foldRandom, rng)
		}
		if err := sim.RNA.Check(seq, 0); err != nil {
			logrus.Fatalf("invalid sequence: %v", err)
		}

		structure := rna.Fold(seq)
		fmt.Println(seq)
		fmt.Println(structure)
		fmt.Printf("pairs: %d\n", rna.PairCount(structure))
	},
}

func init() {
	foldCmd.Flags().StringVar(&foldSeq, "seq", "", "RNA sequence to fold")
	foldCmd.Flags().IntVar(&foldRandom, "random", 0, "Fold a random sequence of this length instead")
	foldCmd.Flags().Int64Var(&foldSeed, "seed", 42, "Seed for --random")
	rootCmd.AddCommand(foldCmd)
}
