package experiment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/dmi-sim/dmi-sim/sim"
	"github.com/dmi-sim/dmi-sim/sim/record"
	"github.com/dmi-sim/dmi-sim/sim/stats"
)

// WriteResults flushes replicate results to every sink the spec selects and
// returns the run metadata, with fitted snowball models for divergence runs
// and selection-coefficient quantiles when DFE samples were taken. Sinks are
// written sequentially from the calling goroutine.
func WriteResults(spec *Spec, results []*Result, toolVersion string) (record.RunMeta, error) {
	meta := record.NewRunMeta(toolVersion)
	meta.Name = spec.Name
	meta.Seed = spec.Seed
	meta.Model = spec.Model
	meta.Regime = spec.Regime
	meta.Steps = spec.Steps
	meta.Replicates = spec.Replicates
	meta.Params = spec.Params()

	var diverge []sim.DivergeRecord
	for _, res := range results {
		diverge = append(diverge, res.Diverge...)
	}
	var curve []stats.SnowballPoint
	if len(diverge) > 0 {
		curve = stats.SnowballCurve(diverge)
		if fits, err := stats.FitSnowball(curve); err != nil {
			logrus.Warnf("snowball fit skipped: %v", err)
		} else {
			meta.Summary = map[string]float64{
				"linear_intercept": fits.Linear.Intercept,
				"linear_slope":     fits.Linear.Coeff,
				"linear_r2":        fits.Linear.R2,
				"quadratic_coeff":  fits.Quadratic.Coeff,
				"quadratic_r2":     fits.Quadratic.R2,
			}
		}
	}

	var sel []float64
	for _, res := range results {
		for _, r := range res.DFE {
			sel = append(sel, r.S)
		}
	}
	if len(sel) > 0 {
		qs := stats.Quantiles(sel, []float64{0.25, 0.5, 0.75})
		if meta.Summary == nil {
			meta.Summary = make(map[string]float64)
		}
		meta.Summary["s_q25"] = qs[0]
		meta.Summary["s_q50"] = qs[1]
		meta.Summary["s_q75"] = qs[2]
	}

	sink, err := buildSinks(spec)
	if err != nil {
		return meta, err
	}
	if err := sink.Begin(meta); err != nil {
		_ = sink.Close()
		return meta, err
	}
	if err := writeRows(sink, results, curve); err != nil {
		_ = sink.Close()
		return meta, err
	}
	if err := sink.Close(); err != nil {
		return meta, err
	}
	return meta, nil
}

func buildSinks(spec *Spec) (record.Sink, error) {
	if err := os.MkdirAll(spec.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	var sinks record.Multi
	for _, format := range spec.Output.Formats {
		switch format {
		case "csv":
			s, err := record.NewCSVDir(spec.Output.Dir)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		case "xlsx":
			sinks = append(sinks, record.NewXLSXWorkbook(filepath.Join(spec.Output.Dir, "results.xlsx")))
		case "sqlite":
			s, err := record.NewSQLiteDB(filepath.Join(spec.Output.Dir, "results.sqlite"))
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		}
	}
	return sinks, nil
}

func writeRows(sink record.Sink, results []*Result, curve []stats.SnowballPoint) error {
	for _, res := range results {
		for _, r := range res.Diverge {
			if err := sink.Write(record.DivergeTable, record.DivergeRow(r)); err != nil {
				return err
			}
		}
		for _, r := range res.Walk {
			if err := sink.Write(record.WalkTable, record.WalkRow(r)); err != nil {
				return err
			}
		}
		for _, r := range res.DFE {
			if err := sink.Write(record.DFETable, record.DFERow(r)); err != nil {
				return err
			}
		}
		for _, r := range res.Hybrids {
			if err := sink.Write(record.HybridsTable, record.HybridRow(r)); err != nil {
				return err
			}
		}
	}
	for _, p := range curve {
		if err := sink.Write(record.SummaryTable, record.SummaryRow(p.D12, p.MeanII, p.VarII, p.N)); err != nil {
			return err
		}
	}
	return nil
}
