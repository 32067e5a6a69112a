// Package record writes simulation outputs to flat files: CSV directories
// with YAML metadata sidecars, XLSX workbooks, and SQLite databases. Every
// sink emits identical column layouts; the Table variables below are the
// single source of schema truth.
package record

import (
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/dmi-sim/dmi-sim/sim"
)

// SchemaVersion identifies the output column layout.
const SchemaVersion = 1

// Row is one ordered record, pre-formatted as strings in column order.
type Row []string

// Table names a record type and fixes its column order.
type Table struct {
	Name    string
	Columns []string
}

// Output tables.
var (
	DivergeTable = Table{"diverge", []string{
		"replicate", "step", "seq1", "seq2", "d01", "d02", "d12",
		"ii1", "ii2", "nu1", "nu2", "w1", "w2", "mean_nu",
	}}
	WalkTable = Table{"walk", []string{
		"replicate", "step", "seq", "dist", "nu", "w", "substitutions",
	}}
	DFETable = Table{"dfe", []string{
		"replicate", "step", "site", "from_allele", "to_allele",
		"w_parent", "w_mutant", "s", "lethal",
	}}
	HybridsTable = Table{"hybrids", []string{
		"replicate", "step", "d12", "cross", "n", "viable_fraction", "mean_w",
	}}
	SummaryTable = Table{"summary", []string{
		"d12", "mean_ii", "var_ii", "n_obs",
	}}
)

// Tables lists every output table in emission order.
var Tables = []Table{DivergeTable, WalkTable, DFETable, HybridsTable, SummaryTable}

// RunMeta is the YAML sidecar written once per run.
type RunMeta struct {
	RunID         string             `yaml:"run_id"`
	CreatedAt     string             `yaml:"created_at"`
	ToolVersion   string             `yaml:"tool_version"`
	SchemaVersion int                `yaml:"schema_version"`
	Name          string             `yaml:"name,omitempty"`
	Seed          int64              `yaml:"seed"`
	Model         string             `yaml:"model"`
	Regime        string             `yaml:"regime"`
	Steps         int                `yaml:"steps"`
	Replicates    int                `yaml:"replicates"`
	Params        map[string]string  `yaml:"params,omitempty"`
	Summary       map[string]float64 `yaml:"summary,omitempty"`
}

// NewRunMeta stamps a fresh RunMeta with a unique run ID and the current
// UTC time.
func NewRunMeta(toolVersion string) RunMeta {
	return RunMeta{
		RunID:         xid.New().String(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		ToolVersion:   toolVersion,
		SchemaVersion: SchemaVersion,
	}
}

// Sink receives rows for one run. Begin is called once before any Write;
// Close flushes and finalizes the output. Sinks are used from a single
// goroutine.
type Sink interface {
	Begin(meta RunMeta) error
	Write(table Table, row Row) error
	Close() error
}

// Multi fans every call out to several sinks in order.
type Multi []Sink

func (m Multi) Begin(meta RunMeta) error {
	for _, s := range m {
		if err := s.Begin(meta); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Write(table Table, row Row) error {
	for _, s := range m {
		if err := s.Write(table, row); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func itoa(v int) string     { return strconv.Itoa(v) }
func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
func btoa(v bool) string    { return strconv.FormatBool(v) }

// DivergeRow formats a divergence history record in DivergeTable order.
func DivergeRow(r sim.DivergeRecord) Row {
	return Row{
		itoa(r.Replicate), itoa(r.Step), r.Seq1, r.Seq2,
		itoa(r.D01), itoa(r.D02), itoa(r.D12),
		itoa(r.II1), itoa(r.II2),
		ftoa(r.Nu1), ftoa(r.Nu2), ftoa(r.W1), ftoa(r.W2), ftoa(r.MeanNu),
	}
}

// WalkRow formats a walk history record in WalkTable order.
func WalkRow(r sim.WalkRecord) Row {
	return Row{
		itoa(r.Replicate), itoa(r.Step), r.Seq, itoa(r.Dist),
		ftoa(r.Nu), ftoa(r.W), itoa(r.Substitutions),
	}
}

// DFERow formats a DFE sample in DFETable order.
func DFERow(r sim.DFERecord) Row {
	return Row{
		itoa(r.Replicate), itoa(r.Step), itoa(r.Site),
		r.FromAllele, r.ToAllele,
		ftoa(r.WParent), ftoa(r.WMutant), ftoa(r.S), btoa(r.Lethal),
	}
}

// HybridRow formats a hybrid sample in HybridsTable order.
func HybridRow(r sim.HybridRecord) Row {
	return Row{
		itoa(r.Replicate), itoa(r.Step), itoa(r.D12), r.Cross,
		itoa(r.N), ftoa(r.ViableFraction), ftoa(r.MeanW),
	}
}

// SummaryRow formats one divergence bin of the snowball curve.
func SummaryRow(d12 int, meanII, varII float64, nObs int) Row {
	return Row{itoa(d12), ftoa(meanII), ftoa(varII), itoa(nObs)}
}
