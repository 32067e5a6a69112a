// Package stats aggregates divergence histories across replicates: the
// snowball curve of incompatibility counts against divergence, least-squares
// fits of its shape, and summary quantiles.
package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/dmi-sim/dmi-sim/sim"
)

// SnowballPoint is one divergence bin of the pooled incompatibility curve.
type SnowballPoint struct {
	D12    int
	MeanII float64
	VarII  float64
	N      int
}

// SnowballCurve pools divergence history rows from any number of replicates
// and bins the per-row incompatibility count (the mean of the two
// introgression directions) by d12. Bins are returned in ascending d12
// order.
func SnowballCurve(histories []sim.DivergeRecord) []SnowballPoint {
	byBin := make(map[int][]float64)
	for _, r := range histories {
		byBin[r.D12] = append(byBin[r.D12], float64(r.II1+r.II2)/2)
	}
	bins := make([]int, 0, len(byBin))
	for d := range byBin {
		bins = append(bins, d)
	}
	sort.Ints(bins)
	out := make([]SnowballPoint, 0, len(bins))
	for _, d := range bins {
		mean, variance := stat.MeanVariance(byBin[d], nil)
		if len(byBin[d]) < 2 {
			variance = 0
		}
		out = append(out, SnowballPoint{D12: d, MeanII: mean, VarII: variance, N: len(byBin[d])})
	}
	return out
}

// Fit is a fitted snowball model: y = Intercept + Coeff*x for the linear
// model, y = Coeff*x^2 for the quadratic one.
type Fit struct {
	Intercept float64
	Coeff     float64
	R2        float64
}

// FitLinear fits mean incompatibility counts against divergence by ordinary
// least squares.
func FitLinear(d, ii []float64) (Fit, error) {
	if len(d) != len(ii) {
		return Fit{}, fmt.Errorf("length mismatch: %d distances vs %d counts", len(d), len(ii))
	}
	if len(d) < 2 {
		return Fit{}, fmt.Errorf("need at least 2 points, got %d", len(d))
	}
	alpha, beta := stat.LinearRegression(d, ii, nil, false)
	r2 := stat.RSquared(d, ii, nil, alpha, beta)
	return Fit{Intercept: alpha, Coeff: beta, R2: r2}, nil
}

// FitQuadratic fits the through-origin quadratic y = c*d^2 expected of a
// snowballing incompatibility count, solving the normal equations by QR.
func FitQuadratic(d, ii []float64) (Fit, error) {
	if len(d) != len(ii) {
		return Fit{}, fmt.Errorf("length mismatch: %d distances vs %d counts", len(d), len(ii))
	}
	if len(d) < 2 {
		return Fit{}, fmt.Errorf("need at least 2 points, got %d", len(d))
	}
	design := mat.NewDense(len(d), 1, nil)
	for i, x := range d {
		design.Set(i, 0, x*x)
	}
	rhs := mat.NewVecDense(len(ii), append([]float64(nil), ii...))
	var coeff mat.VecDense
	if err := coeff.SolveVec(design, rhs); err != nil {
		return Fit{}, fmt.Errorf("solving quadratic normal equations: %w", err)
	}
	c := coeff.AtVec(0)

	meanII := stat.Mean(ii, nil)
	ssRes, ssTot := 0.0, 0.0
	for i, x := range d {
		res := ii[i] - c*x*x
		ssRes += res * res
		dev := ii[i] - meanII
		ssTot += dev * dev
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return Fit{Coeff: c, R2: r2}, nil
}

// SnowballFits carries both fitted models for the run metadata sidecar.
type SnowballFits struct {
	Linear    Fit
	Quadratic Fit
}

// FitSnowball fits both models to a snowball curve.
func FitSnowball(curve []SnowballPoint) (SnowballFits, error) {
	d := make([]float64, len(curve))
	ii := make([]float64, len(curve))
	for i, p := range curve {
		d[i] = float64(p.D12)
		ii[i] = p.MeanII
	}
	lin, err := FitLinear(d, ii)
	if err != nil {
		return SnowballFits{}, fmt.Errorf("linear fit: %w", err)
	}
	quad, err := FitQuadratic(d, ii)
	if err != nil {
		return SnowballFits{}, fmt.Errorf("quadratic fit: %w", err)
	}
	return SnowballFits{Linear: lin, Quadratic: quad}, nil
}

// Quantiles returns the empirical quantiles of xs at each probability in qs.
// xs is copied and sorted; qs entries must be in [0, 1].
func Quantiles(xs, qs []float64) []float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = stat.Quantile(q, stat.Empirical, sorted, nil)
	}
	return out
}
