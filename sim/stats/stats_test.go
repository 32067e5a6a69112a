package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmi-sim/dmi-sim/sim"
	"github.com/dmi-sim/dmi-sim/sim/internal/testutil"
)

func TestSnowballCurve_BinsByDivergence(t *testing.T) {
	hist := []sim.DivergeRecord{
		{D12: 0, II1: 0, II2: 0},
		{D12: 2, II1: 1, II2: 1},
		{D12: 2, II1: 2, II2: 0},
		{D12: 5, II1: 3, II2: 5},
	}
	curve := SnowballCurve(hist)
	require.Len(t, curve, 3)

	assert.Equal(t, 0, curve[0].D12)
	assert.Equal(t, 0.0, curve[0].MeanII)
	assert.Equal(t, 1, curve[0].N)

	assert.Equal(t, 2, curve[1].D12)
	assert.Equal(t, 1.0, curve[1].MeanII) // rows contribute (1+1)/2 and (2+0)/2
	assert.Equal(t, 2, curve[1].N)
	assert.Equal(t, 0.0, curve[1].VarII)

	assert.Equal(t, 5, curve[2].D12)
	assert.Equal(t, 4.0, curve[2].MeanII)
}

func TestSnowballCurve_Empty(t *testing.T) {
	assert.Empty(t, SnowballCurve(nil))
}

func TestFitLinear_RecoversLine(t *testing.T) {
	d := []float64{0, 1, 2, 3, 4, 5}
	ii := make([]float64, len(d))
	for i, x := range d {
		ii[i] = 0.5 + 2*x
	}
	fit, err := FitLinear(d, ii)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, fit.Intercept, 1e-9)
	assert.InDelta(t, 2.0, fit.Coeff, 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
}

func TestFitQuadratic_RecoversCurve(t *testing.T) {
	d := []float64{0, 1, 2, 3, 4, 5, 6}
	ii := make([]float64, len(d))
	for i, x := range d {
		ii[i] = 0.3 * x * x
	}
	fit, err := FitQuadratic(d, ii)
	require.NoError(t, err)
	testutil.AssertFloat64Equal(t, "quadratic coefficient", 0.3, fit.Coeff, 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
}

func TestFitQuadratic_BeatsLinearOnSnowball(t *testing.T) {
	// A snowballing curve is fit better by c*d^2 than by a straight line.
	d := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	ii := make([]float64, len(d))
	for i, x := range d {
		ii[i] = 0.1 * x * x
	}
	quad, err := FitQuadratic(d, ii)
	require.NoError(t, err)
	lin, err := FitLinear(d, ii)
	require.NoError(t, err)
	assert.Greater(t, quad.R2, lin.R2)
}

func TestFit_ErrorCases(t *testing.T) {
	_, err := FitLinear([]float64{1, 2}, []float64{1})
	assert.ErrorContains(t, err, "length mismatch")
	_, err = FitLinear([]float64{1}, []float64{1})
	assert.ErrorContains(t, err, "at least 2")
	_, err = FitQuadratic([]float64{1, 2}, []float64{1})
	assert.ErrorContains(t, err, "length mismatch")
}

func TestFitSnowball_BothModels(t *testing.T) {
	var curve []SnowballPoint
	for d := 0; d <= 10; d++ {
		curve = append(curve, SnowballPoint{D12: d, MeanII: 0.2 * float64(d*d), N: 10})
	}
	fits, err := FitSnowball(curve)
	require.NoError(t, err)
	testutil.AssertFloat64Equal(t, "quadratic coefficient", 0.2, fits.Quadratic.Coeff, 1e-9)
	assert.Greater(t, fits.Linear.Coeff, 0.0)
}

func TestQuantiles(t *testing.T) {
	xs := []float64{5, 1, 4, 2, 3}
	qs := Quantiles(xs, []float64{0, 0.5, 1})
	assert.Equal(t, 1.0, qs[0])
	assert.Equal(t, 3.0, qs[1])
	assert.Equal(t, 5.0, qs[2])

	// Input order preserved.
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, xs)
}
