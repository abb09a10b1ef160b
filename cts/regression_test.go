package cts

import (
	"math"
	"testing"
)

func TestWLSExactFit(t *testing.T) {
	// y = 2*x + 3 exactly
	var y []float64
	var x [][]float64
	var w []float64
	for i := 1.0; i <= 10; i++ {
		x = append(x, []float64{i, 1})
		y = append(y, 2*i+3)
		w = append(w, 1)
	}

	coefs, ses, err := wls(y, x, w)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(coefs[0]-2) > 1e-9 || math.Abs(coefs[1]-3) > 1e-9 {
		t.Errorf("coefficients: got %v, expected [2 3]", coefs)
	}
	if ses[0] > 1e-6 {
		t.Errorf("standard error of an exact fit should be ~0, got %v", ses[0])
	}
}

func TestWLSWeights(t *testing.T) {
	// Two inconsistent clusters; the heavily weighted one should
	// dominate the intercept-only fit.
	y := []float64{0, 0, 10, 10}
	x := [][]float64{{1}, {1}, {1}, {1}}
	w := []float64{100, 100, 1, 1}

	coefs, _, err := wls(y, x, w)
	if err != nil {
		t.Fatal(err)
	}
	// weighted mean = (100*0*2 + 1*10*2) / (2*100 + 2*1)
	expected := 20.0 / 202.0
	if math.Abs(coefs[0]-expected) > 1e-9 {
		t.Errorf("intercept: got %v, expected %v", coefs[0], expected)
	}
}

func TestWLSUnderdetermined(t *testing.T) {
	if _, _, err := wls([]float64{1, 2}, [][]float64{{1, 1}, {2, 1}}, []float64{1, 1}); err == nil {
		t.Error("expected an error with as many coefficients as observations")
	}
}

func TestCoefficientPValue(t *testing.T) {
	// z = 0 --> p = 0.5
	if p := coefficientPValue(0, 1); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("p(z=0): got %v", p)
	}
	// large positive z --> small p
	if p := coefficientPValue(6, 1); p > 1e-8 {
		t.Errorf("p(z=6): got %v", p)
	}
	// negative effects are uninteresting in the one-sided test
	if p := coefficientPValue(-6, 1); p < 1-1e-8 {
		t.Errorf("p(z=-6): got %v", p)
	}
	// exact fits degenerate to 0 or 1
	if p := coefficientPValue(1, 0); p != 0 {
		t.Errorf("p(se=0, coef>0): got %v", p)
	}
	if p := coefficientPValue(-1, 0); p != 1 {
		t.Errorf("p(se=0, coef<0): got %v", p)
	}
}
