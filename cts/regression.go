package cts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// wls fits y = X*beta by weighted least squares and returns the
// coefficients with their standard errors. The rows of X and y are
// scaled by sqrt(w), after which the ordinary normal-theory standard
// errors apply.
func wls(y []float64, x [][]float64, w []float64) (coefs, ses []float64, err error) {
	n := len(y)
	if n == 0 || len(x) != n || len(w) != n {
		return nil, nil, fmt.Errorf("mismatched regression inputs")
	}
	p := len(x[0])
	if n <= p {
		return nil, nil, fmt.Errorf("not enough SNPs (%d) to fit %d coefficients", n, p)
	}

	design := mat.NewDense(n, p, nil)
	response := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if len(x[i]) != p {
			return nil, nil, fmt.Errorf("ragged design matrix")
		}
		s := math.Sqrt(w[i])
		for j := 0; j < p; j++ {
			design.Set(i, j, x[i][j]*s)
		}
		response.SetVec(i, y[i]*s)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(design, response); err != nil {
		return nil, nil, fmt.Errorf("singular design matrix: %w", err)
	}

	// Residual variance
	var fitted mat.VecDense
	fitted.MulVec(design, &beta)
	var rss float64
	for i := 0; i < n; i++ {
		r := response.AtVec(i) - fitted.AtVec(i)
		rss += r * r
	}
	sigma2 := rss / float64(n-p)

	// Coefficient covariance: sigma^2 * (X'X)^-1
	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, fmt.Errorf("singular design matrix: %w", err)
	}

	coefs = make([]float64, p)
	ses = make([]float64, p)
	for j := 0; j < p; j++ {
		coefs[j] = beta.AtVec(j)
		ses[j] = math.Sqrt(sigma2 * inv.At(j, j))
	}
	return coefs, ses, nil
}

// coefficientPValue is the one-sided p-value for a positive
// contribution of the annotation, the test cell-type analysis reports.
func coefficientPValue(coef, se float64) float64 {
	if se == 0 {
		if coef > 0 {
			return 0
		}
		return 1
	}
	return distuv.UnitNormal.Survival(coef / se)
}
