package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch indicates inputs of incompatible sizes.
var ErrDimensionMismatch = errors.New("expected returns and covariance dimensions differ")

// MeanVarianceWeights computes weights proportional to Cov^-1 * mu,
// normalized to sum to 1. The covariance inverse is a pseudo-inverse, so a
// singular matrix is handled rather than rejected. Risk aversion must be
// positive; it cancels in the normalization but is validated for parity with
// the usual mean-variance formulation.
func MeanVarianceWeights(expected []float64, cov *mat.SymDense, riskAversion float64) ([]float64, error) {
	if riskAversion <= 0 {
		return nil, errors.New("risk aversion must be positive")
	}
	n := len(expected)
	if n == 0 || cov.SymmetricDim() != n {
		return nil, ErrDimensionMismatch
	}

	inv, err := pseudoInverse(cov)
	if err != nil {
		return nil, err
	}

	mu := mat.NewVecDense(n, expected)
	raw := mat.NewVecDense(n, nil)
	raw.MulVec(inv, mu)

	var sum float64
	for i := 0; i < n; i++ {
		sum += raw.AtVec(i)
	}
	if sum == 0 {
		return nil, errors.New("raw weights sum to zero")
	}

	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = raw.AtVec(i) / sum
	}
	return weights, nil
}

// RiskParityWeights solves for equal risk contribution weights via
// fixed-point iteration. tol and maxIter bound the search; sensible values
// are 1e-6 and 500.
func RiskParityWeights(cov *mat.SymDense, tol float64, maxIter int) ([]float64, error) {
	n := cov.SymmetricDim()
	if n == 0 {
		return nil, ErrDimensionMismatch
	}
	if tol <= 0 {
		tol = 1e-6
	}
	if maxIter <= 0 {
		maxIter = 500
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}

	marginal := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		w := mat.NewVecDense(n, weights)
		mv := mat.NewVecDense(n, marginal)
		mv.MulVec(cov, w)

		portfolioVar := mat.Dot(w, mv)
		if portfolioVar <= 0 {
			break
		}

		target := portfolioVar / float64(n)
		var gradientNorm float64
		for i := 0; i < n; i++ {
			gradient := weights[i]*marginal[i] - target
			gradientNorm += gradient * gradient
			weights[i] -= gradient / (marginal[i] + 1e-12)
			if weights[i] < 1e-6 {
				weights[i] = 1e-6
			}
		}
		normalize(weights)

		if math.Sqrt(gradientNorm) < tol {
			break
		}
	}

	return weights, nil
}

func normalize(weights []float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return
	}
	for i := range weights {
		weights[i] /= sum
	}
}

// pseudoInverse computes the Moore-Penrose inverse via SVD, zeroing singular
// values below a relative threshold.
func pseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.New("SVD factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	threshold := 1e-15
	if len(values) > 0 {
		threshold = values[0] * 1e-12
	}

	d := mat.NewDiagDense(len(values), nil)
	for i, s := range values {
		if s > threshold {
			d.SetDiag(i, 1/s)
		}
	}

	var tmp, inv mat.Dense
	tmp.Mul(&v, d)
	inv.Mul(&tmp, u.T())
	return &inv, nil
}
