package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// linearFit is a fitted linear model with intercept.
type linearFit struct {
	coef      []float64
	intercept float64
}

func (f linearFit) predict(row []float64) float64 {
	v := f.intercept
	for j, c := range f.coef {
		v += c * row[j]
	}
	return v
}

// fitter fits a linear model to the rows of x.
type fitter func(x *mat.Dense, y []float64) (linearFit, error)

// strategy is one candidate model. Candidates are tried in order and a tie
// keeps the earlier one.
type strategy struct {
	name string
	fit  fitter
}

const ridgeAlpha = 1.0

var strategies = []strategy{
	{name: "linear", fit: fitLeastSquares},
	{name: "ridge", fit: fitRidge(ridgeAlpha)},
}

// fitLeastSquares is the minimum-norm least squares solution, so collinear
// features do not fail the fit.
func fitLeastSquares(x *mat.Dense, y []float64) (linearFit, error) {
	n, p := x.Dims()
	tol := float64(max(n, p)) * 2.220446049250313e-16
	return solveSVD(x, y, func(s, smax float64) float64 {
		if s <= tol*smax || s == 0 {
			return 0
		}
		return 1 / s
	})
}

// fitRidge is L2-penalized least squares. The intercept is not penalized.
func fitRidge(alpha float64) fitter {
	return func(x *mat.Dense, y []float64) (linearFit, error) {
		return solveSVD(x, y, func(s, _ float64) float64 {
			return s / (s*s + alpha)
		})
	}
}

// solveSVD centers x and y, factorizes x = U S V^T and returns
// w = V diag(filter(s)) U^T y with the intercept recovered from the means.
func solveSVD(x *mat.Dense, y []float64, filter func(s, smax float64) float64) (linearFit, error) {
	n, p := x.Dims()

	means := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, x)
		means[j] = stat.Mean(col, nil)
	}
	xc := mat.NewDense(n, p, nil)
	xc.Apply(func(_, j int, v float64) float64 { return v - means[j] }, x)

	ymean := stat.Mean(y, nil)
	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - ymean
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return linearFit{}, fmt.Errorf("%w: singular value decomposition did not converge", ErrComputation)
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var uty mat.VecDense
	uty.MulVec(u.T(), mat.NewVecDense(n, yc))
	var smax float64
	if len(s) > 0 {
		smax = s[0]
	}
	for i, sv := range s {
		uty.SetVec(i, uty.AtVec(i)*filter(sv, smax))
	}
	var w mat.VecDense
	w.MulVec(&v, &uty)

	fit := linearFit{coef: make([]float64, p), intercept: ymean}
	for j := 0; j < p; j++ {
		fit.coef[j] = w.AtVec(j)
		fit.intercept -= means[j] * fit.coef[j]
	}
	if !finite(fit.intercept) || !allFinite(fit.coef) {
		return linearFit{}, fmt.Errorf("%w: non-finite coefficients", ErrComputation)
	}
	return fit, nil
}

// score rates a strategy: mean negative MAE over k folds when there is
// enough data, otherwise in-sample R^2.
func score(fit fitter, x *mat.Dense, y []float64) (float64, error) {
	n := len(y)
	if n < cvMinSamples {
		f, err := fit(x, y)
		if err != nil {
			return 0, err
		}
		return rSquared(y, predictAll(f, x)), nil
	}

	k := min(maxFolds, n)
	var total float64
	start := 0
	for fold := 0; fold < k; fold++ {
		size := n / k
		if fold < n%k {
			size++
		}
		test := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for i := 0; i < n; i++ {
			if i >= start && i < start+size {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}
		start += size

		f, err := fit(rows(x, train), pick(y, train))
		if err != nil {
			return 0, err
		}
		total -= meanAbsError(pick(y, test), predictAll(f, rows(x, test)))
	}
	return total / float64(k), nil
}

func rows(x *mat.Dense, idx []int) *mat.Dense {
	_, p := x.Dims()
	out := mat.NewDense(len(idx), p, nil)
	for i, r := range idx {
		out.SetRow(i, x.RawRowView(r))
	}
	return out
}

func pick(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, r := range idx {
		out[i] = v[r]
	}
	return out
}

func predictAll(f linearFit, x *mat.Dense) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = f.predict(x.RawRowView(i))
	}
	return out
}

func meanAbsError(y, pred []float64) float64 {
	var sum float64
	for i := range y {
		sum += math.Abs(y[i] - pred[i])
	}
	return sum / float64(len(y))
}

func rootMeanSquaredError(y, pred []float64) float64 {
	var sum float64
	for i := range y {
		d := y[i] - pred[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(y)))
}

// rSquared is the coefficient of determination. A constant target scores 1
// on a perfect fit and 0 otherwise.
func rSquared(y, pred []float64) float64 {
	mean := stat.Mean(y, nil)
	var res, tot float64
	for i := range y {
		res += (y[i] - pred[i]) * (y[i] - pred[i])
		tot += (y[i] - mean) * (y[i] - mean)
	}
	if tot == 0 {
		if res == 0 {
			return 1
		}
		return 0
	}
	return 1 - res/tot
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func allFinite(vs []float64) bool {
	for _, v := range vs {
		if !finite(v) {
			return false
		}
	}
	return true
}
