package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const (
	// objective value for parameters that blow the residual recursion up
	cssPenalty = 1e300
	// keeps log(sigma2) finite when a candidate fits exactly
	minSigma2 = 1e-12
)

type ArimaSettings struct {
	MinObservations int
	MaxP            int
	MaxD            int
	MaxQ            int
	MaxEvaluations  int
}

type ArimaOrder struct {
	P, D, Q int
}

func (o ArimaOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// ArimaModel is a fitted candidate, coefficients apply to the d times differenced series
type ArimaModel struct {
	Order     ArimaOrder
	Intercept float64
	AR        []float64
	MA        []float64
	Sigma2    float64
	AIC       float64

	levels    []float64 // last value of each differencing level, 0..d-1
	diffed    []float64
	residuals []float64
}

// AutoArima picks d with kpss, then the (p,q) with the lowest aic fitted by conditional sum of squares
func AutoArima(closes []float64, settings ArimaSettings) (*ArimaModel, error) {
	if len(closes) < settings.MinObservations || len(closes) < 3 {
		return nil, ErrInsufficientHistory
	}

	d := NDiffs(closes, settings.MaxD)
	levels := make([]float64, d)
	w := closes
	for k := range d {
		levels[k] = w[len(w)-1]
		w = Difference(w)
	}

	var best *ArimaModel
	for p := 0; p <= settings.MaxP; p++ {
		for q := 0; q <= settings.MaxQ; q++ {
			model, ok := fitCss(w, ArimaOrder{P: p, D: d, Q: q}, d < 2, settings.MaxEvaluations)
			if !ok {
				continue
			}
			if best == nil || model.AIC < best.AIC {
				best = model
			}
		}
	}

	if best == nil {
		return nil, ErrNoModel
	}

	best.levels = levels
	return best, nil
}

// Forecast is the next value integrated back to a price level
func (am *ArimaModel) Forecast() float64 {
	w := am.diffed
	e := am.residuals
	m := len(w)

	next := am.Intercept
	for i, phi := range am.AR {
		next += phi * w[m-1-i]
	}
	for j, theta := range am.MA {
		next += theta * e[m-1-j]
	}

	for k := len(am.levels) - 1; k >= 0; k-- {
		next += am.levels[k]
	}

	return next
}

func fitCss(w []float64, order ArimaOrder, intercept bool, maxEvaluations int) (*ArimaModel, bool) {
	p, q := order.P, order.Q
	nParams := p + q
	if intercept {
		nParams++
	}

	// need more usable residuals than parameters, +1 for the variance
	effective := len(w) - p
	if effective <= nParams+1 {
		return nil, false
	}

	unpack := func(x []float64) (float64, []float64, []float64) {
		c := 0.0
		off := 0
		if intercept {
			c = x[0]
			off = 1
		}
		return c, x[off : off+p], x[off+p : off+p+q]
	}

	objective := func(x []float64) float64 {
		c, ar, ma := unpack(x)
		sse, _ := cssResiduals(w, c, ar, ma)
		if !isFinite(sse) {
			return cssPenalty
		}
		return sse
	}

	x := initialParameters(w, p, q, intercept)
	sse := objective(x)

	if nParams > 0 {
		if maxEvaluations <= 0 {
			maxEvaluations = 400 * nParams
		}
		problem := optimize.Problem{Func: objective}
		settings := &optimize.Settings{FuncEvaluations: maxEvaluations}
		res, _ := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
		// a hit evaluation limit still leaves a usable best point
		if res != nil && isFinite(res.F) && res.F <= sse {
			x = res.X
			sse = res.F
		}
	}

	if sse >= cssPenalty {
		return nil, false
	}

	c, ar, ma := unpack(x)
	_, residuals := cssResiduals(w, c, ar, ma)

	sigma2 := math.Max(sse/float64(effective), minSigma2)
	logLik := -0.5 * float64(effective) * (math.Log(2*math.Pi*sigma2) + 1)
	aic := -2*logLik + 2*float64(nParams+1)

	return &ArimaModel{
		Order:     order,
		Intercept: c,
		AR:        append([]float64(nil), ar...),
		MA:        append([]float64(nil), ma...),
		Sigma2:    sigma2,
		AIC:       aic,
		diffed:    w,
		residuals: residuals,
	}, true
}

// cssResiduals conditions on the first p values and on zero pre sample errors
func cssResiduals(w []float64, c float64, ar, ma []float64) (float64, []float64) {
	p := len(ar)
	e := make([]float64, len(w))

	var sse float64
	for t := p; t < len(w); t++ {
		pred := c
		for i, phi := range ar {
			pred += phi * w[t-1-i]
		}
		for j, theta := range ma {
			if t-1-j >= 0 {
				pred += theta * e[t-1-j]
			}
		}
		e[t] = w[t] - pred
		if math.Abs(e[t]) > 1e100 {
			return math.Inf(1), e
		}
		sse += e[t] * e[t]
	}

	return sse, e
}

// initialParameters uses ols for the ar part and the intercept, ma terms start at zero
func initialParameters(w []float64, p, q int, intercept bool) []float64 {
	res := make([]float64, 0, p+q+1)
	mean := stat.Mean(w, nil)

	if p == 0 {
		if intercept {
			res = append(res, mean)
		}
		return append(res, make([]float64, q)...)
	}

	rows := len(w) - p
	cols := p
	if intercept {
		cols++
	}

	design := mat.NewDense(rows, cols, nil)
	target := mat.NewVecDense(rows, nil)
	for t := p; t < len(w); t++ {
		r := t - p
		col := 0
		if intercept {
			design.Set(r, 0, 1)
			col = 1
		}
		for i := range p {
			design.Set(r, col+i, w[t-1-i])
		}
		target.SetVec(r, w[t])
	}

	var beta mat.VecDense
	if err := beta.SolveVec(design, target); err != nil || !allFinite(beta.RawVector().Data) {
		if intercept {
			res = append(res, mean)
		}
		return append(res, make([]float64, p+q)...)
	}

	res = append(res, beta.RawVector().Data...)
	return append(res, make([]float64, q)...)
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
