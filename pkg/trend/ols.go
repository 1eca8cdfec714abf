package trend

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Point is one year of the annual proportion series.
type Point struct {
	Year  int
	Value float64
}

// Options tunes the fit. Zero values fall back to the defaults.
type Options struct {
	// SignificanceLevel is the alpha for the significance verdict and the
	// confidence interval. Default 0.05.
	SignificanceLevel float64
	// OutlierThreshold flags points whose standardized residual exceeds
	// it in magnitude. Default 2.0.
	OutlierThreshold float64
}

func (o Options) withDefaults() Options {
	if o.SignificanceLevel <= 0 || o.SignificanceLevel >= 1 {
		o.SignificanceLevel = 0.05
	}
	if o.OutlierThreshold <= 0 {
		o.OutlierThreshold = 2.0
	}
	return o
}

// Autocorrelation verdicts from the Durbin-Watson statistic.
const (
	AutocorrPositive = "positive"
	AutocorrNegative = "negative"
	AutocorrNone     = "none"
)

// Result is the fitted linear trend with its diagnostics.
type Result struct {
	N               int     `json:"n"`
	Alpha           float64 `json:"alpha"`
	Slope           float64 `json:"slope"`
	Intercept       float64 `json:"intercept"`
	Correlation     float64 `json:"correlation"`
	RSquared        float64 `json:"rSquared"`
	PValue          float64 `json:"pValue"`
	StdError        float64 `json:"stdError"`
	CILow           float64 `json:"ciLow"`
	CIHigh          float64 `json:"ciHigh"`
	DurbinWatson    float64 `json:"durbinWatson"`
	Autocorrelation string  `json:"autocorrelation"`
	OutlierYears    []int   `json:"outlierYears,omitempty"`
	Direction       string  `json:"direction"`
	Significant     bool    `json:"significant"`
}

// TooFewPointsError is returned when the series cannot support a
// two-parameter fit with a residual degree of freedom.
type TooFewPointsError struct {
	Got int
}

func (e *TooFewPointsError) Error() string {
	return fmt.Sprintf("trend estimation needs at least 3 points, got %d", e.Got)
}

// Fit runs ordinary least squares of the series value on the calendar
// year and derives significance and diagnostics: two-sided p-value and
// confidence interval for the slope from the Student-t distribution with
// n-2 degrees of freedom, the Durbin-Watson statistic on residuals, and
// outlier years by standardized residual.
func Fit(points []Point, opts Options) (*Result, error) {
	if len(points) < 3 {
		return nil, &TooFewPointsError{Got: len(points)}
	}
	opts = opts.withDefaults()

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	n := len(sorted)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range sorted {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	corr := stat.Correlation(xs, ys, nil)
	if math.IsNaN(corr) {
		// Constant series have zero y-variance and no measurable linear
		// association; keep the result finite so it stays serializable.
		corr = 0
	}

	residuals := make([]float64, n)
	sse := 0.0
	for i := range xs {
		residuals[i] = ys[i] - (intercept + slope*xs[i])
		sse += residuals[i] * residuals[i]
	}

	meanX := stat.Mean(xs, nil)
	sxx := 0.0
	for _, x := range xs {
		d := x - meanX
		sxx += d * d
	}

	dof := float64(n - 2)
	stdErr := math.Sqrt(sse / dof / sxx)

	// A zero standard error means the fit is exact: a nonzero slope is then
	// certain, and a zero slope is certainly absent.
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	pValue := 1.0
	switch {
	case stdErr > 0:
		t := slope / stdErr
		pValue = 2 * dist.CDF(-math.Abs(t))
	case slope != 0:
		pValue = 0
	}
	tCrit := dist.Quantile(1 - opts.SignificanceLevel/2)

	res := &Result{
		N:            n,
		Alpha:        opts.SignificanceLevel,
		Slope:        slope,
		Intercept:    intercept,
		Correlation:  corr,
		RSquared:     corr * corr,
		PValue:       pValue,
		StdError:     stdErr,
		CILow:        slope - tCrit*stdErr,
		CIHigh:       slope + tCrit*stdErr,
		DurbinWatson: durbinWatson(residuals),
		OutlierYears: outlierYears(sorted, residuals, sse, dof, opts.OutlierThreshold),
		Significant:  pValue < opts.SignificanceLevel,
	}
	res.Autocorrelation = classifyAutocorrelation(res.DurbinWatson)
	switch {
	case slope > 0:
		res.Direction = "increasing"
	case slope < 0:
		res.Direction = "decreasing"
	default:
		res.Direction = "flat"
	}
	return res, nil
}

// durbinWatson computes sum of squared successive residual differences
// over the residual sum of squares. Values near 2 indicate independent
// residuals.
func durbinWatson(residuals []float64) float64 {
	num, den := 0.0, 0.0
	for i, e := range residuals {
		den += e * e
		if i > 0 {
			d := e - residuals[i-1]
			num += d * d
		}
	}
	if den == 0 {
		return 2
	}
	return num / den
}

func classifyAutocorrelation(dw float64) string {
	switch {
	case dw < 1.5:
		return AutocorrPositive
	case dw > 2.5:
		return AutocorrNegative
	default:
		return AutocorrNone
	}
}

// outlierYears flags points whose residual, scaled by the residual
// standard deviation, exceeds the threshold in magnitude.
func outlierYears(points []Point, residuals []float64, sse, dof, threshold float64) []int {
	sd := math.Sqrt(sse / dof)
	if sd < 1e-12 {
		// Residuals are numerical noise; a perfect fit has no outliers.
		return nil
	}
	var years []int
	for i, e := range residuals {
		if math.Abs(e/sd) > threshold {
			years = append(years, points[i].Year)
		}
	}
	return years
}
