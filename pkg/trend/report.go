package trend

import (
	"fmt"
	"strings"
)

// Report renders the fitted trend as the human-readable summary attached
// to a run: equation, slope, significance test, fit quality, confidence
// interval, diagnostics, and the overall verdict.
func Report(res *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Government-wide reappointment trend (%d years)\n", res.N)
	b.WriteString(strings.Repeat("-", 48) + "\n")
	fmt.Fprintf(&b, "Regression equation: proportion = %.6f + %.6f * year\n", res.Intercept, res.Slope)
	fmt.Fprintf(&b, "Slope:               %+.6f per year (%+.3f pct pts/year)\n", res.Slope, res.Slope*100)
	fmt.Fprintf(&b, "Std error of slope:  %.6f\n", res.StdError)
	fmt.Fprintf(&b, "%.0f%% CI for slope:    [%.6f, %.6f]\n", (1-res.Alpha)*100, res.CILow, res.CIHigh)
	fmt.Fprintf(&b, "Correlation (r):     %.4f\n", res.Correlation)
	fmt.Fprintf(&b, "R-squared:           %.4f\n", res.RSquared)
	fmt.Fprintf(&b, "P-value (slope=0):   %.6f\n", res.PValue)
	fmt.Fprintf(&b, "Durbin-Watson:       %.3f (%s autocorrelation)\n", res.DurbinWatson, res.Autocorrelation)

	if len(res.OutlierYears) > 0 {
		fmt.Fprintf(&b, "Outlier years:       %v\n", res.OutlierYears)
	} else {
		b.WriteString("Outlier years:       none\n")
	}

	verdict := "NOT statistically significant"
	if res.Significant {
		verdict = "statistically significant"
	}
	fmt.Fprintf(&b, "\nVerdict: the trend is %s and %s (p %s %.2f).\n",
		res.Direction, verdict, comparator(res.Significant), res.Alpha)

	return b.String()
}

func comparator(significant bool) string {
	if significant {
		return "<"
	}
	return ">="
}
