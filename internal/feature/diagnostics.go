package feature

import (
	"math"
	"time"

	"github.com/yourusername/lagcast/internal/dataset"
)

// ADFResult holds the outcome of an augmented Dickey-Fuller test on the
// target return series.
type ADFResult struct {
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	Lags       int     `json:"lags"`
	Stationary bool    `json:"stationary"` // p < 0.05
}

// SeasonalityResult holds mean target returns grouped by calendar buckets.
type SeasonalityResult struct {
	ByWeekday map[time.Weekday]float64 `json:"by_weekday"`
	ByMonth   map[time.Month]float64   `json:"by_month"`
}

// Diagnostics bundles the time-series pattern checks run ahead of modeling.
// All fields are plain data for an external renderer.
type Diagnostics struct {
	ADF             ADFResult         `json:"adf"`
	Autocorrelation []float64         `json:"autocorrelation"` // index 0 = lag 0
	ConfidenceBound float64           `json:"confidence_bound"`
	Seasonality     SeasonalityResult `json:"seasonality"`
}

// Diagnose runs the stationarity, momentum and seasonality checks over the
// aligned records. acfLags bounds the autocorrelation depth.
func Diagnose(records []dataset.AlignedRecord, acfLags int) *Diagnostics {
	returns := chronologicalTargetReturns(records)
	return &Diagnostics{
		ADF:             ADF(returns, adfDefaultLags(len(returns))),
		Autocorrelation: Autocorrelation(returns, acfLags),
		ConfidenceBound: confidenceBound(len(returns)),
		Seasonality:     Seasonality(records),
	}
}

// ADF runs an augmented Dickey-Fuller test with a constant term: the change
// in returns is regressed on the lagged level plus maxLag lagged changes,
// and the lagged-level t-statistic is compared against the Dickey-Fuller
// distribution. The p-value is interpolated from tabulated critical values,
// so it is approximate between table points.
func ADF(series []float64, maxLag int) ADFResult {
	n := len(series)
	if maxLag < 0 {
		maxLag = 0
	}
	rows := n - maxLag - 1
	if rows < maxLag+3 {
		// Not enough observations to estimate the regression.
		return ADFResult{Statistic: math.NaN(), PValue: math.NaN(), Lags: maxLag}
	}

	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = series[i] - series[i-1]
	}

	// Design: [1, level_{t-1}, ddiff_{t-1} ... ddiff_{t-maxLag}]
	cols := 2 + maxLag
	x := make([][]float64, rows)
	y := make([]float64, rows)
	for t := 0; t < rows; t++ {
		base := t + maxLag
		row := make([]float64, cols)
		row[0] = 1
		row[1] = series[base]
		for j := 1; j <= maxLag; j++ {
			row[1+j] = diff[base-j]
		}
		x[t] = row
		y[t] = diff[base]
	}

	beta, se, ok := olsWithStdErr(x, y, 1)
	if !ok || se == 0 {
		return ADFResult{Statistic: math.NaN(), PValue: math.NaN(), Lags: maxLag}
	}
	stat := beta / se
	p := adfPValue(stat)
	return ADFResult{Statistic: stat, PValue: p, Lags: maxLag, Stationary: p < 0.05}
}

// Autocorrelation returns the sample autocorrelation function up to maxLag,
// including lag 0.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	denom := 0.0
	for _, v := range series {
		d := v - mean
		denom += d * d
	}

	acf := make([]float64, maxLag+1)
	acf[0] = 1
	if denom == 0 {
		return acf
	}
	for k := 1; k <= maxLag; k++ {
		num := 0.0
		for t := k; t < n; t++ {
			num += (series[t] - mean) * (series[t-k] - mean)
		}
		acf[k] = num / denom
	}
	return acf
}

// Seasonality computes mean target returns by weekday and by month.
func Seasonality(records []dataset.AlignedRecord) SeasonalityResult {
	weekdaySum := make(map[time.Weekday]float64)
	weekdayCount := make(map[time.Weekday]int)
	monthSum := make(map[time.Month]float64)
	monthCount := make(map[time.Month]int)
	for _, r := range records {
		wd := r.Date.Weekday()
		weekdaySum[wd] += r.TargetReturn
		weekdayCount[wd]++
		m := r.Date.Month()
		monthSum[m] += r.TargetReturn
		monthCount[m]++
	}

	result := SeasonalityResult{
		ByWeekday: make(map[time.Weekday]float64, len(weekdaySum)),
		ByMonth:   make(map[time.Month]float64, len(monthSum)),
	}
	for wd, sum := range weekdaySum {
		result.ByWeekday[wd] = sum / float64(weekdayCount[wd])
	}
	for m, sum := range monthSum {
		result.ByMonth[m] = sum / float64(monthCount[m])
	}
	return result
}

func chronologicalTargetReturns(records []dataset.AlignedRecord) []float64 {
	n := len(records)
	returns := make([]float64, n)
	for i, r := range records {
		// Records arrive most recent first; diagnostics run oldest first.
		returns[n-1-i] = r.TargetReturn
	}
	return returns
}

// adfDefaultLags follows the 12*(n/100)^{1/4} Schwert rule.
func adfDefaultLags(n int) int {
	if n == 0 {
		return 0
	}
	lags := int(math.Floor(12 * math.Pow(float64(n)/100, 0.25)))
	if lags >= n/2 {
		lags = n/2 - 1
	}
	if lags < 0 {
		lags = 0
	}
	return lags
}

func confidenceBound(n int) float64 {
	if n == 0 {
		return 0
	}
	return 1.96 / math.Sqrt(float64(n))
}

// Dickey-Fuller critical values for the constant-only case (large sample),
// paired with their significance levels.
var adfTable = []struct {
	p    float64
	crit float64
}{
	{0.01, -3.43},
	{0.025, -3.12},
	{0.05, -2.86},
	{0.10, -2.57},
	{0.50, -0.44},
	{0.90, 0.60},
	{0.99, 2.03},
}

func adfPValue(stat float64) float64 {
	if math.IsNaN(stat) {
		return math.NaN()
	}
	if stat <= adfTable[0].crit {
		return adfTable[0].p
	}
	last := adfTable[len(adfTable)-1]
	if stat >= last.crit {
		return last.p
	}
	for i := 1; i < len(adfTable); i++ {
		lo, hi := adfTable[i-1], adfTable[i]
		if stat <= hi.crit {
			frac := (stat - lo.crit) / (hi.crit - lo.crit)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return last.p
}

// olsWithStdErr solves the least-squares regression and returns the
// coefficient and standard error for the column of interest.
func olsWithStdErr(x [][]float64, y []float64, col int) (coef, stderr float64, ok bool) {
	rows := len(x)
	if rows == 0 {
		return 0, 0, false
	}
	cols := len(x[0])
	if rows <= cols {
		return 0, 0, false
	}

	// Normal equations: (X'X) b = X'y
	xtx := make([][]float64, cols)
	for i := range xtx {
		xtx[i] = make([]float64, cols)
	}
	xty := make([]float64, cols)
	for r := 0; r < rows; r++ {
		for i := 0; i < cols; i++ {
			xty[i] += x[r][i] * y[r]
			for j := 0; j < cols; j++ {
				xtx[i][j] += x[r][i] * x[r][j]
			}
		}
	}

	inv, invOK := invertMatrix(xtx)
	if !invOK {
		return 0, 0, false
	}
	beta := make([]float64, cols)
	for i := 0; i < cols; i++ {
		for j := 0; j < cols; j++ {
			beta[i] += inv[i][j] * xty[j]
		}
	}

	rss := 0.0
	for r := 0; r < rows; r++ {
		fitted := 0.0
		for i := 0; i < cols; i++ {
			fitted += x[r][i] * beta[i]
		}
		resid := y[r] - fitted
		rss += resid * resid
	}
	sigma2 := rss / float64(rows-cols)
	variance := sigma2 * inv[col][col]
	if variance < 0 {
		return 0, 0, false
	}
	return beta[col], math.Sqrt(variance), true
}

// invertMatrix inverts a small symmetric matrix by Gauss-Jordan elimination
// with partial pivoting.
func invertMatrix(m [][]float64) ([][]float64, bool) {
	n := len(m)
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], m[i])
		aug[i][n+i] = 1
	}
	for c := 0; c < n; c++ {
		pivot := c
		for r := c + 1; r < n; r++ {
			if math.Abs(aug[r][c]) > math.Abs(aug[pivot][c]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][c]) < 1e-12 {
			return nil, false
		}
		aug[c], aug[pivot] = aug[pivot], aug[c]
		scale := aug[c][c]
		for j := 0; j < 2*n; j++ {
			aug[c][j] /= scale
		}
		for r := 0; r < n; r++ {
			if r == c {
				continue
			}
			factor := aug[r][c]
			for j := 0; j < 2*n; j++ {
				aug[r][j] -= factor * aug[c][j]
			}
		}
	}
	inv := make([][]float64, n)
	for i := 0; i < n; i++ {
		inv[i] = aug[i][n:]
	}
	return inv, true
}
