package formulas

import (
	"github.com/markcheno/go-talib"
)

// SMA calculates the simple moving average over the trailing window.
// Returns nil when fewer than period prices are available.
func SMA(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}

	sma := talib.Sma(closes, period)
	result := sma[len(sma)-1]
	return &result
}

// EMA calculates a recursive exponential moving average series with
// smoothing factor 2/(span+1), seeded directly from the first value with no
// bias adjustment. Returns a series of the same length as the input, or nil
// for empty input.
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}

	alpha := 2.0 / (float64(span) + 1.0)
	ema := make([]float64, len(values))
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
	}
	return ema
}

// MACD calculates the Moving Average Convergence Divergence series.
//
//	MACD line  = EMA(fast) - EMA(slow)
//	Signal     = EMA(MACD line, signal span)
//	Histogram  = MACD line - Signal
//
// Returns nil slices when fewer than slow+signal prices are available.
func MACD(closes []float64, fast, slow, signal int) (macdLine, signalLine, histogram []float64) {
	if len(closes) < slow+signal {
		return nil, nil, nil
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	macdLine = make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}

	signalLine = EMA(macdLine, signal)

	histogram = make([]float64, len(closes))
	for i := range closes {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return macdLine, signalLine, histogram
}

// BollingerBands calculates the current Bollinger Bands: middle band is the
// period SMA, upper/lower are numStd standard deviations away. Returns nils
// when fewer than period prices are available.
func BollingerBands(closes []float64, period int, numStd float64) (upper, middle, lower *float64) {
	if len(closes) < period {
		return nil, nil, nil
	}

	up, mid, low := talib.BBands(closes, period, numStd, numStd, talib.SMA)

	u, m, l := up[len(up)-1], mid[len(mid)-1], low[len(low)-1]
	if isNaN(u) || isNaN(m) || isNaN(l) {
		return nil, nil, nil
	}
	return &u, &m, &l
}

// Stochastic calculates the current %K and %D of the stochastic oscillator.
// Highs and lows are taken from the close series itself when no true
// high/low series exists; %D is a dPeriod SMA of %K. Returns nils while the
// rolling windows have not filled or the window is flat (undefined %K).
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d *float64) {
	if len(closes) < kPeriod+dPeriod-1 {
		return nil, nil
	}

	slowK, slowD := talib.Stoch(highs, lows, closes, kPeriod, 1, talib.SMA, dPeriod, talib.SMA)

	kv, dv := slowK[len(slowK)-1], slowD[len(slowD)-1]
	if isNaN(kv) || isNaN(dv) {
		return nil, nil
	}
	return &kv, &dv
}
