// Package technical computes trading-signal indicators (RSI, MACD, moving
// averages, Bollinger Bands, stochastic oscillator, volume confirmation)
// over a daily close-price series, oldest first. Each indicator yields a
// 0-100 score and a signal; indicators with too little history report a nil
// value and a neutral score of 50 so that aggregation stays well-defined.
package technical

import (
	"fmt"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
	"github.com/lankastocks/cse-analyzer/pkg/formulas"
)

// Default indicator periods, matching common charting conventions.
const (
	DefaultRSIPeriod  = 14
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
	DefaultShortMA    = 50
	DefaultLongMA     = 200
	DefaultBBPeriod   = 20
	DefaultBBStdDev   = 2.0
	DefaultStochK     = 14
	DefaultStochD     = 3
)

// Volume ratio bands separating high-conviction, normal and weak reads.
const (
	highVolumeRatio = 1.5
	lowVolumeRatio  = 0.7
)

// RSIResult is the relative strength index reading.
type RSIResult struct {
	RSI            *float64 `json:"rsi"`
	Score          float64  `json:"score"`
	Signal         string   `json:"signal"`
	Interpretation string   `json:"interpretation"`
	Recommendation string   `json:"recommendation"`
}

// MACDResult is the moving average convergence divergence reading.
type MACDResult struct {
	MACD           *float64 `json:"macd"`
	SignalLine     *float64 `json:"signal_line"`
	Histogram      *float64 `json:"histogram"`
	Score          float64  `json:"score"`
	Signal         string   `json:"signal"`
	Interpretation string   `json:"interpretation"`
	Recommendation string   `json:"recommendation"`
}

// MAResult is the moving average trend reading, including golden/death cross
// detection when both windows are available.
type MAResult struct {
	CurrentPrice   float64  `json:"current_price"`
	ShortMA        *float64 `json:"short_ma"`
	LongMA         *float64 `json:"long_ma"`
	Score          float64  `json:"score"`
	Signal         string   `json:"signal"`
	Interpretation string   `json:"interpretation"`
	Recommendation string   `json:"recommendation"`
}

// BollingerResult is the Bollinger Band position reading.
type BollingerResult struct {
	Upper          *float64 `json:"upper"`
	Middle         *float64 `json:"middle"`
	Lower          *float64 `json:"lower"`
	Score          float64  `json:"score"`
	Signal         string   `json:"signal"`
	Interpretation string   `json:"interpretation"`
	Recommendation string   `json:"recommendation"`
}

// StochasticResult is the stochastic oscillator reading.
type StochasticResult struct {
	K              *float64 `json:"k"`
	D              *float64 `json:"d"`
	Score          float64  `json:"score"`
	Signal         string   `json:"signal"`
	Interpretation string   `json:"interpretation"`
	Recommendation string   `json:"recommendation"`
}

// VolumeResult is the volume confirmation reading.
type VolumeResult struct {
	AverageVolume  *float64 `json:"average_volume"`
	CurrentVolume  *float64 `json:"current_volume"`
	VolumeRatio    *float64 `json:"volume_ratio"`
	VolumeTrend    string   `json:"volume_trend"`
	Score          float64  `json:"score"`
	Interpretation string   `json:"interpretation"`
	Recommendation string   `json:"recommendation"`
}

// Result is the comprehensive technical analysis output. Volume is nil when
// no matching volume series was supplied.
type Result struct {
	RSI                   RSIResult        `json:"rsi"`
	MACD                  MACDResult       `json:"macd"`
	MovingAverages        MAResult         `json:"moving_averages"`
	Bollinger             BollingerResult  `json:"bollinger_bands"`
	Stochastic            StochasticResult `json:"stochastic"`
	Volume                *VolumeResult    `json:"volume,omitempty"`
	OverallScore          float64          `json:"overall_score"`
	OverallSignal         string           `json:"overall_signal"`
	OverallRecommendation string           `json:"overall_recommendation"`
	IndicatorsAnalyzed    int              `json:"indicators_analyzed"`
}

// Analyzer computes technical indicators. Stateless apart from the injected
// read-only configuration.
type Analyzer struct {
	thresholds config.Thresholds
}

// New creates a technical analyzer bound to an analysis configuration.
func New(cfg *config.Analysis) *Analyzer {
	return &Analyzer{thresholds: cfg.Thresholds}
}

// RSI computes the relative strength index and maps it to the configured
// oversold/overbought bands.
func (a *Analyzer) RSI(prices []float64, period int) RSIResult {
	value := formulas.RSI(prices, period)
	if value == nil {
		return RSIResult{
			Score:          50,
			Signal:         "NEUTRAL",
			Interpretation: fmt.Sprintf("Insufficient data (need at least %d prices)", period+1),
			Recommendation: "N/A",
		}
	}

	t := a.thresholds.RSI
	var r RSIResult
	switch {
	case *value <= t.Oversold:
		r = RSIResult{Score: 90, Signal: "STRONG BUY", Interpretation: "Oversold - potential buying opportunity", Recommendation: "BUY - Stock may be undervalued"}
	case *value <= t.NeutralLow:
		r = RSIResult{Score: 75, Signal: "BUY", Interpretation: "Below neutral - bullish territory", Recommendation: "Consider buying"}
	case *value <= t.NeutralHigh:
		r = RSIResult{Score: 60, Signal: "NEUTRAL", Interpretation: "Neutral territory", Recommendation: "HOLD - Monitor for signals"}
	case *value <= t.Overbought:
		r = RSIResult{Score: 40, Signal: "SELL", Interpretation: "Above neutral - bearish territory", Recommendation: "Consider selling"}
	default:
		r = RSIResult{Score: 20, Signal: "STRONG SELL", Interpretation: "Overbought - potential selling opportunity", Recommendation: "SELL - Stock may be overvalued"}
	}
	r.RSI = value
	return r
}

// MACD computes the MACD line, signal line and histogram and classifies the
// signal by histogram sign and zero crossing.
func (a *Analyzer) MACD(prices []float64, fast, slow, signal int) MACDResult {
	macdLine, signalLine, histogram := formulas.MACD(prices, fast, slow, signal)
	if macdLine == nil {
		return MACDResult{
			Score:          50,
			Signal:         "NEUTRAL",
			Interpretation: fmt.Sprintf("Insufficient data (need at least %d prices)", slow+signal),
			Recommendation: "N/A",
		}
	}

	cur := histogram[len(histogram)-1]
	m := macdLine[len(macdLine)-1]
	s := signalLine[len(signalLine)-1]

	var r MACDResult
	if len(histogram) > 1 {
		prev := histogram[len(histogram)-2]
		switch {
		case cur > 0 && prev <= 0:
			r = MACDResult{Score: 85, Signal: "STRONG BUY", Interpretation: "Bullish crossover - MACD crossed above signal line", Recommendation: "BUY - Strong buy signal"}
		case cur < 0 && prev >= 0:
			r = MACDResult{Score: 25, Signal: "STRONG SELL", Interpretation: "Bearish crossover - MACD crossed below signal line", Recommendation: "SELL - Strong sell signal"}
		case cur > 0:
			r = MACDResult{Score: 70, Signal: "BUY", Interpretation: "MACD above signal line - bullish momentum", Recommendation: "HOLD/BUY - Positive momentum"}
		default:
			r = MACDResult{Score: 40, Signal: "SELL", Interpretation: "MACD below signal line - bearish momentum", Recommendation: "HOLD/SELL - Negative momentum"}
		}
	} else {
		// No prior bar to check a crossover against; fall back to the
		// histogram sign with softer scores.
		if cur > 0 {
			r = MACDResult{Score: 65, Signal: "BUY", Interpretation: "MACD above signal line", Recommendation: "Positive momentum"}
		} else {
			r = MACDResult{Score: 45, Signal: "SELL", Interpretation: "MACD below signal line", Recommendation: "Negative momentum"}
		}
	}
	r.MACD = &m
	r.SignalLine = &s
	r.Histogram = &cur
	return r
}

// MovingAverages computes the short and long simple moving averages,
// detects golden/death crosses by comparing against the one-bar-prior
// relationship, and classifies the trend.
func (a *Analyzer) MovingAverages(prices []float64, shortPeriod, longPeriod int) MAResult {
	currentPrice := prices[len(prices)-1]

	r := MAResult{
		CurrentPrice:   currentPrice,
		Score:          50,
		Signal:         "NEUTRAL",
		Recommendation: "N/A",
	}

	r.ShortMA = formulas.SMA(prices, shortPeriod)
	r.LongMA = formulas.SMA(prices, longPeriod)

	switch {
	case r.ShortMA != nil && r.LongMA != nil:
		if *r.ShortMA > *r.LongMA {
			if len(prices) >= longPeriod+1 {
				prevShort := formulas.SMA(prices[:len(prices)-1], shortPeriod)
				prevLong := formulas.SMA(prices[:len(prices)-1], longPeriod)
				if prevShort != nil && prevLong != nil && *prevShort <= *prevLong {
					r.Score = 95
					r.Signal = "GOLDEN CROSS"
					r.Interpretation = fmt.Sprintf("Golden Cross - Strong bullish signal! %d-MA crossed above %d-MA", shortPeriod, longPeriod)
					r.Recommendation = "STRONG BUY"
					return r
				}
			}
			r.Score = 80
			r.Signal = "BULLISH"
			r.Interpretation = fmt.Sprintf("Bullish trend - Price and %d-MA above %d-MA", shortPeriod, longPeriod)
			r.Recommendation = "BUY - Strong uptrend"
		} else if *r.ShortMA < *r.LongMA {
			if len(prices) >= longPeriod+1 {
				prevShort := formulas.SMA(prices[:len(prices)-1], shortPeriod)
				prevLong := formulas.SMA(prices[:len(prices)-1], longPeriod)
				if prevShort != nil && prevLong != nil && *prevShort >= *prevLong {
					r.Score = 15
					r.Signal = "DEATH CROSS"
					r.Interpretation = fmt.Sprintf("Death Cross - Strong bearish signal! %d-MA crossed below %d-MA", shortPeriod, longPeriod)
					r.Recommendation = "STRONG SELL"
					return r
				}
			}
			r.Score = 30
			r.Signal = "BEARISH"
			r.Interpretation = fmt.Sprintf("Bearish trend - %d-MA below %d-MA", shortPeriod, longPeriod)
			r.Recommendation = "SELL - Downtrend"
		}

	case r.ShortMA != nil:
		// Only the short window has filled; compare price to it for a
		// softer call.
		if currentPrice > *r.ShortMA {
			r.Score = 65
			r.Signal = "BULLISH"
			r.Interpretation = fmt.Sprintf("Price above %d-day MA - short-term uptrend", shortPeriod)
			r.Recommendation = "BUY - Positive short-term momentum"
		} else {
			r.Score = 45
			r.Signal = "BEARISH"
			r.Interpretation = fmt.Sprintf("Price below %d-day MA - short-term downtrend", shortPeriod)
			r.Recommendation = "SELL - Negative short-term momentum"
		}

	default:
		r.Interpretation = fmt.Sprintf("Insufficient data for moving averages (need %d+ prices)", shortPeriod)
	}

	return r
}

// BollingerBands computes the bands and classifies the current price
// position relative to them.
func (a *Analyzer) BollingerBands(prices []float64, period int, numStd float64) BollingerResult {
	upper, middle, lower := formulas.BollingerBands(prices, period, numStd)
	if upper == nil {
		return BollingerResult{
			Score:          50,
			Signal:         "NEUTRAL",
			Interpretation: fmt.Sprintf("Insufficient data (need at least %d prices)", period),
			Recommendation: "N/A",
		}
	}

	price := prices[len(prices)-1]

	var r BollingerResult
	switch {
	case price >= *upper:
		r = BollingerResult{Score: 30, Signal: "SELL", Interpretation: "Price at or above upper band - overbought", Recommendation: "Consider selling - extended above average"}
	case price <= *lower:
		r = BollingerResult{Score: 80, Signal: "BUY", Interpretation: "Price at or below lower band - oversold", Recommendation: "Consider buying - extended below average"}
	case price > *middle:
		r = BollingerResult{Score: 60, Signal: "NEUTRAL", Interpretation: "Price in upper half of bands - mild bullish bias", Recommendation: "HOLD - Monitor for band touch"}
	default:
		r = BollingerResult{Score: 40, Signal: "NEUTRAL", Interpretation: "Price in lower half of bands - mild bearish bias", Recommendation: "HOLD - Monitor for band touch"}
	}
	r.Upper = upper
	r.Middle = middle
	r.Lower = lower
	return r
}

// Stochastic computes %K and %D and classifies the oversold/overbought
// position. Close prices stand in for true highs and lows, a known
// approximation when only a close series is available.
func (a *Analyzer) Stochastic(prices []float64, kPeriod, dPeriod int) StochasticResult {
	k, d := formulas.Stochastic(prices, prices, prices, kPeriod, dPeriod)
	if k == nil || d == nil {
		return StochasticResult{
			Score:          50,
			Signal:         "NEUTRAL",
			Interpretation: fmt.Sprintf("Insufficient data (need at least %d prices)", kPeriod+dPeriod-1),
			Recommendation: "N/A",
		}
	}

	var r StochasticResult
	switch {
	case *k < 20 && *d < 20:
		r = StochasticResult{Score: 85, Signal: "STRONG BUY", Interpretation: "Both %K and %D oversold", Recommendation: "BUY - Deep oversold territory"}
	case *k > 80 && *d > 80:
		r = StochasticResult{Score: 25, Signal: "STRONG SELL", Interpretation: "Both %K and %D overbought", Recommendation: "SELL - Deep overbought territory"}
	case *k > *d:
		r = StochasticResult{Score: 65, Signal: "BUY", Interpretation: "%K above %D - bullish momentum", Recommendation: "Consider buying"}
	default:
		r = StochasticResult{Score: 45, Signal: "SELL", Interpretation: "%K below %D - bearish momentum", Recommendation: "Consider selling"}
	}
	r.K = k
	r.D = d
	return r
}

// VolumeAnalysis reads the latest volume against the mean of the prior
// volumes to confirm or discount the latest price move.
func (a *Analyzer) VolumeAnalysis(prices, volumes []float64) VolumeResult {
	if len(prices) != len(volumes) || len(prices) < 2 {
		return VolumeResult{
			VolumeTrend:    "N/A",
			Score:          50,
			Interpretation: "Insufficient volume data",
			Recommendation: "N/A",
		}
	}

	currentVolume := volumes[len(volumes)-1]
	avgVolume := formulas.Mean(volumes[:len(volumes)-1])

	priceChange := prices[len(prices)-1] - prices[len(prices)-2]

	volumeRatio := 1.0
	if avgVolume > 0 {
		volumeRatio = currentVolume / avgVolume
	}

	var r VolumeResult
	switch {
	case volumeRatio > highVolumeRatio:
		switch {
		case priceChange > 0:
			r = VolumeResult{Score: 85, Interpretation: "Strong buying pressure - price rising on high volume", Recommendation: "BUY - Strong confirmation", VolumeTrend: "High volume supporting uptrend"}
		case priceChange < 0:
			r = VolumeResult{Score: 25, Interpretation: "Strong selling pressure - price falling on high volume", Recommendation: "SELL - Strong confirmation", VolumeTrend: "High volume supporting downtrend"}
		default:
			r = VolumeResult{Score: 50, Interpretation: "High volume without clear direction", Recommendation: "WAIT - Watch for direction", VolumeTrend: "High volume, price indecisive"}
		}
	case volumeRatio < lowVolumeRatio:
		switch {
		case priceChange > 0:
			r = VolumeResult{Score: 60, Interpretation: "Price rising but on low volume - weak conviction", Recommendation: "CAUTION - Uptrend not well supported", VolumeTrend: "Low volume, weak uptrend"}
		case priceChange < 0:
			r = VolumeResult{Score: 55, Interpretation: "Price falling on low volume - weak selling", Recommendation: "HOLD - Downtrend not well supported", VolumeTrend: "Low volume, weak downtrend"}
		default:
			r = VolumeResult{Score: 50, Interpretation: "Low volume consolidation", Recommendation: "WAIT - Awaiting breakout", VolumeTrend: "Low volume, consolidating"}
		}
	default:
		switch {
		case priceChange > 0:
			r = VolumeResult{Score: 70, Interpretation: "Price rising on average volume", Recommendation: "BUY - Normal uptrend", VolumeTrend: "Average volume uptrend"}
		case priceChange < 0:
			r = VolumeResult{Score: 40, Interpretation: "Price falling on average volume", Recommendation: "SELL - Normal downtrend", VolumeTrend: "Average volume downtrend"}
		default:
			r = VolumeResult{Score: 50, Interpretation: "Sideways movement on average volume", Recommendation: "HOLD - No clear signal", VolumeTrend: "Average volume, range-bound"}
		}
	}
	r.AverageVolume = &avgVolume
	r.CurrentVolume = &currentVolume
	r.VolumeRatio = &volumeRatio
	return r
}

// ComprehensiveAnalysis runs every indicator over the price series and
// aggregates the scores to an overall signal. Volume analysis runs only
// when a volume series of matching length is supplied. The price series
// must be non-empty.
func (a *Analyzer) ComprehensiveAnalysis(prices, volumes []float64) (*Result, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: price series is empty", domain.ErrInvalidInput)
	}

	result := &Result{
		RSI:            a.RSI(prices, DefaultRSIPeriod),
		MACD:           a.MACD(prices, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal),
		MovingAverages: a.MovingAverages(prices, DefaultShortMA, DefaultLongMA),
		Bollinger:      a.BollingerBands(prices, DefaultBBPeriod, DefaultBBStdDev),
		Stochastic:     a.Stochastic(prices, DefaultStochK, DefaultStochD),
	}

	scores := []float64{
		result.RSI.Score,
		result.MACD.Score,
		result.MovingAverages.Score,
		result.Bollinger.Score,
		result.Stochastic.Score,
	}
	count := 5

	if volumes != nil && len(volumes) == len(prices) {
		volume := a.VolumeAnalysis(prices, volumes)
		result.Volume = &volume
		scores = append(scores, volume.Score)
		count++
	}

	result.OverallScore = formulas.Mean(scores)
	result.IndicatorsAnalyzed = count

	switch {
	case result.OverallScore >= 80:
		result.OverallSignal = "STRONG BUY"
		result.OverallRecommendation = "Strong technical buy signals"
	case result.OverallScore >= 65:
		result.OverallSignal = "BUY"
		result.OverallRecommendation = "Positive technical indicators"
	case result.OverallScore >= 50:
		result.OverallSignal = "HOLD"
		result.OverallRecommendation = "Mixed technical signals"
	case result.OverallScore >= 35:
		result.OverallSignal = "SELL"
		result.OverallRecommendation = "Negative technical indicators"
	default:
		result.OverallSignal = "STRONG SELL"
		result.OverallRecommendation = "Strong technical sell signals"
	}

	return result, nil
}
