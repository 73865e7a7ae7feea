// Package forecast projects future defect inflow and outflow from the
// derived weekly history
package forecast

import (
	"math"

	"defectwatch/internal/core/weekly"
	perr "defectwatch/internal/platform/errors"
)

// Method selects the trend model. The set is closed: exactly two methods
// are supported, dispatched by Project
type Method uint8

const (
	// MethodMovingAverage repeats the mean of the trailing window
	MethodMovingAverage Method = iota
	// MethodLinear fits an ordinary least-squares line over full history
	MethodLinear
)

// String returns the config-facing method name
func (m Method) String() string {
	switch m {
	case MethodMovingAverage:
		return "moving_average"
	case MethodLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// ParseMethod maps a config method name onto a Method
func ParseMethod(s string) (Method, error) {
	switch s {
	case "moving_average":
		return MethodMovingAverage, nil
	case "linear":
		return MethodLinear, nil
	default:
		return 0, perr.InvalidConfigf("unsupported forecast method %q", s)
	}
}

// Params configure a projection. Window applies to the moving average only
type Params struct {
	Method  Method
	Horizon int
	Window  int
}

// Point is one forecast week. Week is the 1-based offset past the last
// historical week
type Point struct {
	Week    int
	Inflow  float64
	Outflow float64
}

// SeverityBreakdown splits predicted inflow by severity, derived from the
// recent historical severity mix
type SeverityBreakdown struct {
	Critical float64
	High     float64
	Medium   float64
	Low      float64
}

// Result is the immutable projection output
type Result struct {
	Method   Method
	Horizon  int
	Points   []Point
	Severity SeverityBreakdown
}

// severityMixWeeks bounds how much history feeds the severity mix
const severityMixWeeks = 10

// Project produces Horizon future (inflow, outflow) pairs from the history.
// The two series are forecast independently. Negative projections are
// clamped to zero, a defect count cannot go below empty.
//
// The moving average uses a flat-repeat policy: every horizon week receives
// the single mean of the trailing Window values (all values when fewer than
// Window weeks exist). It deliberately does not chain projected weeks back
// into the window
func Project(hist []weekly.DerivedRecord, p Params) (Result, error) {
	if p.Horizon < 1 {
		return Result{}, perr.InvalidArgf("horizon must be positive, got %d", p.Horizon)
	}
	if len(hist) == 0 {
		return Result{}, perr.InsufficientDataf("no historical weeks to forecast from")
	}

	inflow := make([]float64, len(hist))
	outflow := make([]float64, len(hist))
	for i, d := range hist {
		inflow[i] = float64(d.InflowTotal)
		outflow[i] = float64(d.OutflowTotal)
	}

	res := Result{Method: p.Method, Horizon: p.Horizon, Points: make([]Point, p.Horizon)}

	switch p.Method {
	case MethodMovingAverage:
		if p.Window < 1 {
			return Result{}, perr.InvalidArgf("moving average window must be positive, got %d", p.Window)
		}
		in := clamp(tailMean(inflow, p.Window))
		out := clamp(tailMean(outflow, p.Window))
		for h := 1; h <= p.Horizon; h++ {
			res.Points[h-1] = Point{Week: h, Inflow: in, Outflow: out}
		}

	case MethodLinear:
		if len(hist) < 2 {
			return Result{}, perr.InsufficientDataf(
				"linear forecast needs at least 2 historical weeks, got %d", len(hist))
		}
		inSlope, inIntercept := fitLine(inflow)
		outSlope, outIntercept := fitLine(outflow)
		n := float64(len(hist))
		for h := 1; h <= p.Horizon; h++ {
			x := n - 1 + float64(h)
			res.Points[h-1] = Point{
				Week:    h,
				Inflow:  clamp(inIntercept + inSlope*x),
				Outflow: clamp(outIntercept + outSlope*x),
			}
		}

	default:
		return Result{}, perr.InvalidConfigf("unsupported forecast method %d", p.Method)
	}

	res.Severity = severityMix(hist, res.Points[len(res.Points)-1].Inflow)
	return res, nil
}

// tailMean averages the last w values, or all values when fewer than w exist
func tailMean(xs []float64, w int) float64 {
	if w > len(xs) {
		w = len(xs)
	}
	sum := 0.0
	for _, x := range xs[len(xs)-w:] {
		sum += x
	}
	return sum / float64(w)
}

// fitLine computes ordinary least squares over xs with the week index as x
func fitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// severityMix applies the mean severity shares of the recent weeks to the
// predicted inflow, rounded to one decimal per output convention
func severityMix(hist []weekly.DerivedRecord, predictedInflow float64) SeverityBreakdown {
	tail := hist
	if len(tail) > severityMixWeeks {
		tail = tail[len(tail)-severityMixWeeks:]
	}
	var inflow, crit, high, med, low float64
	for _, d := range tail {
		inflow += float64(d.InflowTotal)
		crit += float64(d.SeverityCriticalIn)
		high += float64(d.SeverityHighIn)
		med += float64(d.SeverityMediumIn)
		low += float64(d.SeverityLowIn)
	}
	if inflow == 0 {
		inflow = 1
	}
	share := func(x float64) float64 {
		return math.Max(0, math.Round(x/inflow*predictedInflow*10)/10)
	}
	return SeverityBreakdown{
		Critical: share(crit),
		High:     share(high),
		Medium:   share(med),
		Low:      share(low),
	}
}

func clamp(x float64) float64 { return math.Max(0, x) }
