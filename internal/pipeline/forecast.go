package pipeline

import (
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ForecastFunc turns a demand history into a demand estimate.
// An empty history must be accepted.
type ForecastFunc func(history []int64) int64

// MovingAverage averages the last window observations; window <= 0 uses the
// whole history. An empty history forecasts zero.
func MovingAverage(window int) ForecastFunc {
	return func(history []int64) int64 {
		if window > 0 && len(history) > window {
			history = history[len(history)-window:]
		}
		if len(history) == 0 {
			return 0
		}
		xs := make([]float64, len(history))
		for i, v := range history {
			xs[i] = float64(v)
		}
		return clampUnits(stat.Mean(xs, nil))
	}
}

// Jittered adds normally distributed noise with the given standard deviation
// to base. The noise source is seeded, so a fixed seed replays the same
// forecasts in the same order. sigma <= 0 returns base unchanged.
func Jittered(base ForecastFunc, sigma float64, seed uint64) ForecastFunc {
	if sigma <= 0 {
		return base
	}
	var mu sync.Mutex
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	return func(history []int64) int64 {
		mu.Lock()
		n := noise.Rand()
		mu.Unlock()
		return clampUnits(float64(base(history)) + n)
	}
}

func clampUnits(v float64) int64 {
	return int64(math.Max(0, math.Round(v)))
}
