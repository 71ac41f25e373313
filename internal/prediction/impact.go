package prediction

import "math"

// Baseline weights each category carries before any signal is added,
// so the breakdown stays plausible when nothing is happening.
const (
	trafficBaseline  = 0.15
	weatherBaseline  = 0.05
	incidentBaseline = 0.05
	peakBaseline     = 0.07
)

// impactSignals are the raw inputs to the impact breakdown.
type impactSignals struct {
	baseDuration     float64
	trafficDelay     float64
	weatherDelta     float64
	peakDelta        float64
	incidentCount    int
	hasMajorIncident bool
}

// normalizeImpact converts the raw signals into a four-way integer
// percentage breakdown that sums to exactly 100 with a minimum share
// of 5 per category.
func normalizeImpact(sig impactSignals) ImpactFactors {
	base := sig.baseDuration
	if base < 1 {
		base = 1
	}

	trafficWeight := trafficBaseline + math.Min(sig.trafficDelay/base, 0.3)
	weatherWeight := sig.weatherDelta/base + weatherBaseline
	incidentWeight := incidentBaseline + incidentContribution(sig.incidentCount, sig.hasMajorIncident)
	peakWeight := peakBaseline + sig.peakDelta/base

	weights := [4]float64{trafficWeight, weatherWeight, incidentWeight, peakWeight}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total < 0.01 {
		return ImpactFactors{Traffic: 40, Weather: 25, Incidents: 15, PeakHour: 20}
	}

	var pcts [4]int
	for i, w := range weights {
		pcts[i] = int(math.Round(w / total * 100))
	}

	// Correct rounding drift against the largest category.
	sum := pcts[0] + pcts[1] + pcts[2] + pcts[3]
	pcts[largestIndex(pcts)] += 100 - sum

	// Floor pass, then renormalize. The order matters: a single pass
	// can leave the sum off by one or two.
	for i := range pcts {
		if pcts[i] < 5 {
			pcts[i] = 5
		}
	}

	sum = pcts[0] + pcts[1] + pcts[2] + pcts[3]
	var out [4]int
	for i := 0; i < 3; i++ {
		out[i] = int(math.Round(float64(pcts[i]) / float64(sum) * 100))
		if out[i] < 5 {
			out[i] = 5
		}
	}
	out[3] = 100 - out[0] - out[1] - out[2]
	if out[3] < 5 {
		deficit := 5 - out[3]
		out[3] = 5
		out[largestIndex(out)] -= deficit
	}

	return ImpactFactors{
		Traffic:   out[0],
		Weather:   out[1],
		Incidents: out[2],
		PeakHour:  out[3],
	}
}

// incidentContribution maps incident load to a stepped weight rather
// than a linear one, so a single closure does not dominate.
func incidentContribution(count int, hasMajor bool) float64 {
	switch {
	case hasMajor:
		return 0.25
	case count >= 3:
		return 0.15
	case count >= 1:
		return 0.08
	default:
		return 0
	}
}

func largestIndex(v [4]int) int {
	idx := 0
	for i := 1; i < 4; i++ {
		if v[i] > v[idx] {
			idx = i
		}
	}
	return idx
}
