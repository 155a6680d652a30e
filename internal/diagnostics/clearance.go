package diagnostics

import (
	"math"

	"github.com/verte-zerg/camkin/internal/model"
)

// clearanceScan returns the smallest gap and one violation per contiguous run of negative
// gaps. A run still open at the last sample closes there.
func clearanceScan(alphaDeg, gap []float64) (float64, []model.ClearanceViolation) {
	minGap := math.Inf(1)
	violations := []model.ClearanceViolation{}
	open := false
	var cur model.ClearanceViolation
	for i, g := range gap {
		minGap = math.Min(minGap, g)
		if g < 0 {
			if !open {
				open = true
				cur = model.ClearanceViolation{AlphaStartDeg: alphaDeg[i], MinClearance: g}
			}
			cur.AlphaEndDeg = alphaDeg[i]
			cur.MinClearance = math.Min(cur.MinClearance, g)
			continue
		}
		if open {
			violations = append(violations, cur)
			open = false
		}
	}
	if open {
		violations = append(violations, cur)
	}
	return minGap, violations
}

func (c *calc) clearance() {
	n := len(c.alpha)
	gap := make([]float64, n)
	envelope := make([]float64, n)
	buffer := math.Max(0, c.params.InterferenceBuffer)
	for i := range gap {
		gap[i] = c.ringAtPhi[i] - c.curves.RCam[i] - buffer
		envelope[i] = gap[i] - c.params.JournalRadius
	}
	c.out.ClearanceMin, c.out.ClearanceViolations = clearanceScan(c.alpha, gap)
	c.out.EnvelopeClearanceMin, c.out.EnvelopeViolations = clearanceScan(c.alpha, envelope)
	if c.out.ClearanceMin < 0 {
		c.out.SuggestedCenterDistanceInflation = -c.out.ClearanceMin + 0.01
	}
}

// manufacturability fills the tooth thickness and curvature proxies of the ring curve.
func (c *calc) manufacturability() {
	r := c.curves.RRing
	n := len(r)
	stepRad := c.params.SamplingStepDeg * math.Pi / 180
	thickness := math.Inf(1)
	ringMin := math.Inf(1)
	var maxD2 float64
	for i := range r {
		prev, next := r[(i-1+n)%n], r[(i+1)%n]
		thickness = math.Min(thickness, r[i]-0.5*(prev+next))
		ringMin = math.Min(ringMin, r[i])
		maxD2 = math.Max(maxD2, math.Abs((next-2*r[i]+prev)/(stepRad*stepRad)))
	}
	c.out.ToothThicknessMin = thickness
	c.out.CurvatureRadiusMin = 1e12
	if maxD2 > 1e-12 {
		c.out.CurvatureRadiusMin = 1 / maxD2
	}
	c.out.UndercutFlag = c.out.CurvatureRadiusMin < 0.2*ringMin
}
