package report

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders values as one line of ASCII density characters, scaled to their range.
// It is resampled to width characters when width > 0.
func Sparkline(values []float64, width int) string {
	if width > 0 {
		values = Resample(values, width)
	}
	if len(values) == 0 {
		return ""
	}
	if flat(values) {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	r := spanOf(values)
	var b strings.Builder
	top := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - r.lo) / (r.hi - r.lo) * float64(top)))
		b.WriteByte(sparkChars[min(max(idx, 0), top)])
	}
	return b.String()
}

func flat(values []float64) bool {
	for _, v := range values[1:] {
		if math.Abs(v-values[0]) >= 1e-9 {
			return false
		}
	}
	return true
}
