package piston

import "fmt"

// Segment identifies one of the eight phases of the piston law, in angular order.
type Segment int

const (
	TDCDwell Segment = iota
	RampAfterTDC
	ConstVUp
	RampBeforeBDC
	BDCDwell
	RampAfterBDC
	ConstVDown
	RampBeforeTDC
)

const segmentCount = 8

var segmentNames = [segmentCount]string{
	"TDC_DWELL",
	"RAMP_AFTER_TDC",
	"CONST_V_UP",
	"RAMP_BEFORE_BDC",
	"BDC_DWELL",
	"RAMP_AFTER_BDC",
	"CONST_V_DOWN",
	"RAMP_BEFORE_TDC",
}

func (s Segment) String() string {
	if s < 0 || int(s) >= segmentCount {
		return fmt.Sprintf("SEGMENT(%d)", int(s))
	}
	return segmentNames[s]
}

// IsRamp reports whether the segment blends between two velocity levels.
func (s Segment) IsRamp() bool {
	switch s {
	case RampAfterTDC, RampBeforeBDC, RampAfterBDC, RampBeforeTDC:
		return true
	}
	return false
}
