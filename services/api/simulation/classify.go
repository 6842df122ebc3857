package simulation

// Color is the map marker tag for a depth.
type Color string

// Status is the alert level for a depth.
type Status string

const (
	ColorGray   Color = "gray"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorAmber  Color = "amber"
	ColorRed    Color = "red"
)

const (
	StatusUnknown  Status = "unknown"
	StatusSafe     Status = "safe"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// DefaultCriticalDepth is used for wells without their own threshold.
const DefaultCriticalDepth = 40.0

// Color breakpoints in mbgl. Each bound is inclusive for the deeper bucket.
// Red starts at the well's critical depth.
const (
	yellowFromDepth = 10.0
	amberFromDepth  = 20.0
)

// Status breakpoints in mbgl. These are independent of the color table:
// critical starts at the well's critical depth.
const (
	warningFromDepth = 30.0
)

// Classification pairs the color and status derived from one depth.
type Classification struct {
	Color  Color  `json:"color"`
	Status Status `json:"status"`
}

// Classify maps a depth estimate to its color and status. A nil depth is
// unknown; a non-positive threshold falls back to DefaultCriticalDepth.
func Classify(depth *float64, criticalDepth float64) Classification {
	if depth == nil {
		return Classification{Color: ColorGray, Status: StatusUnknown}
	}
	critical := effectiveCritical(criticalDepth)
	return Classification{
		Color:  colorFor(*depth, critical),
		Status: statusFor(*depth, critical),
	}
}

func colorFor(depth, critical float64) Color {
	switch {
	case depth < yellowFromDepth:
		return ColorBlue
	case depth < amberFromDepth:
		return ColorYellow
	case depth < critical:
		return ColorAmber
	default:
		return ColorRed
	}
}

func statusFor(depth, critical float64) Status {
	switch {
	case depth >= critical:
		return StatusCritical
	case depth >= warningFromDepth:
		return StatusWarning
	default:
		return StatusSafe
	}
}

func effectiveCritical(criticalDepth float64) float64 {
	if criticalDepth <= 0 {
		return DefaultCriticalDepth
	}
	return criticalDepth
}
