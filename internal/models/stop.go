package models

type Accessibility string

const (
	AccessibilityAccessible    Accessibility = "ACCESSIBLE"
	AccessibilityNotAccessible Accessibility = "NOT_ACCESSIBLE"
	AccessibilityUnknown       Accessibility = "UNKNOWN"
)

// Wheelchair boarding codes as published in GTFS and the MBTA v3 API.
const (
	WheelchairBoardingAccessible    = 1
	WheelchairBoardingNotAccessible = 2
)

// AccessibilityFromWheelchairCode maps the upstream wheelchair_boarding code.
// A nil code means the attribute was absent.
func AccessibilityFromWheelchairCode(code *int) Accessibility {
	if code == nil {
		return AccessibilityUnknown
	}
	switch *code {
	case WheelchairBoardingAccessible:
		return AccessibilityAccessible
	case WheelchairBoardingNotAccessible:
		return AccessibilityNotAccessible
	default:
		return AccessibilityUnknown
	}
}

// Description is the text shown to riders.
func (a Accessibility) Description() string {
	switch a {
	case AccessibilityAccessible:
		return "Wheelchair accessible"
	case AccessibilityNotAccessible:
		return "Not wheelchair accessible"
	default:
		return "Accessibility unknown"
	}
}

// Stop is the nearest boarding location returned for a place.
type Stop struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	Distance      float64       `json:"distance"` // km from the queried point
	Accessibility Accessibility `json:"accessibility"`
}
